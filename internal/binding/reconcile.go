package binding

import (
	"github.com/ksyq12/certbind/internal/credential"
	errs "github.com/ksyq12/certbind/internal/errors"
	"github.com/ksyq12/certbind/internal/identity"
	"github.com/ksyq12/certbind/internal/logger"
)

// AppliedChange describes one rebound binding.
type AppliedChange struct {
	Site        string `json:"site"`
	Host        string `json:"host"`
	Fingerprint string `json:"fingerprint"`
}

// Result aggregates a reconciliation pass: every applied change plus every
// site whose commit failed. A failed site contributes no changes.
type Result struct {
	Changes      []AppliedChange     `json:"changes"`
	CommitErrors []*errs.DeployError `json:"commit_errors,omitempty"`
}

// Reconciler repoints secure bindings at a new certificate, committing each
// site's changes as a single unit.
type Reconciler struct {
	svc       ConfigService
	storeName string
}

// NewReconciler creates a Reconciler writing store references naming
// storeName.
func NewReconciler(svc ConfigService, storeName string) *Reconciler {
	return &Reconciler{svc: svc, storeName: storeName}
}

// Reconcile processes every site sequentially. For each secure binding the
// update decision is: empty host follows updateEmptyHost (so catch-all
// bindings are only touched on explicit opt-in), non-empty host requires an
// identity match. All of a site's updates are committed together; when a
// commit fails the site's bindings are restored to their previous values,
// the failure is recorded, and processing continues with the next site.
// There is no transaction across sites and no rollback of committed sites.
func (r *Reconciler) Reconcile(sites []*Site, cert *credential.Certificate, ids identity.Set, updateEmptyHost bool) *Result {
	res := &Result{}
	for _, site := range sites {
		changes, commitErr := r.reconcileSite(site, cert, ids, updateEmptyHost)
		if commitErr != nil {
			logger.Error("Commit failed for site %s: %v", site.Name, commitErr.Err)
			res.CommitErrors = append(res.CommitErrors, commitErr)
			continue
		}
		res.Changes = append(res.Changes, changes...)
	}
	return res
}

// staged remembers a binding's previous credential fields so a failed
// commit can be undone in memory.
type staged struct {
	binding         *Binding
	prevFingerprint string
	prevStore       string
}

func (r *Reconciler) reconcileSite(site *Site, cert *credential.Certificate, ids identity.Set, updateEmptyHost bool) ([]AppliedChange, *errs.DeployError) {
	var pending []staged
	for _, b := range site.Bindings {
		if !b.IsSecure() {
			continue
		}

		update := false
		if b.Host == "" {
			update = updateEmptyHost
		} else {
			update = ids.Matches(b.Host)
		}
		if !update {
			logger.Debug("Site %s: binding %q not covered, skipping", site.Name, b.Host)
			continue
		}

		pending = append(pending, staged{
			binding:         b,
			prevFingerprint: b.CertFingerprint,
			prevStore:       b.CertStore,
		})
	}

	if len(pending) == 0 {
		return nil, nil
	}

	for _, p := range pending {
		p.binding.CertFingerprint = cert.Fingerprint
		p.binding.CertStore = r.storeName
	}

	if err := r.svc.Commit(site); err != nil {
		for _, p := range pending {
			p.binding.CertFingerprint = p.prevFingerprint
			p.binding.CertStore = p.prevStore
		}
		return nil, errs.Commit(site.Name, err)
	}

	changes := make([]AppliedChange, 0, len(pending))
	for _, p := range pending {
		logger.Info("Site %s: bound %q to %s", site.Name, p.binding.Host, cert.Fingerprint)
		changes = append(changes, AppliedChange{
			Site:        site.Name,
			Host:        p.binding.Host,
			Fingerprint: cert.Fingerprint,
		})
	}
	return changes, nil
}
