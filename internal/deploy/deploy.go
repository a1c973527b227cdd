// Package deploy wires the engine together: extract the certificate's
// identities, install it into the credential store, then reconcile every
// site's secure bindings against the identity set.
package deploy

import (
	"github.com/ksyq12/certbind/internal/binding"
	"github.com/ksyq12/certbind/internal/credential"
	errs "github.com/ksyq12/certbind/internal/errors"
	"github.com/ksyq12/certbind/internal/identity"
	"github.com/ksyq12/certbind/internal/logger"
	"github.com/ksyq12/certbind/internal/store"
)

// Options controls a deployment run.
type Options struct {
	// UpdateEmptyHost opts host-agnostic (catch-all) secure bindings into
	// the update.
	UpdateEmptyHost bool

	// DryRun reports the changes a run would apply without installing the
	// certificate or committing any site.
	DryRun bool
}

// Result reports everything a run did, per site, with no failure silently
// dropped.
type Result struct {
	Fingerprint    string                  `json:"fingerprint"`
	Identities     identity.Set            `json:"identities"`
	Installed      bool                    `json:"installed"`
	AlreadyPresent bool                    `json:"already_present"`
	Changes        []binding.AppliedChange `json:"changes"`
	CommitErrors   []*errs.DeployError     `json:"commit_errors,omitempty"`
}

// Run installs cert and reconciles all sites served by svc. A store
// failure aborts the run before any binding is touched, since bindings
// must never reference a fingerprint absent from the store. Per-site
// commit failures do not abort the run; they are aggregated in the result.
func Run(svc binding.ConfigService, s store.Store, cert *credential.Certificate, opts Options) (*Result, error) {
	ids := identity.Extract(cert.X509)
	logger.Debug("Certificate %s covers %d identities", cert.Fingerprint, len(ids))

	res := &Result{
		Fingerprint: cert.Fingerprint,
		Identities:  ids,
	}

	if opts.DryRun {
		svc = dryRunService{svc}
	} else {
		alreadyPresent, err := store.Install(s, cert, ids)
		if err != nil {
			return nil, err
		}
		res.Installed = !alreadyPresent
		res.AlreadyPresent = alreadyPresent
	}

	sites, err := svc.Sites()
	if err != nil {
		return nil, err
	}

	r := binding.NewReconciler(svc, s.Name())
	out := r.Reconcile(sites, cert, ids, opts.UpdateEmptyHost)
	res.Changes = out.Changes
	res.CommitErrors = out.CommitErrors

	return res, nil
}

// dryRunService swallows commits so a dry run never persists anything.
type dryRunService struct {
	binding.ConfigService
}

func (dryRunService) Commit(site *binding.Site) error {
	return nil
}
