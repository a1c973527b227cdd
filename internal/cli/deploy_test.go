package cli

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/ksyq12/certbind/internal/binding"
	"github.com/ksyq12/certbind/internal/credential"
	"github.com/ksyq12/certbind/internal/output"
	"github.com/ksyq12/certbind/internal/store"
)

func testCert(cn string) *credential.Certificate {
	return &credential.Certificate{
		X509: &x509.Certificate{
			Subject:  pkix.Name{CommonName: cn},
			NotAfter: time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		Fingerprint: "AABBCCDDEEFF00112233445566778899AABBCCDD",
	}
}

func resetDeployFlags() {
	deployPassword = ""
	deployUpdateEmptyHost = false
	deployDryRun = false
}

func TestRunDeploy(t *testing.T) {
	origDeps := GetDeps()
	defer SetDeps(origDeps)

	// Keep command output away from the test log.
	output.SetWriter(io.Discard)
	defer output.SetWriter(nil)

	tests := []struct {
		name      string
		setupDeps func() (*Dependencies, *binding.MockService, *store.MockStore)
		setup     func()
		wantErr   bool
		validate  func(*testing.T, *binding.MockService, *store.MockStore)
	}{
		{
			name: "deploys to covered binding",
			setupDeps: func() (*Dependencies, *binding.MockService, *store.MockStore) {
				svc := binding.NewMockService(&binding.Site{
					Name: "Default Web Site",
					Bindings: []*binding.Binding{
						{Protocol: binding.ProtocolHTTPS, Port: 443, Host: "a.example.com"},
						{Protocol: binding.ProtocolHTTPS, Port: 443, Host: "other.org"},
					},
				})
				st := store.NewMockStore("certbind")
				d := NewMockDeps().
					WithCert(testCert("*.example.com")).
					WithService(svc).
					WithStore(st).
					Build()
				return d, svc, st
			},
			wantErr: false,
			validate: func(t *testing.T, svc *binding.MockService, st *store.MockStore) {
				if len(st.PutCalls) != 1 {
					t.Errorf("expected 1 store insert, got %d", len(st.PutCalls))
				}
				if len(svc.CommitCalls) != 1 {
					t.Errorf("expected 1 commit, got %v", svc.CommitCalls)
				}
				b := svc.SitesList[0].Bindings[0]
				if b.CertFingerprint != "AABBCCDDEEFF00112233445566778899AABBCCDD" {
					t.Errorf("binding not rebound: %s", b.CertFingerprint)
				}
				if svc.SitesList[0].Bindings[1].CertFingerprint != "" {
					t.Error("uncovered binding was rebound")
				}
			},
		},
		{
			name: "certificate load failure",
			setupDeps: func() (*Dependencies, *binding.MockService, *store.MockStore) {
				d := NewMockDeps().Build()
				d.CertLoader = &MockCertLoader{Err: fmt.Errorf("bad password")}
				return d, nil, nil
			},
			wantErr: true,
		},
		{
			name: "store open failure",
			setupDeps: func() (*Dependencies, *binding.MockService, *store.MockStore) {
				d := NewMockDeps().WithCert(testCert("example.com")).Build()
				d.StoreOpener = &MockStoreOpener{Err: fmt.Errorf("permission denied")}
				return d, nil, nil
			},
			wantErr: true,
		},
		{
			name: "config load failure",
			setupDeps: func() (*Dependencies, *binding.MockService, *store.MockStore) {
				d := NewMockDeps().Build()
				d.ConfigLoader = &MockConfigLoader{LoadErr: fmt.Errorf("corrupt")}
				return d, nil, nil
			},
			wantErr: true,
		},
		{
			name: "commit failure exits non-zero",
			setupDeps: func() (*Dependencies, *binding.MockService, *store.MockStore) {
				svc := binding.NewMockService(&binding.Site{
					Name: "broken",
					Bindings: []*binding.Binding{
						{Protocol: binding.ProtocolHTTPS, Host: "a.example.com"},
					},
				})
				svc.CommitFunc = func(site *binding.Site) error {
					return fmt.Errorf("backend rejected")
				}
				st := store.NewMockStore("certbind")
				d := NewMockDeps().
					WithCert(testCert("*.example.com")).
					WithService(svc).
					WithStore(st).
					Build()
				return d, svc, st
			},
			wantErr: true,
			validate: func(t *testing.T, svc *binding.MockService, st *store.MockStore) {
				// Install happened before the failed commit.
				if len(st.PutCalls) != 1 {
					t.Errorf("expected install despite commit failure, got %d puts", len(st.PutCalls))
				}
			},
		},
		{
			name: "dry run touches nothing",
			setupDeps: func() (*Dependencies, *binding.MockService, *store.MockStore) {
				svc := binding.NewMockService(&binding.Site{
					Name: "site",
					Bindings: []*binding.Binding{
						{Protocol: binding.ProtocolHTTPS, Host: "a.example.com"},
					},
				})
				st := store.NewMockStore("certbind")
				d := NewMockDeps().
					WithCert(testCert("*.example.com")).
					WithService(svc).
					WithStore(st).
					Build()
				return d, svc, st
			},
			setup:   func() { deployDryRun = true },
			wantErr: false,
			validate: func(t *testing.T, svc *binding.MockService, st *store.MockStore) {
				if len(st.PutCalls) != 0 {
					t.Errorf("dry run inserted into store: %d puts", len(st.PutCalls))
				}
				if len(svc.CommitCalls) != 0 {
					t.Errorf("dry run committed: %v", svc.CommitCalls)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetDeployFlags()
			if tt.setup != nil {
				tt.setup()
			}
			d, svc, st := tt.setupDeps()
			SetDeps(d)

			err := runDeploy(deployCmd, []string{"cert.pfx"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("runDeploy() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.validate != nil {
				tt.validate(t, svc, st)
			}
		})
	}
	resetDeployFlags()
}

func TestRunDeployStoreReleasedOnFailure(t *testing.T) {
	origDeps := GetDeps()
	defer SetDeps(origDeps)
	resetDeployFlags()

	svc := binding.NewMockService()
	svc.SitesFunc = func() ([]*binding.Site, error) {
		return nil, fmt.Errorf("backend unreachable")
	}
	st := store.NewMockStore("certbind")
	SetDeps(NewMockDeps().
		WithCert(testCert("example.com")).
		WithService(svc).
		WithStore(st).
		Build())

	if err := runDeploy(deployCmd, []string{"cert.pem"}); err == nil {
		t.Fatal("expected error")
	}
	// The store handle must be released on the error path too.
	if st.CloseCalls != 1 {
		t.Errorf("store Close called %d times, want 1", st.CloseCalls)
	}
}
