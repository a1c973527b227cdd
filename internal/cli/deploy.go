package cli

import (
	"fmt"

	"github.com/ksyq12/certbind/internal/deploy"
	"github.com/ksyq12/certbind/internal/output"
	"github.com/spf13/cobra"
)

var (
	deployPassword        string
	deployUpdateEmptyHost bool
	deployDryRun          bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy <cert-file>",
	Short: "Install a certificate and rebind covered sites",
	Long: `Install a certificate into the credential store and repoint every
secure binding whose host name it covers.

The certificate file may be a PKCS#12 bundle (.pfx, .p12) or PEM. Bindings
without a host name are only touched with --update-empty-host, so catch-all
bindings are never hijacked by accident.

Examples:
  certbind deploy wildcard.pfx --password secret
  certbind deploy cert.pem --update-empty-host
  certbind deploy cert.pem --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().StringVarP(&deployPassword, "password", "p", "", "Password for PKCS#12 bundles")
	deployCmd.Flags().BoolVar(&deployUpdateEmptyHost, "update-empty-host", false, "Also rebind secure bindings without a host name")
	deployCmd.Flags().BoolVar(&deployDryRun, "dry-run", false, "Report changes without installing or committing")

	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	cfg, svc, err := loadConfigAndService()
	if err != nil {
		return err
	}

	cert, err := deps.CertLoader.Load(args[0], deployPassword)
	if err != nil {
		return fmt.Errorf("failed to load certificate: %w", err)
	}

	st, err := deps.StoreOpener.Open(cfg.StorePath, cfg.StoreName)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	defer st.Close()

	opts := deploy.Options{
		UpdateEmptyHost: deployUpdateEmptyHost || cfg.UpdateEmptyHost,
		DryRun:          deployDryRun,
	}
	res, err := deploy.Run(svc, st, cert, opts)
	if err != nil {
		return err
	}

	if jsonOutput {
		if err := output.JSON(res); err != nil {
			return err
		}
	} else {
		reportDeploy(res)
	}

	if n := len(res.CommitErrors); n > 0 {
		return fmt.Errorf("%d site(s) failed to commit", n)
	}
	return nil
}

func reportDeploy(res *deploy.Result) {
	switch {
	case res.Installed:
		output.Info("Installed certificate %s", res.Fingerprint)
	case res.AlreadyPresent:
		output.Info("Certificate %s already installed", res.Fingerprint)
	default:
		output.Info("Dry run: certificate %s not installed", res.Fingerprint)
	}

	if len(res.Identities) == 0 {
		output.Warn("Certificate covers no domain identities")
	}

	for _, c := range res.Changes {
		output.Print("  %s: %s -> %s", c.Site, hostLabel(c.Host), shortFingerprint(c.Fingerprint))
	}

	for _, ce := range res.CommitErrors {
		output.Error("Site %s: %v", ce.Site, ce.Err)
	}

	if len(res.Changes) == 0 && len(res.CommitErrors) == 0 {
		output.Info("No bindings needed updating")
		return
	}
	if len(res.CommitErrors) == 0 {
		output.Success("Updated %d binding(s)", len(res.Changes))
	}
}
