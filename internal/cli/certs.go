package cli

import (
	"fmt"

	"github.com/ksyq12/certbind/internal/output"
	"github.com/spf13/cobra"
)

var certsCmd = &cobra.Command{
	Use:   "certs",
	Short: "List installed certificates",
	Long: `List all certificates installed in the credential store.

Examples:
  certbind certs
  certbind certs --json`,
	RunE: runCerts,
}

func init() {
	rootCmd.AddCommand(certsCmd)
}

func runCerts(cmd *cobra.Command, args []string) error {
	cfg, err := deps.ConfigLoader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st, err := deps.StoreOpener.Open(cfg.StorePath, cfg.StoreName)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	defer st.Close()

	entries := st.List()

	if jsonOutput {
		return output.JSON(entries)
	}

	if len(entries) == 0 {
		output.Info("No certificates installed")
		return nil
	}

	headers := []string{"LABEL", "FINGERPRINT", "NOT AFTER"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Label, e.Fingerprint, e.NotAfter.Format("2006-01-02")})
	}

	output.Table(headers, rows)
	return nil
}
