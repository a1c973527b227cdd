package cli

import (
	"strconv"

	"github.com/ksyq12/certbind/internal/output"
	"github.com/spf13/cobra"
)

var sitesCmd = &cobra.Command{
	Use:     "sites",
	Aliases: []string{"ls"},
	Short:   "List sites and their bindings",
	Long: `List all configured sites with their bindings and bound certificates.

Examples:
  certbind sites
  certbind sites --json`,
	RunE: runSites,
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}

func runSites(cmd *cobra.Command, args []string) error {
	_, svc, err := loadConfigAndService()
	if err != nil {
		return err
	}

	sites, err := svc.Sites()
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(sites)
	}

	if len(sites) == 0 {
		output.Info("No sites configured")
		return nil
	}

	headers := []string{"SITE", "PROTOCOL", "HOST", "PORT", "CERTIFICATE"}
	rows := make([][]string, 0)
	for _, site := range sites {
		for _, b := range site.Bindings {
			port := ""
			if b.Port != 0 {
				port = strconv.Itoa(b.Port)
			}
			cert := ""
			if b.CertFingerprint != "" {
				cert = shortFingerprint(b.CertFingerprint)
			}
			rows = append(rows, []string{site.Name, b.Protocol, hostLabel(b.Host), port, cert})
		}
	}

	output.Table(headers, rows)
	return nil
}
