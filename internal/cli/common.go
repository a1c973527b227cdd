package cli

import (
	"fmt"

	"github.com/ksyq12/certbind/internal/binding"
	"github.com/ksyq12/certbind/internal/config"
)

// loadConfigAndService loads the tool config and builds the
// server-configuration service from it
func loadConfigAndService() (*config.Config, binding.ConfigService, error) {
	cfg, err := deps.ConfigLoader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	svc := deps.ServiceFactory.Create(cfg.SitesPath)
	return cfg, svc, nil
}

// shortFingerprint abbreviates a fingerprint for table display
func shortFingerprint(fp string) string {
	if len(fp) <= 12 {
		return fp
	}
	return fp[:12] + "…"
}

// hostLabel renders an empty host identity as the catch-all marker
func hostLabel(host string) string {
	if host == "" {
		return "*"
	}
	return host
}
