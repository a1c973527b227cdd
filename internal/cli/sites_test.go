package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/ksyq12/certbind/internal/binding"
	"github.com/ksyq12/certbind/internal/output"
)

func TestRunSites(t *testing.T) {
	origDeps := GetDeps()
	defer SetDeps(origDeps)

	tests := []struct {
		name      string
		setupDeps func() *Dependencies
		wantErr   bool
		contains  []string
	}{
		{
			name: "lists bindings",
			setupDeps: func() *Dependencies {
				svc := binding.NewMockService(&binding.Site{
					Name: "Default Web Site",
					Bindings: []*binding.Binding{
						{Protocol: binding.ProtocolHTTP, Port: 80},
						{Protocol: binding.ProtocolHTTPS, Port: 443, Host: "www.example.com", CertFingerprint: "AABBCCDDEEFF00112233"},
					},
				})
				return NewMockDeps().WithService(svc).Build()
			},
			contains: []string{"Default Web Site", "www.example.com", "443", "AABBCCDDEEFF"},
		},
		{
			name: "empty configuration",
			setupDeps: func() *Dependencies {
				return NewMockDeps().WithService(binding.NewMockService()).Build()
			},
			contains: []string{"No sites configured"},
		},
		{
			name: "service failure",
			setupDeps: func() *Dependencies {
				svc := binding.NewMockService()
				svc.SitesFunc = func() ([]*binding.Site, error) {
					return nil, fmt.Errorf("cannot read server configuration")
				}
				return NewMockDeps().WithService(svc).Build()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			output.SetWriter(&buf)
			defer output.SetWriter(nil)

			SetDeps(tt.setupDeps())

			err := runSites(sitesCmd, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("runSites() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestRunSitesJSON(t *testing.T) {
	origDeps := GetDeps()
	defer SetDeps(origDeps)
	jsonOutput = true
	defer func() { jsonOutput = false }()

	var buf bytes.Buffer
	output.SetWriter(&buf)
	defer output.SetWriter(nil)

	svc := binding.NewMockService(&binding.Site{
		Name: "api",
		Bindings: []*binding.Binding{
			{Protocol: binding.ProtocolHTTPS, Port: 443, Host: "api.example.com"},
		},
	})
	SetDeps(NewMockDeps().WithService(svc).Build())

	if err := runSites(sitesCmd, nil); err != nil {
		t.Fatalf("runSites() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"api.example.com"`) {
		t.Errorf("JSON output missing host:\n%s", buf.String())
	}
}
