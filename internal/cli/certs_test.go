package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ksyq12/certbind/internal/output"
	"github.com/ksyq12/certbind/internal/store"
)

func TestRunCerts(t *testing.T) {
	origDeps := GetDeps()
	defer SetDeps(origDeps)

	tests := []struct {
		name      string
		setupDeps func() *Dependencies
		wantErr   bool
		contains  []string
	}{
		{
			name: "lists installed certificates",
			setupDeps: func() *Dependencies {
				st := store.NewMockStore("certbind")
				st.Entries["AABB"] = &store.Entry{
					Fingerprint: "AABB",
					Label:       "example.com [*3] 2027-06-01",
					NotAfter:    time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC),
				}
				return NewMockDeps().WithStore(st).Build()
			},
			contains: []string{"example.com [*3] 2027-06-01", "AABB", "2027-06-01"},
		},
		{
			name: "empty store",
			setupDeps: func() *Dependencies {
				return NewMockDeps().WithStore(store.NewMockStore("certbind")).Build()
			},
			contains: []string{"No certificates installed"},
		},
		{
			name: "store open failure",
			setupDeps: func() *Dependencies {
				d := NewMockDeps().Build()
				d.StoreOpener = &MockStoreOpener{Err: fmt.Errorf("locked")}
				return d
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

			err := runCerts(certsCmd, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("runCerts() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestRunCertsReleasesStore(t *testing.T) {
	origDeps := GetDeps()
	defer SetDeps(origDeps)

	var buf bytes.Buffer
	output.SetWriter(&buf)
	defer output.SetWriter(nil)

	st := store.NewMockStore("certbind")
	SetDeps(NewMockDeps().WithStore(st).Build())

	if err := runCerts(certsCmd, nil); err != nil {
		t.Fatalf("runCerts() error = %v", err)
	}
	if st.CloseCalls != 1 {
		t.Errorf("store Close called %d times, want 1", st.CloseCalls)
	}
}
