package binding

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	errs "github.com/ksyq12/certbind/internal/errors"
	"github.com/ksyq12/certbind/internal/logger"
)

// FileService is a ConfigService backed by a YAML server-configuration
// file. The whole file is rewritten on every commit, which makes each
// site's commit all-or-nothing: either the new file lands with all of the
// site's mutations or the old file stays in place.
type FileService struct {
	path   string
	sites  []*Site
	loaded bool
}

// serviceFile is the on-disk layout.
type serviceFile struct {
	Sites []*Site `yaml:"sites"`
}

// NewFileService creates a service reading and writing path.
func NewFileService(path string) *FileService {
	return &FileService{path: path}
}

// Sites enumerates the configured sites. The file is read once; the
// returned pointers stay live so binding mutations are visible to Commit.
func (s *FileService) Sites() ([]*Site, error) {
	if s.loaded {
		return s.sites, nil
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.loaded = true
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeConfig, "cannot read server configuration", err)
	}

	var f serviceFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errs.Wrap(errs.ErrCodeConfig, "cannot parse server configuration", err)
	}

	s.sites = f.Sites
	s.loaded = true
	logger.Debug("Loaded %d sites from %s", len(s.sites), s.path)
	return s.sites, nil
}

// Commit persists the current state of all sites. The site argument must
// be one returned by Sites.
func (s *FileService) Commit(site *Site) error {
	if !s.loaded {
		return errs.Validation("commit before Sites()")
	}

	known := false
	for _, st := range s.sites {
		if st == site {
			known = true
			break
		}
	}
	if !known {
		return errs.Validation(fmt.Sprintf("unknown site %s", site.Name))
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(&serviceFile{Sites: s.sites})
	if err != nil {
		return fmt.Errorf("failed to marshal server configuration: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write server configuration: %w", err)
	}
	return nil
}
