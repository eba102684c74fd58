// Package profile loads the named PMR user profiles from a YAML
// catalogue on disk.
package profile

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
)

// Catalog maps profile ids to their stored profiles. A missing file is
// not an error, the service then runs with an empty catalogue.
type Catalog struct {
	profiles map[string]domain.UserProfile
}

func Load(path string, logger *slog.Logger) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("profile catalogue not found, starting empty", slog.String("path", path))
			return &Catalog{profiles: map[string]domain.UserProfile{}}, nil
		}
		return nil, fmt.Errorf("read profile catalogue: %w", err)
	}

	var profiles map[string]domain.UserProfile
	if err := yaml.Unmarshal(raw, &profiles); err != nil {
		return nil, domain.WrapError(domain.ErrParse, "parse profile catalogue", err)
	}
	if profiles == nil {
		profiles = map[string]domain.UserProfile{}
	}

	logger.Info("profile catalogue loaded",
		slog.String("path", path),
		slog.Int("profiles", len(profiles)),
	)
	return &Catalog{profiles: profiles}, nil
}

func (c *Catalog) Get(id string) (domain.UserProfile, bool) {
	p, ok := c.profiles[id]
	return p, ok
}

func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.profiles))
	for id := range c.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
