package store

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/schwepps/skills-store/pkg/skill"
	"gopkg.in/yaml.v3"
)

// seedFile is the on-disk shape of a repos.yaml registry file.
type seedFile struct {
	Repositories []skill.RepoConfig `yaml:"repositories"`
}

// LoadSeedFile reads a repos.yaml registry file listing the repositories
// to track.
func LoadSeedFile(path string) ([]skill.RepoConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read seed file")
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to parse seed file")
	}

	for i, cfg := range f.Repositories {
		if cfg.Owner == "" || cfg.Repo == "" {
			return nil, errors.Errorf("seed entry %d is missing owner or repo", i)
		}
	}

	return f.Repositories, nil
}

// SeedRepositories registers the given repositories, updating existing
// rows in place. Returns the number of repositories written.
func (s *Store) SeedRepositories(ctx context.Context, configs []skill.RepoConfig) (int, error) {
	for _, cfg := range configs {
		if _, err := s.UpsertRepository(ctx, NewRepositoryRecord(cfg)); err != nil {
			return 0, errors.Wrapf(err, "failed to seed repository %s", cfg.FullName())
		}
	}
	return len(configs), nil
}
