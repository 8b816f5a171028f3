// Package sync copies skill metadata from GitHub repositories into the
// local store. It drives the skill parser over every SKILL.md found in a
// registered repository, upserts the results, and records sync outcomes.
// A malformed skill document is skipped, never fatal, and a failed
// repository never aborts the rest of a batch.
package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/schwepps/skills-store/pkg/github"
	"github.com/schwepps/skills-store/pkg/logger"
	"github.com/schwepps/skills-store/pkg/skill"
	"github.com/schwepps/skills-store/pkg/store"
	"github.com/schwepps/skills-store/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ContentFetcher is the subset of the GitHub client used by the sync
// service.
type ContentFetcher interface {
	ListSkillFolders(ctx context.Context, owner, repo, ref, skillsPath string) ([]string, error)
	FetchSkillFile(ctx context.Context, owner, repo, folder, ref, skillsPath string) (string, error)
}

// defaultWorkers bounds concurrent repository syncs.
const defaultWorkers = 4

// Service syncs registered repositories into the store.
type Service struct {
	store   *store.Store
	fetcher ContentFetcher
	workers int
}

// Option configures a Service.
type Option func(*Service)

// WithWorkers sets the number of concurrent repository syncs.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewService creates a sync service.
func NewService(st *store.Store, fetcher ContentFetcher, opts ...Option) *Service {
	s := &Service{
		store:   st,
		fetcher: fetcher,
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is the outcome of syncing one repository.
type Result struct {
	Owner         string `json:"owner"`
	Repo          string `json:"repo"`
	Status        string `json:"status"`
	SkillsAdded   int    `json:"skillsAdded"`
	SkillsRemoved int    `json:"skillsRemoved"`
	DurationMs    int64  `json:"durationMs"`
	Error         string `json:"error,omitempty"`
}

// Report is the outcome of syncing a batch of repositories.
type Report struct {
	StartedAt       time.Time `json:"startedAt"`
	CompletedAt     time.Time `json:"completedAt"`
	TotalDurationMs int64     `json:"totalDurationMs"`
	Results         []Result  `json:"results"`
	Summary         Summary   `json:"summary"`
}

// Summary aggregates a Report.
type Summary struct {
	TotalRepos           int `json:"totalRepos"`
	SuccessfulRepos      int `json:"successfulRepos"`
	FailedRepos          int `json:"failedRepos"`
	TotalSkillsProcessed int `json:"totalSkillsProcessed"`
}

// SyncAll syncs every registered repository. Repositories run concurrently
// on a bounded worker pool; per-repository failures are aggregated into the
// returned error but never stop the batch.
func (s *Service) SyncAll(ctx context.Context) (*Report, error) {
	startedAt := time.Now()

	repos, err := s.store.ListRepositories(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list repositories")
	}

	logger.G(ctx).WithField("repos", len(repos)).Info("starting full sync")

	results := make([]Result, len(repos))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i, repo := range repos {
		wg.Add(1)
		go func(i int, cfg skill.RepoConfig) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = s.SyncRepository(ctx, cfg)
		}(i, repo.Config())
	}
	wg.Wait()

	var merr *multierror.Error
	summary := Summary{TotalRepos: len(repos)}
	for _, r := range results {
		if r.Status == store.StatusSuccess {
			summary.SuccessfulRepos++
		} else {
			summary.FailedRepos++
			merr = multierror.Append(merr, errors.Errorf("%s/%s: %s", r.Owner, r.Repo, r.Error))
		}
		summary.TotalSkillsProcessed += r.SkillsAdded + r.SkillsRemoved
	}

	completedAt := time.Now()
	report := &Report{
		StartedAt:       startedAt,
		CompletedAt:     completedAt,
		TotalDurationMs: completedAt.Sub(startedAt).Milliseconds(),
		Results:         results,
		Summary:         summary,
	}

	logger.G(ctx).WithFields(map[string]any{
		"duration_ms": report.TotalDurationMs,
		"success":     summary.SuccessfulRepos,
		"failed":      summary.FailedRepos,
		"skills":      summary.TotalSkillsProcessed,
	}).Info("full sync completed")

	return report, merr.ErrorOrNil()
}

// SyncOne syncs a single registered repository by owner and repo name.
func (s *Service) SyncOne(ctx context.Context, owner, repo string) (Result, error) {
	rec, err := s.store.GetRepository(ctx, owner, repo)
	if err != nil {
		return Result{}, err
	}
	if rec == nil {
		return Result{}, errors.Errorf("repository %s/%s is not registered", owner, repo)
	}
	return s.SyncRepository(ctx, rec.Config()), nil
}

// SyncRepository syncs one repository and returns its result. All failures
// are captured in the result rather than returned, so batch callers can
// keep going.
func (s *Service) SyncRepository(ctx context.Context, cfg skill.RepoConfig) Result {
	start := time.Now()
	result := Result{Owner: cfg.Owner, Repo: cfg.Repo}
	log := logger.G(ctx).WithField("repo", cfg.FullName())

	err := telemetry.WithSpan(ctx, "sync.repository", func(ctx context.Context) error {
		repoID, err := s.store.UpsertRepository(ctx, store.NewRepositoryRecord(cfg))
		if err != nil {
			return err
		}

		if err := s.store.UpdateSyncStatus(ctx, repoID, store.StatusSyncing, ""); err != nil {
			return err
		}

		skills, err := s.fetchRepoSkills(ctx, cfg)
		if err != nil {
			s.recordFailure(ctx, repoID, err, time.Since(start))
			return err
		}
		log.WithField("skills", len(skills)).Info("fetched skills")

		records := make([]store.SkillRecord, 0, len(skills))
		names := make([]string, 0, len(skills))
		for _, sk := range skills {
			records = append(records, store.NewSkillRecord(sk))
			names = append(names, sk.SkillName)
		}

		added, err := s.store.UpsertSkills(ctx, repoID, records)
		if err != nil {
			s.recordFailure(ctx, repoID, err, time.Since(start))
			return err
		}

		removed, err := s.store.DeleteRemovedSkills(ctx, repoID, names)
		if err != nil {
			s.recordFailure(ctx, repoID, err, time.Since(start))
			return err
		}

		if err := s.store.UpdateSyncStatus(ctx, repoID, store.StatusSuccess, ""); err != nil {
			return err
		}

		duration := time.Since(start)
		if err := s.store.InsertSyncLog(ctx, store.SyncLogRecord{
			ID:            uuid.NewString(),
			RepoID:        repoID,
			Status:        store.StatusSuccess,
			SkillsAdded:   added,
			SkillsRemoved: removed,
			DurationMs:    duration.Milliseconds(),
		}); err != nil {
			log.WithError(err).Warn("failed to record sync log")
		}

		result.SkillsAdded = added
		result.SkillsRemoved = removed
		return nil
	},
		attribute.String("repo.owner", cfg.Owner),
		attribute.String("repo.name", cfg.Repo),
	)

	result.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		log.WithError(err).Error("repository sync failed")
		result.Status = store.StatusError
		result.Error = err.Error()
		return result
	}

	result.Status = store.StatusSuccess
	log.WithField("duration_ms", result.DurationMs).Info("repository sync completed")
	return result
}

// fetchRepoSkills fetches and parses every skill of a repository.
func (s *Service) fetchRepoSkills(ctx context.Context, cfg skill.RepoConfig) ([]skill.Skill, error) {
	branch := cfg.BranchOrDefault()
	skillsPath := cfg.Options.SkillsPath

	folders, err := s.fetcher.ListSkillFolders(ctx, cfg.Owner, cfg.Repo, branch, skillsPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list skill folders")
	}

	log := logger.G(ctx).WithField("repo", cfg.FullName())
	var skills []skill.Skill

	for _, folder := range folders {
		if excluded(folder, cfg.Options.ExcludeFolders) {
			log.WithField("folder", folder).Debug("folder excluded")
			continue
		}

		content, err := s.fetcher.FetchSkillFile(ctx, cfg.Owner, cfg.Repo, folder, branch, skillsPath)
		if err != nil {
			log.WithError(err).WithField("folder", folder).Warn("failed to fetch skill file")
			continue
		}

		meta := skill.ParseFrontmatter(content)
		if meta == nil {
			log.WithField("folder", folder).Debug("skipping unparseable skill")
			continue
		}

		skills = append(skills, buildSkill(cfg, folder, *meta))
	}

	return skills, nil
}

// excluded reports whether a folder is matched by any exclude pattern.
// Patterns are doublestar globs; a plain name matches itself.
func excluded(folder string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, folder); err == nil && ok {
			return true
		}
	}
	return false
}

// buildSkill assembles the catalog record for a parsed skill, applying
// repository category overrides (per-folder override > repo default >
// parsed category).
func buildSkill(cfg skill.RepoConfig, folder string, meta skill.Metadata) skill.Skill {
	branch := cfg.BranchOrDefault()

	if override, ok := cfg.Options.CategoryOverrides[folder]; ok && override != "" {
		meta.Category = override
	} else if cfg.Options.DefaultCategory != "" {
		meta.Category = cfg.Options.DefaultCategory
	}

	fullPath := folder
	if cfg.Options.SkillsPath != "" {
		fullPath = cfg.Options.SkillsPath + "/" + folder
	}

	displayName := meta.Name
	if displayName == "" {
		displayName = skill.FormatSkillName(folder)
	}

	return skill.Skill{
		ID:               fmt.Sprintf("%s/%s/%s", cfg.Owner, cfg.Repo, folder),
		Owner:            cfg.Owner,
		Repo:             cfg.Repo,
		SkillName:        folder,
		Metadata:         meta,
		GithubURL:        github.BuildTreeURL(cfg.Owner, cfg.Repo, fullPath, branch),
		DownloadURL:      github.BuildDownloadURL(cfg.Owner, cfg.Repo, fullPath, branch),
		RawSkillMdURL:    github.BuildSkillMdURL(cfg.Owner, cfg.Repo, fullPath, branch),
		DetailURL:        fmt.Sprintf("/skill/%s/%s/%s", cfg.Owner, cfg.Repo, folder),
		DisplayName:      displayName,
		ShortDescription: skill.ShortDescription(meta.Description),
		RepoDisplayName:  cfg.DisplayNameOrDefault(),
		Branch:           branch,
	}
}

// recordFailure marks a repository sync as failed and writes a sync log,
// best effort.
func (s *Service) recordFailure(ctx context.Context, repoID int64, cause error, duration time.Duration) {
	if err := s.store.UpdateSyncStatus(ctx, repoID, store.StatusError, cause.Error()); err != nil {
		logger.G(ctx).WithError(err).Warn("failed to update sync status")
	}
	if err := s.store.InsertSyncLog(ctx, store.SyncLogRecord{
		ID:         uuid.NewString(),
		RepoID:     repoID,
		Status:     store.StatusError,
		Error:      cause.Error(),
		DurationMs: duration.Milliseconds(),
	}); err != nil {
		logger.G(ctx).WithError(err).Warn("failed to record sync log")
	}
}
