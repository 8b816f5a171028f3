package webapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/schwepps/skills-store/pkg/categories"
	"github.com/schwepps/skills-store/pkg/skill"
	"github.com/schwepps/skills-store/pkg/store"
	"github.com/schwepps/skills-store/pkg/version"
)

// SkillsResponse is the payload of GET /api/skills.
type SkillsResponse struct {
	Skills     []skill.Skill         `json:"skills"`
	Categories []categories.Category `json:"categories"`
	Total      int                   `json:"total"`
}

// RepoResponse is the repository payload of the /api/repos endpoints.
type RepoResponse struct {
	Owner        string     `json:"owner"`
	Repo         string     `json:"repo"`
	Branch       string     `json:"branch"`
	DisplayName  string     `json:"displayName"`
	Description  string     `json:"description,omitempty"`
	Website      string     `json:"website,omitempty"`
	Featured     bool       `json:"featured"`
	SyncStatus   string     `json:"syncStatus"`
	SyncError    string     `json:"syncError,omitempty"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
}

func repoResponse(rec store.RepositoryRecord) RepoResponse {
	resp := RepoResponse{
		Owner:       rec.Owner,
		Repo:        rec.Repo,
		Branch:      rec.Branch,
		DisplayName: rec.DisplayName,
		Description: rec.Description,
		Website:     rec.Website,
		Featured:    rec.Featured,
		SyncStatus:  rec.SyncStatus,
		SyncError:   rec.SyncError,
	}
	if rec.LastSyncedAt != nil {
		resp.LastSyncedAt = &rec.LastSyncedAt.Time
	}
	return resp
}

// handleListSkills handles GET /api/skills
func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	category := query.Get("category")
	if category == categories.All {
		category = ""
	}

	filter := store.SkillFilter{
		Search:   query.Get("search"),
		Category: category,
		Owner:    query.Get("owner"),
		Repo:     query.Get("repo"),
	}

	skills, err := s.store.ListSkills(ctx, filter)
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to list skills", err)
		return
	}

	// Facets reflect the search, not the category filter, so the sidebar
	// keeps showing counts for the other categories.
	facetSkills := skills
	if filter.Category != "" {
		facetFilter := filter
		facetFilter.Category = ""
		if facetSkills, err = s.store.ListSkills(ctx, facetFilter); err != nil {
			s.writeErrorResponse(w, http.StatusInternalServerError, "failed to list skills", err)
			return
		}
	}

	if skills == nil {
		skills = []skill.Skill{}
	}

	s.writeJSONResponse(w, SkillsResponse{
		Skills:     skills,
		Categories: categories.Extract(facetSkills),
		Total:      len(skills),
	})
}

// handleGetSkill handles GET /api/skills/{owner}/{repo}/{skill}
func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	sk, err := s.store.GetSkill(r.Context(), vars["owner"], vars["repo"], vars["skill"])
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to get skill", err)
		return
	}
	if sk == nil {
		s.writeErrorResponse(w, http.StatusNotFound, "skill not found", nil)
		return
	}

	s.writeJSONResponse(w, sk)
}

// handleListRepos handles GET /api/repos
func (s *Server) handleListRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := s.store.ListRepositories(r.Context())
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to list repositories", err)
		return
	}

	response := make([]RepoResponse, 0, len(repos))
	for _, rec := range repos {
		response = append(response, repoResponse(rec))
	}

	s.writeJSONResponse(w, map[string]any{
		"repos": response,
		"total": len(response),
	})
}

// handleGetRepo handles GET /api/repos/{owner}/{repo}
func (s *Server) handleGetRepo(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	rec, err := s.store.GetRepository(r.Context(), vars["owner"], vars["repo"])
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to get repository", err)
		return
	}
	if rec == nil {
		s.writeErrorResponse(w, http.StatusNotFound, "repository not found", nil)
		return
	}

	s.writeJSONResponse(w, repoResponse(*rec))
}

// handleCategories handles GET /api/categories
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	skills, err := s.store.ListSkills(r.Context(), store.SkillFilter{})
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to list skills", err)
		return
	}

	s.writeJSONResponse(w, map[string]any{
		"categories": categories.Extract(skills),
	})
}

// handleTriggerSync handles POST /api/sync
func (s *Server) handleTriggerSync(w http.ResponseWriter, r *http.Request) {
	if s.config.SyncSecret == "" {
		s.writeErrorResponse(w, http.StatusServiceUnavailable, "sync endpoint is not configured", nil)
		return
	}
	if !s.syncAuthorized(r) {
		s.writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	// ?owner=o&repo=r limits the sync to one registered repository.
	query := r.URL.Query()
	if owner, repo := query.Get("owner"), query.Get("repo"); owner != "" && repo != "" {
		result, err := s.syncer.SyncOne(r.Context(), owner, repo)
		if err != nil {
			s.writeErrorResponse(w, http.StatusNotFound, "repository not registered", err)
			return
		}
		s.writeJSONResponse(w, result)
		return
	}

	report, err := s.syncer.SyncAll(r.Context())
	if report == nil && err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "sync failed", err)
		return
	}

	// Partial failures still yield a report; surface them in the payload
	// rather than the status code.
	s.writeJSONResponse(w, report)
}

// handleSyncStatus handles GET /api/sync/status
func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	repos, err := s.store.ListRepositories(ctx)
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to list repositories", err)
		return
	}

	logs, err := s.store.RecentSyncLogs(ctx, 20)
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to load sync logs", err)
		return
	}

	statuses := make([]RepoResponse, 0, len(repos))
	for _, rec := range repos {
		statuses = append(statuses, repoResponse(rec))
	}

	recentLogs := make([]map[string]any, 0, len(logs))
	for _, l := range logs {
		recentLogs = append(recentLogs, map[string]any{
			"id":            l.ID,
			"repoId":        l.RepoID,
			"status":        l.Status,
			"skillsAdded":   l.SkillsAdded,
			"skillsRemoved": l.SkillsRemoved,
			"error":         l.Error,
			"durationMs":    l.DurationMs,
			"createdAt":     l.CreatedAt,
		})
	}

	s.writeJSONResponse(w, map[string]any{
		"repos":      statuses,
		"recentLogs": recentLogs,
	})
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DB().PingContext(r.Context()); err != nil {
		s.writeErrorResponse(w, http.StatusServiceUnavailable, "database unavailable", err)
		return
	}

	s.writeJSONResponse(w, map[string]any{
		"status":  "ok",
		"version": version.Get().Version,
	})
}
