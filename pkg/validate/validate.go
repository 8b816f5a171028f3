// Package validate checks whether a GitHub repository is suitable for the
// catalog before it is registered: the URL must parse, the repository must
// exist and be public, and at least one folder must contain a parseable
// SKILL.md.
package validate

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/schwepps/skills-store/pkg/github"
	"github.com/schwepps/skills-store/pkg/logger"
	"github.com/schwepps/skills-store/pkg/skill"
)

// githubURLRe matches github.com repository URLs with optional scheme and
// trailing path segments.
var githubURLRe = regexp.MustCompile(`^(?:https?://)?(?:www\.)?github\.com/([\w.-]+)/([\w.-]+?)(?:\.git)?(?:/.*)?$`)

// Step identifies a validation stage.
type Step string

const (
	StepURLParse    Step = "url_parse"
	StepRepoExists  Step = "repo_exists"
	StepRepoPublic  Step = "repo_public"
	StepSkillsFound Step = "skills_found"
	StepSkillsValid Step = "skills_valid"
)

// StepResult is the outcome of one validation stage.
type StepResult struct {
	Step    Step   `json:"step"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// Result is the full outcome of validating a repository. Steps run in
// order; the first failure stops the chain.
type Result struct {
	Owner      string       `json:"owner,omitempty"`
	Repo       string       `json:"repo,omitempty"`
	Valid      bool         `json:"valid"`
	Steps      []StepResult `json:"steps"`
	SkillCount int          `json:"skillCount,omitempty"`
	SkillNames []string     `json:"skillNames,omitempty"`
}

// ParseGitHubURL extracts owner and repo from a GitHub URL or "owner/repo"
// shorthand.
func ParseGitHubURL(raw string) (owner, repo string, err error) {
	raw = strings.TrimSpace(raw)
	if m := githubURLRe.FindStringSubmatch(raw); m != nil {
		return m[1], m[2], nil
	}
	parts := strings.Split(raw, "/")
	if len(parts) == 2 && parts[0] != "" && parts[1] != "" && !strings.Contains(raw, " ") {
		return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
	}
	return "", "", errors.Errorf("not a recognizable GitHub repository URL: %q", raw)
}

// Validator validates candidate repositories against the live GitHub API.
type Validator struct {
	client *github.Client
}

// NewValidator creates a repository validator.
func NewValidator(client *github.Client) *Validator {
	return &Validator{client: client}
}

// ValidateRepository runs the validation chain for a repository URL.
// Network and API failures surface as failed steps, not errors; the error
// return is reserved for context cancellation.
func (v *Validator) ValidateRepository(ctx context.Context, rawURL, skillsPath string) (*Result, error) {
	result := &Result{}

	owner, repo, err := ParseGitHubURL(rawURL)
	if err != nil {
		result.fail(StepURLParse, err.Error())
		return result, nil
	}
	result.Owner = owner
	result.Repo = repo
	result.pass(StepURLParse, "parsed "+owner+"/"+repo)

	info, err := v.client.GetRepoInfo(ctx, owner, repo)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result.fail(StepRepoExists, "repository not found or inaccessible: "+err.Error())
		return result, nil
	}
	result.pass(StepRepoExists, "repository exists")

	if info.Private {
		result.fail(StepRepoPublic, "repository is private")
		return result, nil
	}
	result.pass(StepRepoPublic, "repository is public")

	folders, err := v.client.ListSkillFolders(ctx, owner, repo, info.DefaultBranch, skillsPath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result.fail(StepSkillsFound, "failed to list skill folders: "+err.Error())
		return result, nil
	}
	if len(folders) == 0 {
		result.fail(StepSkillsFound, "no folders containing SKILL.md found")
		return result, nil
	}
	result.pass(StepSkillsFound, "")
	result.SkillCount = len(folders)

	log := logger.G(ctx).WithField("repo", owner+"/"+repo)
	var valid []string
	for _, folder := range folders {
		content, err := v.client.FetchSkillFile(ctx, owner, repo, folder, info.DefaultBranch, skillsPath)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.WithError(err).WithField("folder", folder).Warn("failed to fetch skill file")
			continue
		}
		if meta := skill.ParseFrontmatter(content); meta != nil {
			valid = append(valid, folder)
		}
	}
	if len(valid) == 0 {
		result.fail(StepSkillsValid, "no SKILL.md file yielded usable metadata")
		return result, nil
	}
	result.pass(StepSkillsValid, "")
	result.SkillNames = valid
	result.SkillCount = len(valid)
	result.Valid = true

	return result, nil
}

func (r *Result) pass(step Step, msg string) {
	r.Steps = append(r.Steps, StepResult{Step: step, Passed: true, Message: msg})
}

func (r *Result) fail(step Step, msg string) {
	r.Steps = append(r.Steps, StepResult{Step: step, Passed: false, Message: msg})
}
