package github

import (
	"context"
	"strings"

	gh "github.com/google/go-github/v57/github"
	"github.com/pkg/errors"
	"github.com/schwepps/skills-store/pkg/logger"
)

const skillFileName = "SKILL.md"

// systemFolders are repository folders that never contain skills.
var systemFolders = map[string]bool{
	".github":      true,
	"scripts":      true,
	"dist":         true,
	"node_modules": true,
	".claude":      true,
}

// RepoInfo is the subset of repository metadata used for validation.
type RepoInfo struct {
	Private       bool
	DefaultBranch string
}

// GetRepoInfo returns visibility and default branch of a repository.
func (c *Client) GetRepoInfo(ctx context.Context, owner, repo string) (*RepoInfo, error) {
	r, _, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get repository %s/%s", owner, repo)
	}
	return &RepoInfo{
		Private:       r.GetPrivate(),
		DefaultBranch: r.GetDefaultBranch(),
	}, nil
}

// ListDirectories lists directories at a path of a repository, skipping
// hidden and system folders.
func (c *Client) ListDirectories(ctx context.Context, owner, repo, path, ref string) ([]string, error) {
	_, entries, _, err := c.client.Repositories.GetContents(ctx, owner, repo, path,
		&gh.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list contents of %s/%s/%s", owner, repo, path)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.GetType() != "dir" {
			continue
		}
		name := entry.GetName()
		if strings.HasPrefix(name, ".") || systemFolders[name] {
			continue
		}
		dirs = append(dirs, name)
	}

	return dirs, nil
}

// ListSkillFolders returns the directories under skillsPath that contain a
// SKILL.md file.
func (c *Client) ListSkillFolders(ctx context.Context, owner, repo, ref, skillsPath string) ([]string, error) {
	dirs, err := c.ListDirectories(ctx, owner, repo, skillsPath, ref)
	if err != nil {
		return nil, err
	}

	var folders []string
	for _, dir := range dirs {
		path := joinPath(skillsPath, dir, skillFileName)
		exists, err := c.fileExists(ctx, owner, repo, path, ref)
		if err != nil {
			logger.G(ctx).WithError(err).WithField("path", path).Debug("failed to check skill file")
			continue
		}
		if exists {
			folders = append(folders, dir)
		}
	}

	return folders, nil
}

// FetchSkillFile returns the raw text of a folder's SKILL.md.
func (c *Client) FetchSkillFile(ctx context.Context, owner, repo, folder, ref, skillsPath string) (string, error) {
	path := joinPath(skillsPath, folder, skillFileName)

	file, _, _, err := c.client.Repositories.GetContents(ctx, owner, repo, path,
		&gh.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		return "", errors.Wrapf(err, "failed to fetch %s", path)
	}
	if file == nil {
		return "", errors.Errorf("%s is not a file", path)
	}

	content, err := file.GetContent()
	if err != nil {
		return "", errors.Wrapf(err, "failed to decode %s", path)
	}

	return content, nil
}

// fileExists checks whether a file exists at the given path. A 404 is not
// an error.
func (c *Client) fileExists(ctx context.Context, owner, repo, path, ref string) (bool, error) {
	file, _, resp, err := c.client.Repositories.GetContents(ctx, owner, repo, path,
		&gh.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return false, nil
		}
		return false, err
	}
	return file != nil, nil
}

func joinPath(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "/")
}
