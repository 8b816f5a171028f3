package github

import (
	"fmt"
	"net/url"
)

const (
	rawHost        = "https://raw.githubusercontent.com"
	downloadHelper = "https://download-directory.github.io"
)

// BuildRawURL returns the raw.githubusercontent.com URL for a file.
func BuildRawURL(owner, repo, path, branch string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", rawHost, owner, repo, branch, path)
}

// BuildTreeURL returns the GitHub web URL for browsing a folder.
func BuildTreeURL(owner, repo, path, branch string) string {
	if path == "" {
		return fmt.Sprintf("https://github.com/%s/%s", owner, repo)
	}
	return fmt.Sprintf("https://github.com/%s/%s/tree/%s/%s", owner, repo, branch, path)
}

// BuildDownloadURL returns a folder download link via
// download-directory.github.io.
func BuildDownloadURL(owner, repo, path, branch string) string {
	treeURL := fmt.Sprintf("https://github.com/%s/%s/tree/%s/%s", owner, repo, branch, path)
	return fmt.Sprintf("%s/?url=%s", downloadHelper, url.QueryEscape(treeURL))
}

// BuildSkillMdURL returns the raw URL of a skill folder's SKILL.md.
func BuildSkillMdURL(owner, repo, folder, branch string) string {
	return BuildRawURL(owner, repo, folder+"/"+skillFileName, branch)
}
