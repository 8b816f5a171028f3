package skill

// RepoConfig describes a GitHub repository registered as a skill source.
type RepoConfig struct {
	Owner       string `json:"owner" yaml:"owner"`
	Repo        string `json:"repo" yaml:"repo"`
	Branch      string `json:"branch,omitempty" yaml:"branch,omitempty"`
	DisplayName string `json:"displayName,omitempty" yaml:"display_name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Website     string `json:"website,omitempty" yaml:"website,omitempty"`
	Featured    bool   `json:"featured,omitempty" yaml:"featured,omitempty"`

	Options RepoOptions `json:"config,omitempty" yaml:"config,omitempty"`
}

// RepoOptions are optional overrides for repository processing.
type RepoOptions struct {
	// SkillsPath is the subdirectory containing skills (e.g. "skills").
	SkillsPath string `json:"skillsPath,omitempty" yaml:"skills_path,omitempty"`
	// DefaultCategory forces a category for all skills in the repo.
	DefaultCategory string `json:"defaultCategory,omitempty" yaml:"default_category,omitempty"`
	// CategoryOverrides overrides the category per skill folder name.
	CategoryOverrides map[string]string `json:"categoryOverrides,omitempty" yaml:"category_overrides,omitempty"`
	// ExcludeFolders lists folder names or glob patterns to skip.
	ExcludeFolders []string `json:"excludeFolders,omitempty" yaml:"exclude_folders,omitempty"`
}

// FullName returns "owner/repo".
func (c RepoConfig) FullName() string {
	return c.Owner + "/" + c.Repo
}

// BranchOrDefault returns the configured branch, defaulting to "main".
func (c RepoConfig) BranchOrDefault() string {
	if c.Branch == "" {
		return "main"
	}
	return c.Branch
}

// DisplayNameOrDefault returns the configured display name, defaulting to
// "owner/repo".
func (c RepoConfig) DisplayNameOrDefault() string {
	if c.DisplayName == "" {
		return c.FullName()
	}
	return c.DisplayName
}
