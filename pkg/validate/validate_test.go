package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitHubURL(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{name: "https url", input: "https://github.com/octo/skills", wantOwner: "octo", wantRepo: "skills"},
		{name: "http url", input: "http://github.com/octo/skills", wantOwner: "octo", wantRepo: "skills"},
		{name: "no scheme", input: "github.com/octo/skills", wantOwner: "octo", wantRepo: "skills"},
		{name: "www prefix", input: "https://www.github.com/octo/skills", wantOwner: "octo", wantRepo: "skills"},
		{name: "trailing path", input: "https://github.com/octo/skills/tree/main/foo", wantOwner: "octo", wantRepo: "skills"},
		{name: "dot git suffix", input: "https://github.com/octo/skills.git", wantOwner: "octo", wantRepo: "skills"},
		{name: "shorthand", input: "octo/skills", wantOwner: "octo", wantRepo: "skills"},
		{name: "shorthand with dots and dashes", input: "my-org/my.repo", wantOwner: "my-org", wantRepo: "my.repo"},
		{name: "surrounding whitespace", input: "  octo/skills  ", wantOwner: "octo", wantRepo: "skills"},
		{name: "not github", input: "https://gitlab.com/octo/skills", wantErr: true},
		{name: "missing repo", input: "https://github.com/octo", wantErr: true},
		{name: "plain text", input: "not a url", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseGitHubURL(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}

func TestResultSteps(t *testing.T) {
	var r Result
	r.pass(StepURLParse, "parsed")
	r.fail(StepRepoExists, "nope")

	require.Len(t, r.Steps, 2)
	assert.True(t, r.Steps[0].Passed)
	assert.False(t, r.Steps[1].Passed)
	assert.False(t, r.Valid)
}
