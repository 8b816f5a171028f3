package presenter

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestPresenter() (*TerminalPresenter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	p := NewWithOptions(&out, &errOut, ColorNever)
	return p, &out, &errOut
}

func TestError(t *testing.T) {
	t.Run("with context", func(t *testing.T) {
		p, out, errOut := newTestPresenter()
		p.Error(errors.New("boom"), "sync failed")

		assert.Equal(t, "[ERROR] sync failed: boom\n", errOut.String())
		assert.Empty(t, out.String())
	})

	t.Run("without context", func(t *testing.T) {
		p, _, errOut := newTestPresenter()
		p.Error(errors.New("boom"), "")

		assert.Equal(t, "[ERROR] boom\n", errOut.String())
	})

	t.Run("nil error is ignored", func(t *testing.T) {
		p, _, errOut := newTestPresenter()
		p.Error(nil, "context")

		assert.Empty(t, errOut.String())
	})
}

func TestMessages(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Success("synced 3 repos")
	p.Warning("no sync secret configured")
	p.Info("done")

	assert.Contains(t, out.String(), "✓ synced 3 repos\n")
	assert.Contains(t, out.String(), "⚠ no sync secret configured\n")
	assert.Contains(t, out.String(), "done\n")
}

func TestSection(t *testing.T) {
	p, out, _ := newTestPresenter()
	p.Section("Repositories")

	assert.Equal(t, "Repositories\n------------\n", out.String())
}

func TestQuietMode(t *testing.T) {
	p, out, errOut := newTestPresenter()
	p.SetQuiet(true)
	assert.True(t, p.IsQuiet())

	p.Success("hidden")
	p.Warning("hidden")
	p.Info("hidden")
	p.Section("hidden")
	p.Separator()
	assert.Empty(t, out.String())

	// Errors always print.
	p.Error(errors.New("boom"), "")
	assert.Equal(t, "[ERROR] boom\n", errOut.String())
}
