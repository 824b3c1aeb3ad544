package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageObject/internal/browser/browsertest"
	"pageObject/internal/component"
	"pageObject/internal/logger"
	"pageObject/internal/recording"
)

func newTestCLI(t *testing.T) (*CLI, *browsertest.Driver, *recording.MemoryStore, *bytes.Buffer) {
	t.Helper()
	log, err := logger.New("prod", "error", logger.WithoutConsole())
	require.NoError(t, err)

	d := browsertest.New()
	store := recording.NewMemoryStore()
	session := component.NewSession(d,
		component.WithLogger(log.Logger),
		component.WithTimeout(50*time.Millisecond),
		component.WithScreenshotDir(t.TempDir()),
	)
	out := &bytes.Buffer{}
	return newCLI(session, store, log, out), d, store, out
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		line, cmd, arg string
	}{
		{"open example.test", "open", "example.test"},
		{"  CSS   ul > li.item ", "css", "ul > li.item"},
		{"text", "text", ""},
		{"xpath //a[text()='Next page']", "xpath", "//a[text()='Next page']"},
	}
	for _, tt := range tests {
		cmd, arg := splitCommand(tt.line)
		assert.Equal(t, tt.cmd, cmd, tt.line)
		assert.Equal(t, tt.arg, arg, tt.line)
	}
}

func TestHandleCommand_ProbeFlow(t *testing.T) {
	c, d, _, out := newTestCLI(t)
	ctx := context.Background()

	d.Doc().Title = "Shop"
	first := browsertest.NewNode("li", "Apples", "class", "item")
	first.SetProp("innerHTML", "Apples <b>fresh</b>")
	d.Doc().Add("li.item", first, browsertest.NewNode("li", "Pears", "class", "item"))

	assert.True(t, c.handleCommand(ctx, "open shop.test"))
	assert.Equal(t, []string{"https://shop.test"}, d.Navigated())
	assert.Contains(t, out.String(), "Opened: Shop")

	out.Reset()
	assert.True(t, c.handleCommand(ctx, "css li.item"))
	assert.Contains(t, out.String(), "2 match(es)")
	assert.Contains(t, out.String(), "Pears")

	out.Reset()
	c.handleCommand(ctx, "attr class")
	assert.Contains(t, out.String(), `class="item"`)

	out.Reset()
	c.handleCommand(ctx, "attr id")
	assert.Contains(t, out.String(), "id is absent")

	out.Reset()
	c.handleCommand(ctx, "own")
	assert.Contains(t, out.String(), "Apples")
	assert.NotContains(t, out.String(), "fresh")

	c.handleCommand(ctx, "click")
	assert.Equal(t, 1, first.Clicks())
}

func TestHandleCommand_NoTarget(t *testing.T) {
	c, _, _, out := newTestCLI(t)
	ctx := context.Background()

	c.handleCommand(ctx, "text")
	assert.Contains(t, out.String(), "No target")

	out.Reset()
	c.handleCommand(ctx, "xpath //h1")
	assert.Contains(t, out.String(), "No match for")
	assert.Nil(t, c.probeHandler.Target())
}

func TestHandleCommand_Screenshot(t *testing.T) {
	c, _, _, out := newTestCLI(t)
	c.handleCommand(context.Background(), "screenshot home")
	assert.Contains(t, out.String(), filepath.FromSlash("/home.png"))
}

func TestHandleCommand_Runs(t *testing.T) {
	c, _, store, out := newTestCLI(t)
	ctx := context.Background()

	c.handleCommand(ctx, "runs")
	assert.Contains(t, out.String(), "No runs recorded")

	run := &recording.Run{Name: "checkout", Browser: "chrome", Status: recording.StatusFailed, Error: "boom", StartedAt: time.Now()}
	require.NoError(t, store.CreateRun(ctx, run))
	require.NoError(t, store.AddInteraction(ctx, &recording.Interaction{RunID: run.ID, Type: "click", Component: "component.Button", Selector: "css=button", At: time.Now()}))

	out.Reset()
	c.handleCommand(ctx, "runs")
	assert.Contains(t, out.String(), "#1")
	assert.Contains(t, out.String(), "checkout")

	out.Reset()
	c.handleCommand(ctx, "run 1")
	assert.Contains(t, out.String(), "=== Run #1 ===")
	assert.Contains(t, out.String(), "boom")
	assert.Contains(t, out.String(), "component.Button")

	out.Reset()
	c.handleCommand(ctx, "run 7")
	assert.Contains(t, out.String(), "Run not found")

	out.Reset()
	c.handleCommand(ctx, "run x")
	assert.Contains(t, out.String(), "Invalid run id")
}

func TestHandleCommand_ExitAndHelp(t *testing.T) {
	c, _, _, out := newTestCLI(t)
	ctx := context.Background()

	assert.True(t, c.handleCommand(ctx, "bogus"))
	assert.Contains(t, out.String(), "Commands:")
	assert.False(t, c.handleCommand(ctx, "exit"))
}
