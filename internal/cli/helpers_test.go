package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/streaks/internal/engine"
	"github.com/roach88/streaks/internal/testutil"
)

// cliEnv runs commands against one SQLite file with a pinned clock and
// sequential ids shared across invocations.
type cliEnv struct {
	t     *testing.T
	dir   string
	db    string
	clock *testutil.FixedClock
	ids   *engine.SequentialGenerator
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	for _, k := range []string{"STREAKS_BACKEND", "STREAKS_DB", "STREAKS_DEBOUNCE_MS", "STREAKS_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return &cliEnv{
		t:     t,
		dir:   dir,
		db:    filepath.Join(dir, "data", "streaks.db"),
		clock: testutil.Date(2026, 10, 19),
		ids:   engine.NewSequentialGenerator("h"),
	}
}

func (e *cliEnv) run(args ...string) (string, string, error) {
	e.t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	cmd := newRootCommand(&RootOptions{Clock: e.clock, IDGenerator: e.ids})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{"--db", e.db}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, errOut, err := e.run(args...)
	require.NoError(e.t, err, "stderr: %s", errOut)
	return out
}

// runJSON runs with --format json and decodes data into v.
func (e *cliEnv) runJSON(v interface{}, args ...string) {
	e.t.Helper()
	out := e.mustRun(append([]string{"--format", "json"}, args...)...)
	resp := struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}{}
	require.NoError(e.t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(e.t, "ok", resp.Status)
	require.NoError(e.t, json.Unmarshal(resp.Data, v))
}

func (e *cliEnv) week(args ...string) WeekView {
	e.t.Helper()
	var w WeekView
	e.runJSON(&w, append([]string{"list"}, args...)...)
	return w
}

func findView(t *testing.T, w WeekView, name string) HabitView {
	t.Helper()
	for _, h := range w.Habits {
		if h.Name == name {
			return h
		}
	}
	t.Fatalf("habit %q not in %v", name, w.Habits)
	return HabitView{}
}
