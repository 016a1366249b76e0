package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/framewright/framewright/pkg/observability"
)

// newLoggedCLI returns a CLI whose log output is captured in buf.
func newLoggedCLI(t *testing.T, buf *bytes.Buffer, level log.Level) *CLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return New(buf, level)
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		debug bool
	}{
		{"info hides debug", LogInfo, false},
		{"debug shows debug", LogDebug, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)
			l.Info("document loaded", "id", "landing")
			l.Debug("synced", "id", "landing")

			out := buf.String()
			if !strings.Contains(out, "document loaded") {
				t.Errorf("info message missing: %q", out)
			}
			if got := strings.Contains(out, "synced"); got != tt.debug {
				t.Errorf("debug logged = %v, want %v", got, tt.debug)
			}
		})
	}
}

func TestSyncLogsProgress(t *testing.T) {
	path := writeDoc(t, "landing.json", drifted)

	var buf bytes.Buffer
	if err := execute(t, newLoggedCLI(t, &buf, LogInfo), "sync", "--dry-run", path); err != nil {
		t.Fatalf("sync --dry-run = %v", err)
	}
	if !strings.Contains(buf.String(), "Checked 1 documents") {
		t.Errorf("dry run output = %q, want progress line", buf.String())
	}

	buf.Reset()
	if err := execute(t, newLoggedCLI(t, &buf, LogInfo), "sync", path); err != nil {
		t.Fatalf("sync = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Synced 1 documents") {
		t.Errorf("sync output = %q, want progress line", out)
	}
	if strings.Contains(out, "viewport sync") {
		t.Errorf("hooks logged at info level: %q", out)
	}
}

func TestVerboseSyncLogsHooks(t *testing.T) {
	path := writeDoc(t, "landing.json", drifted)

	var buf bytes.Buffer
	c := newLoggedCLI(t, &buf, LogInfo)
	c.SetLogLevel(LogDebug)
	t.Cleanup(observability.Reset)

	if err := execute(t, c, "sync", path); err != nil {
		t.Fatalf("sync = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"viewport sync", "synced", "landing.json"} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose output missing %q:\n%s", want, out)
		}
	}
}

func TestRootCommandCarriesLogger(t *testing.T) {
	var buf bytes.Buffer
	c := newLoggedCLI(t, &buf, LogInfo)

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	if err := c.RootCommand().PersistentPreRunE(cmd, nil); err != nil {
		t.Fatal(err)
	}
	if got := loggerFromContext(cmd.Context()); got != c.Logger {
		t.Error("command context does not carry the CLI logger")
	}
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("loggerFromContext without a logger should fall back to log.Default()")
	}
}
