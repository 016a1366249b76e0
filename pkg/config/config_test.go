package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/framewright/framewright/pkg/errors"
)

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if c.Snap.Threshold != 5 || c.Snap.Release != 5 {
		t.Errorf("snap = %+v, want 5/5", c.Snap)
	}
	if c.Drag.Threshold != 4 || c.Drag.FrameIntervalMS != 33 {
		t.Errorf("drag = %+v, want 4/33", c.Drag)
	}
	if c.History.Depth != 50 || c.HistoryOptions().CoalesceWindow != 50*time.Millisecond {
		t.Errorf("history = %+v, want 50/50ms", c.History)
	}
	if c.Store.Backend != BackendMemory {
		t.Errorf("backend = %q, want %q", c.Store.Backend, BackendMemory)
	}

	d := c.DragOptions()
	if d.FrameInterval != 33*time.Millisecond || d.AutoScroll.MaxSpeed != 4 || d.AutoScroll.EdgeX != 80 {
		t.Errorf("DragOptions() = %+v", d)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
[snap]
threshold = 8
disable_distribute = true

[drag]
frame_interval_ms = 16

[history]
depth = 10

[store]
backend = "redis"
url = "redis://localhost:6379/0"

[http]
addr = "127.0.0.1:9000"
document = "landing"
`)
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if c.Snap.Threshold != 8 || !c.SnapEngine().NoDistribute {
		t.Errorf("snap = %+v", c.Snap)
	}
	if c.Snap.Release != 5 {
		t.Errorf("release = %v, want default 5", c.Snap.Release)
	}
	if c.DragOptions().FrameInterval != 16*time.Millisecond {
		t.Errorf("frame interval = %v, want 16ms", c.DragOptions().FrameInterval)
	}
	if c.History.Depth != 10 || c.Store.Backend != BackendRedis || c.Store.Prefix != DefaultPrefix {
		t.Errorf("config = %+v", c)
	}
	if o := c.StoreOptions(); o.URL != "redis://localhost:6379/0" || o.Timeout != 5*time.Second || o.ConnectAttempts != 3 {
		t.Errorf("StoreOptions() = %+v", o)
	}
	if c.HTTP.Addr != "127.0.0.1:9000" || c.HTTP.Document != "landing" {
		t.Errorf("http = %+v", c.HTTP)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[snap\nthreshold = 1"},
		{"unknown key", "[snap]\nthreshhold = 1"},
		{"unknown section", "[render]\nstyle = 1"},
		{"negative threshold", "[drag]\nthreshold = -1"},
		{"speed order", "[autoscroll]\nmin_speed = 5\nmax_speed = 1"},
		{"unknown backend", "[store]\nbackend = \"sqlite\""},
		{"redis without url", "[store]\nbackend = \"redis\""},
		{"mongo wrong scheme", "[store]\nbackend = \"mongo\"\nurl = \"redis://x\""},
		{"bad document id", "[http]\ndocument = \"../etc\""},
		{"negative connect attempts", "[store]\nconnect_attempts = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() = nil, want error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "framewright.toml")
	if err := os.WriteFile(path, []byte("[store]\nbackend = \"file\"\npath = \"docs\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if c.Store.Backend != BackendFile || c.Store.Path != "docs" {
		t.Errorf("store = %+v", c.Store)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}
