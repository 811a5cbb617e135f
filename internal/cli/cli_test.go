package cli

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/infinispace/canvas"
	"github.com/infinispace/canvas/config"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// execute runs the command tree with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeDemoSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "canvas.json")
	s := canvas.Snapshot{
		Version:   canvas.SnapshotVersion,
		Timestamp: 1700000000000,
		Viewport:  canvas.Viewport{X: 10, Y: 20, Zoom: 1.5},
		Nodes:     canvas.DemoNodes(),
	}
	if err := canvas.SaveSnapshotFile(path, s); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "infinispace "+version+"\n" {
		t.Errorf("version output = %q", out)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "plugins")
	if err == nil || !strings.Contains(err.Error(), "log-level") {
		t.Fatalf("expected log-level error, got %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"debug", "DEBUG", false},
		{"Info", "INFO", false},
		{"warn", "WARN", false},
		{"ERROR", "ERROR", false},
		{"verbose", "", true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLevel(%q) err = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got.String() != tt.want {
			t.Errorf("parseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestInspect(t *testing.T) {
	path := writeDemoSnapshot(t)
	out, err := execute(t, "inspect", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Version:   1.0.0",
		"Saved:     2023-11-14T22:13:20Z",
		"Viewport:  " + canvas.FormatViewport(canvas.Viewport{X: 10, Y: 20, Zoom: 1.5}),
		"Nodes:     3",
		"Bounds:    -300,-200 to 500,320",
		"ai-generated",
		"-300,-200",
		"150x80",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectMissingFile(t *testing.T) {
	_, err := execute(t, "inspect", filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestInspectRequiresArg(t *testing.T) {
	if _, err := execute(t, "inspect"); err == nil {
		t.Fatal("expected an argument error")
	}
}

func TestFitSnapshot(t *testing.T) {
	s := canvas.Snapshot{Nodes: canvas.DemoNodes()}
	vp, err := fitSnapshot(s, canvas.DefaultConstraints(), fitOptions{width: 800, height: 520})
	if err != nil {
		t.Fatal(err)
	}
	// Content spans -300..500 by -200..320, centred on (100, 60).
	want := canvas.Viewport{X: 300, Y: 200, Zoom: 1}
	if !canvas.ViewportsApproxEqual(vp, want) {
		t.Errorf("fit = %+v, want %+v", vp, want)
	}
}

func TestFitSnapshotPadding(t *testing.T) {
	s := canvas.Snapshot{Nodes: canvas.DemoNodes()}
	vp, err := fitSnapshot(s, canvas.DefaultConstraints(), fitOptions{width: 1280, height: 720, padding: 50})
	if err != nil {
		t.Fatal(err)
	}
	zoom := 620.0 / 520.0
	if math.Abs(vp.Zoom-zoom) > 1e-9 {
		t.Errorf("zoom = %v, want %v", vp.Zoom, zoom)
	}
	if math.Abs(vp.X-(640-100*zoom)) > 1e-9 || math.Abs(vp.Y-(360-60*zoom)) > 1e-9 {
		t.Errorf("offset = %v,%v", vp.X, vp.Y)
	}
}

func TestFitEmptySnapshot(t *testing.T) {
	_, err := fitSnapshot(canvas.Snapshot{}, canvas.DefaultConstraints(), fitOptions{width: 800, height: 600})
	if !errors.Is(err, errNothingToFit) {
		t.Fatalf("expected errNothingToFit, got %v", err)
	}
}

func TestFitWrite(t *testing.T) {
	path := writeDemoSnapshot(t)
	cfgPath := filepath.Join(t.TempDir(), "none.toml")
	out, err := execute(t, "--config", cfgPath, "fit", path,
		"--width", "800", "--height", "520", "--padding", "0", "--write")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Zoom:      100%") {
		t.Errorf("fit output:\n%s", out)
	}
	s, err := canvas.LoadSnapshotFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !canvas.ViewportsApproxEqual(s.Viewport, canvas.Viewport{X: 300, Y: 200, Zoom: 1}) {
		t.Errorf("saved viewport = %+v", s.Viewport)
	}
	if len(s.Nodes) != 3 {
		t.Errorf("saved %d nodes, want 3", len(s.Nodes))
	}
}

func TestFitWithoutWriteLeavesFile(t *testing.T) {
	path := writeDemoSnapshot(t)
	before, _ := os.ReadFile(path)
	if _, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.toml"), "fit", path); err != nil {
		t.Fatal(err)
	}
	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Error("fit without --write changed the snapshot")
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "infinispace.toml")
	if _, err := execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Title != config.Default().Window.Title {
		t.Errorf("title = %q", cfg.Window.Title)
	}

	if _, err := execute(t, "--config", path, "config", "init"); err == nil {
		t.Fatal("expected init to refuse an existing file")
	}
	if _, err := execute(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Fatalf("init --force: %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "infinispace.toml")
	if err := os.WriteFile(path, []byte("[window]\ntitle = \"Board\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	if err := config.Decode([]byte(out), cfg); err != nil {
		t.Fatalf("show output does not decode: %v\n%s", err, out)
	}
	if cfg.Window.Title != "Board" {
		t.Errorf("title = %q, want Board", cfg.Window.Title)
	}
	if cfg.Window.Width != config.Default().Window.Width {
		t.Errorf("width = %d, want default", cfg.Window.Width)
	}
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.toml")
	if err := config.Default().Save(good); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "--config", good, "config", "validate")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("validate output = %q", out)
	}

	bad := filepath.Join(dir, "bad.toml")
	data := "[window]\nwidth = 0\n\n[theme]\nbackground = \"nope\"\n"
	if err := os.WriteFile(bad, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "--config", bad, "config", "validate")
	if err == nil || !strings.Contains(err.Error(), "2 problem(s)") {
		t.Fatalf("expected 2 problems, got %v", err)
	}
	if !strings.Contains(out, "theme.background") || !strings.Contains(out, "window size") {
		t.Errorf("validate output:\n%s", out)
	}
}

func TestConfigValidateMissingFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.toml"), "config", "validate")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestUnjoin(t *testing.T) {
	a, b := errors.New("a"), errors.New("b")
	if got := unjoin(nil); got != nil {
		t.Errorf("unjoin(nil) = %v", got)
	}
	if got := unjoin(a); len(got) != 1 || got[0] != a {
		t.Errorf("unjoin(a) = %v", got)
	}
	if got := unjoin(errors.Join(a, b)); len(got) != 2 {
		t.Errorf("unjoin(join) = %v", got)
	}
}

func TestPlugins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "infinispace.toml")
	data := `
[[plugins]]
id = "grid"
enabled = true
priority = 10

[[plugins]]
id = "sparkles"
enabled = true
priority = 20
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "--config", path, "plugins")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Grid", "Node Layer", "Toolbar", "Minimap", "Debug Overlay", "sparkles", "not registered"} {
		if !strings.Contains(out, want) {
			t.Errorf("plugins output missing %q:\n%s", want, out)
		}
	}
}

func TestReadSnapshot(t *testing.T) {
	if _, ok, err := readSnapshot(""); ok || err != nil {
		t.Errorf("empty path: ok=%v err=%v", ok, err)
	}
	if _, ok, err := readSnapshot(filepath.Join(t.TempDir(), "none.json")); ok || err != nil {
		t.Errorf("missing file: ok=%v err=%v", ok, err)
	}
	s, ok, err := readSnapshot(writeDemoSnapshot(t))
	if !ok || err != nil || len(s.Nodes) != 3 {
		t.Errorf("existing file: ok=%v err=%v nodes=%d", ok, err, len(s.Nodes))
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer sentence", 8, "a longe…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
