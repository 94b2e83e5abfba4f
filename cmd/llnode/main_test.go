package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const demoModule = "../../internal/irtext/testdata/demo.toml"

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--color", "off"}, args...))
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestResolveCommand(t *testing.T) {
	out, _, err := run(t, "resolve", demoModule)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, want := range []string{"$sum =\n(add i32", "@counter =\n(i64 0)", "define @second slots=5", "define @walk slots=4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}

	out, _, err = run(t, "resolve", "--only", "walk", "--no-cache", demoModule)
	if err != nil {
		t.Fatalf("resolve --only: %v", err)
	}
	if strings.Contains(out, "@second") || strings.Contains(out, "$sum") || !strings.Contains(out, "define @walk") {
		t.Fatalf("--only did not filter:\n%s", out)
	}
}

func TestResolveSummaryUsesCache(t *testing.T) {
	cacheHome := t.TempDir()
	summary := func() string {
		t.Setenv("XDG_CACHE_HOME", cacheHome)
		root := newRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"--color", "off", "resolve", "--summary", demoModule})
		if err := root.Execute(); err != nil {
			t.Fatalf("resolve --summary: %v", err)
		}
		return out.String()
	}
	first, second := summary(), summary()
	if !strings.Contains(first, "module demo (parsed)") || !strings.Contains(second, "module demo (cached)") {
		t.Fatalf("unexpected summaries:\n%s\n%s", first, second)
	}
	if !strings.Contains(second, "functions  2 built, 0 failed, 3 descriptors") {
		t.Fatalf("unexpected counts:\n%s", second)
	}
}

func TestResolveTimings(t *testing.T) {
	_, errOut, err := run(t, "--timings", "--no-cache", "resolve", demoModule)
	if err != nil {
		t.Fatalf("resolve --timings: %v", err)
	}
	for _, want := range []string{"timings:", "bodies", "OBS6001"} {
		if !strings.Contains(errOut, want) {
			t.Fatalf("stderr lacks %q:\n%s", want, errOut)
		}
	}
}

func TestResolveFailingModule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	body := `name = "bad"

[[functions]]
name = "f"
type = "double (double)"
params = ["x"]

[[functions.blocks]]
name = "entry"
instrs = ["%y = shl double %x, %x"]
term = "ret double %y"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	_, errOut, err := run(t, "--no-cache", "resolve", path)
	if err == nil || !strings.Contains(err.Error(), "1 function(s) failed") {
		t.Fatalf("expected failure, got %v", err)
	}
	if !strings.Contains(errOut, "RES4004") {
		t.Fatalf("diagnostic missing:\n%s", errOut)
	}
}

func TestResolveFailingConstant(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "badconst.toml")
	body := `name = "badconst"

[[globals]]
name = "g"
type = "{ i32 }"
init = "{ i32 } zeroinitializer"

[[constants]]
name = "past"
kind = "gep"
type = "i8*"
base = "{ i32 }* @g"
indices = ["i32 0", "i32 5"]
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	_, _, err := run(t, "--no-cache", "resolve", path)
	if err == nil {
		t.Fatal("expected failure")
	}
	if msg := err.Error(); !strings.Contains(msg, "1 module-level value(s) failed ($past)") || strings.Contains(msg, "function(s)") {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestLayoutCommand(t *testing.T) {
	out, _, err := run(t, "--no-cache", "layout", demoModule, "%S", "i64", "%node*")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	for _, want := range []string{"type", "40      8  [0 4 24]", "i64      8      8"} {
		if !strings.Contains(out, want) {
			t.Fatalf("layout output lacks %q:\n%s", want, out)
		}
	}

	if _, _, err := run(t, "--no-cache", "layout", demoModule, "%missing"); err == nil {
		t.Fatal("expected an error for an unknown type")
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version", "--format", "json", "--full")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, `"tool": "llnode"`) || !strings.Contains(out, `"git_commit": "unknown"`) {
		t.Fatalf("unexpected json:\n%s", out)
	}
	if _, _, err := run(t, "version", "--format", "xml"); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestInvalidColor(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--color", "sometimes", "version"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected an error for --color sometimes")
	}
}

func TestManifestSettings(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(demoModule)
	if err != nil {
		t.Fatal(err)
	}
	module := filepath.Join(dir, "demo.toml")
	if err := os.WriteFile(module, data, 0o600); err != nil {
		t.Fatal(err)
	}
	manifest := "[build]\njobs = 2\nmax_diagnostics = 7\n\n[cache]\ndir = \"cache\"\n"
	if err := os.WriteFile(filepath.Join(dir, "llnode.toml"), []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		args []string
		jobs int
	}{
		{nil, 2},
		{[]string{"--jobs", "5"}, 5},
	} {
		root := newRootCmd()
		cmd, _, err := root.Find([]string{"resolve"})
		if err != nil {
			t.Fatal(err)
		}
		if err := cmd.ParseFlags(tc.args); err != nil {
			t.Fatal(err)
		}
		s, err := loadSettings(cmd, module)
		if err != nil {
			t.Fatalf("loadSettings: %v", err)
		}
		if s.jobs != tc.jobs || s.maxDiagnostics != 7 {
			t.Fatalf("args %v: jobs=%d max=%d", tc.args, s.jobs, s.maxDiagnostics)
		}
		if s.cache == nil || s.cache.Dir() != filepath.Join(dir, "cache") {
			t.Fatalf("cache dir not taken from manifest: %+v", s.cache)
		}
	}
}

func TestResolveJSONDiagnostics(t *testing.T) {
	_, errOut, err := run(t, "--no-cache", "resolve", "--summary", "--diagnostics-format", "json", demoModule)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(errOut, `"diagnostics": [`) || !strings.Contains(errOut, `"count": 0`) {
		t.Fatalf("unexpected json diagnostics:\n%s", errOut)
	}
	if _, _, err := run(t, "resolve", "--diagnostics-format", "sarif", demoModule); err == nil {
		t.Fatal("expected an error for an unknown diagnostics format")
	}
}

func TestResolveProfiles(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	if _, _, err := run(t, "--no-cache", "--cpu-profile", cpu, "--mem-profile", mem, "resolve", "--summary", demoModule); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, path := range []string{cpu, mem} {
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Fatalf("profile %s not written: %v", path, err)
		}
	}
}

func TestResolveTraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	if _, _, err := run(t, "--no-cache", "--trace", path, "--trace-level", "detail", "resolve", "--summary", demoModule); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{`"scope":"build"`, `"name":"bodies"`, `"name":"fn:walk"`, `"function":"walk"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("trace lacks %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, `"scope":"symbol"`) {
		t.Fatalf("detail level must not write symbol events:\n%s", out)
	}
}
