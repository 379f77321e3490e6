package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

const treeJSON = `{
  "nodes": [
    {"id": "root"},
    {"id": "a", "parent": "root"},
    {"id": "b", "parent": "root"},
    {"id": "c", "parent": "a"},
    {"id": "d", "parent": "a"},
    {"id": "e", "parent": "b"}
  ],
  "edges": [{"source": "c", "target": "e"}]
}`

// runCLI executes the root command with args in an isolated environment.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"render", "inspect", "route", "view", "serve", "fetch", "cache", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing subcommand %q in %v", want, names)
		}
	}
}

func TestRenderCommandWritesFiles(t *testing.T) {
	input := writeFile(t, "tree.json", treeJSON)
	base := filepath.Join(t.TempDir(), "out", "diagram")

	if err := runCLI(t, "render", input, "--no-cache", "-f", "svg,json,txt", "-o", base); err != nil {
		t.Fatalf("render error: %v", err)
	}
	for _, ext := range []string{"svg", "json", "txt"} {
		info, err := os.Stat(base + "." + ext)
		if err != nil {
			t.Errorf("missing %s output: %v", ext, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s output is empty", ext)
		}
	}
}

func TestRenderCommandSingleOutput(t *testing.T) {
	input := writeFile(t, "tree.json", treeJSON)
	out := filepath.Join(t.TempDir(), "tree.dot")

	if err := runCLI(t, "render", input, "--no-cache", "-f", "dot", "-o", out, "--highlight", "c,e"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written as given: %v", err)
	}
}

func TestRenderCommandFillsFileCache(t *testing.T) {
	input := writeFile(t, "tree.json", treeJSON)
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	out := filepath.Join(t.TempDir(), "tree.svg")
	if err := runCLI(t, "render", input, "-o", out); err != nil {
		t.Fatalf("render error: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(cacheHome, appName))
	if err != nil || len(entries) == 0 {
		t.Errorf("cache dir should hold entries after a render (err=%v)", err)
	}
	if err := runCLI(t, "cache", "clear"); err != nil {
		t.Errorf("cache clear error: %v", err)
	}
}

func TestCommandErrors(t *testing.T) {
	input := writeFile(t, "tree.json", treeJSON)
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"render", input, "--no-cache", "-f", "gif"}},
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "nope.json"), "--no-cache"}},
		{"no source", []string{"render", "--no-cache"}},
		{"bad bundling", []string{"render", input, "--no-cache", "--bundling", "3"}},
		{"missing style", []string{"render", input, "--no-cache", "--style", "nope.toml"}},
		{"unknown route node", []string{"route", "c", "zzz", "-i", input, "--no-cache"}},
		{"explicit config missing", []string{"inspect", input, "--config", "nope.toml"}},
		{"fetch without uri", []string{"fetch"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, tt.args...); err == nil {
				t.Errorf("%v: expected an error", tt.args)
			}
		})
	}
}

func TestInspectAndRoute(t *testing.T) {
	input := writeFile(t, "tree.json", treeJSON)
	if err := runCLI(t, "inspect", input, "--no-cache", "--json"); err != nil {
		t.Errorf("inspect error: %v", err)
	}
	if err := runCLI(t, "route", "c", "e", "-i", input, "--no-cache"); err != nil {
		t.Errorf("route error: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"  ", []string{"svg"}},
		{"png", []string{"png"}},
		{"SVG, json,,txt ", []string{"svg", "json", "txt"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseIDs(t *testing.T) {
	if got := parseIDs(" a, b ,,c"); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("parseIDs() = %v", got)
	}
	if got := parseIDs(""); got != nil {
		t.Errorf("parseIDs(\"\") = %v, want nil", got)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "trees/org.json", "trees/org"},
		{"", "", appName},
		{"out/diagram.svg", "org.json", "out/diagram"},
		{"out/diagram.v2", "org.json", "out/diagram.v2"},
		{"out/diagram", "org.json", "out/diagram"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}

	paths, err := writeArtifacts(artifacts, filepath.Join(dir, "x.svg"), "")
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	want := []string{filepath.Join(dir, "x.json"), filepath.Join(dir, "x.svg")}
	if !slices.Equal(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		if err := runCLI(t, "completion", shell); err != nil {
			t.Errorf("completion %s: %v", shell, err)
		}
	}
	if err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("completion should reject unknown shells")
	}
}
