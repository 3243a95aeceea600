package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/passview/pkg/errors"
	"github.com/matzehuels/passview/pkg/render/nodelink"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    Config
	}{
		{
			name: "toml",
			file: "passview.toml",
			content: `output_destination = "/tmp/out"
image_format = "png"
include_parameters = true
`,
			want: Config{OutputDestination: "/tmp/out", ImageFormat: "png", IncludeParameters: Bool(true)},
		},
		{
			name: "yaml",
			file: "passview.yaml",
			content: `output_destination: redis://localhost:6379/0
include_attributes: true
`,
			want: Config{OutputDestination: "redis://localhost:6379/0", IncludeAttributes: Bool(true)},
		},
		{
			name:    "yml",
			file:    "passview.yml",
			content: "image_format: dot\n",
			want:    Config{ImageFormat: "dot"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadFile(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadFile() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LoadFile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code errors.Code
	}{
		{"missing", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.toml") }, errors.ErrCodeFileNotFound},
		{"bad toml", func(t *testing.T) string { return writeFile(t, "c.toml", "output_destination = [") }, errors.ErrCodeConfig},
		{"bad format", func(t *testing.T) string { return writeFile(t, "c.toml", `image_format = "pdf"`) }, errors.ErrCodeInvalidFormat},
		{"unknown ext", func(t *testing.T) string { return writeFile(t, "c.json", "{}") }, errors.ErrCodeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(tt.path(t))
			if !errors.Is(err, tt.code) {
				t.Errorf("LoadFile() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvOutput, " /tmp/passes ")
	t.Setenv(EnvFormat, "png")
	t.Setenv(EnvIncludeAttributes, "true")
	t.Setenv(EnvIncludeParameters, "nonsense")

	got := FromEnv()
	want := Config{OutputDestination: "/tmp/passes", ImageFormat: "png", IncludeAttributes: Bool(true)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromEnv() mismatch (-want +got):\n%s", diff)
	}

	t.Setenv(EnvIncludeAttributes, "false")
	if got := FromEnv().IncludeAttributes; got == nil || *got {
		t.Errorf("FromEnv().IncludeAttributes = %v, want explicit false", got)
	}
}

func TestCurrent(t *testing.T) {
	t.Cleanup(Reset)

	Reset()
	t.Setenv(EnvOutput, "")
	if Current().Enabled() {
		t.Error("Current() should be disabled without PASSVIEW_OUTPUT")
	}

	Reset()
	t.Setenv(EnvOutput, "/tmp/env")
	if got := Current().OutputDestination; got != "/tmp/env" {
		t.Errorf("Current() destination = %q, want /tmp/env", got)
	}

	Set(Config{OutputDestination: "/tmp/set"})
	if got := Current().OutputDestination; got != "/tmp/set" {
		t.Errorf("Current() after Set = %q, want /tmp/set", got)
	}
}

func TestFormat(t *testing.T) {
	f, err := Config{}.Format()
	if err != nil || f != nodelink.FormatSVG {
		t.Errorf("default Format() = %q, %v", f, err)
	}
	if _, err := (Config{ImageFormat: "gif"}).Format(); err == nil {
		t.Error("Format() should reject gif")
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name       string
		base, over Config
		want       Config
	}{
		{
			name: "strings override when set",
			base: Config{OutputDestination: "/a", ImageFormat: "svg"},
			over: Config{ImageFormat: "png", IncludeParameters: Bool(true)},
			want: Config{OutputDestination: "/a", ImageFormat: "png", IncludeParameters: Bool(true)},
		},
		{
			name: "unset booleans keep the base",
			base: Config{IncludeAttributes: Bool(true)},
			over: Config{},
			want: Config{IncludeAttributes: Bool(true)},
		},
		{
			name: "explicit false turns a boolean off",
			base: Config{IncludeAttributes: Bool(true), IncludeParameters: Bool(true)},
			over: Config{IncludeAttributes: Bool(false)},
			want: Config{IncludeAttributes: Bool(false), IncludeParameters: Bool(true)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.base.Merge(tt.over)); diff != "" {
				t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderOptions(t *testing.T) {
	opts := Config{IncludeAttributes: Bool(true), IncludeParameters: Bool(false)}.RenderOptions()
	if !opts.IncludeAttributes || opts.IncludeParameters {
		t.Errorf("RenderOptions() = %+v", opts)
	}
}
