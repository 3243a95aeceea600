package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/passview/pkg/cache"
)

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".config", appName)
	if dir != expected {
		t.Errorf("configDir() = %q, want %q", dir, expected)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("configDir() = %q, should end with %q", dir, appName)
	}
}

func TestConfigDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", custom)

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}

	expected := filepath.Join(custom, appName)
	if dir != expected {
		t.Errorf("configDir() with XDG_CONFIG_HOME = %q, want %q", dir, expected)
	}
}

func TestDefaultConfigFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	if got := defaultConfigFile(); got != "" {
		t.Errorf("defaultConfigFile() = %q, want empty without a config file", got)
	}

	dir := filepath.Join(xdg, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	yml := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(yml, []byte("image_format: png\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := defaultConfigFile(); got != yml {
		t.Errorf("defaultConfigFile() = %q, want %q", got, yml)
	}

	toml := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(toml, []byte("image_format = \"dot\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := defaultConfigFile(); got != toml {
		t.Errorf("defaultConfigFile() = %q, want %q (toml first)", got, toml)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestClearCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")

	if n, err := clearCache(dir); err != nil || n != 0 {
		t.Errorf("clearCache(missing) = %d, %v", n, err)
	}

	for _, name := range []string{"ab/1.json", "ab/2.json", "cd/3.json"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := clearCache(dir)
	if err != nil {
		t.Fatalf("clearCache: %v", err)
	}
	if n != 3 {
		t.Errorf("cleared %d entries, want 3", n)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("cache dir should be removed")
	}
}

func TestOpenCache(t *testing.T) {
	ctx := withLogger(context.Background(), newLogger(io.Discard, log.DebugLevel))

	t.Run("disabled", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", t.TempDir())
		if _, ok := openCache(ctx, true).(cache.NullCache); !ok {
			t.Error("disabled cache should be a NullCache")
		}
	})

	t.Run("unusable dir", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(blocker, nil, 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("XDG_CACHE_HOME", blocker)
		if _, ok := openCache(ctx, false).(cache.NullCache); !ok {
			t.Error("unusable cache dir should fall back to a NullCache")
		}
	})

	t.Run("enabled", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", xdg)
		fc, ok := openCache(ctx, false).(*cache.FileCache)
		if !ok {
			t.Fatal("enabled cache should be a FileCache")
		}
		if want := filepath.Join(xdg, appName); fc.Dir() != want {
			t.Errorf("Dir() = %q, want %q", fc.Dir(), want)
		}
	})
}
