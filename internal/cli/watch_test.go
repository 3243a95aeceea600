package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/passview/pkg/artifact"
)

func TestDirWatcher(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "diagrams")
	w, err := newDirWatcher(dir)
	if err != nil {
		t.Fatalf("newDirWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan artifact.Info, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.run(ctx, log.New(io.Discard), func(info artifact.Info) { got <- info })
	}()

	for _, name := range []string{"notes.txt", "pass_3_dce_input_graph.svg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	// Rewriting an artifact must not report it again.
	if err := os.WriteFile(filepath.Join(dir, "pass_3_dce_input_graph.svg"), []byte("xy"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pass_3_dce_output_graph.svg"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	var names []string
	for len(names) < 2 {
		select {
		case info := <-got:
			if info.Sequence != 3 || info.Pass != "dce" {
				t.Errorf("info = %+v", info)
			}
			names = append(names, info.Name)
		case <-ctx.Done():
			t.Fatalf("timed out; reported %v", names)
		}
	}
	if names[0] != "pass_3_dce_input_graph.svg" || names[1] != "pass_3_dce_output_graph.svg" {
		t.Errorf("reported %v", names)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("run: %v", err)
	}
	select {
	case info := <-got:
		t.Errorf("unexpected extra report %+v", info)
	default:
	}
}

func TestNewDirWatcherEmpty(t *testing.T) {
	if _, err := newDirWatcher(""); err == nil {
		t.Error("newDirWatcher(\"\") should fail")
	}
}
