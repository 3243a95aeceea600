package pipeline

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/passview/pkg/config"
	"github.com/matzehuels/passview/pkg/dag"
	"github.com/matzehuels/passview/pkg/errors"
	"github.com/matzehuels/passview/pkg/observer"
	"github.com/matzehuels/passview/pkg/sink"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// mlp builds x → mul → add → out with a dead relu hanging off x and a
// duplicate of mul.
func mlp(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	for _, n := range []dag.Node{
		{ID: "x", Op: dag.OpPlaceholder},
		{ID: "mul", Target: "mul"},
		{ID: "mul2", Target: "mul"},
		{ID: "add", Target: "add"},
		{ID: "relu", Target: "relu"},
		{ID: "out", Op: dag.OpOutput},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{
		{"x", "mul"}, {"x", "mul2"}, {"mul", "add"}, {"mul2", "add"}, {"add", "out"}, {"x", "relu"},
	} {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestValidatePasses(t *testing.T) {
	tests := []struct {
		passes  []string
		wantErr bool
	}{
		{[]string{"dce"}, false},
		{[]string{"fuse_ops", "cse", "dce"}, false},
		{[]string{"dce", "dce"}, false},
		{nil, false},
		{[]string{"dce", "inline"}, true},
		{[]string{"DCE"}, true}, // case-sensitive
	}
	for _, tt := range tests {
		err := ValidatePasses(tt.passes)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePasses(%v) error = %v, wantErr %v", tt.passes, err, tt.wantErr)
		}
	}
}

func TestParsePasses(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"dce", []string{"dce"}},
		{"fuse_ops, cse ,dce", []string{"fuse_ops", "cse", "dce"}},
		{" , ,", nil},
		{"", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ParsePasses(tt.in)); diff != "" {
			t.Errorf("ParsePasses(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if diff := cmp.Diff(DefaultPasses, opts.Passes); diff != "" {
		t.Errorf("default passes (-want +got):\n%s", diff)
	}
	if opts.Logger == nil {
		t.Error("logger should default to a discard logger")
	}

	opts = Options{Passes: []string{"nope"}}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestExecuteDisabled(t *testing.T) {
	g := mlp(t)
	seq := observer.NewCounter()
	r := NewRunner(quietLogger(), observer.WithConfig(config.Config{}), observer.WithSequence(seq))

	res, err := r.Execute(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if seq.Current() != 0 {
		t.Errorf("sequence = %d, want 0 when observation is disabled", seq.Current())
	}
	// mul2 feeds the freshly fused node, so it is left alone in the same run.
	if diff := cmp.Diff([]string{"x", "mul2", "out", "fused_mul_add"}, dag.NodeIDs(g.Nodes())); diff != "" {
		t.Errorf("nodes after pipeline (-want +got):\n%s", diff)
	}
	for _, p := range res.Passes {
		if p.Observed() || len(p.Artifacts) != 0 {
			t.Errorf("pass %s observed while disabled: %+v", p.Name, p)
		}
	}
	if res.Stats.NodesBefore != 6 || res.Stats.NodesAfter != 4 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestExecuteObserved(t *testing.T) {
	g := mlp(t)
	mem := sink.NewMemory()
	cfg := config.Config{OutputDestination: "memory://", ImageFormat: "dot"}
	r := NewRunner(quietLogger(),
		observer.WithConfig(cfg), observer.WithSequence(observer.NewCounter()), observer.WithSink(mem))

	res, err := r.Execute(context.Background(), g, Options{Passes: []string{"cse", "fuse_ops", "dce", "cse"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	type summary struct {
		Name     string
		Seq      int
		Rewrites int
		Created  []string
		Erased   []string
	}
	var got []summary
	for _, p := range res.Passes {
		got = append(got, summary{p.Name, p.Sequence, p.Rewrites, p.Created, p.Erased})
	}
	want := []summary{
		{"cse", 1, 1, []string{}, []string{"mul2"}},
		{"fuse_ops", 2, 1, []string{"fused_mul_add"}, []string{"add", "mul"}},
		{"dce", 3, 1, []string{}, []string{"relu"}},
		{"cse", 4, 0, []string{}, []string{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("passes (-want +got):\n%s", diff)
	}

	wantArtifacts := []string{
		"pass_1_cse_input_graph.dot", "pass_1_cse_output_graph.dot",
		"pass_2_fuse_ops_input_graph.dot", "pass_2_fuse_ops_output_graph.dot",
		"pass_3_dce_input_graph.dot", "pass_3_dce_output_graph.dot",
	}
	if diff := cmp.Diff(wantArtifacts, res.Artifacts()); diff != "" {
		t.Errorf("artifacts (-want +got):\n%s", diff)
	}
	if mem.Len() != len(wantArtifacts) {
		t.Errorf("sink holds %d artifacts, want %d", mem.Len(), len(wantArtifacts))
	}
}

func TestExecuteUnknownPass(t *testing.T) {
	r := NewRunner(quietLogger(), observer.WithConfig(config.Config{}))
	_, err := r.Execute(context.Background(), mlp(t), Options{Passes: []string{"dce", "bogus"}})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := mlp(t)
	r := NewRunner(quietLogger(), observer.WithConfig(config.Config{}))
	res, err := r.Execute(ctx, g, Options{})
	if err != context.Canceled {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if len(res.Passes) != 0 || g.NodeCount() != 6 {
		t.Errorf("no pass should run after cancellation: %+v", res.Passes)
	}
}

func TestExecuteNilGraph(t *testing.T) {
	r := NewRunner(quietLogger())
	if _, err := r.Execute(context.Background(), nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}
