package nodelink

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/passview/pkg/dag"
)

func sampleGraph(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	nodes := []dag.Node{
		{ID: "x", Op: dag.OpPlaceholder},
		{ID: "weight", Op: dag.OpParameter},
		{ID: "scale", Op: dag.OpGetAttr, Target: "self.scale"},
		{ID: "matmul", Target: "torch.matmul"},
		{ID: "output", Op: dag.OpOutput},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{{"x", "matmul"}, {"weight", "matmul"}, {"scale", "matmul"}, {"matmul", "output"}} {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestNewDiagram_FiltersAttributesAndParameters(t *testing.T) {
	d := NewDiagram(sampleGraph(t), "pass", Options{})

	got := strings.Join(d.NodeIDs(), ",")
	if got != "x,matmul,output" {
		t.Errorf("NodeIDs() = %q, want %q", got, "x,matmul,output")
	}

	dot := d.ToDOT()
	if strings.Contains(dot, `"weight"`) || strings.Contains(dot, `"scale"`) {
		t.Errorf("ToDOT() should not contain filtered nodes:\n%s", dot)
	}
	if !strings.Contains(dot, `"x" -> "matmul"`) {
		t.Error("ToDOT() missing edge between visible nodes")
	}
}

func TestNewDiagram_IncludeAll(t *testing.T) {
	d := NewDiagram(sampleGraph(t), "pass", Options{IncludeAttributes: true, IncludeParameters: true})

	if len(d.NodeIDs()) != 5 {
		t.Errorf("NodeIDs() = %v, want all 5 nodes", d.NodeIDs())
	}
	if !strings.Contains(d.ToDOT(), "dashed") {
		t.Error("attribute and parameter nodes should be dashed")
	}
}

func TestDiagram_IsSnapshot(t *testing.T) {
	g := sampleGraph(t)
	d := NewDiagram(g, "pass", Options{})

	_ = g.AddNode(dag.Node{ID: "late"})

	if _, ok := d.FillColor("late"); ok {
		t.Error("diagram should not see nodes added after the snapshot")
	}
}

func TestSetFillColor(t *testing.T) {
	d := NewDiagram(sampleGraph(t), "pass", Options{})

	if c, ok := d.FillColor("x"); !ok || c != "" {
		t.Errorf("FillColor(x) = %q, %v; want unset", c, ok)
	}
	if err := d.SetFillColor("x", ColorHighlight); err != nil {
		t.Fatalf("SetFillColor error: %v", err)
	}
	if err := d.SetFillColor("x", ColorDefault); err != nil {
		t.Fatalf("SetFillColor error: %v", err)
	}
	if c, _ := d.FillColor("x"); c != ColorDefault {
		t.Errorf("FillColor(x) = %q, want %q", c, ColorDefault)
	}
	if !strings.Contains(d.ToDOT(), "fillcolor=grey") {
		t.Error("ToDOT() missing fill color")
	}

	if err := d.SetFillColor("weight", ColorHighlight); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("SetFillColor(filtered) = %v, want ErrUnknownNode", err)
	}
	if err := d.SetFillColor("x", Color("chartreuse; bad")); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("SetFillColor(invalid) = %v, want ErrInvalidColor", err)
	}
}

func TestFmtLabel(t *testing.T) {
	n := dag.Node{ID: "add", Op: dag.OpCallFunction, Target: "operator.add", Meta: dag.Metadata{"dtype": "f32"}}

	if got := fmtLabel(n, false); got != "add\noperator.add" {
		t.Errorf("fmtLabel() simple = %q", got)
	}
	got := fmtLabel(n, true)
	if !strings.Contains(got, "op: call_function") || !strings.Contains(got, "dtype: f32") {
		t.Errorf("fmtLabel() detailed = %q", got)
	}
}

func TestRenderer_Snapshot(t *testing.T) {
	if _, err := (Renderer{}).Snapshot(nil, "x"); !errors.Is(err, ErrNilSource) {
		t.Errorf("Snapshot(nil) = %v, want ErrNilSource", err)
	}
	d, err := (Renderer{}).Snapshot(sampleGraph(t), "fuse_ops")
	if err != nil {
		t.Fatal(err)
	}
	if d.Label() != "fuse_ops" {
		t.Errorf("Label() = %q", d.Label())
	}
	if !strings.Contains(d.ToDOT(), `label="fuse_ops"`) {
		t.Error("ToDOT() missing graph label")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{"PNG", FormatPNG, false},
		{"gv", FormatDOT, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeViewBox([]byte(tt.svg)); string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDiagramRender(t *testing.T) {
	d := NewDiagram(sampleGraph(t), "pass", Options{})
	_ = d.SetFillColor("matmul", ColorHighlight)

	dot, err := d.Render(context.Background(), FormatDOT)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "digraph G {") {
		t.Errorf("DOT output = %q", dot)
	}

	svg, err := d.Render(context.Background(), FormatSVG)
	if err != nil {
		t.Fatalf("Render(svg) error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("Render(svg) output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
