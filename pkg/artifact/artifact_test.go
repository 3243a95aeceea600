package artifact

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestName(t *testing.T) {
	got := Name(1, "fuse_ops", KindInput, "svg")
	if got != "pass_1_fuse_ops_input_graph.svg" {
		t.Errorf("Name() = %q", got)
	}
	got = Name(2, "dce", KindOutput, "svg")
	if got != "pass_2_dce_output_graph.svg" {
		t.Errorf("Name() = %q", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		want   Info
		wantOK bool
	}{
		{
			name:   "pass_1_fuse_ops_input_graph.svg",
			want:   Info{Name: "pass_1_fuse_ops_input_graph.svg", Sequence: 1, Pass: "fuse_ops", Kind: KindInput, Ext: "svg"},
			wantOK: true,
		},
		{
			name:   "pass_12_remove_input_graph_output_graph.png",
			want:   Info{Name: "pass_12_remove_input_graph_output_graph.png", Sequence: 12, Pass: "remove_input_graph", Kind: KindOutput, Ext: "png"},
			wantOK: true,
		},
		{name: "notes.txt"},
		{name: "pass_x_dce_input_graph.svg"},
		{name: "pass_1_dce_middle_graph.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("Parse() ok = %v, want %v", ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGroup(t *testing.T) {
	names := []string{
		"pass_2_dce_output_graph.svg",
		"README.md",
		"pass_1_fuse_ops_output_graph.svg",
		"pass_2_dce_input_graph.svg",
		"pass_1_fuse_ops_input_graph.svg",
		"pass_10_cse_input_graph.svg",
	}

	want := []Pass{
		{Sequence: 1, Name: "fuse_ops", Input: "pass_1_fuse_ops_input_graph.svg", Output: "pass_1_fuse_ops_output_graph.svg"},
		{Sequence: 2, Name: "dce", Input: "pass_2_dce_input_graph.svg", Output: "pass_2_dce_output_graph.svg"},
		{Sequence: 10, Name: "cse", Input: "pass_10_cse_input_graph.svg"},
	}
	got := Group(names)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Group() mismatch (-want +got):\n%s", diff)
	}
	if !got[0].Complete() || got[2].Complete() {
		t.Error("Complete() mismatch")
	}
}
