package errors

import (
	"testing"
)

func TestValidatePassName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "dce", false},
		{"valid with underscore", "fuse_ops", false},
		{"valid with dash and dot", "remove-dead.v2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"traversal", "..", true},
		{"space", "fuse ops", true},
		{"newline", "fuse\nops", true},
		{"null byte", "fuse\x00ops", true},
		{"plus", "fuse+relu", true},
		{"colon", "inline:mm", true},
		{"hash", "dce#2", true},
		{"non-ascii", "fusé", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidatePassName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidPassNamesYieldValidArtifactNames(t *testing.T) {
	for _, pass := range []string{"dce", "fuse_ops", "remove-dead.v2", "-x", ".hidden", "9"} {
		t.Run(pass, func(t *testing.T) {
			if err := ValidatePassName(pass); err != nil {
				t.Fatalf("ValidatePassName(%q) = %v", pass, err)
			}
			name := "pass_1_" + pass + "_input_graph.svg"
			if err := ValidateArtifactName(name); err != nil {
				t.Errorf("ValidateArtifactName(%q) = %v", name, err)
			}
		})
	}
}

func TestValidateArtifactName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"input graph", "pass_1_fuse_ops_input_graph.svg", false},
		{"output graph", "pass_12_dce_output_graph.png", false},

		{"empty", "", true},
		{"with path", "dir/pass_1_x_input_graph.svg", true},
		{"traversal", "..pass", true},
		{"hidden", ".secret", true},
		{"backslash", "a\\b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArtifactName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateArtifactName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
