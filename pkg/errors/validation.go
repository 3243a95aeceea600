package errors

import (
	"regexp"
	"strings"
)

// maxNameLength bounds pass and artifact names, which end up in file names.
const maxNameLength = 200

// passNameRegex matches the characters a pass name may contribute to an
// artifact name.
var passNameRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidatePassName validates a pass name for use in artifact file names.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No path separators or traversal sequences
//   - Only letters, digits, '.', '_' and '-'
//   - Maximum length of 200 characters
//
// Any name that passes yields artifact names ValidateArtifactName accepts.
func ValidatePassName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "pass name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "pass name too long (max %d characters)", maxNameLength)
	}

	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "pass name cannot contain path components: %q", name)
	}

	if !passNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "pass name contains invalid characters: %q", name)
	}

	return nil
}

// artifactNameRegex matches the plain file names sinks store.
var artifactNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateArtifactName validates a stored artifact name requested by a
// client. It must be a simple basename without path components.
func ValidateArtifactName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "artifact name cannot be empty")
	}

	if len(name) > maxNameLength+32 {
		return New(ErrCodeInvalidPath, "artifact name too long")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidPath, "artifact name cannot contain path traversal sequences (..)")
	}

	if !artifactNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPath, "invalid artifact name: %q", name)
	}

	return nil
}
