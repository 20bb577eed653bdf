package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxCourseNameLength bounds stored course names.
const maxCourseNameLength = 128

// courseNameRegex matches names safe to use as file names and storage keys.
var courseNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _.-]*$`)

// ValidateCourseName validates a course name before it is used as a storage
// key or file name. It rejects names that could be used for path traversal.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateCourseName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "course name cannot be empty")
	}

	if len(name) > maxCourseNameLength {
		return New(ErrCodeInvalidName, "course name too long (max %d characters)", maxCourseNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "course name contains invalid control characters")
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "course name cannot contain path traversal sequences (..)")
	}

	if !courseNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid course name: %q", name)
	}

	return nil
}

// courseColors lists the colors the node and edge sprites exist in.
var courseColors = []string{"blue", "green", "orange", "pink", "purple", "red", "yellow"}

// ValidateColor validates a course color name.
func ValidateColor(color string) error {
	for _, c := range courseColors {
		if c == color {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "unknown course color %q (want one of %s)", color, strings.Join(courseColors, ", "))
}
