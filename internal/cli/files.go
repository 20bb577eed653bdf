package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/flashtrack/pkg/config"
	"github.com/matzehuels/flashtrack/pkg/course"
	"github.com/matzehuels/flashtrack/pkg/editor"
	errs "github.com/matzehuels/flashtrack/pkg/errors"
	ftio "github.com/matzehuels/flashtrack/pkg/io"
)

// isXML reports whether path uses the legacy XML layout.
func isXML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}

// readCourse reads a course file, choosing the decoder by extension.
func readCourse(path string) (ftio.File, error) {
	if isXML(path) {
		return ftio.ImportLegacyXML(path)
	}
	return ftio.ImportJSON(path)
}

// writeCourse writes f to path, choosing the encoder by extension.
// A path of "-" writes JSON to stdout.
func writeCourse(f ftio.File, path string) error {
	if path == "-" {
		return ftio.WriteJSON(f, os.Stdout)
	}
	if !isXML(path) {
		return ftio.ExportJSON(f, path)
	}

	var buf bytes.Buffer
	if err := ftio.WriteLegacyXML(f, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// openEditor reads path and wraps the course in an editor configured from cfg.
func openEditor(cfg *config.Config, path string) (*editor.Editor, ftio.File, error) {
	f, err := readCourse(path)
	if err != nil {
		return nil, ftio.File{}, err
	}
	crs, err := f.Build(cfg.CourseOptions())
	if err != nil {
		return nil, ftio.File{}, err
	}
	return editor.New(crs), f, nil
}

// nameFromPath derives a course name from a file name.
func nameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// withCourse returns f holding a snapshot of crs.
func withCourse(f ftio.File, crs *course.Course) ftio.File {
	f.Course = crs.Export()
	return f
}

// userError strips the code prefix for display.
func userError(err error) string {
	if code := errs.GetCode(err); code != "" {
		return fmt.Sprintf("%s (%s)", errs.UserMessage(err), code)
	}
	return err.Error()
}
