package cli

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/flashtrack/pkg/config"
	ftio "github.com/matzehuels/flashtrack/pkg/io"
)

func TestIsXML(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"course.xml", true},
		{"COURSE.XML", true},
		{"course.json", false},
		{"course", false},
	}
	for _, tt := range tests {
		if got := isXML(tt.path); got != tt.want {
			t.Errorf("isXML(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestNameFromPath(t *testing.T) {
	if got := nameFromPath("/tmp/courses/hairpin.json"); got != "hairpin" {
		t.Errorf("nameFromPath = %q", got)
	}
}

func TestWriteReadCourse(t *testing.T) {
	cfg := config.Default()
	crs := cfg.NewCourse()
	a := crs.AddNode(crs.Start())
	b := crs.AddNode(crs.Finish())
	if _, err := crs.Connect(a, b); err != nil {
		t.Fatal(err)
	}
	want := ftio.NewFile("line", crs)

	for _, ext := range []string{".json", ".xml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "line"+ext)
			if err := writeCourse(want, path); err != nil {
				t.Fatal(err)
			}
			ed, got, err := openEditor(cfg, path)
			if err != nil {
				t.Fatal(err)
			}
			if got.Name != "line" || ed.Course().EdgeCount() != 1 {
				t.Errorf("read back %q with %d edges", got.Name, ed.Course().EdgeCount())
			}
		})
	}
}
