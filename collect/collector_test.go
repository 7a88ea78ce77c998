package collect

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"thea/lower"
	"thea/pyast"
)

// stubParser produces an empty module for every file; collector tests only
// exercise the walk and the qualified-path discipline
type stubParser struct{}

func (stubParser) ParseFile(path string) (*pyast.Module, error) {
	return &pyast.Module{}, nil
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := ioutil.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCollectDir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"top.py":          "",
		"pkg/__init__.py": "",
		"pkg/mod.py":      "",
		"pkg/sub/deep.py": "",
		"notes.txt":       "",
		"LibCall.py":      "",
	})

	c := NewCollector(stubParser{}, "", lower.Options{IgnoreAssert: true})
	mmap := c.CollectDir(root)

	expected := []string{"pkg", "pkg.mod", "pkg.sub.deep", "top"}
	if !reflect.DeepEqual(mmap.Paths(), expected) {
		t.Errorf("expected %v, got %v", expected, mmap.Paths())
	}

	if _, ok := mmap.Get("LibCall"); ok {
		t.Error("LibCall.py reached the module map")
	}
	if _, ok := mmap.Get("pkg"); !ok {
		t.Error("__init__.py did not collapse to its directory name")
	}
}

func TestCollectDirSkipsVenv(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.py":           "",
		"env/pyvenv.cfg":    "",
		"env/lib/stuff.py":  "",
		"other/ok.py":       "",
		"explicit/skip.py":  "",
		"explicit/inner.py": "",
	})

	c := NewCollector(stubParser{}, filepath.Join(root, "explicit"), lower.Options{})
	mmap := c.CollectDir(root)

	expected := []string{"main", "other.ok"}
	if !reflect.DeepEqual(mmap.Paths(), expected) {
		t.Errorf("expected %v, got %v", expected, mmap.Paths())
	}
}

func TestModuleMapOrderAndOverwrite(t *testing.T) {
	m := NewModuleMap()
	m.Set("b", nil)
	m.Set("a", nil)
	m.Set("b", nil)

	if !reflect.DeepEqual(m.Paths(), []string{"b", "a"}) {
		t.Errorf("insertion order not preserved: %v", m.Paths())
	}
	if m.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", m.Len())
	}
}
