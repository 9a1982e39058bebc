package tokenize

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestMapStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token_map.csv")
	store := NewMapStore(path, quietLogger())

	mapping := NewMapping()
	mapping.Insert("1", "111-22-3333")
	mapping.Insert("2", "444-55-6666")
	mapping.Insert("3", "value, with comma")

	if err := store.Save(mapping); err != nil {
		t.Fatalf("failed to save mapping: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load mapping: %v", err)
	}
	if loaded.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", loaded.Len())
	}
	for i, want := range mapping.Entries() {
		got := loaded.Entries()[i]
		if got != want {
			t.Fatalf("entry %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestMapStoreSkipsMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token_map.csv")
	content := "1,111-22-3333\nbadrow,with,three-fields\n2,444-55-6666\nlonely\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	store := NewMapStore(path, quietLogger())
	mapping, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load mapping: %v", err)
	}

	if mapping.Len() != 2 {
		t.Fatalf("expected malformed rows to be skipped, got %d entries", mapping.Len())
	}
	if mapping.HasToken("badrow") || mapping.HasToken("lonely") {
		t.Fatal("malformed rows must not enter the mapping")
	}
	if v, _ := mapping.Value("1"); v != "111-22-3333" {
		t.Fatalf("well-formed row before malformed one lost: %q", v)
	}
	if v, _ := mapping.Value("2"); v != "444-55-6666" {
		t.Fatalf("well-formed row after malformed one lost: %q", v)
	}
}

func TestMapStoreMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does_not_exist.csv")
	store := NewMapStore(path, quietLogger())

	mapping, err := store.Load()
	if err != nil {
		t.Fatalf("expected missing file to yield empty mapping, got %v", err)
	}
	if mapping.Len() != 0 {
		t.Fatalf("expected empty mapping, got %d entries", mapping.Len())
	}

	_, err = store.LoadStrict()
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
	if notFound.Path != path {
		t.Fatalf("expected path %q in error, got %q", path, notFound.Path)
	}
}

func TestMapStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token_map.csv")
	if err := os.WriteFile(path, []byte("stale,entry\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	store := NewMapStore(path, quietLogger())
	mapping := NewMapping()
	mapping.Insert("fresh", "entry")
	if err := store.Save(mapping); err != nil {
		t.Fatalf("failed to save mapping: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load mapping: %v", err)
	}
	if loaded.HasToken("stale") {
		t.Fatal("save must fully overwrite the previous file")
	}
	if !loaded.HasToken("fresh") {
		t.Fatal("saved entry missing after reload")
	}
}
