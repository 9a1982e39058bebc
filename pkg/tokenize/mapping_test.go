package tokenize

import "testing"

func TestMappingBidirectionalLookup(t *testing.T) {
	m := NewMapping()
	m.Insert("tok-1", "alice")
	m.Insert("tok-2", "bob")

	token, ok := m.Token("alice")
	if !ok || token != "tok-1" {
		t.Fatalf("expected reverse lookup to return tok-1, got %q (ok=%v)", token, ok)
	}

	value, ok := m.Value("tok-2")
	if !ok || value != "bob" {
		t.Fatalf("expected value lookup to return bob, got %q (ok=%v)", value, ok)
	}

	if m.HasToken("tok-3") {
		t.Fatal("expected tok-3 to be absent")
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.Len())
	}
}

func TestMappingEntriesPreserveInsertionOrder(t *testing.T) {
	m := NewMapping()
	m.Insert("3", "c")
	m.Insert("1", "a")
	m.Insert("2", "b")

	entries := m.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"3", "1", "2"}
	for i, entry := range entries {
		if entry.Token != want[i] {
			t.Fatalf("entry %d: expected token %q, got %q", i, want[i], entry.Token)
		}
	}
}

func TestMappingReinsertDoesNotDuplicateOrder(t *testing.T) {
	m := NewMapping()
	m.Insert("tok", "first")
	m.Insert("tok", "second")

	if m.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", m.Len())
	}
	entries := m.Entries()
	if len(entries) != 1 || entries[0].Value != "second" {
		t.Fatalf("expected single entry with overwritten value, got %v", entries)
	}
}
