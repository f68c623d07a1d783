package localstore

import "testing"

func TestGetMissingKey(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	payload, found, err := s.Get("notes")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found {
		t.Error("expected missing key")
	}
	if payload != "" {
		t.Errorf("expected empty payload, got %q", payload)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	if err := s.Set("notes", `[{"id":"n1"}]`); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	payload, found, err := s.Get("notes")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !found {
		t.Fatal("expected key to exist")
	}
	if payload != `[{"id":"n1"}]` {
		t.Errorf("unexpected payload: %q", payload)
	}
}

func TestSetOverwrites(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	s.Set("folders", "old")
	if err := s.Set("folders", "new"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	payload, _, _ := s.Get("folders")
	if payload != "new" {
		t.Errorf("expected last write to win, got %q", payload)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	s.Set("notes", "n")
	s.Set("folders", "f")

	notes, _, _ := s.Get("notes")
	folders, _, _ := s.Get("folders")
	if notes != "n" || folders != "f" {
		t.Errorf("collections leaked into each other: notes=%q folders=%q", notes, folders)
	}
}
