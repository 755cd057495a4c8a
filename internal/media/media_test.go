package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestSavePhoto(t *testing.T) {
	store := newTestStore(t)

	rel, err := store.SavePhoto(".png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("SavePhoto() error = %v", err)
	}

	if !strings.HasPrefix(rel, "profile_pictures/") {
		t.Errorf("relative path %q not under profile_pictures/", rel)
	}
	if !strings.HasSuffix(rel, ".png") {
		t.Errorf("relative path %q does not end in .png", rel)
	}

	data, err := os.ReadFile(filepath.Join(store.Root(), rel))
	if err != nil {
		t.Fatalf("reading stored photo: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored content = %q", data)
	}
}

func TestSavePhoto_UniqueNames(t *testing.T) {
	store := newTestStore(t)

	first, err := store.SavePhoto(".png", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("SavePhoto() error = %v", err)
	}
	second, err := store.SavePhoto(".png", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("SavePhoto() error = %v", err)
	}
	if first == second {
		t.Error("two uploads collided on the same path")
	}
}

func TestCopyDefaultPhoto(t *testing.T) {
	store := newTestStore(t)

	defaultPath := filepath.Join(t.TempDir(), "default.jpg")
	if err := os.WriteFile(defaultPath, []byte("jpg-bytes"), 0o644); err != nil {
		t.Fatalf("writing default photo: %v", err)
	}

	rel, err := store.CopyDefaultPhoto(defaultPath, "user123")
	if err != nil {
		t.Fatalf("CopyDefaultPhoto() error = %v", err)
	}
	if rel != "profile_pictures/user123.jpg" {
		t.Errorf("relative path = %q", rel)
	}

	data, err := os.ReadFile(filepath.Join(store.Root(), rel))
	if err != nil {
		t.Fatalf("reading copied photo: %v", err)
	}
	if string(data) != "jpg-bytes" {
		t.Errorf("copied content = %q", data)
	}
}

func TestCopyDefaultPhoto_MissingSource(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.CopyDefaultPhoto("/does/not/exist.png", "user123"); err == nil {
		t.Error("CopyDefaultPhoto() with missing source should fail")
	}
}

func TestURL(t *testing.T) {
	store := newTestStore(t)

	if got := store.URL("profile_pictures/x.png"); got != "/media/profile_pictures/x.png" {
		t.Errorf("URL() = %q", got)
	}
	// No photo stored → no URL, not a dangling prefix.
	if got := store.URL(""); got != "" {
		t.Errorf("URL(\"\") = %q", got)
	}
}
