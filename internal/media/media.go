// Package media stores uploaded files (profile photos) on the local
// filesystem and maps them to public URLs.
//
// Files live under a single media root, addressed by paths relative to it
// ("profile_pictures/<xid>.png"). The database stores only the relative
// path; the HTTP server mounts the root at /media/, so the public URL is
// always URLPrefix + relative path. Moving the root (new disk, new mount)
// therefore needs no data migration.
package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/xid"
)

// URLPrefix is where the HTTP server mounts the media root.
const URLPrefix = "/media/"

// photoDir is the subdirectory for profile photos, mirrored in the stored
// relative paths.
const photoDir = "profile_pictures"

// Store reads and writes files under a single root directory.
type Store struct {
	root string
}

// NewStore creates the media root (and the photo subdirectory) if needed.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, photoDir), 0o755); err != nil {
		return nil, fmt.Errorf("media: creating media root: %w", err)
	}
	return &Store{root: root}, nil
}

// SavePhoto streams an uploaded photo to disk under a fresh random name with
// the given extension. Callers derive the extension from the validated image
// type, never from the client-supplied filename: the extension decides the
// Content-Type the file is later served with from /media/. Returns the
// relative path to store in the database.
func (s *Store) SavePhoto(ext string, r io.Reader) (string, error) {
	rel := filepath.Join(photoDir, xid.New().String()+ext)

	f, err := os.Create(filepath.Join(s.root, rel))
	if err != nil {
		return "", fmt.Errorf("media: creating photo file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		// Don't leave a truncated file behind.
		os.Remove(f.Name())
		return "", fmt.Errorf("media: writing photo: %w", err)
	}

	return filepath.ToSlash(rel), nil
}

// CopyDefaultPhoto copies the bundled default avatar into the media root for
// the given user. Used by the provisioner so new accounts start with a
// picture instead of a broken image. Returns the relative path.
func (s *Store) CopyDefaultPhoto(defaultPath, userID string) (string, error) {
	src, err := os.Open(defaultPath)
	if err != nil {
		return "", fmt.Errorf("media: opening default photo: %w", err)
	}
	defer src.Close()

	rel := filepath.Join(photoDir, userID+strings.ToLower(filepath.Ext(defaultPath)))
	dst, err := os.Create(filepath.Join(s.root, rel))
	if err != nil {
		return "", fmt.Errorf("media: creating default photo copy: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("media: copying default photo: %w", err)
	}

	return filepath.ToSlash(rel), nil
}

// Root returns the media root directory, for mounting the file server.
func (s *Store) Root() string {
	return s.root
}

// URL maps a stored relative path to its public URL. Empty path (no photo)
// maps to an empty URL.
func (s *Store) URL(relPath string) string {
	if relPath == "" {
		return ""
	}
	return URLPrefix + relPath
}
