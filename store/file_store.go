package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"

	"github.com/evanharte/todovault/types"
)

const (
	checksumSuffix = ".checksum"
	tempSuffix     = ".tmp"
	lockFileName   = ".lock"
)

// FileStore keeps one file per key under a base directory. Writes go through
// a temp file and rename, with a SHA256 checksum sidecar verified on read.
// When backed by the real filesystem a flock serializes access across
// processes; in-memory backends skip locking.
type FileStore struct {
	fs  afero.Fs
	dir string
	flk *flock.Flock // nil when the backing fs is not the OS filesystem
}

// NewFileStore creates a file-backed blob store rooted at dir on the OS
// filesystem.
func NewFileStore(dir string) (*FileStore, error) {
	s, err := NewFileStoreFs(afero.NewOsFs(), dir)
	if err != nil {
		return nil, err
	}
	s.flk = flock.New(filepath.Join(dir, lockFileName))
	return s, nil
}

// NewFileStoreFs creates a file-backed blob store over an arbitrary afero
// filesystem. No process lock is taken.
func NewFileStoreFs(fsys afero.Fs, dir string) (*FileStore, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory %s: %w", dir, err)
	}
	return &FileStore{fs: fsys, dir: dir}, nil
}

// NewMemoryStore creates a blob store over an in-memory filesystem, intended
// for tests and the "memory" backend.
func NewMemoryStore() *FileStore {
	s, err := NewFileStoreFs(afero.NewMemMapFs(), "/blobs")
	if err != nil {
		// MkdirAll on a fresh MemMapFs cannot fail.
		panic(err)
	}
	return s
}

func (s *FileStore) lock() (func(), error) {
	if s.flk == nil {
		return func() {}, nil
	}
	if err := s.flk.Lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire blob lock: %w", err)
	}
	return func() { _ = s.flk.Unlock() }, nil
}

func (s *FileStore) path(key string) string {
	// Keys are dotted names; keep them out of subdirectories.
	safe := strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(key)
	return filepath.Join(s.dir, safe)
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data) // Write never returns an error
	return hex.EncodeToString(hasher.Sum(nil))
}

// Get reads the blob for key, verifying its checksum sidecar when present.
// A blob written before checksums existed loads without one; the next Put
// recreates it.
func (s *FileStore) Get(key string) ([]byte, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	path := s.path(key)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}

	sumPath := path + checksumSuffix
	expected, err := afero.ReadFile(s.fs, sumPath)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, fmt.Errorf("failed to read checksum for blob %s: %w", key, err)
	}
	actual := calculateChecksum(data)
	if want := strings.TrimSpace(string(expected)); actual != want {
		return nil, fmt.Errorf("checksum mismatch for blob %s: expected %s, got %s", key, want, actual)
	}
	return data, nil
}

// Put atomically replaces the blob for key and its checksum sidecar.
func (s *FileStore) Put(key string, data []byte) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	path := s.path(key)
	sumPath := path + checksumSuffix
	tmp := path + tempSuffix
	tmpSum := sumPath + tempSuffix

	defer func() { _ = s.fs.Remove(tmp) }()
	defer func() { _ = s.fs.Remove(tmpSum) }()

	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary blob %s: %w", key, err)
	}
	if err := afero.WriteFile(s.fs, tmpSum, []byte(calculateChecksum(data)), 0o644); err != nil {
		return fmt.Errorf("failed to write temporary checksum for blob %s: %w", key, err)
	}

	if err := s.renameReplace(tmp, path); err != nil {
		return fmt.Errorf("failed to replace blob %s: %w", key, err)
	}
	if err := s.renameReplace(tmpSum, sumPath); err != nil {
		return fmt.Errorf("blob %s updated but its checksum was not: %w", key, err)
	}
	return nil
}

// renameReplace renames old onto new, clobbering new first on backends whose
// Rename refuses to overwrite (afero's MemMapFs does).
func (s *FileStore) renameReplace(oldPath, newPath string) error {
	err := s.fs.Rename(oldPath, newPath)
	if err == nil {
		return nil
	}
	if rmErr := s.fs.Remove(newPath); rmErr != nil && !os.IsNotExist(rmErr) {
		return err
	}
	return s.fs.Rename(oldPath, newPath)
}

// Delete removes the blob for key, if any, along with its checksum sidecar.
func (s *FileStore) Delete(key string) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	path := s.path(key)
	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	_ = s.fs.Remove(path + checksumSuffix)
	return nil
}

// Keys lists every stored key in directory order.
func (s *FileStore) Keys() ([]string, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list blob directory %s: %w", s.dir, err)
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == lockFileName ||
			strings.HasSuffix(name, checksumSuffix) || strings.HasSuffix(name, tempSuffix) {
			continue
		}
		keys = append(keys, name)
	}
	return keys, nil
}

// Close releases the process lock, if one was taken. Unlock is idempotent.
func (s *FileStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
