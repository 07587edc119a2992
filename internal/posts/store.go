package posts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no post file exists for a filename.
	ErrNotFound = errors.New("post not found")

	// ErrExists is returned by Create when a post with the derived filename
	// already exists. Creation never silently overwrites.
	ErrExists = errors.New("post already exists")
)

// Store is the filesystem-backed content store. The filename doubles as the
// post's identifier; files are written whole via a temp file and rename so a
// concurrent reader never observes a partial write.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create posts dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// validFilename rejects names that could escape the posts directory or that
// do not carry the post suffix. Invalid names behave as absent posts.
func validFilename(filename string) bool {
	if filename == "" || !strings.HasSuffix(filename, Suffix) {
		return false
	}
	if strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		return false
	}
	return true
}

// List returns all posts newest-first by file modification time. Individual
// files that cannot be read are skipped rather than failing the listing.
func (s *Store) List(ctx context.Context) ([]Post, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read posts dir: %w", err)
	}

	var out []Post
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Suffix) {
			continue
		}
		p, err := s.Get(ctx, e.Name())
		if err != nil {
			continue
		}
		out = append(out, *p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ModTime.After(out[j].ModTime)
	})
	return out, nil
}

// Get returns the post stored under filename, or ErrNotFound.
func (s *Store) Get(ctx context.Context, filename string) (*Post, error) {
	if !validFilename(filename) {
		return nil, ErrNotFound
	}

	path := filepath.Join(s.dir, filename)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read post %s: %w", filename, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat post %s: %w", filename, err)
	}

	p := Parse(filename, data)
	p.ModTime = info.ModTime()
	return &p, nil
}

// Create derives the filename from title and writes a new post file. Returns
// ErrExists when a post with that filename is already present.
func (s *Store) Create(ctx context.Context, title, author, body string) (string, error) {
	filename := Filename(title)
	path := filepath.Join(s.dir, filename)

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrExists, filename)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat post %s: %w", filename, err)
	}

	if err := s.write(filename, Marshal(author, title, body)); err != nil {
		return "", err
	}
	return filename, nil
}

// Update rewrites the post under filename with new content. When the new
// title derives a different filename the post is re-identified: the new file
// is written first, then the old one removed, so a reader sees at worst both
// briefly rather than neither. Returns the final filename.
func (s *Store) Update(ctx context.Context, filename, title, author, body string) (string, error) {
	if !validFilename(filename) {
		return "", ErrNotFound
	}
	if _, err := os.Stat(filepath.Join(s.dir, filename)); errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	} else if err != nil {
		return "", fmt.Errorf("stat post %s: %w", filename, err)
	}

	newFilename := Filename(title)
	if err := s.write(newFilename, Marshal(author, title, body)); err != nil {
		return "", err
	}

	if newFilename != filename {
		if err := os.Remove(filepath.Join(s.dir, filename)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("remove old post %s: %w", filename, err)
		}
	}
	return newFilename, nil
}

// Delete removes the post file, or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, filename string) error {
	if !validFilename(filename) {
		return ErrNotFound
	}
	err := os.Remove(filepath.Join(s.dir, filename))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("remove post %s: %w", filename, err)
	}
	return nil
}

// write lands data under filename atomically: the bytes go to a uniquely
// named temp file in the same directory, which is then renamed over the
// target. Rename within one directory is atomic on POSIX filesystems.
func (s *Store) write(filename string, data []byte) error {
	tmp := filepath.Join(s.dir, "."+filename+"."+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write post %s: %w", filename, err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, filename)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace post %s: %w", filename, err)
	}
	return nil
}
