// Package assets owns the notice image files. A notice exclusively owns its
// image: replacing or deleting the notice releases the file here.
package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const urlPrefix = "/uploads/"

var ErrNotManaged = errors.New("url is not a managed asset path")

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes the uploaded image under a timestamp-prefixed name and returns
// the public URL it will be served from.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitize(filename))

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return urlPrefix + name, nil
}

func (s *Store) Remove(publicURL string) error {
	name, ok := strings.CutPrefix(publicURL, urlPrefix)
	if !ok || name == "" {
		return ErrNotManaged
	}

	err := os.Remove(filepath.Join(s.dir, path.Base(name)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Sweep removes files that no notice references anymore. A crash between a
// record update and its asset cleanup can orphan a file; this is the catch-up.
func (s *Store) Sweep(referenced []string) (int, error) {
	keep := make(map[string]struct{}, len(referenced))
	for _, url := range referenced {
		if name, ok := strings.CutPrefix(url, urlPrefix); ok {
			keep[path.Base(name)] = struct{}{}
		}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := keep[entry.Name()]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}

func sanitize(filename string) string {
	base := path.Base(filepath.ToSlash(filename))
	return strings.ReplaceAll(base, " ", "_")
}
