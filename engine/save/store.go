package save

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Extension is appended to every save file name.
const Extension = ".sgf"

// Store is a directory of save files.
type Store struct {
	Dir string
	Now func() time.Time // for default names; time.Now when nil
}

// Entry describes one save file found by List. Err is set for files that
// could not be decoded; the rest of the listing is unaffected.
type Entry struct {
	Name   string
	Path   string
	Record Record
	Err    error
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// SanitizeName replaces characters that are not allowed in file names with
// underscores. Blank names become a timestamp.
func (st *Store) SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		now := time.Now
		if st.Now != nil {
			now = st.Now
		}
		return now().Format("20060102_150405")
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, name)
}

func (st *Store) ensureDir() error {
	if err := os.MkdirAll(st.Dir, 0o755); err != nil {
		return fmt.Errorf("creating save directory %s: %w", st.Dir, err)
	}
	return nil
}

// Save writes rec under name and returns the file path. The file is written
// to a temporary name first and renamed into place.
func (st *Store) Save(name string, rec Record) (string, error) {
	if err := st.ensureDir(); err != nil {
		return "", err
	}
	path := filepath.Join(st.Dir, st.SanitizeName(name)+Extension)

	tmp, err := os.CreateTemp(st.Dir, ".save-*")
	if err != nil {
		return "", fmt.Errorf("creating save file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := Encode(tmp, rec); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing save file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("writing save file: %w", err)
	}
	return path, nil
}

// Read decodes the save file at path.
func (st *Store) Read(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, err
	}
	defer f.Close()

	rec, err := Decode(f)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rec, nil
}

// List returns every save in the directory, sorted by name. The directory is
// created if it does not exist yet.
func (st *Store) List() ([]Entry, error) {
	if err := st.ensureDir(); err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(st.Dir)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), Extension) {
			continue
		}
		path := filepath.Join(st.Dir, de.Name())
		e := Entry{
			Name: strings.TrimSuffix(de.Name(), Extension),
			Path: path,
		}
		e.Record, e.Err = st.Read(path)
		entries = append(entries, e)
	}
	return entries, nil
}
