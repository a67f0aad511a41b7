// Package store keeps named JSON blobs (cache entries and output files)
// in a directory of some afero filesystem.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// Store - то, что пайплайну нужно от хранилища кэша.
type Store interface {
	Exists(name string) (bool, error)
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
}

// FileStore хранит каждый ресурс отдельным файлом в Dir.
type FileStore struct {
	fs  afero.Fs
	dir string
}

func NewFileStore(fs afero.Fs, dir string) *FileStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileStore{fs: fs, dir: dir}
}

func (s *FileStore) Dir() string { return s.dir }

// Path - полный путь ресурса (для логов).
func (s *FileStore) Path(name string) string { return filepath.Join(s.dir, name) }

func (s *FileStore) Exists(name string) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	return afero.Exists(s.fs, s.Path(name))
}

func (s *FileStore) Read(name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return afero.ReadFile(s.fs, s.Path(name))
}

// Write перезаписывает ресурс целиком: пишет во временный файл рядом
// и переименовывает его, чтобы упавший процесс не оставил половину файла.
func (s *FileStore) Write(name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := s.fs.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("store mkdir %s: %w", s.dir, err)
	}
	tmp, err := afero.TempFile(s.fs, s.dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("store temp %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("store write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("store close %s: %w", name, err)
	}
	_ = s.fs.Chmod(tmpName, filePerm)
	if err := s.fs.Rename(tmpName, s.Path(name)); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("store rename %s: %w", name, err)
	}
	return nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("store: bad resource name %q", name)
	}
	return nil
}
