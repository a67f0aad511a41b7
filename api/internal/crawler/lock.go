package crawler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const LockFile = ".crawler.lock"

var ErrLocked = errors.New("another crawl holds the cache directory")

// Lock берёт эксклюзивную блокировку каталога кэша. Два прогона над одним
// кэшем не совместимы, поэтому второй сразу получает ErrLocked.
// Работает с диском напрямую, а не через Options.Fs: flock нужен настоящий путь.
func Lock(cacheDir string) (unlock func() error, err error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("lock mkdir %s: %w", cacheDir, err)
	}
	fl := flock.New(filepath.Join(cacheDir, LockFile))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", fl.Path(), err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, fl.Path())
	}
	return fl.Unlock, nil
}
