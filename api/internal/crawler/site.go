package crawler

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"task-crawler/api/internal/fipi"
	"task-crawler/api/internal/logger"
	"task-crawler/api/internal/output"
	"task-crawler/api/internal/store"
	"task-crawler/api/internal/subject"
	"task-crawler/api/internal/task"
)

const SiteFIPI = "fipi"

var ErrUnknownSite = errors.New("unknown site")

type Options struct {
	// Fs - файловая система для кэша и выхода; nil означает ОС.
	Fs         afero.Fs
	CacheDir   string
	OutputDir  string
	Force      bool
	Subjects   []string
	TypeFormat task.TypeFormat
	// DropEmptyOptions - выбрасывать варианты ответа с пустым текстом.
	DropEmptyOptions bool
	FIPI             fipi.Options
}

// Site собирает краулер для одного сайта.
type Site func(opts Options, log logger.Logger) (*Crawler, error)

var Sites = map[string]Site{
	SiteFIPI: newFIPI,
}

// SiteNames - имена сайтов для справки CLI.
func SiteNames() []string {
	names := make([]string, 0, len(Sites))
	for name := range Sites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New проверяет имя сайта до любой работы с сетью или диском.
func New(site string, opts Options, log logger.Logger) (*Crawler, error) {
	build, ok := Sites[strings.ToLower(strings.TrimSpace(site))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownSite, site, strings.Join(SiteNames(), ", "))
	}
	if log == nil {
		log = logger.Nop()
	}
	return build(opts, log)
}

func newFIPI(opts Options, log logger.Logger) (*Crawler, error) {
	log = log.With("site", SiteFIPI)
	registry, err := subject.DefaultRegistry(opts.TypeFormat)
	if err != nil {
		return nil, err
	}
	subjects, err := registry.Select(opts.Subjects)
	if err != nil {
		return nil, err
	}
	return Assemble(fipi.New(opts.FIPI, log), subjects, opts, log), nil
}

// Assemble связывает готовый источник с кэшем и выходом по opts.
func Assemble(api API, subjects []subject.Subject, opts Options, log logger.Logger) *Crawler {
	if log == nil {
		log = logger.Nop()
	}
	return &Crawler{
		api:        api,
		cache:      store.NewCache(store.NewFileStore(opts.Fs, opts.CacheDir), log),
		writer:     output.NewWriter(store.NewFileStore(opts.Fs, opts.OutputDir), opts.TypeFormat, log),
		normalizer: task.NewNormalizer(opts.DropEmptyOptions),
		subjects:   subjects,
		force:      opts.Force,
		log:        log,
	}
}
