package store

import (
	"context"
	"errors"
	"fmt"

	"task-crawler/api/internal/logger"
	"task-crawler/api/internal/util"
)

// ErrMalformed - существующая запись кэша не разбирается как JSON.
// Такой файл не чинится и не удаляется: это решает оператор.
var ErrMalformed = errors.New("malformed cache entry")

// FetchFunc достаёт свежие данные из сети.
type FetchFunc func(ctx context.Context) (any, error)

// Cache решает, отдать ресурс из хранилища или скачать заново.
type Cache struct {
	store Store
	log   logger.Logger
}

func NewCache(s Store, log logger.Logger) *Cache {
	if log == nil {
		log = logger.Nop()
	}
	return &Cache{store: s, log: log}
}

// Obtain возвращает содержимое записи name. Без force и при наличии записи
// сеть не трогается. Иначе вызывается fetch, результат пишется в хранилище
// (отступ в два пробела, не-ASCII как есть) и возвращаются ровно те байты,
// что легли на диск. Ошибка fetch возвращается без обёртки.
func (c *Cache) Obtain(ctx context.Context, name string, force bool, fetch FetchFunc) ([]byte, error) {
	log := c.log.With("resource", name)
	if !force {
		ok, err := c.store.Exists(name)
		if err != nil {
			return nil, fmt.Errorf("cache probe %s: %w", name, err)
		}
		if ok {
			data, err := c.store.Read(name)
			if err != nil {
				return nil, fmt.Errorf("cache read %s: %w", name, err)
			}
			if _, err := util.DecodeGeneric(data); err != nil {
				return nil, fmt.Errorf("%w %s: %v", ErrMalformed, name, err)
			}
			log.Info("loaded from cache")
			return data, nil
		}
	}

	fresh, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	data, err := util.MarshalLiteral(fresh)
	if err != nil {
		return nil, fmt.Errorf("cache encode %s: %w", name, err)
	}
	if err := c.store.Write(name, data); err != nil {
		return nil, fmt.Errorf("cache write %s: %w", name, err)
	}
	log.Info("loaded from site and cached", "force", force, "bytes", len(data))
	return data, nil
}
