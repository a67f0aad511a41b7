// Package crawler drives one crawl: dictionaries, then every selected
// subject through cache, normalization, filtering and output, one after
// another.
package crawler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"task-crawler/api/internal/logger"
	"task-crawler/api/internal/output"
	"task-crawler/api/internal/store"
	"task-crawler/api/internal/subject"
	"task-crawler/api/internal/task"
)

const DictionariesFile = "dictionaries.json"

// API - источник заданий сайта.
type API interface {
	Dictionaries(ctx context.Context) (json.RawMessage, error)
	Tasks(ctx context.Context, subjectID int) ([]json.RawMessage, error)
}

// Crawler - собранный пайплайн одного сайта.
type Crawler struct {
	api        API
	cache      *store.Cache
	writer     *output.Writer
	normalizer *task.Normalizer
	subjects   []subject.Subject
	force      bool
	log        logger.Logger
}

// Report - итог по предмету.
type Report struct {
	Subject  subject.Subject
	Fetched  int
	Accepted int
	Rejected map[string]int
	Summary  output.Summary
}

// Run проходит все предметы по очереди. Первая ошибка прерывает прогон:
// файлы уже обработанных предметов остаются на месте.
func (c *Crawler) Run(ctx context.Context) ([]Report, error) {
	log := c.log.With("run_id", uuid.NewString())
	log.Info("crawl started", "subjects", len(c.subjects), "force", c.force)

	if _, err := c.cache.Obtain(ctx, DictionariesFile, c.force, func(ctx context.Context) (any, error) {
		return c.api.Dictionaries(ctx)
	}); err != nil {
		return nil, fmt.Errorf("dictionaries: %w", err)
	}

	reports := make([]Report, 0, len(c.subjects))
	for _, s := range c.subjects {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		rep, err := c.runSubject(ctx, s, log.With("subject", s.Key, "subject_id", s.ID))
		if err != nil {
			return reports, fmt.Errorf("subject %s: %w", s.Key, err)
		}
		reports = append(reports, rep)
	}
	log.Info("crawl finished")
	return reports, nil
}

func (c *Crawler) runSubject(ctx context.Context, s subject.Subject, log logger.Logger) (Report, error) {
	data, err := c.cache.Obtain(ctx, s.CacheFile, c.force, func(ctx context.Context) (any, error) {
		raw, err := c.api.Tasks(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		if raw == nil {
			raw = []json.RawMessage{}
		}
		return map[string]any{"tasks": raw}, nil
	})
	if err != nil {
		return Report{}, err
	}

	records, err := cachedTasks(data)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", s.CacheFile, err)
	}
	tasks, err := task.FromJSONList(records, c.normalizer)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", s.CacheFile, err)
	}
	log.Info("tasks loaded", "count", len(tasks))

	accepted, rejected := s.Policy.Filter(tasks)
	log.Info("tasks filtered", "accepted", len(accepted), "rejected", len(tasks)-len(accepted), "policy", s.Policy.String())
	for rule, n := range rejected {
		log.Debug("rejected by rule", "rule", rule, "count", n)
	}

	if err := c.writer.WithFormat(s.TypeFormat).Write(accepted, s.OutputFile); err != nil {
		return Report{}, err
	}
	sum := output.Summarize(accepted)
	log.Info("subject summary", sum.KeyVals()...)

	return Report{
		Subject:  s,
		Fetched:  len(tasks),
		Accepted: len(accepted),
		Rejected: rejected,
		Summary:  sum,
	}, nil
}

// cachedTasks достаёт массив tasks из записи кэша предмета.
func cachedTasks(data []byte) ([]json.RawMessage, error) {
	res := gjson.GetBytes(data, "tasks")
	if !res.IsArray() {
		return nil, fmt.Errorf("%w: no tasks array", store.ErrMalformed)
	}
	items := res.Array()
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		out = append(out, json.RawMessage(item.Raw))
	}
	return out, nil
}
