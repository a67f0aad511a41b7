// Package output writes per-subject result files and reads them back for
// publishing.
package output

import (
	"encoding/json"
	"fmt"

	"task-crawler/api/internal/logger"
	"task-crawler/api/internal/store"
	"task-crawler/api/internal/task"
	"task-crawler/api/internal/util"
)

// Document - содержимое выходного файла.
type Document struct {
	Tasks []task.Entry `json:"tasks"`
}

type Writer struct {
	store  store.Store
	format task.TypeFormat
	log    logger.Logger
}

func NewWriter(s store.Store, format task.TypeFormat, log logger.Logger) *Writer {
	if format == "" {
		format = task.TypeFormatID
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Writer{store: s, format: format, log: log}
}

// WithFormat - тот же writer с другим форматом поля type.
func (w *Writer) WithFormat(format task.TypeFormat) *Writer {
	cp := *w
	if format != "" {
		cp.format = format
	}
	return &cp
}

// Write сериализует задания в порядке следования и перезаписывает файл name
// целиком. sendAsPoll считается здесь же, из самих заданий.
func (w *Writer) Write(tasks []task.Task, name string) error {
	doc := Document{Tasks: make([]task.Entry, 0, len(tasks))}
	for _, t := range tasks {
		doc.Tasks = append(doc.Tasks, task.ToEntry(t, w.format))
	}
	data, err := util.MarshalPretty(doc)
	if err != nil {
		return fmt.Errorf("output encode %s: %w", name, err)
	}
	if err := w.store.Write(name, data); err != nil {
		return fmt.Errorf("output write %s: %w", name, err)
	}
	w.log.Info("tasks saved", "file", name, "count", len(tasks))
	return nil
}

// Read читает ранее записанный файл.
func Read(s store.Store, name string) (Document, error) {
	data, err := s.Read(name)
	if err != nil {
		return Document{}, fmt.Errorf("output read %s: %w", name, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w %s: %v", store.ErrMalformed, name, err)
	}
	return doc, nil
}
