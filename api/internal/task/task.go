// Package task holds the normalized representation of one exam task and the
// conversion from the raw API record into it.
package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRecord = errors.New("invalid task record")

// Raw - запись задания в том виде, в котором её отдаёт API (и хранит кэш).
type Raw struct {
	ID               int      `json:"id"`
	SubjectID        int      `json:"subjectId"`
	LevelID          int      `json:"levelId"`
	LevelName        string   `json:"levelName"`
	Answer           string   `json:"answer"`
	ThemeNames       []string `json:"themeNames"`
	RequirementNames []string `json:"requirementNames"`
	ImgURL           *string  `json:"imgUrl"`
	TaskTypeID       int      `json:"taskTypeId"`
	TaskTypeName     string   `json:"taskTypeName"`
	TaskText         string   `json:"taskText"`
	TaskTitle        string   `json:"taskTitle"`
	TaskVersion      int      `json:"taskVersion"`
	HTML             string   `json:"html"`
	DocHTML          *string  `json:"docHtml"`
}

// Task - нормализованное задание. Значение не меняется после New:
// копии разделяют Options/Themes/Requirements, их нельзя модифицировать.
type Task struct {
	ID        int
	SubjectID int
	TypeID    int
	TypeName  string

	LevelID          int
	LevelName        string
	ThemeNames       []string
	RequirementNames []string

	Text    string
	Title   string
	Answer  string
	Options map[string]string
	Doc     *string
	ImgURL  *string
	Version int
}

// New строит Task из сырой записи, прогоняя HTML-поля через нормализатор.
func New(raw Raw, n *Normalizer) (Task, error) {
	if raw.ID <= 0 {
		return Task{}, fmt.Errorf("%w: id=%d", ErrInvalidRecord, raw.ID)
	}
	if n == nil {
		n = NewNormalizer(true)
	}
	return Task{
		ID:               raw.ID,
		SubjectID:        raw.SubjectID,
		TypeID:           raw.TaskTypeID,
		TypeName:         strings.TrimSpace(raw.TaskTypeName),
		LevelID:          raw.LevelID,
		LevelName:        strings.TrimSpace(raw.LevelName),
		ThemeNames:       nonNil(raw.ThemeNames),
		RequirementNames: nonNil(raw.RequirementNames),
		Text:             n.Normalize(raw.TaskText),
		Title:            strings.TrimSpace(raw.TaskTitle),
		Answer:           strings.TrimSpace(raw.Answer),
		Options:          n.ExtractOptions(raw.HTML),
		Doc:              n.Doc(raw.DocHTML),
		ImgURL:           raw.ImgURL,
		Version:          raw.TaskVersion,
	}, nil
}

// FromJSON разбирает одну сырую запись и строит по ней Task.
func FromJSON(data []byte, n *Normalizer) (Task, error) {
	var raw Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return Task{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return New(raw, n)
}

// FromJSONList строит задания из списка сырых записей, сохраняя порядок.
func FromJSONList(records []json.RawMessage, n *Normalizer) ([]Task, error) {
	tasks := make([]Task, 0, len(records))
	for i, rec := range records {
		t, err := FromJSON(rec, n)
		if err != nil {
			return nil, fmt.Errorf("record #%d: %w", i, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
