package output

import (
	"sort"

	"task-crawler/api/internal/task"
)

// Уровни сложности в справочнике fipi.
const (
	LevelLow    = 1
	LevelMedium = 2
	LevelHigh   = 3
)

// Summary - сводка по выходному файлу: сколько заданий каждого уровня,
// сколько различных тем и сколько уйдёт опросом.
type Summary struct {
	Total   int
	ByLevel map[int]int
	Themes  []string
	Polls   int
}

func Summarize(tasks []task.Task) Summary {
	s := Summary{Total: len(tasks), ByLevel: map[int]int{}}
	seen := map[string]bool{}
	for _, t := range tasks {
		s.ByLevel[t.LevelID]++
		for _, theme := range t.ThemeNames {
			if theme != "" && !seen[theme] {
				seen[theme] = true
				s.Themes = append(s.Themes, theme)
			}
		}
		if task.SendAsPoll(t) {
			s.Polls++
		}
	}
	sort.Strings(s.Themes)
	return s
}

// KeyVals - пары для логгера.
func (s Summary) KeyVals() []any {
	return []any{
		"total", s.Total,
		"low", s.ByLevel[LevelLow],
		"medium", s.ByLevel[LevelMedium],
		"high", s.ByLevel[LevelHigh],
		"themes", len(s.Themes),
		"polls", s.Polls,
	}
}
