// Package subject describes exam subjects and the rules that decide which
// normalized tasks of a subject go to the output file.
package subject

import (
	"fmt"
	"strings"

	"task-crawler/api/internal/task"
	"task-crawler/api/internal/util"
)

// Rule - одно условие отбора. Name попадает в логи и в `crawler subjects`.
type Rule struct {
	Name string
	Test func(task.Task) bool
}

// HasOptions - у задания есть хотя бы один вариант ответа.
func HasOptions() Rule {
	return Rule{Name: "has_options", Test: func(t task.Task) bool { return len(t.Options) > 0 }}
}

// OptionCount - ровно n вариантов ответа.
func OptionCount(n int) Rule {
	return Rule{
		Name: fmt.Sprintf("option_count=%d", n),
		Test: func(t task.Task) bool { return len(t.Options) == n },
	}
}

// TypeIs - задание указанного типа.
func TypeIs(typeID int) Rule {
	return Rule{
		Name: fmt.Sprintf("type=%d", typeID),
		Test: func(t task.Task) bool { return t.TypeID == typeID },
	}
}

// MaxTextLen - текст не длиннее n символов.
func MaxTextLen(n int) Rule {
	return Rule{
		Name: fmt.Sprintf("text_len<=%d", n),
		Test: func(t task.Task) bool { return util.RuneLen(t.Text) <= n },
	}
}

// TextExcludes - в тексте нет подстроки s (например "=" у заданий с формулами).
func TextExcludes(s string) Rule {
	return Rule{
		Name: fmt.Sprintf("text_excludes=%q", s),
		Test: func(t task.Task) bool { return !strings.Contains(t.Text, s) },
	}
}

// NoRequirementPrefix - ни одно требование не начинается с prefix
// (исключение раздела программы).
func NoRequirementPrefix(prefix string) Rule {
	return Rule{
		Name: fmt.Sprintf("no_requirement_prefix=%q", prefix),
		Test: func(t task.Task) bool {
			for _, r := range t.RequirementNames {
				if strings.HasPrefix(strings.TrimSpace(r), prefix) {
					return false
				}
			}
			return true
		},
	}
}

// NoDoc - у задания нет сопроводительного текста.
func NoDoc() Rule {
	return Rule{Name: "no_doc", Test: func(t task.Task) bool { return t.Doc == nil }}
}

// Policy - набор правил, объединённых через AND. Пустая политика
// принимает всё.
type Policy struct {
	Rules []Rule
}

func NewPolicy(rules ...Rule) Policy { return Policy{Rules: rules} }

func (p Policy) Accepts(t task.Task) bool {
	_, ok := p.Check(t)
	return ok
}

// Check возвращает имя первого не выполненного правила.
func (p Policy) Check(t task.Task) (string, bool) {
	for _, r := range p.Rules {
		if !r.Test(t) {
			return r.Name, false
		}
	}
	return "", true
}

// Filter оставляет принятые задания в исходном порядке и считает
// отказы по правилам.
func (p Policy) Filter(tasks []task.Task) ([]task.Task, map[string]int) {
	accepted := make([]task.Task, 0, len(tasks))
	rejected := map[string]int{}
	for _, t := range tasks {
		if rule, ok := p.Check(t); !ok {
			rejected[rule]++
			continue
		}
		accepted = append(accepted, t)
	}
	return accepted, rejected
}

func (p Policy) String() string {
	if len(p.Rules) == 0 {
		return "accept all"
	}
	names := make([]string, 0, len(p.Rules))
	for _, r := range p.Rules {
		names = append(names, r.Name)
	}
	return strings.Join(names, " && ")
}
