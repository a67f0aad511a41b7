package subject

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"task-crawler/api/internal/task"
)

var ErrUnknownSubject = errors.New("unknown subject")

const (
	RussianID      = 1
	MathAdvancedID = 2
	HistoryID      = 7
)

// Subject - предмет вместе с файлами и правилами отбора.
type Subject struct {
	ID         int
	Key        string
	Name       string
	CacheFile  string
	OutputFile string
	Policy     Policy
	TypeFormat task.TypeFormat
}

// DefaultPolicy применяется к заданиям предметов, которых нет в реестре.
var DefaultPolicy = NewPolicy(HasOptions())

// Defaults - предметы fipi. Кэш и выход одного предмета используют одно
// имя файла в разных каталогах.
func Defaults() []Subject {
	return []Subject{
		{
			ID:         RussianID,
			Key:        "russian",
			Name:       "Русский язык",
			CacheFile:  "tasks_subject_russian.json",
			OutputFile: "tasks_subject_russian.json",
			Policy:     NewPolicy(HasOptions()),
		},
		{
			ID:         HistoryID,
			Key:        "history",
			Name:       "История",
			CacheFile:  "tasks_subject_history.json",
			OutputFile: "tasks_subject_history.json",
			Policy:     NewPolicy(HasOptions()),
		},
		{
			ID:         MathAdvancedID,
			Key:        "math",
			Name:       "Математика. Профильный уровень",
			CacheFile:  "tasks_subject_math_advanced.json",
			OutputFile: "tasks_subject_math_advanced.json",
			Policy: NewPolicy(
				HasOptions(),
				OptionCount(4),
				MaxTextLen(500),
				TextExcludes("="),
				NoRequirementPrefix("2.4"),
			),
		},
	}
}

// Registry - предметы по id и по ключу, в порядке регистрации.
type Registry struct {
	ordered []Subject
	byID    map[int]Subject
	byKey   map[string]Subject
}

func NewRegistry(subjects ...Subject) (*Registry, error) {
	r := &Registry{byID: map[int]Subject{}, byKey: map[string]Subject{}}
	for _, s := range subjects {
		if s.ID <= 0 || s.Key == "" || s.CacheFile == "" || s.OutputFile == "" {
			return nil, fmt.Errorf("subject %q: id, key and file names are required", s.Key)
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("subject id %d registered twice", s.ID)
		}
		key := strings.ToLower(s.Key)
		if _, dup := r.byKey[key]; dup {
			return nil, fmt.Errorf("subject key %q registered twice", s.Key)
		}
		if s.TypeFormat == "" {
			s.TypeFormat = task.TypeFormatID
		}
		if !s.TypeFormat.Valid() {
			return nil, fmt.Errorf("subject %q: bad type format %q", s.Key, s.TypeFormat)
		}
		r.ordered = append(r.ordered, s)
		r.byID[s.ID] = s
		r.byKey[key] = s
	}
	return r, nil
}

// DefaultRegistry - реестр из Defaults с общим форматом поля type.
func DefaultRegistry(format task.TypeFormat) (*Registry, error) {
	subjects := Defaults()
	for i := range subjects {
		subjects[i].TypeFormat = format
	}
	return NewRegistry(subjects...)
}

func (r *Registry) All() []Subject {
	return append([]Subject(nil), r.ordered...)
}

// Lookup ищет предмет по ключу ("russian") или по числовому id ("1").
func (r *Registry) Lookup(ref string) (Subject, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if s, ok := r.byKey[ref]; ok {
		return s, nil
	}
	if id, err := strconv.Atoi(ref); err == nil {
		if s, ok := r.byID[id]; ok {
			return s, nil
		}
	}
	return Subject{}, fmt.Errorf("%w: %q", ErrUnknownSubject, ref)
}

// Select разрешает список ссылок на предметы; пустой список - все предметы.
// Порядок результата - порядок регистрации, повторы схлопываются.
func (r *Registry) Select(refs []string) ([]Subject, error) {
	if len(refs) == 0 {
		return r.All(), nil
	}
	want := map[int]bool{}
	for _, ref := range refs {
		s, err := r.Lookup(ref)
		if err != nil {
			return nil, err
		}
		want[s.ID] = true
	}
	out := make([]Subject, 0, len(want))
	for _, s := range r.ordered {
		if want[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}

// PolicyFor - политика предмета, DefaultPolicy для незнакомых.
func (r *Registry) PolicyFor(subjectID int) Policy {
	if s, ok := r.byID[subjectID]; ok {
		return s.Policy
	}
	return DefaultPolicy
}

// Accepts проверяет задание правилами его собственного предмета.
func (r *Registry) Accepts(t task.Task) bool {
	return r.PolicyFor(t.SubjectID).Accepts(t)
}
