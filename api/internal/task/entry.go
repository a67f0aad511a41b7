package task

import (
	"encoding/json"
	"fmt"

	"task-crawler/api/internal/util"
)

// Лимиты канала, для которого считается sendAsPoll.
const (
	PollMaxTextLen   = 255
	PollMaxOptionLen = 100
)

// TypeFormat задаёт, как поле type попадает в выходной файл.
type TypeFormat string

const (
	// TypeFormatID - голый идентификатор типа: 2.
	TypeFormatID TypeFormat = "id"
	// TypeFormatComposite - "Название [id]": "С кратким ответом [2]".
	TypeFormatComposite TypeFormat = "composite"
)

func (f TypeFormat) Valid() bool {
	return f == TypeFormatID || f == TypeFormatComposite
}

// Entry - задание в формате выходного файла.
type Entry struct {
	ID         int               `json:"id"`
	Type       json.RawMessage   `json:"type"`
	Level      int               `json:"level"`
	Text       string            `json:"text"`
	Answer     string            `json:"answer"`
	Options    map[string]string `json:"options"`
	Themes     []string          `json:"themes"`
	Doc        *string           `json:"doc"`
	SendAsPoll bool              `json:"sendAsPoll"`
}

// ToEntry сериализует задание; sendAsPoll всегда считается заново.
func ToEntry(t Task, format TypeFormat) Entry {
	options := t.Options
	if options == nil {
		options = map[string]string{}
	}
	return Entry{
		ID:         t.ID,
		Type:       typeValue(t, format),
		Level:      t.LevelID,
		Text:       t.Text,
		Answer:     t.Answer,
		Options:    options,
		Themes:     nonNil(t.ThemeNames),
		Doc:        t.Doc,
		SendAsPoll: SendAsPoll(t),
	}
}

// SendAsPoll: текст не длиннее 255 символов, есть doc и каждый вариант
// не длиннее 100 символов.
func SendAsPoll(t Task) bool {
	if util.RuneLen(t.Text) > PollMaxTextLen || t.Doc == nil {
		return false
	}
	for _, option := range t.Options {
		if util.RuneLen(option) > PollMaxOptionLen {
			return false
		}
	}
	return true
}

func typeValue(t Task, format TypeFormat) json.RawMessage {
	if format == TypeFormatComposite {
		b, _ := json.Marshal(fmt.Sprintf("%s [%d]", t.TypeName, t.TypeID))
		return b
	}
	return json.RawMessage(fmt.Sprint(t.TypeID))
}
