package task

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-crawler/api/internal/util"
)

const rawRecord = `{
  "id": 1042,
  "subjectId": 1,
  "levelId": 2,
  "levelName": " Повышенный ",
  "answer": " 2 ",
  "themeNames": ["Орфография"],
  "requirementNames": ["1.1 Знать нормы"],
  "imgUrl": null,
  "taskTypeId": 2,
  "taskTypeName": "С выбором ответа ",
  "taskText": "<p>Укажите вариант,  в котором MathType@MTEF@5 нет ошибки</p>",
  "taskTitle": " Задание 5 ",
  "taskVersion": 3,
  "html": "<div class=\"answer\" number=\"1\">раз</div><div class=\"answer\" number=\"2\">два</div><div class=\"answer\" number=\"3\"></div>",
  "docHtml": null
}`

func TestFromJSON(t *testing.T) {
	t.Run("Should normalize every HTML field", func(t *testing.T) {
		got, err := FromJSON([]byte(rawRecord), NewNormalizer(true))
		require.NoError(t, err)

		assert.Equal(t, 1042, got.ID)
		assert.Equal(t, 1, got.SubjectID)
		assert.Equal(t, 2, got.TypeID)
		assert.Equal(t, "С выбором ответа", got.TypeName)
		assert.Equal(t, 2, got.LevelID)
		assert.Equal(t, "Повышенный", got.LevelName)
		assert.Equal(t, []string{"Орфография"}, got.ThemeNames)
		assert.Equal(t, []string{"1.1 Знать нормы"}, got.RequirementNames)
		assert.Equal(t, "Укажите вариант, в котором нет ошибки", got.Text)
		assert.Equal(t, "Задание 5", got.Title)
		assert.Equal(t, "2", got.Answer)
		assert.Equal(t, map[string]string{"1": "раз", "2": "два"}, got.Options)
		assert.Nil(t, got.Doc)
		assert.Nil(t, got.ImgURL)
		assert.Equal(t, 3, got.Version)
	})

	t.Run("Should keep empty options with a permissive normalizer", func(t *testing.T) {
		got, err := FromJSON([]byte(rawRecord), NewNormalizer(false))
		require.NoError(t, err)
		assert.Len(t, got.Options, 3)
	})

	t.Run("Should reject records without id", func(t *testing.T) {
		_, err := FromJSON([]byte(`{"taskText": "x"}`), nil)
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})

	t.Run("Should reject malformed records", func(t *testing.T) {
		_, err := FromJSON([]byte(`{"id": "x"}`), nil)
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})

	t.Run("Should replace missing lists with empty ones", func(t *testing.T) {
		got, err := FromJSON([]byte(`{"id": 5}`), nil)
		require.NoError(t, err)
		assert.NotNil(t, got.ThemeNames)
		assert.NotNil(t, got.RequirementNames)
	})
}

func TestFromJSONList(t *testing.T) {
	records := []json.RawMessage{
		json.RawMessage(`{"id": 3}`),
		json.RawMessage(`{"id": 1}`),
	}
	got, err := FromJSONList(records, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].ID)
	assert.Equal(t, 1, got[1].ID)

	_, err = FromJSONList(append(records, json.RawMessage(`{}`)), nil)
	assert.ErrorContains(t, err, "record #2")
}

func TestSendAsPoll(t *testing.T) {
	doc := "Текст к заданию"
	base := Task{
		ID:      1,
		Text:    strings.Repeat("я", 200),
		Doc:     &doc,
		Options: map[string]string{"1": strings.Repeat("о", 100), "2": "коротко"},
	}

	t.Run("Should be true for short text with doc and short options", func(t *testing.T) {
		assert.True(t, SendAsPoll(base))
	})

	t.Run("Should be false for 256-character text", func(t *testing.T) {
		tk := base
		tk.Text = strings.Repeat("я", 256)
		assert.False(t, SendAsPoll(tk))
	})

	t.Run("Should accept exactly 255 characters", func(t *testing.T) {
		tk := base
		tk.Text = strings.Repeat("я", 255)
		assert.True(t, SendAsPoll(tk))
	})

	t.Run("Should be false without doc", func(t *testing.T) {
		tk := base
		tk.Doc = nil
		assert.False(t, SendAsPoll(tk))
	})

	t.Run("Should be false when any option is too long", func(t *testing.T) {
		tk := base
		tk.Options = map[string]string{"1": "ok", "2": strings.Repeat("о", 101)}
		assert.False(t, SendAsPoll(tk))
	})
}

func TestToEntry(t *testing.T) {
	tk, err := FromJSON([]byte(rawRecord), NewNormalizer(true))
	require.NoError(t, err)

	t.Run("Should serialize with bare type id", func(t *testing.T) {
		out, err := util.MarshalPretty(ToEntry(tk, TypeFormatID))
		require.NoError(t, err)
		expected := `{
  "id": 1042,
  "type": 2,
  "level": 2,
  "text": "Укажите вариант, в котором нет ошибки",
  "answer": "2",
  "options": {
    "1": "раз",
    "2": "два"
  },
  "themes": [
    "Орфография"
  ],
  "doc": null,
  "sendAsPoll": false
}`
		assert.Equal(t, expected, string(out))
	})

	t.Run("Should serialize composite type", func(t *testing.T) {
		e := ToEntry(tk, TypeFormatComposite)
		assert.JSONEq(t, `"С выбором ответа [2]"`, string(e.Type))
	})

	t.Run("Should recompute sendAsPoll from the task", func(t *testing.T) {
		doc := "есть"
		withDoc := tk
		withDoc.Doc = &doc
		assert.True(t, ToEntry(withDoc, TypeFormatID).SendAsPoll)
		assert.False(t, ToEntry(tk, TypeFormatID).SendAsPoll)
	})

	t.Run("Should validate type formats", func(t *testing.T) {
		assert.True(t, TypeFormatID.Valid())
		assert.True(t, TypeFormatComposite.Valid())
		assert.False(t, TypeFormat("name").Valid())
	})
}
