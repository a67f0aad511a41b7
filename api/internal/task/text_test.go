package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer(true)

	t.Run("Should strip tags and decode entities", func(t *testing.T) {
		got := n.Normalize(`<p>Укажите &laquo;верный&raquo; <b>ответ</b></p>`)
		assert.Equal(t, "Укажите «верный» ответ", got)
	})

	t.Run("Should remove equation marker and collapse spaces", func(t *testing.T) {
		cases := []string{
			`<p>Найдите MathType@MTEF@5@5@+=feaagKart1ev2aaatCvAUfeBSjuyZL2yd значение   x</p>`,
			`MathTypeMTEF значение`,
			`значение MathType@MTEF`,
			`<span>MathType</span><span>@MTEF</span> значение`,
			"a MathType@1\n\n  MathType@2  b",
		}
		for _, c := range cases {
			got := n.Normalize(c)
			assert.NotContains(t, got, EquationMarker, c)
			assert.NotContains(t, got, "  ", c)
			assert.NotRegexp(t, `\s\s`, got, c)
			assert.Equal(t, strings.TrimSpace(got), got, c)
		}
		assert.Equal(t, "Найдите значение x", n.Normalize(cases[0]))
		assert.Equal(t, "значение", n.Normalize(cases[2]))
	})

	t.Run("Should treat non-breaking spaces as whitespace", func(t *testing.T) {
		assert.Equal(t, "Найдите значение", n.Normalize("Найдите&nbsp; значение"))
		assert.Equal(t, "a b", n.Normalize("<p>a&nbsp;&nbsp;b</p>"))
		assert.Equal(t, "x значение выражения", n.Normalize("x MathType@MTEF@5&nbsp;значение выражения"))
		assert.Equal(t, "a\nb", n.Normalize("a&nbsp;\n&nbsp;b"))
	})

	t.Run("Should keep single line breaks", func(t *testing.T) {
		assert.Equal(t, "первая\nвторая", n.Normalize("<div>первая \n\n  вторая</div>"))
	})

	t.Run("Should skip script and style contents", func(t *testing.T) {
		assert.Equal(t, "текст", n.Normalize(`<style>p{}</style><script>x()</script>текст`))
	})

	t.Run("Should tolerate malformed HTML", func(t *testing.T) {
		assert.Equal(t, "незакрытый тег", n.Normalize(`<p><b>незакрытый <i>тег`))
		assert.Equal(t, "", n.Normalize(""))
		assert.Equal(t, "a < b", n.Normalize("a < b"))
	})
}

func TestExtractOptions(t *testing.T) {
	const fragment = `
<table>
  <tr><td class="answer" number="1">первый</td></tr>
  <tr><td class="answer selected" number="2"><b>второй</b> MathType@x вариант</td></tr>
  <tr><td class="answer" number="3">   </td></tr>
  <tr><td class="answer">без номера</td></tr>
  <tr><td class="answers" number="9">чужой класс</td></tr>
</table>`

	t.Run("Should key options by number attribute", func(t *testing.T) {
		got := NewNormalizer(true).ExtractOptions(fragment)
		assert.Equal(t, map[string]string{"1": "первый", "2": "второй вариант"}, got)
	})

	t.Run("Should keep empty options when dropping is disabled", func(t *testing.T) {
		got := NewNormalizer(false).ExtractOptions(fragment)
		assert.Equal(t, map[string]string{"1": "первый", "2": "второй вариант", "3": ""}, got)
	})

	t.Run("Should let the last duplicate number win", func(t *testing.T) {
		got := NewNormalizer(true).ExtractOptions(
			`<p class="answer" number="1">старый</p><p class="answer" number="1">новый</p>`)
		assert.Equal(t, map[string]string{"1": "новый"}, got)
	})

	t.Run("Should not let an empty duplicate erase a filled option", func(t *testing.T) {
		got := NewNormalizer(true).ExtractOptions(
			`<p class="answer" number="1">вариант</p><p class="answer" number="1"> </p>`)
		assert.Equal(t, map[string]string{"1": "вариант"}, got)
	})

	t.Run("Should return empty map for fragments without options", func(t *testing.T) {
		got := NewNormalizer(true).ExtractOptions(`<p>нет вариантов</p>`)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestDoc(t *testing.T) {
	n := NewNormalizer(true)
	empty := ""
	html := "<p>Прочитайте  текст</p>"

	assert.Nil(t, n.Doc(nil))
	assert.Nil(t, n.Doc(&empty))
	if got := n.Doc(&html); assert.NotNil(t, got) {
		assert.Equal(t, "Прочитайте текст", *got)
	}
}
