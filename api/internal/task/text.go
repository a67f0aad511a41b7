package task

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EquationMarker - метка, которую оставляет редактор формул MathType,
// когда формулу копируют в HTML задания как текст.
const EquationMarker = "MathType"

const (
	answerClass  = "answer"
	numberAttr   = "number"
	defaultClass = answerClass
)

var (
	// \s в regexp только ASCII, неразрывный пробел (&nbsp;) добавляем через \p{Z}
	reEquation   = regexp.MustCompile(regexp.QuoteMeta(EquationMarker) + `[^\s\p{Z}]*`)
	reWhitespace = regexp.MustCompile(`[\s\p{Z}]+`)
)

// Normalizer превращает HTML-фрагменты из ответа API в простой текст.
// Нулевое значение готово к работе и оставляет пустые варианты ответа.
type Normalizer struct {
	// DropEmptyOptions - выбрасывать варианты, текст которых пуст после очистки.
	DropEmptyOptions bool
	// OptionClass - CSS-класс элементов с вариантами ответа, по умолчанию "answer".
	OptionClass string
}

func NewNormalizer(dropEmptyOptions bool) *Normalizer {
	return &Normalizer{DropEmptyOptions: dropEmptyOptions, OptionClass: defaultClass}
}

// Normalize извлекает видимый текст фрагмента и чистит его.
// Кривой HTML не ошибка: парсер всегда что-то возвращает.
func (n *Normalizer) Normalize(fragment string) string {
	root := parseFragment(fragment)
	if root == nil {
		return Clean(fragment)
	}
	return Clean(textOf(root))
}

// Doc нормализует поле docHtml. Пустое или отсутствующее поле даёт nil,
// а не пустую строку.
func (n *Normalizer) Doc(fragment *string) *string {
	if fragment == nil || *fragment == "" {
		return nil
	}
	doc := n.Normalize(*fragment)
	return &doc
}

// ExtractOptions собирает варианты ответа: элементы с классом answer,
// ключ - атрибут number. При повторе номера побеждает последний по порядку
// в документе. Элементы без number пропускаются.
func (n *Normalizer) ExtractOptions(fragment string) map[string]string {
	options := map[string]string{}
	root := parseFragment(fragment)
	if root == nil {
		return options
	}
	class := n.OptionClass
	if class == "" {
		class = defaultClass
	}
	walk(root, func(node *html.Node) bool {
		if node.Type != html.ElementNode || !hasClass(node, class) {
			return true
		}
		number, ok := attr(node, numberAttr)
		if !ok {
			return true
		}
		text := Clean(textOf(node))
		if text == "" && n.DropEmptyOptions {
			// пустой дубликат не должен затирать непустой вариант с тем же номером
			return false
		}
		options[number] = text
		// вложенные .answer внутри варианта не считаем отдельными вариантами
		return false
	})
	return options
}

// Clean убирает артефакты MathType и лишние пробелы. Серия пробельных
// символов сворачивается в один пробел, а если в ней был перевод строки -
// в один '\n'.
func Clean(s string) string {
	s = reEquation.ReplaceAllString(s, "")
	s = reWhitespace.ReplaceAllStringFunc(s, func(ws string) string {
		if strings.ContainsAny(ws, "\n\r") {
			return "\n"
		}
		return " "
	})
	return strings.TrimSpace(s)
}

func parseFragment(fragment string) *html.Node {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil
	}
	for _, node := range nodes {
		body.AppendChild(node)
	}
	return body
}

// textOf склеивает текстовые узлы без разделителей, пропуская script/style.
func textOf(root *html.Node) string {
	var b strings.Builder
	walk(root, func(node *html.Node) bool {
		switch node.Type {
		case html.TextNode:
			b.WriteString(node.Data)
		case html.ElementNode:
			if node.DataAtom == atom.Script || node.DataAtom == atom.Style {
				return false
			}
		}
		return true
	})
	return b.String()
}

// walk обходит дерево в порядке документа; visit возвращает false,
// чтобы не спускаться в потомков узла.
func walk(node *html.Node, visit func(*html.Node) bool) {
	if !visit(node) {
		return
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(node *html.Node, key string) (string, bool) {
	for _, a := range node.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(node *html.Node, class string) bool {
	v, ok := attr(node, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}
