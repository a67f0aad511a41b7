package util

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const jsonIndent = "  "

// MarshalPretty кодирует v с отступом в два пробела, без экранирования
// HTML и не-ASCII символов. Порядок полей структур сохраняется.
func MarshalPretty(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", jsonIndent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encoder всегда дописывает '\n'
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalLiteral работает как MarshalPretty, но сначала пропускает значение
// через декодер: \uXXXX-последовательности из сырых ответов API превращаются
// в сами символы, числа сохраняются как есть (json.Number). Ключи объектов
// на выходе отсортированы, поэтому результат детерминирован.
func MarshalLiteral(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	generic, err := DecodeGeneric(raw)
	if err != nil {
		return nil, err
	}
	return MarshalPretty(generic)
}

// DecodeGeneric разбирает JSON в any, сохраняя числа как json.Number.
func DecodeGeneric(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return out, nil
}
