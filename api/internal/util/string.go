package util

import (
	"strings"
	"unicode/utf8"
)

// RuneLen - длина строки в символах (code points), а не в байтах.
// Все лимиты по длине текста считаются именно так.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate обрезает s до n символов и добавляет многоточие.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if RuneLen(s) <= n {
		return s
	}
	runes := []rune(s)
	if n == 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}
