package gateway

import (
	"strings"
	"unicode/utf8"
)

// MessageLimit — лимит чат-платформы на длину одного исходящего сообщения.
const MessageLimit = 2000

// Chunk режет длинный текст на куски не длиннее limit байт, предпочитая
// разрывы по переводу строки или пробелу и никогда не разрезая руну пополам.
func Chunk(text string, limit int) []string {
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	remaining := text
	for remaining != "" {
		size := breakPoint(remaining, limit)
		chunks = append(chunks, remaining[:size])
		remaining = remaining[size:]
	}
	return chunks
}

// breakPoint подбирает позицию разрыва: сначала перевод строки, затем пробел,
// иначе ближайшая слева граница руны.
func breakPoint(text string, max int) int {
	if max >= len(text) {
		return len(text)
	}

	safe := safeBoundary(text, max)

	if pos := strings.LastIndexByte(text[:safe], '\n'); pos >= 0 {
		return pos + 1
	}
	if pos := strings.LastIndexByte(text[:safe], ' '); pos >= 0 {
		return pos + 1
	}
	return safe
}

// safeBoundary сдвигает позицию влево до начала руны.
func safeBoundary(text string, pos int) int {
	if pos >= len(text) {
		return len(text)
	}
	for pos > 0 && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}
