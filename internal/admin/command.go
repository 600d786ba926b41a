package admin

import "strings"

// Kind — вид административной команды.
type Kind int

const (
	KindForget Kind = iota
	KindModel
	KindStatus
	KindDev
	KindGetPersonality
	KindSetPersonality
)

// Command — распознанная команда с аргументом (если он есть).
type Command struct {
	Kind Kind
	Arg  string
}

// Parse проверяет, является ли текст сообщения административной командой.
// Нераспознанный текст — не ошибка: сообщение уходит в обычный диалоговый поток.
func Parse(text string) (Command, bool) {
	text = strings.TrimSpace(text)

	switch text {
	case "<forget>":
		return Command{Kind: KindForget}, true
	case "<status>":
		return Command{Kind: KindStatus}, true
	case "<personality>":
		return Command{Kind: KindGetPersonality}, true
	}

	if rest, ok := strings.CutPrefix(text, "<model>"); ok {
		return Command{Kind: KindModel, Arg: strings.TrimSpace(rest)}, true
	}
	if rest, ok := strings.CutPrefix(text, "<dev>"); ok {
		return Command{Kind: KindDev, Arg: strings.TrimSpace(rest)}, true
	}
	if rest, ok := strings.CutPrefix(text, "<personality>"); ok {
		return Command{Kind: KindSetPersonality, Arg: strings.TrimSpace(rest)}, true
	}

	return Command{}, false
}
