package personality

import "strings"

// Kind определяет вариант личности бота.
type Kind string

const (
	Normal       Kind = "Normal"
	Tsundere     Kind = "Tsundere"
	Girlfriend   Kind = "Girlfriend"
	SoftwareNerd Kind = "SoftwareNerd"
	// CustomKind несёт произвольный системный промпт в поле Prompt.
	CustomKind Kind = "Custom"
)

// closedKinds — закрытый набор именованных личностей, порядок важен для подсказок.
var closedKinds = []Kind{Normal, Tsundere, Girlfriend, SoftwareNerd}

// Personality — именованная или произвольная личность. Неизменяема после создания.
type Personality struct {
	Kind   Kind   `json:"kind"`
	Prompt string `json:"prompt,omitempty"`
}

// Default возвращает личность по умолчанию.
func Default() Personality {
	return Personality{Kind: Normal}
}

// Custom создаёт личность с произвольным системным промптом.
func Custom(prompt string) Personality {
	return Personality{Kind: CustomKind, Prompt: prompt}
}

// Name возвращает каноническое имя личности.
func (p Personality) Name() string {
	if p.Kind == "" {
		return string(Normal)
	}
	return string(p.Kind)
}

const guidelines = `Guidelines:
- You are MintyBot, a chat bot talking with a group of friends.
- Messages arrive in the form "(name) message"; the name in parentheses is the display name of whoever wrote it.
- Short questions deserve short answers.
- If you don't know the answer, say you don't know. Never invent a plausible-sounding one.
- Talk like a real person, not like an AI. Never mention being an AI or a bot.
- Avoid heavy emoji use; casual chat fillers are fine.
- Don't force the conversation to continue; ending every reply with a question gets tiresome.
- If someone attacks or blames you unfairly, you may push back. You don't have to lose every argument.`

// roleText возвращает ролевую часть системного промпта.
func (p Personality) roleText() string {
	switch p.Kind {
	case Tsundere:
		return "Play a cute friend with a tsundere attitude."
	case Girlfriend:
		return "Play an affectionate, doting girlfriend."
	case SoftwareNerd:
		return "Play a computer-science nerd who lives for developer jokes and talks like a top-tier CS graduate."
	case CustomKind:
		return p.Prompt
	default:
		return "Keep the chat lively: playful, talkative, occasionally saying something out of left field. Jokes and light teasing are welcome. Don't try too hard to be nice; a bit of cheek is part of your charm."
	}
}

// SystemPrompt собирает полный системный промпт: общие правила плюс роль.
// Чистая функция, всегда возвращает непустую строку.
func (p Personality) SystemPrompt() string {
	return guidelines + "\n\nRole: " + p.roleText()
}

const customPrefix = "custom "

// Parse разбирает текстовое имя личности.
// Имена закрытого набора сравниваются с учётом регистра, префикс "custom "
// распознаётся без учёта регистра, промпт после него не может быть пустым.
func Parse(s string) (Personality, bool) {
	s = strings.TrimSpace(s)

	for _, kind := range closedKinds {
		if s == string(kind) {
			return Personality{Kind: kind}, true
		}
	}

	if len(s) >= len(customPrefix) && strings.EqualFold(s[:len(customPrefix)], customPrefix) {
		prompt := strings.TrimSpace(s[len(customPrefix):])
		if prompt != "" {
			return Custom(prompt), true
		}
	}

	return Personality{}, false
}

// Options перечисляет допустимые значения для команды смены личности.
func Options() []string {
	names := make([]string, 0, len(closedKinds)+1)
	for _, kind := range closedKinds {
		names = append(names, string(kind))
	}
	names = append(names, "Custom <system prompt>")
	return names
}
