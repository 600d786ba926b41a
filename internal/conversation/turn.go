package conversation

import (
	"fmt"
	"strings"
)

// Role — автор реплики в истории канала.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleDeveloper — инструкции оператора; синтезированный системный промпт
	// и сообщения команды <dev> используют эту роль.
	RoleDeveloper Role = "developer"
)

// PartType — тип части содержимого реплики.
type PartType string

const (
	PartText  PartType = "text"
	PartImage PartType = "image_url"
)

// Part — одна часть содержимого: текст или ссылка на изображение.
type Part struct {
	Type     PartType `json:"type"`
	Text     string   `json:"text,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// Turn — одна реплика в истории канала. Content никогда не пуст.
type Turn struct {
	Role    Role   `json:"role"`
	Content []Part `json:"content"`
}

// formatUserText подставляет имя автора в текст в виде "(name) text".
// Денормализация намеренная: транскрипт для модели самоописателен,
// отдельное поле с именем не нужно.
func formatUserText(text, displayName string) string {
	if displayName == "" {
		return text
	}
	return fmt.Sprintf("(%s) %s", displayName, text)
}

// UserTurn создаёт пользовательскую реплику с текстом.
func UserTurn(text, displayName string) Turn {
	return Turn{
		Role:    RoleUser,
		Content: []Part{{Type: PartText, Text: formatUserText(text, displayName)}},
	}
}

// UserTurnWithImage создаёт пользовательскую реплику с текстом и изображением.
func UserTurnWithImage(text, displayName, imageURL string) Turn {
	return Turn{
		Role: RoleUser,
		Content: []Part{
			{Type: PartText, Text: formatUserText(text, displayName)},
			{Type: PartImage, ImageURL: imageURL},
		},
	}
}

// AssistantTurn создаёт реплику ассистента. Всегда ровно одна текстовая часть.
func AssistantTurn(text string) Turn {
	return Turn{
		Role:    RoleAssistant,
		Content: []Part{{Type: PartText, Text: text}},
	}
}

// DeveloperTurn создаёт реплику с инструкцией оператора.
func DeveloperTurn(text string) Turn {
	return Turn{
		Role:    RoleDeveloper,
		Content: []Part{{Type: PartText, Text: text}},
	}
}

// Text возвращает склеенный текст всех текстовых частей.
func (t Turn) Text() string {
	parts := make([]string, 0, len(t.Content))
	for _, part := range t.Content {
		if part.Type == PartText {
			parts = append(parts, part.Text)
		}
	}
	return strings.Join(parts, " ")
}

// String рендерит реплику для журнала переписки.
func (t Turn) String() string {
	parts := make([]string, 0, len(t.Content))
	for _, part := range t.Content {
		switch part.Type {
		case PartText:
			parts = append(parts, part.Text)
		case PartImage:
			parts = append(parts, fmt.Sprintf("[Image: %s]", part.ImageURL))
		default:
			parts = append(parts, "[Unknown content]")
		}
	}
	return fmt.Sprintf("<%s> %s", t.Role, strings.Join(parts, " "))
}

// clone возвращает глубокую копию реплики.
func (t Turn) clone() Turn {
	content := make([]Part, len(t.Content))
	copy(content, t.Content)
	return Turn{Role: t.Role, Content: content}
}

func cloneTurns(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	for i, turn := range turns {
		out[i] = turn.clone()
	}
	return out
}
