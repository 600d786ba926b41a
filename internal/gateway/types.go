package gateway

import "strings"

// Author — автор входящего сообщения.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bot  bool   `json:"bot"`
}

// Attachment — вложение входящего сообщения.
type Attachment struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

// Event — входящее сообщение от моста чат-платформы.
// Мост доставляет его как POST на вебхук бота.
type Event struct {
	ChannelID   string       `json:"channel_id"`
	Author      Author       `json:"author"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
	MentionsBot bool         `json:"mentions_bot"`
}

// ImageURL возвращает URL первого вложения-изображения, либо пустую строку.
func (e Event) ImageURL() string {
	for _, att := range e.Attachments {
		if strings.HasPrefix(att.ContentType, "image/") {
			return att.URL
		}
	}
	return ""
}

type replyRequest struct {
	ChannelID string `json:"channel_id"`
	Text      string `json:"text"`
}

type replyResponse struct {
	Ok bool `json:"ok"`
}
