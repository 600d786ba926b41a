package gateway

import "strings"

// StripMentions обнаруживает и вырезает упоминания бота из текста:
// платформенное "<@id>" и текстовое "@имя". Возвращает признак упоминания
// и текст без него.
func StripMentions(text, botID, botName string) (bool, string) {
	var mentioned bool
	stripped := text

	if botID != "" {
		platformMention := "<@" + botID + ">"
		if strings.Contains(stripped, platformMention) {
			mentioned = true
			stripped = strings.ReplaceAll(stripped, platformMention, "")
		}
	}
	if botName != "" {
		textMention := "@" + botName
		if strings.Contains(stripped, textMention) {
			mentioned = true
			stripped = strings.ReplaceAll(stripped, textMention, "")
		}
	}

	return mentioned, strings.TrimSpace(stripped)
}
