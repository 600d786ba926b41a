package gateway

// ValidationResult содержит результат проверки входящего события.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// ValidateEvent проверяет обязательные поля события до передачи в обработку.
func ValidateEvent(e Event) ValidationResult {
	var errs []string

	if e.ChannelID == "" {
		errs = append(errs, "channel_id is empty")
	}
	if e.Author.ID == "" {
		errs = append(errs, "author.id is empty")
	}
	if e.Text == "" && len(e.Attachments) == 0 {
		errs = append(errs, "event carries neither text nor attachments")
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
