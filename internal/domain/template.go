package domain

import (
	"strings"
	"time"
)

// RenderTemplate fills the placeholders of a note template for a new
// document titled title. Supported: {{title}}, {{date}}, {{time}}.
func RenderTemplate(template, title string, now time.Time) string {
	if template == "" {
		return ""
	}

	replacer := strings.NewReplacer(
		"{{title}}", title,
		"{{date}}", now.Format("2006-01-02"),
		"{{time}}", now.Format("15:04"),
	)

	return replacer.Replace(template)
}
