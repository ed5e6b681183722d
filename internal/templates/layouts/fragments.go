package layouts

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Raw renders pre-escaped HTML.
func Raw(markup string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, markup)
		return err
	})
}

// Notice renders a short status message.
func Notice(message string) templ.Component {
	return Raw(fmt.Sprintf(`<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">%s</div>`, html.EscapeString(message)))
}

// ErrorMessage renders an inline form error.
func ErrorMessage(message string) templ.Component {
	return Raw(fmt.Sprintf(`<p class="text-sm text-red-600" role="alert">%s</p>`, html.EscapeString(message)))
}

// AvatarHTML renders a player photo, or the first letter of name when there
// is no photo.
func AvatarHTML(name, imageURL string) string {
	if imageURL != "" {
		return fmt.Sprintf(`<img src="%s" alt="%s" class="h-12 w-12 rounded-full object-cover">`, html.EscapeString(imageURL), html.EscapeString(name))
	}
	initial := "?"
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		initial = strings.ToUpper(string([]rune(trimmed)[0]))
	}
	return fmt.Sprintf(`<span class="flex h-12 w-12 items-center justify-center rounded-full bg-indigo-100 font-bold text-indigo-700">%s</span>`, html.EscapeString(initial))
}
