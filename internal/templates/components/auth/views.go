package auth

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// LoginForm renders the Owner password form. It swaps itself on error.
func LoginForm(data LoginFormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildLoginFormHTML(data))
		return err
	})
}

// LoginPage wraps LoginForm with a heading.
func LoginPage(data LoginFormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="mx-auto max-w-sm"><h1 class="mb-6 text-2xl font-bold">Owner Login</h1>`); err != nil {
			return err
		}
		if _, err := io.WriteString(w, buildLoginFormHTML(data)); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

func buildLoginFormHTML(data LoginFormData) string {
	errorHTML := ""
	if data.Error != "" {
		errorHTML = fmt.Sprintf(`<p class="text-sm text-red-600" role="alert">%s</p>`, html.EscapeString(data.Error))
	}
	disabled := ""
	if data.Locked {
		disabled = " disabled"
	}
	return fmt.Sprintf(`<form id="owner-login-form" method="post" action="/owner/login" hx-post="/owner/login" hx-target="this" hx-swap="outerHTML" class="space-y-4 rounded-lg bg-white p-6 shadow">
<label class="block text-sm font-medium" for="password">Password</label>
<input id="password" name="password" type="password" required autocomplete="current-password" class="w-full rounded border px-3 py-2"%s>
%s
<button type="submit" class="w-full rounded bg-indigo-600 px-4 py-2 font-semibold text-white hover:bg-indigo-700"%s>Log in</button>
</form>`, disabled, errorHTML, disabled)
}
