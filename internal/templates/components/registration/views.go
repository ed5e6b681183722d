package registration

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/Arena/internal/templates/layouts"
)

type formField struct {
	name        string
	label       string
	inputType   string
	placeholder string
	value       string
	extra       string
}

func RegisterPage(data FormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="mx-auto max-w-lg space-y-6"><h1 class="text-2xl font-bold">Player Registration</h1>`)
		b.WriteString(buildFormHTML(data))
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func RegisterForm(data FormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildFormHTML(data))
		return err
	})
}

func ClosedPage() templ.Component {
	return layouts.Raw(`<section class="mx-auto max-w-lg space-y-4 rounded-lg bg-white p-8 text-center shadow"><h1 class="text-2xl font-bold">Registration Closed</h1><p class="text-gray-600">Player registration is not open right now. Please check back later.</p><a class="text-indigo-700 hover:underline" href="/players">See registered players</a></section>`)
}

func Success(data SuccessData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div id="registration-form" class="flex flex-col items-center gap-4 rounded-lg bg-white p-8 text-center shadow">`)
		b.WriteString(layouts.AvatarHTML(data.Name, data.ImageURL))
		b.WriteString(fmt.Sprintf(`<h2 class="text-xl font-semibold">Welcome, %s!</h2><p class="text-gray-600">Your registration is complete.</p><a class="text-indigo-700 hover:underline" href="/players">View all players</a></div>`, html.EscapeString(data.Name)))
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// FieldFeedback is the inline message under a field.
func FieldFeedback(valid bool, message string) templ.Component {
	class := "text-red-600"
	if valid {
		class = "text-green-700"
	}
	return layouts.Raw(fmt.Sprintf(`<span class="text-sm %s">%s</span>`, class, html.EscapeString(message)))
}

func OwnerPage(data OwnerData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="space-y-6"><h1 class="text-2xl font-bold">Registration</h1>`)
		b.WriteString(buildToggleHTML(data))
		b.WriteString(fmt.Sprintf(`<p class="text-sm text-gray-600">%d players registered.</p>`, data.PlayerCount))
		if data.Deadline != "" {
			b.WriteString(fmt.Sprintf(`<p class="text-sm text-gray-600">Registration closes automatically after %s.</p>`, html.EscapeString(data.Deadline)))
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func Toggle(data OwnerData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildToggleHTML(data))
		return err
	})
}

func buildToggleHTML(data OwnerData) string {
	status, badge, action := "Closed", "bg-gray-200 text-gray-800", "Open registration"
	if data.Open {
		status, badge, action = "Open", "bg-green-100 text-green-800", "Close registration"
	}
	return fmt.Sprintf(`<div id="registration-toggle" class="flex items-center gap-4 rounded-lg bg-white p-4 shadow"><span class="rounded px-3 py-1 text-sm font-semibold %s">%s</span><button class="rounded bg-indigo-600 px-4 py-2 text-sm font-semibold text-white" hx-post="/api/v1/registration/toggle" hx-target="#registration-toggle" hx-swap="outerHTML">%s</button></div>`,
		badge, status, action)
}

func buildFormHTML(data FormData) string {
	fields := []formField{
		{name: "name", label: "Name", inputType: "text", placeholder: "Your full name", value: data.Name, extra: ` maxlength="80"`},
		{name: "mobile", label: "Mobile number", inputType: "tel", placeholder: "10 digit mobile number", value: data.Mobile, extra: ` inputmode="numeric"`},
		{name: "tournament_code", label: "Tournament code", inputType: "text", placeholder: "Code from the organiser", value: data.TournamentCode},
	}

	var b strings.Builder
	b.WriteString(`<form id="registration-form" hx-post="/api/v1/registration" hx-encoding="multipart/form-data" hx-target="this" hx-swap="outerHTML" class="space-y-4 rounded-lg bg-white p-6 shadow">`)
	for _, f := range fields {
		b.WriteString(fmt.Sprintf(`<label class="block text-sm font-medium">%s<input type="%s" name="%s" required placeholder="%s" value="%s"%s class="mt-1 block w-full rounded border px-3 py-2" hx-post="/api/v1/registration/validate" hx-trigger="change, keyup changed delay:500ms" hx-vals='{"field":"%s"}' hx-target="#%s-feedback" hx-swap="innerHTML"></label>`,
			f.label, f.inputType, f.name, html.EscapeString(f.placeholder), html.EscapeString(f.value), f.extra, f.name, f.name))
		b.WriteString(fmt.Sprintf(`<div id="%s-feedback" aria-live="polite">`, f.name))
		if msg := data.FieldError(f.name); msg != "" {
			b.WriteString(fmt.Sprintf(`<span class="text-sm text-red-600">%s</span>`, html.EscapeString(msg)))
		}
		b.WriteString(`</div>`)
	}
	hint := ""
	if data.MaxUploadMB > 0 {
		hint = fmt.Sprintf(" (optional, up to %d MB)", data.MaxUploadMB)
	}
	b.WriteString(fmt.Sprintf(`<label class="block text-sm font-medium">Photo%s<input type="file" name="photo" accept="image/jpeg,image/png,image/gif,image/webp" class="mt-1 block w-full text-sm"></label>`, hint))
	if msg := data.FieldError("photo"); msg != "" {
		b.WriteString(fmt.Sprintf(`<p class="text-sm text-red-600">%s</p>`, html.EscapeString(msg)))
	}
	if data.FormError != "" {
		b.WriteString(fmt.Sprintf(`<p class="text-sm text-red-600" role="alert">%s</p>`, html.EscapeString(data.FormError)))
	}
	b.WriteString(`<button type="submit" class="w-full rounded bg-indigo-600 px-4 py-2 font-semibold text-white">Register</button></form>`)
	return b.String()
}
