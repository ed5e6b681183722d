package codes

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	dbgen "github.com/codr1/Arena/internal/db/generated"
)

func CodesPage(data CodesPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="space-y-6"><h1 class="text-2xl font-bold">Tournament Codes</h1><p class="text-sm text-gray-600">Players need one of these codes to register.</p>`)
		b.WriteString(buildFormHTML(data))
		b.WriteString(buildListHTML(data.Codes))
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func CodeForm(data CodesPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildFormHTML(data))
		return err
	})
}

func CodesList(codes []dbgen.TournamentCode) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildListHTML(codes))
		return err
	})
}

func buildFormHTML(data CodesPageData) string {
	var b strings.Builder
	b.WriteString(`<form id="code-form" hx-post="/api/v1/codes" hx-target="this" hx-swap="outerHTML" class="flex flex-wrap items-start gap-3 rounded-lg bg-white p-4 shadow">`)
	b.WriteString(fmt.Sprintf(`<input type="text" name="code" required maxlength="64" placeholder="New code" value="%s" class="rounded border px-3 py-2">`, html.EscapeString(data.FormCode)))
	b.WriteString(`<button type="submit" class="rounded bg-indigo-600 px-4 py-2 font-semibold text-white">Add code</button>`)
	if data.FormError != "" {
		b.WriteString(fmt.Sprintf(`<p class="w-full text-sm text-red-600" role="alert">%s</p>`, html.EscapeString(data.FormError)))
	}
	b.WriteString(`</form>`)
	return b.String()
}

func buildListHTML(codes []dbgen.TournamentCode) string {
	var b strings.Builder
	b.WriteString(`<div id="codes-list" hx-get="/api/v1/codes" hx-trigger="refreshCodesList from:body" hx-swap="outerHTML">`)
	if len(codes) == 0 {
		b.WriteString(`<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No codes yet. Registration cannot succeed until one exists.</div></div>`)
		return b.String()
	}
	b.WriteString(`<ul class="divide-y rounded-lg bg-white shadow">`)
	for i, code := range codes {
		b.WriteString(fmt.Sprintf(`<li id="code-%d" class="flex items-center justify-between p-3"><span class="font-mono">%s</span><button class="text-sm text-red-600" hx-delete="/api/v1/codes/%s" hx-confirm="Delete this code?" hx-target="#code-%d" hx-swap="outerHTML">Delete</button></li>`,
			i, html.EscapeString(code.Code), html.EscapeString(url.PathEscape(code.Code)), i))
	}
	b.WriteString(`</ul></div>`)
	return b.String()
}
