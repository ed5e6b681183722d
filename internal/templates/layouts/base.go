package layouts

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const htmxScript = `<script src="https://unpkg.com/htmx.org@1.9.12"></script>`

// Validation and conflict responses carry a re-rendered form, so htmx must
// swap them like a success.
const swapErrorsScript = `<script>document.addEventListener("htmx:beforeSwap",function(e){var s=e.detail.xhr.status;if(s===400||s===401||s===403||s===409||s===422||s===429){e.detail.shouldSwap=true;e.detail.isError=false;}});</script>`

// PageOptions controls the chrome around a page.
type PageOptions struct {
	Title   string
	Active  string
	IsOwner bool
	// OwnerArea switches the navigation to the Owner links.
	OwnerArea bool
}

type navLink struct {
	key   string
	href  string
	label string
}

var publicLinks = []navLink{
	{key: "home", href: "/", label: "Home"},
	{key: "sports", href: "/sports", label: "Sports"},
	{key: "players", href: "/players", label: "Players"},
	{key: "register", href: "/register", label: "Register"},
}

var ownerLinks = []navLink{
	{key: "owner-sports", href: "/owner/sports", label: "Sports"},
	{key: "owner-players", href: "/owner/players", label: "Players"},
	{key: "owner-codes", href: "/owner/codes", label: "Codes"},
	{key: "owner-registration", href: "/owner/registration", label: "Registration"},
}

// Base wraps content in the site shell.
func Base(content templ.Component, opts PageOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := "Arena"
		if strings.TrimSpace(opts.Title) != "" {
			title = opts.Title + " | Arena"
		}

		if _, err := io.WriteString(w, fmt.Sprintf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title><script src="https://cdn.tailwindcss.com"></script>%s%s</head><body class="min-h-screen bg-gray-50 text-gray-900">`, html.EscapeString(title), htmxScript, swapErrorsScript)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, buildNavHTML(opts)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main class="mx-auto max-w-5xl px-4 py-8">`); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</main><footer class="border-t py-6 text-center text-xs text-gray-500">Arena sports league</footer></body></html>`); err != nil {
			return err
		}
		return nil
	})
}

func buildNavHTML(opts PageOptions) string {
	links := publicLinks
	if opts.OwnerArea {
		links = ownerLinks
	}

	var builder strings.Builder
	builder.WriteString(`<nav class="border-b bg-white"><div class="mx-auto flex max-w-5xl items-center justify-between px-4 py-3">`)
	builder.WriteString(`<a href="/" class="text-lg font-bold text-indigo-700">Arena</a><ul class="flex items-center gap-4 text-sm">`)
	for _, link := range links {
		class := "text-gray-600 hover:text-indigo-700"
		if link.key == opts.Active {
			class = "font-semibold text-indigo-700"
		}
		builder.WriteString(fmt.Sprintf(`<li><a href="%s" class="%s">%s</a></li>`, link.href, class, link.label))
	}
	if !opts.OwnerArea {
		builder.WriteString(`<li class="relative"><input type="search" name="q" placeholder="Search teams or players" autocomplete="off" class="w-48 rounded border px-2 py-1" hx-get="/api/v1/search" hx-trigger="keyup changed delay:300ms, search" hx-target="#search-box" hx-swap="innerHTML"><div id="search-box"></div></li>`)
	}
	switch {
	case opts.IsOwner && opts.OwnerArea:
		builder.WriteString(`<li><a href="/" class="text-gray-600 hover:text-indigo-700">Public site</a></li>`)
		builder.WriteString(`<li><form method="post" action="/owner/logout"><button type="submit" class="text-gray-600 hover:text-red-600">Log out</button></form></li>`)
	case opts.IsOwner:
		builder.WriteString(`<li><a href="/owner/sports" class="text-gray-600 hover:text-indigo-700">Owner</a></li>`)
	default:
		builder.WriteString(`<li><a href="/owner/login" class="text-gray-400 hover:text-indigo-700">Owner</a></li>`)
	}
	builder.WriteString(`</ul></div></nav>`)
	return builder.String()
}
