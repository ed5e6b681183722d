package sports

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

func HomePage(data HomeData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildHomeHTML(data))
		return err
	})
}

func SportsPage(sports []Sport) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="space-y-6"><h1 class="text-2xl font-bold">Sports Categories</h1>`)
		b.WriteString(buildSportCardsHTML(sports))
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func OwnerSportsPage(data OwnerSportsData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="space-y-8"><h1 class="text-2xl font-bold">Manage Sports</h1>`)
		b.WriteString(buildSportFormHTML(data))
		b.WriteString(buildOwnerSportsListHTML(data.Sports))
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// SportForm is the create form, re-rendered in place after a submit.
func SportForm(data OwnerSportsData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildSportFormHTML(data))
		return err
	})
}

// OwnerSportsList refreshes on the refreshSportsList trigger.
func OwnerSportsList(sports []Sport) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildOwnerSportsListHTML(sports))
		return err
	})
}

func buildHomeHTML(data HomeData) string {
	var b strings.Builder
	b.WriteString(`<section class="space-y-8">`)
	b.WriteString(`<div class="rounded-lg bg-indigo-700 p-8 text-white"><h1 class="text-3xl font-bold">Welcome to the Arena</h1><p class="mt-2 text-indigo-100">Follow every sport, team and match of the season.</p>`)
	b.WriteString(`<a href="/register" class="mt-4 inline-block rounded bg-white px-4 py-2 font-semibold text-indigo-700">Register as a player</a></div>`)
	b.WriteString(fmt.Sprintf(`<dl class="grid grid-cols-2 gap-4"><div class="rounded-lg bg-white p-4 shadow"><dt class="text-sm text-gray-500">Registered players</dt><dd id="player-count" class="text-2xl font-bold">%d</dd></div><div class="rounded-lg bg-white p-4 shadow"><dt class="text-sm text-gray-500">Sports</dt><dd id="sport-count" class="text-2xl font-bold">%d</dd></div></dl>`, data.PlayerCount, data.SportCount))
	b.WriteString(`<h2 class="text-xl font-semibold">Upcoming sports</h2>`)
	b.WriteString(buildSportCardsHTML(data.Sports))
	b.WriteString(`</section>`)
	return b.String()
}

func buildSportCardsHTML(sports []Sport) string {
	if len(sports) == 0 {
		return `<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No sports have been announced yet.</div>`
	}
	var b strings.Builder
	b.WriteString(`<ul class="grid gap-4 sm:grid-cols-2">`)
	for _, sport := range sports {
		b.WriteString(fmt.Sprintf(`<li class="rounded-lg bg-white p-4 shadow" data-sport-id="%d"><h3 class="text-lg font-semibold">%s</h3><p class="text-sm text-gray-500">%s</p><div class="mt-3 flex gap-3 text-sm"><a class="text-indigo-700 hover:underline" href="/sports/%d/teams">Teams</a><a class="text-indigo-700 hover:underline" href="/sports/%d/matches">Matches</a></div></li>`,
			sport.ID, html.EscapeString(sport.Name), html.EscapeString(sport.DateLabel()), sport.ID, sport.ID))
	}
	b.WriteString(`</ul>`)
	return b.String()
}

func buildSportFormHTML(data OwnerSportsData) string {
	errorHTML := ""
	if data.FormError != "" {
		errorHTML = fmt.Sprintf(`<p class="text-sm text-red-600" role="alert">%s</p>`, html.EscapeString(data.FormError))
	}
	return fmt.Sprintf(`<form id="sport-form" hx-post="/api/v1/sports" hx-target="this" hx-swap="outerHTML" class="grid gap-3 rounded-lg bg-white p-4 shadow sm:grid-cols-3">
<input name="name" required placeholder="Sport name" value="%s" class="rounded border px-3 py-2">
<input name="date" type="date" required value="%s" class="rounded border px-3 py-2">
<button type="submit" class="rounded bg-indigo-600 px-4 py-2 font-semibold text-white">Create sport</button>
%s</form>`, html.EscapeString(data.FormName), html.EscapeString(data.FormDate), errorHTML)
}

func buildOwnerSportsListHTML(sports []Sport) string {
	var b strings.Builder
	b.WriteString(`<div id="owner-sports-list" hx-get="/api/v1/sports" hx-trigger="refreshSportsList from:body" hx-swap="outerHTML">`)
	if len(sports) == 0 {
		b.WriteString(`<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No sports yet.</div></div>`)
		return b.String()
	}
	b.WriteString(`<table class="w-full rounded-lg bg-white text-left text-sm shadow"><thead><tr class="border-b"><th class="p-3">Sport</th><th class="p-3">Date</th><th class="p-3"></th></tr></thead><tbody>`)
	for _, sport := range sports {
		b.WriteString(fmt.Sprintf(`<tr class="border-b" id="sport-%d"><td class="p-3 font-medium">%s</td><td class="p-3">%s</td><td class="flex gap-3 p-3"><a class="text-indigo-700" href="/owner/sports/%d/teams">Teams</a><a class="text-indigo-700" href="/owner/sports/%d/points-table">Points table</a><button class="text-red-600" hx-delete="/api/v1/sports/%d" hx-confirm="Delete %s and all of its teams and matches?" hx-target="#sport-%d" hx-swap="outerHTML">Delete</button></td></tr>`,
			sport.ID, html.EscapeString(sport.Name), html.EscapeString(sport.DateLabel()), sport.ID, sport.ID, sport.ID, html.EscapeString(sport.Name), sport.ID))
	}
	b.WriteString(`</tbody></table></div>`)
	return b.String()
}
