package teams

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	dbgen "github.com/codr1/Arena/internal/db/generated"
	"github.com/codr1/Arena/internal/templates/layouts"
)

func TeamsPage(data TeamsPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(fmt.Sprintf(`<section class="space-y-6"><div class="flex items-center justify-between"><h1 class="text-2xl font-bold">%s Teams</h1><a class="text-sm text-indigo-700 hover:underline" href="/sports/%d/matches">View matches</a></div>`,
			html.EscapeString(data.Sport.Name), data.Sport.ID))
		if len(data.Teams) == 0 {
			b.WriteString(`<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No teams yet.</div>`)
		} else {
			b.WriteString(`<ul class="grid gap-3 sm:grid-cols-2">`)
			for _, team := range data.Teams {
				b.WriteString(fmt.Sprintf(`<li class="rounded-lg bg-white p-4 shadow"><a class="font-semibold text-indigo-700 hover:underline" href="/teams/%d/players">%s</a></li>`, team.ID, html.EscapeString(team.Name)))
			}
			b.WriteString(`</ul>`)
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func TeamPlayersPage(data TeamPlayersData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(fmt.Sprintf(`<section class="space-y-6"><div><a class="text-sm text-indigo-700 hover:underline" href="/sports/%d/teams">&larr; %s teams</a><h1 class="text-2xl font-bold">%s</h1></div>`,
			data.Sport.ID, html.EscapeString(data.Sport.Name), html.EscapeString(data.Team.Name)))
		if len(data.Players) == 0 {
			b.WriteString(`<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">This team has no players.</div>`)
		} else {
			b.WriteString(`<ul class="grid gap-4 sm:grid-cols-3">`)
			for _, player := range data.Players {
				b.WriteString(`<li class="flex items-center gap-3 rounded-lg bg-white p-4 shadow">`)
				b.WriteString(layouts.AvatarHTML(player.Name, player.ImageURL()))
				b.WriteString(fmt.Sprintf(`<span class="font-medium">%s</span></li>`, html.EscapeString(player.Name)))
			}
			b.WriteString(`</ul>`)
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func OwnerTeamsPage(data OwnerTeamsData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(fmt.Sprintf(`<section class="space-y-8"><div><a class="text-sm text-indigo-700 hover:underline" href="/owner/sports">&larr; Sports</a><h1 class="text-2xl font-bold">%s Teams</h1></div>`, html.EscapeString(data.Sport.Name)))
		b.WriteString(buildTeamFormHTML(data))
		b.WriteString(buildOwnerTeamsListHTML(data.Sport.ID, data.Teams))
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func TeamForm(data OwnerTeamsData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildTeamFormHTML(data))
		return err
	})
}

// OwnerTeamsTable refreshes on the refreshTeamsList trigger.
func OwnerTeamsTable(data OwnerTeamsData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildOwnerTeamsListHTML(data.Sport.ID, data.Teams))
		return err
	})
}

func buildTeamFormHTML(data OwnerTeamsData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<form id="team-form" hx-post="/api/v1/sports/%d/teams" hx-target="this" hx-swap="outerHTML" class="space-y-4 rounded-lg bg-white p-4 shadow">`, data.Sport.ID))
	b.WriteString(fmt.Sprintf(`<input name="name" required placeholder="Team name" value="%s" class="w-full rounded border px-3 py-2">`, html.EscapeString(data.FormName)))
	b.WriteString(`<fieldset><legend class="mb-2 text-sm font-medium">Players</legend>`)
	if len(data.Users) == 0 {
		b.WriteString(`<p class="text-sm text-gray-500">No registered players yet.</p>`)
	} else {
		b.WriteString(`<div class="grid max-h-64 gap-2 overflow-y-auto sm:grid-cols-3">`)
		for _, user := range data.Users {
			checked := ""
			if data.Selected[user.ID] {
				checked = " checked"
			}
			b.WriteString(fmt.Sprintf(`<label class="flex items-center gap-2 text-sm"><input type="checkbox" name="user_id" value="%d"%s>%s</label>`, user.ID, checked, html.EscapeString(user.Name)))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</fieldset>`)
	if data.FormError != "" {
		b.WriteString(fmt.Sprintf(`<p class="text-sm text-red-600" role="alert">%s</p>`, html.EscapeString(data.FormError)))
	}
	b.WriteString(`<button type="submit" class="rounded bg-indigo-600 px-4 py-2 font-semibold text-white">Create team</button></form>`)
	return b.String()
}

func buildOwnerTeamsListHTML(sportID int64, teams []dbgen.Team) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<div id="owner-teams-list" hx-get="/api/v1/sports/%d/teams" hx-trigger="refreshTeamsList from:body" hx-swap="outerHTML">`, sportID))
	if len(teams) == 0 {
		b.WriteString(`<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No teams yet.</div></div>`)
		return b.String()
	}
	b.WriteString(`<ul class="divide-y rounded-lg bg-white shadow">`)
	for _, team := range teams {
		b.WriteString(fmt.Sprintf(`<li id="team-%d" class="flex items-center justify-between p-3"><a class="font-medium text-indigo-700 hover:underline" href="/teams/%d/players">%s</a><button class="text-sm text-red-600" hx-delete="/api/v1/teams/%d" hx-confirm="Delete %s and its matches?" hx-target="#team-%d" hx-swap="outerHTML">Delete</button></li>`,
			team.ID, team.ID, html.EscapeString(team.Name), team.ID, html.EscapeString(team.Name), team.ID))
	}
	b.WriteString(`</ul></div>`)
	return b.String()
}
