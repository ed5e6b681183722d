package matches

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	dbgen "github.com/codr1/Arena/internal/db/generated"
	"github.com/codr1/Arena/internal/leagues"
)

// liveScript refetches the match list whenever the sport's socket reports a
// change, reconnecting with backoff.
const liveScript = `<script>(function(){var el=document.getElementById("matches-live");if(!el)return;var url=(location.protocol==="https:"?"wss://":"ws://")+location.host+el.dataset.ws;var delay=1000;function connect(){var ws=new WebSocket(url);ws.onopen=function(){delay=1000;};ws.onmessage=function(){document.body.dispatchEvent(new Event("matchUpdate"));};ws.onclose=function(){setTimeout(connect,delay);delay=Math.min(delay*2,30000);};}connect();})();</script>`

func PublicMatchesPage(data PublicMatchesData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(fmt.Sprintf(`<section class="space-y-6"><div class="flex items-center justify-between"><h1 class="text-2xl font-bold">%s Matches</h1><a class="text-sm text-indigo-700 hover:underline" href="/sports/%d/teams">View teams</a></div>`,
			html.EscapeString(data.Sport.Name), data.Sport.ID))
		b.WriteString(fmt.Sprintf(`<div id="matches-live" data-ws="/ws/sports/%d"></div>`, data.Sport.ID))
		b.WriteString(buildPublicListHTML(data.Sport.ID, data.Matches))
		b.WriteString(`</section>`)
		b.WriteString(liveScript)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// PublicMatchesList is the live-refreshed list on the public page.
func PublicMatchesList(sportID int64, matches []Match) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildPublicListHTML(sportID, matches))
		return err
	})
}

func PointsTablePage(data PointsTableData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(fmt.Sprintf(`<section class="space-y-8"><div><a class="text-sm text-indigo-700 hover:underline" href="/owner/sports">&larr; Sports</a><h1 class="text-2xl font-bold">%s Points Table</h1></div>`, html.EscapeString(data.Sport.Name)))
		b.WriteString(buildMatchFormHTML(data.Form))
		if len(data.Teams) >= 2 {
			b.WriteString(fmt.Sprintf(`<form hx-post="/api/v1/sports/%d/fixtures" hx-target="#fixtures-result" class="flex flex-wrap items-end gap-3 rounded-lg bg-white p-4 shadow"><label class="text-sm">First kickoff<input type="datetime-local" name="start" class="block rounded border px-2 py-1"></label><label class="text-sm">Minutes between rounds<input type="number" min="1" name="interval_minutes" value="60" class="block w-28 rounded border px-2 py-1"></label><button type="submit" class="rounded bg-gray-800 px-4 py-2 text-sm font-semibold text-white">Generate round robin</button><div id="fixtures-result" class="text-sm"></div></form>`, data.Sport.ID))
		}
		b.WriteString(buildOwnerListHTML(data.Sport.ID, data.Matches, data.Teams))
		b.WriteString(`<h2 class="text-xl font-semibold">Standings</h2>`)
		b.WriteString(buildStandingsHTML(data.Sport.ID, data.Standings))
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func MatchForm(data MatchFormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildMatchFormHTML(data))
		return err
	})
}

// OwnerMatchesList refreshes on the refreshMatchesList trigger.
func OwnerMatchesList(sportID int64, matches []Match, teams []dbgen.Team) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildOwnerListHTML(sportID, matches, teams))
		return err
	})
}

// MatchRow is one editable match on the points table.
func MatchRow(data RowData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildOwnerRowHTML(data))
		return err
	})
}

func Standings(sportID int64, standings []leagues.TeamStanding) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildStandingsHTML(sportID, standings))
		return err
	})
}

func FixturesResult(created int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, fmt.Sprintf(`<span class="text-green-700">%d fixtures created</span>`, created))
		return err
	})
}

func buildPublicListHTML(sportID int64, matches []Match) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<div id="matches-list" hx-get="/api/v1/sports/%d/matches" hx-trigger="matchUpdate from:body" hx-swap="outerHTML">`, sportID))
	if len(matches) == 0 {
		b.WriteString(`<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No matches scheduled yet.</div></div>`)
		return b.String()
	}
	b.WriteString(`<ul class="space-y-3">`)
	for _, match := range matches {
		b.WriteString(fmt.Sprintf(`<li id="match-%d" class="rounded-lg bg-white p-4 shadow"><div class="flex items-center justify-between"><span class="rounded px-2 py-0.5 text-xs font-bold %s">%s</span><span class="text-xs text-gray-500">%s</span></div>`,
			match.ID, match.BadgeClass(), match.Badge(), html.EscapeString(match.ScheduledLabel())))
		b.WriteString(fmt.Sprintf(`<div class="mt-3 grid grid-cols-3 items-center text-center"><span class="font-semibold">%s</span><span class="text-2xl font-bold tabular-nums">%d : %d</span><span class="font-semibold">%s</span></div></li>`,
			html.EscapeString(match.Team1Name), match.Team1Points, match.Team2Points, html.EscapeString(match.Team2Name)))
	}
	b.WriteString(`</ul></div>`)
	return b.String()
}

func buildMatchFormHTML(data MatchFormData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<form id="match-form" hx-post="/api/v1/sports/%d/matches" hx-target="this" hx-swap="outerHTML" class="grid gap-3 rounded-lg bg-white p-4 shadow sm:grid-cols-4">`, data.SportID))
	if len(data.Teams) < 2 {
		b.WriteString(`<p class="text-sm text-gray-500 sm:col-span-4">Create at least two teams before adding matches.</p></form>`)
		return b.String()
	}
	b.WriteString(teamSelectHTML("team1_id", data.Teams, data.Team1ID))
	b.WriteString(teamSelectHTML("team2_id", data.Teams, data.Team2ID))
	b.WriteString(fmt.Sprintf(`<input type="number" min="0" name="team1_points" placeholder="Team 1 points" value="%s" class="rounded border px-2 py-1">`, html.EscapeString(data.Team1Points)))
	b.WriteString(fmt.Sprintf(`<input type="number" min="0" name="team2_points" placeholder="Team 2 points" value="%s" class="rounded border px-2 py-1">`, html.EscapeString(data.Team2Points)))
	b.WriteString(statusSelectHTML(data.Status))
	b.WriteString(fmt.Sprintf(`<input type="datetime-local" name="scheduled_at" value="%s" class="rounded border px-2 py-1">`, html.EscapeString(data.ScheduledAt)))
	b.WriteString(`<button type="submit" class="rounded bg-indigo-600 px-4 py-2 font-semibold text-white sm:col-span-2">Add match</button>`)
	if data.Error != "" {
		b.WriteString(fmt.Sprintf(`<p class="text-sm text-red-600 sm:col-span-4" role="alert">%s</p>`, html.EscapeString(data.Error)))
	}
	b.WriteString(`</form>`)
	return b.String()
}

func buildOwnerListHTML(sportID int64, matches []Match, teams []dbgen.Team) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<div id="owner-matches-list" hx-get="/api/v1/sports/%d/matches?view=owner" hx-trigger="refreshMatchesList from:body" hx-swap="outerHTML" class="space-y-3">`, sportID))
	if len(matches) == 0 {
		b.WriteString(`<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No matches yet.</div>`)
	}
	for _, match := range matches {
		b.WriteString(buildOwnerRowHTML(RowData{Match: match, Teams: teams}))
	}
	b.WriteString(`</div>`)
	return b.String()
}

func buildOwnerRowHTML(data RowData) string {
	m := data.Match
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<div id="owner-match-%d" class="space-y-3 rounded-lg bg-white p-4 shadow">`, m.ID))
	b.WriteString(fmt.Sprintf(`<div class="flex items-center justify-between"><span class="rounded px-2 py-0.5 text-xs font-bold %s">%s</span><button class="text-sm text-red-600" hx-delete="/api/v1/matches/%d" hx-confirm="Delete this match?" hx-target="#owner-match-%d" hx-swap="outerHTML">Delete</button></div>`,
		m.BadgeClass(), m.Badge(), m.ID, m.ID))

	b.WriteString(`<div class="grid grid-cols-3 items-center text-center">`)
	b.WriteString(scoreSideHTML(m, 1, m.Team1Name, m.Team1Points))
	b.WriteString(`<span class="text-gray-400">vs</span>`)
	b.WriteString(scoreSideHTML(m, 2, m.Team2Name, m.Team2Points))
	b.WriteString(`</div>`)

	b.WriteString(fmt.Sprintf(`<form hx-put="/api/v1/matches/%d" hx-target="#owner-match-%d" hx-swap="outerHTML" class="grid gap-2 border-t pt-3 text-sm sm:grid-cols-6">`, m.ID, m.ID))
	b.WriteString(teamSelectHTML("team1_id", data.Teams, m.Team1ID))
	b.WriteString(teamSelectHTML("team2_id", data.Teams, m.Team2ID))
	b.WriteString(fmt.Sprintf(`<input type="number" min="0" name="team1_points" value="%d" class="rounded border px-2 py-1">`, m.Team1Points))
	b.WriteString(fmt.Sprintf(`<input type="number" min="0" name="team2_points" value="%d" class="rounded border px-2 py-1">`, m.Team2Points))
	b.WriteString(statusSelectHTML(m.Status))
	b.WriteString(fmt.Sprintf(`<input type="datetime-local" name="scheduled_at" value="%s" class="rounded border px-2 py-1">`, html.EscapeString(m.ScheduledValue())))
	b.WriteString(`<button type="submit" class="rounded bg-gray-800 px-3 py-1 font-semibold text-white sm:col-span-6">Save</button>`)
	if data.Error != "" {
		b.WriteString(fmt.Sprintf(`<p class="text-sm text-red-600 sm:col-span-6" role="alert">%s</p>`, html.EscapeString(data.Error)))
	}
	b.WriteString(`</form></div>`)
	return b.String()
}

func scoreSideHTML(m Match, team int, name string, points int64) string {
	disabled := ""
	if !m.IsLive() {
		disabled = " disabled"
	}
	return fmt.Sprintf(`<div><div class="font-semibold">%s</div><div class="mt-1 flex items-center justify-center gap-2"><button class="h-8 w-8 rounded bg-gray-200 font-bold disabled:opacity-40" hx-post="/api/v1/matches/%d/score" hx-vals='{"team":"%d","delta":"-1"}' hx-target="#owner-match-%d" hx-swap="outerHTML"%s>-</button><span class="w-10 text-2xl font-bold tabular-nums">%d</span><button class="h-8 w-8 rounded bg-indigo-600 font-bold text-white disabled:opacity-40" hx-post="/api/v1/matches/%d/score" hx-vals='{"team":"%d","delta":"1"}' hx-target="#owner-match-%d" hx-swap="outerHTML"%s>+</button></div></div>`,
		html.EscapeString(name), m.ID, team, m.ID, disabled, points, m.ID, team, m.ID, disabled)
}

func buildStandingsHTML(sportID int64, standings []leagues.TeamStanding) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<div id="standings" hx-get="/api/v1/sports/%d/standings" hx-trigger="refreshStandings from:body" hx-swap="outerHTML">`, sportID))
	if len(standings) == 0 {
		b.WriteString(`<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No teams yet.</div></div>`)
		return b.String()
	}
	b.WriteString(`<table class="w-full rounded-lg bg-white text-left text-sm shadow"><thead><tr class="border-b"><th class="p-2">#</th><th class="p-2">Team</th><th class="p-2">P</th><th class="p-2">W</th><th class="p-2">D</th><th class="p-2">L</th><th class="p-2">+/-</th><th class="p-2">Pts</th></tr></thead><tbody>`)
	for i, s := range standings {
		b.WriteString(fmt.Sprintf(`<tr class="border-b"><td class="p-2">%d</td><td class="p-2 font-medium">%s</td><td class="p-2">%d</td><td class="p-2">%d</td><td class="p-2">%d</td><td class="p-2">%d</td><td class="p-2">%+d</td><td class="p-2 font-bold">%d</td></tr>`,
			i+1, html.EscapeString(s.TeamName), s.MatchesPlayed, s.Wins, s.Draws, s.Losses, s.ScoreDiff, s.Points))
	}
	b.WriteString(`</tbody></table></div>`)
	return b.String()
}

func teamSelectHTML(name string, teams []dbgen.Team, selected int64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<select name="%s" required class="rounded border px-2 py-1"><option value="">Select team</option>`, name))
	for _, team := range teams {
		sel := ""
		if team.ID == selected {
			sel = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%d"%s>%s</option>`, team.ID, sel, html.EscapeString(team.Name)))
	}
	b.WriteString(`</select>`)
	return b.String()
}

func statusSelectHTML(selected string) string {
	if selected == "" {
		selected = leagues.StatusUpcoming
	}
	var b strings.Builder
	b.WriteString(`<select name="status" class="rounded border px-2 py-1">`)
	for _, status := range []string{leagues.StatusUpcoming, leagues.StatusLive, leagues.StatusCompleted} {
		sel := ""
		if status == selected {
			sel = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%s"%s>%s</option>`, status, sel, leagues.DisplayStatus(status)))
	}
	b.WriteString(`</select>`)
	return b.String()
}
