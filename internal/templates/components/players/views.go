package players

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/Arena/internal/templates/layouts"
)

func PlayersPage(players []Player) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(fmt.Sprintf(`<section class="space-y-6"><h1 class="text-2xl font-bold">Registered Players <span class="text-base font-normal text-gray-500">(%d)</span></h1>`, len(players)))
		if len(players) == 0 {
			b.WriteString(`<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No players have registered yet.</div>`)
		} else {
			b.WriteString(`<ul class="grid gap-4 sm:grid-cols-3">`)
			for _, player := range players {
				b.WriteString(`<li class="flex items-center gap-3 rounded-lg bg-white p-4 shadow">`)
				b.WriteString(layouts.AvatarHTML(player.Name, player.ImageURL))
				b.WriteString(fmt.Sprintf(`<span class="font-medium">%s</span></li>`, html.EscapeString(player.Name)))
			}
			b.WriteString(`</ul>`)
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func OwnerPlayersPage(players []OwnerPlayer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="space-y-6"><h1 class="text-2xl font-bold">Players</h1>`)
		b.WriteString(buildOwnerTableHTML(players))
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// OwnerPlayersTable refreshes on refreshPlayersList.
func OwnerPlayersTable(players []OwnerPlayer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildOwnerTableHTML(players))
		return err
	})
}

func buildOwnerTableHTML(players []OwnerPlayer) string {
	var b strings.Builder
	b.WriteString(`<div id="owner-players-list" hx-get="/api/v1/players" hx-trigger="refreshPlayersList from:body" hx-swap="outerHTML">`)
	if len(players) == 0 {
		b.WriteString(`<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No players have registered yet.</div></div>`)
		return b.String()
	}
	b.WriteString(`<table class="w-full rounded-lg bg-white text-left text-sm shadow"><thead><tr class="border-b"><th class="p-2">Photo</th><th class="p-2">Name</th><th class="p-2">Mobile</th><th class="p-2">Code</th><th class="p-2">Registered</th><th class="p-2"></th></tr></thead><tbody>`)
	for _, player := range players {
		b.WriteString(fmt.Sprintf(`<tr id="player-%d" class="border-b"><td class="p-2">%s</td><td class="p-2 font-medium">%s</td><td class="p-2 tabular-nums">%s</td><td class="p-2">%s</td><td class="p-2 text-gray-500">%s</td>`,
			player.ID,
			layouts.AvatarHTML(player.Name, player.ImageURL()),
			html.EscapeString(player.Name),
			html.EscapeString(player.PhoneNumber),
			html.EscapeString(player.TournamentCode),
			html.EscapeString(player.RegisteredLabel())))
		b.WriteString(fmt.Sprintf(`<td class="p-2 text-right"><button class="text-red-600" hx-delete="/api/v1/players/%d" hx-confirm="Remove %s? They will also be removed from their teams." hx-target="#player-%d" hx-swap="outerHTML">Remove</button></td></tr>`,
			player.ID, html.EscapeString(player.Name), player.ID))
	}
	b.WriteString(`</tbody></table></div>`)
	return b.String()
}
