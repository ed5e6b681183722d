package nav

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

type SearchResults struct {
	Query   string
	Teams   []dbgen.SearchTeamsRow
	Players []dbgen.SearchUsersRow
}

// Results is the dropdown under the header search box.
func Results(data SearchResults) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div id="search-results" class="absolute right-0 z-10 mt-1 w-72 rounded-lg border bg-white text-sm shadow-lg">`)
		if len(data.Teams) == 0 && len(data.Players) == 0 {
			b.WriteString(fmt.Sprintf(`<p class="p-3 text-gray-500">No results for "%s"</p></div>`, html.EscapeString(data.Query)))
			_, err := io.WriteString(w, b.String())
			return err
		}
		if len(data.Teams) > 0 {
			b.WriteString(`<p class="px-3 pt-2 text-xs font-semibold uppercase text-gray-400">Teams</p><ul>`)
			for _, team := range data.Teams {
				b.WriteString(fmt.Sprintf(`<li><a class="block px-3 py-2 hover:bg-gray-50" href="/teams/%d/players">%s <span class="text-gray-400">%s</span></a></li>`,
					team.ID, html.EscapeString(team.Name), html.EscapeString(team.SportName)))
			}
			b.WriteString(`</ul>`)
		}
		if len(data.Players) > 0 {
			b.WriteString(`<p class="px-3 pt-2 text-xs font-semibold uppercase text-gray-400">Players</p><ul>`)
			for _, player := range data.Players {
				imageURL := ""
				if player.ImageUrl.Valid {
					imageURL = player.ImageUrl.String
				}
				b.WriteString(`<li class="flex items-center gap-2 px-3 py-2">`)
				b.WriteString(layouts.AvatarHTML(player.Name, imageURL))
				b.WriteString(fmt.Sprintf(`<span>%s</span></li>`, html.EscapeString(player.Name)))
			}
			b.WriteString(`</ul>`)
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
