package daydb

import (
	"strings"

	"github.com/starford/daycal/internal/caldate"
)

// SearchResult is one day matching a search.
type SearchResult struct {
	Date    caldate.Date `json:"date"`
	Header  string       `json:"header"`
	Snippet string       `json:"snippet"`
}

const defaultSearchLimit = 20

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches query literally anywhere in a column compared with
// LIKE ... ESCAPE '\'.
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}
