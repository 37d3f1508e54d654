package database

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains builds an ILIKE/LIKE pattern matching s anywhere, with wildcards in s escaped.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
