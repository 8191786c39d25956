package sqlutil

import "strings"

// LikeEscape is appended to LIKE predicates built from ContainsPattern.
const LikeEscape = `ESCAPE '\'`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern lowercases q and wraps it for a substring LIKE match,
// escaping wildcard characters so user input matches literally.
func ContainsPattern(q string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(q)) + "%"
}

// ILike renders a case-insensitive LIKE predicate for column.
func ILike(column string) string {
	return "LOWER(" + column + ") LIKE ? " + LikeEscape
}
