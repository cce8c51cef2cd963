package stringutils

import (
	"fmt"
)

// INClause builds positional placeholders for an IN (...) list. Numbering starts after
// the first `offset` placeholders already used by the statement.
func INClause[T any](list []T, offset int) (placeholders []string, args []any) {
	placeholders = make([]string, len(list))
	args = make([]any, len(list))
	for i, id := range list {
		placeholders[i] = fmt.Sprintf("$%d", offset+i+1)
		args[i] = id
	}

	return placeholders, args
}
