package stringutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestINClause(t *testing.T) {
	placeholders, args := INClause([]int64{7, 9}, 2)
	assert.Equal(t, []string{"$3", "$4"}, placeholders)
	assert.Equal(t, []any{int64(7), int64(9)}, args)

	placeholders, args = INClause([]int64{}, 0)
	assert.Empty(t, placeholders)
	assert.Empty(t, args)
}
