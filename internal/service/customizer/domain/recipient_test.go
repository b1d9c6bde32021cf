package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialsFromName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"robert", "R"},
		{"robert smith", "RS"},
		{"robert james smith", "RJS"},
		{"robert james smith jr", "RJS"}, // 超过三段截断
		{"  mary   ann  ", "MA"},         // 多余空白被忽略
		{"émile zola", "ÉZ"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, InitialsFromName(c.name), "name=%q", c.name)
	}
}

func TestRecipientNameParts(t *testing.T) {
	r := Recipient{Name: "robert james smith"}
	assert.Equal(t, "robert", r.FirstName())
	assert.Equal(t, "smith", r.LastName())

	single := Recipient{Name: "madonna"}
	assert.Equal(t, "madonna", single.FirstName())
	assert.Equal(t, "madonna", single.LastName())

	empty := Recipient{}
	assert.Equal(t, "", empty.FirstName())
	assert.Equal(t, "", empty.LastName())
}
