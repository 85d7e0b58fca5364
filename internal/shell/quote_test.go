package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "SalesCampaign", want: "'SalesCampaign'"},
		{name: "embedded quote", input: "bob's list", want: "'bob''s list'"},
		{name: "only quotes", input: "''", want: "''''''"},
		{name: "empty", input: "", want: "''"},
		{name: "spaces and symbols", input: `a "b" $c`, want: `'a "b" $c'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.input))
		})
	}
}

func TestQuoteList(t *testing.T) {
	assert.Equal(t, "@('alpha', 'bob''s')", QuoteList([]string{"alpha", "bob's"}))
	assert.Equal(t, "@('one')", QuoteList([]string{"one"}))
	assert.Equal(t, "@()", QuoteList(nil))
}
