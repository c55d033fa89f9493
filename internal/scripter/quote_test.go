package scripter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, "[Foo]", QuoteIdent("Foo"))
	assert.Equal(t, "[Foo]]Bar]", QuoteIdent("Foo]Bar"))
}

func unquote(s string) string {
	inner := s[1 : len(s)-1]
	out := ""
	for i := 0; i < len(inner); i++ {
		if inner[i] == ']' && i+1 < len(inner) && inner[i+1] == ']' {
			out += "]"
			i++
			continue
		}
		out += string(inner[i])
	}
	return out
}

func TestQuoteRoundTrip(t *testing.T) {
	names := []string{"Foo", "Foo]Bar", "a]]b", "]]]", ""}
	for _, n := range names {
		assert.Equal(t, n, unquote(QuoteIdent(n)))
	}
}

func TestEnsureTrailingBatch(t *testing.T) {
	assert.Equal(t, "CREATE TABLE T (x int);\nGO\n", EnsureTrailingBatch("CREATE TABLE T (x int);"))
	assert.Equal(t, "CREATE TABLE T (x int);\nGO\n", EnsureTrailingBatch("CREATE TABLE T (x int);\nGO\n"))
	assert.Equal(t, "CREATE TABLE T (x int);\ngo\n", EnsureTrailingBatch("CREATE TABLE T (x int);\ngo"))
}
