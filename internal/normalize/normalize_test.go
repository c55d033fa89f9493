package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefinition(t *testing.T) {
	assert.Equal(t, "", Definition(""))
	assert.Equal(t, "", Definition("   \n\t  "))
	assert.Equal(t, "SELECT 1", Definition("select   1"))
	assert.Equal(t, "SELECT 1", Definition("  select\r\n\t1  "))
	assert.Equal(t, "CREATE VIEW DBO.V AS SELECT 1", Definition("CREATE VIEW dbo.V\nAS\nSELECT   1\n"))
}

func TestDefinitionIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"select 1",
		"CREATE   PROCEDURE dbo.P\r\nAS\r\nBEGIN\r\n  SELECT 1\r\nEND",
		"   mixed \t Case\nText  ",
	}
	for _, in := range inputs {
		once := Definition(in)
		twice := Definition(once)
		assert.Equal(t, once, twice, "normalize should be idempotent for %q", in)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("SELECT 1", "select\n1"))
	assert.False(t, Equal("SELECT 1", "SELECT 2"))
}
