package orderer

import (
	"strings"
	"testing"

	"github.com/peopleworks/SqlSchemaDiff/internal/differ"
	"github.com/peopleworks/SqlSchemaDiff/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pc(kind snapshot.Kind, schema, name string, deps ...string) differ.PendingCreate {
	obj := snapshot.Object{Kind: kind, Schema: schema, Name: name, Dependencies: deps}
	return differ.PendingCreate{Object: obj, Statement: obj.Key()}
}

func TestOrderRespectsDependencyEdges(t *testing.T) {
	parent := pc(snapshot.Table, "dbo", "Parent")
	child := pc(snapshot.Table, "dbo", "Child", snapshot.Key(snapshot.Table, "dbo", "Parent"))

	out := Order([]differ.PendingCreate{child, parent})
	require.Len(t, out, 2)
	parentIdx := indexOf(out, parent.Statement)
	childIdx := indexOf(out, child.Statement)
	assert.True(t, parentIdx < childIdx)
}

func TestOrderDeterministicTieBreak(t *testing.T) {
	a := pc(snapshot.Table, "dbo", "Bravo")
	b := pc(snapshot.Table, "dbo", "Alpha")
	out1 := Order([]differ.PendingCreate{a, b})
	out2 := Order([]differ.PendingCreate{b, a})
	assert.Equal(t, out1, out2)
	assert.Equal(t, []string{b.Statement, a.Statement}, out1)
}

func TestOrderCreatePriorityBeforeKey(t *testing.T) {
	tbl := pc(snapshot.Table, "dbo", "Z")
	view := pc(snapshot.View, "dbo", "A")
	out := Order([]differ.PendingCreate{view, tbl})
	assert.Equal(t, []string{tbl.Statement, view.Statement}, out)
}

func TestOrderCycleFallback(t *testing.T) {
	a := pc(snapshot.View, "dbo", "A", snapshot.Key(snapshot.View, "dbo", "B"))
	b := pc(snapshot.View, "dbo", "B", snapshot.Key(snapshot.View, "dbo", "A"))

	out := Order([]differ.PendingCreate{a, b})
	joined := strings.Join(out, "")
	assert.Contains(t, joined, "WARNING")
	assert.Contains(t, out, a.Statement)
	assert.Contains(t, out, b.Statement)

	count := 0
	for _, s := range out {
		if s == a.Statement || s == b.Statement {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestOrderDedupesByKeyFirstOccurrenceWins(t *testing.T) {
	first := pc(snapshot.Table, "dbo", "T")
	first.Statement = "first"
	second := pc(snapshot.Table, "dbo", "T")
	second.Statement = "second"

	out := Order([]differ.PendingCreate{first, second})
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0])
}

func TestOrderIgnoresDependencyOutsidePendingSet(t *testing.T) {
	tbl := pc(snapshot.Table, "dbo", "T", snapshot.Key(snapshot.Table, "dbo", "NotPending"))
	out := Order([]differ.PendingCreate{tbl})
	require.Len(t, out, 1)
	assert.Equal(t, tbl.Statement, out[0])
}

func indexOf(ss []string, s string) int {
	for i, v := range ss {
		if v == s {
			return i
		}
	}
	return -1
}
