package scripter

import (
	"regexp"
	"strings"

	"github.com/peopleworks/SqlSchemaDiff/internal/catalog"
	"github.com/peopleworks/SqlSchemaDiff/internal/snapshot"
)

// ScriptProgrammable stores the raw module body as the object's
// definition, whitespace-trimmed, carrying the dependency keys the
// catalog reader recorded for it.
func ScriptProgrammable(p catalog.Programmable, dependencies []string) snapshot.Object {
	return snapshot.Object{
		Kind:         p.Kind,
		Schema:       p.Schema,
		Name:         p.Name,
		Definition:   strings.TrimSpace(p.Body),
		Dependencies: dependencies,
	}
}

var leadingCreate = regexp.MustCompile(`(?is)^(\s*)CREATE(\s)`)

// RewriteCreateOrAlter rewrites a programmable definition's leading
// CREATE keyword (case-insensitive, leading-whitespace-tolerant) to
// CREATE OR ALTER. If the body does not begin with CREATE, it is
// returned unchanged — an open question per §9-Q1, preserved as-is here.
func RewriteCreateOrAlter(definition string) string {
	if leadingCreate.MatchString(definition) {
		return leadingCreate.ReplaceAllString(definition, "${1}CREATE OR ALTER${2}")
	}
	return definition
}
