package scripter

import (
	"fmt"
	"strings"

	"github.com/peopleworks/SqlSchemaDiff/internal/catalog"
)

// renderType renders a column's type per §4.3: user-defined types render
// as "<type-schema>.<type-name>"; builtin types render by case-folded
// name with a length/precision/scale suffix where the type takes one.
func renderType(c catalog.Column) string {
	if c.UserDefinedType {
		return c.TypeSchema + "." + c.TypeName
	}

	name := strings.ToLower(c.TypeName)
	switch name {
	case "varchar", "char", "varbinary", "binary":
		return fmt.Sprintf("%s(%s)", name, lengthOrMax(c.MaxLength))
	case "nvarchar", "nchar":
		if c.MaxLength == -1 {
			return fmt.Sprintf("%s(MAX)", name)
		}
		return fmt.Sprintf("%s(%d)", name, c.MaxLength/2)
	case "decimal", "numeric":
		return fmt.Sprintf("%s(%d,%d)", name, c.Precision, c.Scale)
	case "datetime2", "datetimeoffset", "time":
		return fmt.Sprintf("%s(%d)", name, c.Scale)
	case "float":
		if c.Precision != 53 {
			return fmt.Sprintf("float(%d)", c.Precision)
		}
		return "float"
	default:
		return name
	}
}

func lengthOrMax(maxLength int) string {
	if maxLength == -1 {
		return "MAX"
	}
	return fmt.Sprintf("%d", maxLength)
}

// renderColumn renders one column definition per §4.3's "Column
// rendering" rules.
func renderColumn(c catalog.Column) string {
	name := QuoteIdent(c.Name)

	if c.Computed {
		var b strings.Builder
		fmt.Fprintf(&b, "%s AS %s", name, c.ComputedExpr)
		if c.Persisted {
			b.WriteString(" PERSISTED")
		}
		return b.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", name, renderType(c))

	if c.Collation != "" {
		fmt.Fprintf(&b, " COLLATE %s", c.Collation)
	}
	if c.Identity {
		seed, increment := c.IdentitySeed, c.IdentityIncrement
		if seed == "" || increment == "" {
			seed, increment = "1", "1"
		}
		fmt.Fprintf(&b, " IDENTITY(%s,%s)", seed, increment)
	}
	if c.RowGUIDCol {
		b.WriteString(" ROWGUIDCOL")
	}
	if c.Nullable {
		b.WriteString(" NULL")
	} else {
		b.WriteString(" NOT NULL")
	}
	if c.DefaultExpr != "" {
		if c.DefaultName != "" {
			fmt.Fprintf(&b, " CONSTRAINT %s", QuoteIdent(c.DefaultName))
		}
		fmt.Fprintf(&b, " DEFAULT %s", c.DefaultExpr)
	}
	return b.String()
}
