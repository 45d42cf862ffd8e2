package schema

import (
	"strings"

	"github.com/syssam/crate"
)

// Column describes one column of a table definition.
type Column struct {
	Name    string
	Type    ColumnType
	NotNull bool
	// Generated is a generation expression rendered as
	// GENERATED ALWAYS AS (<expr>).
	Generated string
}

// NewColumn returns a column of the given scalar kind.
func NewColumn(name string, kind Kind) *Column {
	return &Column{Name: name, Type: ColumnType{Kind: kind}}
}

// NewArrayColumn returns an array column with the given item type.
func NewArrayColumn(name string, elem ColumnType) *Column {
	return &Column{Name: name, Type: ArrayOf(elem)}
}

// Nullable marks the column nullable or not.
func (c *Column) Nullable(v bool) *Column {
	c.NotNull = !v
	return c
}

// GeneratedAs sets the column's generation expression.
func (c *Column) GeneratedAs(expr string) *Column {
	c.Generated = expr
	return c
}

// Table describes one table definition.
type Table struct {
	Name       string
	Columns    []*Column
	PrimaryKey []string
	// Options holds dialect-namespaced creation options, for example
	// "crate_number_of_shards".
	Options map[string]string
}

// NewTable returns a table definition with the given columns.
func NewTable(name string, columns ...*Column) *Table {
	return &Table{Name: name, Columns: columns}
}

// AddColumn appends a column to the definition.
func (t *Table) AddColumn(c *Column) *Table {
	t.Columns = append(t.Columns, c)
	return t
}

// SetPrimaryKey sets the primary key column list.
func (t *Table) SetPrimaryKey(cols ...string) *Table {
	t.PrimaryKey = cols
	return t
}

// Option sets one creation option. Options not namespaced with the
// dialect prefix are kept but ignored at render time.
func (t *Table) Option(k, v string) *Table {
	if t.Options == nil {
		t.Options = make(map[string]string)
	}
	t.Options[k] = v
	return t
}

// CreateTable renders the CREATE TABLE statement for the definition,
// including the dialect's trailing partitioning, clustering and WITH
// clauses.
func CreateTable(t *Table) (string, error) {
	if len(t.Columns) == 0 {
		return "", crate.NewConfigurationError("table has no columns")
	}
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(t.Name)
	sb.WriteString(" (")
	for i, c := range t.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		kw, err := FormatType(c.Type)
		if err != nil {
			return "", err
		}
		sb.WriteString(c.Name)
		sb.WriteString(" ")
		sb.WriteString(kw)
		if c.Generated != "" {
			sb.WriteString(" GENERATED ALWAYS AS (")
			sb.WriteString(c.Generated)
			sb.WriteString(")")
		}
		if c.NotNull {
			sb.WriteString(" NOT NULL")
		}
	}
	if len(t.PrimaryKey) > 0 {
		sb.WriteString(", PRIMARY KEY (")
		sb.WriteString(strings.Join(t.PrimaryKey, ", "))
		sb.WriteString(")")
	}
	sb.WriteString(")")
	sb.WriteString(PostCreateTable(t.Options))
	return sb.String(), nil
}
