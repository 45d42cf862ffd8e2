package sql

import (
	"fmt"

	"github.com/syssam/crate"
)

// Compiled is a statement ready for execution: its query text, bound
// arguments in placeholder order, and the column bookkeeping callers need
// around execution.
type Compiled struct {
	// Query is the statement text with `?` placeholders.
	Query string
	// Args are the bound arguments in placeholder order.
	Args []any
	// Prefetch lists columns whose values were computed client-side from
	// defaults and bound into Args.
	Prefetch []string
	// Postfetch lists columns the server computes; callers read them back
	// after execution.
	Postfetch []string
	// Returning lists the columns of the RETURNING clause, if any.
	Returning []string
	// BatchArgs holds the argument sets of any additional rows of a
	// batched UPDATE, executed once per set with the same query text.
	BatchArgs [][]any
}

// Compiler turns statement descriptors into Compiled statements for one
// target server. The version-sensitive strategy is chosen once at
// construction; a Compiler is immutable and safe for concurrent use.
type Compiler struct {
	caps Capabilities
	mode Mode
}

// NewCompiler returns a compiler for the given capabilities.
func NewCompiler(caps Capabilities) *Compiler {
	return &Compiler{caps: caps, mode: caps.mode()}
}

// Mode returns the compilation strategy in effect.
func (c *Compiler) Mode() Mode { return c.mode }

// Capabilities returns the capabilities the compiler was built for.
func (c *Compiler) Capabilities() Capabilities { return c.caps }

// CompileInsert compiles an INSERT statement.
func (c *Compiler) CompileInsert(i *InsertBuilder) (*Compiled, error) {
	if err := validateInsert(i); err != nil {
		return nil, fmt.Errorf("dialect/sql: compile insert: %w", err)
	}
	plan, err := resolveInsert(i, c.caps, c.mode)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: compile insert: %w", err)
	}
	out, err := c.renderInsert(i, plan)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: compile insert: %w", err)
	}
	return out, nil
}

// CompileUpdate compiles an UPDATE statement. Tracked document parameters
// must be expanded through RewriteUpdate before compilation; whole
// documents bind as-is otherwise.
func (c *Compiler) CompileUpdate(u *UpdateBuilder) (*Compiled, error) {
	if err := validateUpdate(u); err != nil {
		return nil, fmt.Errorf("dialect/sql: compile update: %w", err)
	}
	plan, err := resolveUpdate(u)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: compile update: %w", err)
	}
	out, err := c.renderUpdate(u, plan)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: compile update: %w", err)
	}
	return out, nil
}

// validateInsert checks that at most one parameter source is populated.
func validateInsert(i *InsertBuilder) error {
	if i.table == nil {
		return crate.NewConfigurationError("insert has no table")
	}
	if len(i.table.columns) == 0 {
		return crate.NewConfigurationError("insert table has no columns")
	}
	n := 0
	if i.values != nil {
		n++
	}
	if len(i.rows) > 0 {
		n++
	}
	if i.sel != nil {
		n++
	}
	if i.defaults {
		n++
	}
	if n > 1 {
		return crate.NewConfigurationError("insert mixes parameter sources")
	}
	return nil
}

func validateUpdate(u *UpdateBuilder) error {
	if u.table == nil {
		return crate.NewConfigurationError("update has no table")
	}
	if u.values != nil && len(u.rows) > 0 {
		return crate.NewConfigurationError("update mixes parameter sources")
	}
	if u.limit < 0 {
		return crate.NewConfigurationError("update has negative limit")
	}
	return nil
}
