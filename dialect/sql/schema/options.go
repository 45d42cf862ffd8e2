package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/syssam/crate/dialect"
)

// Options handled outside the generic WITH block.
const (
	optPartitionedBy  = "PARTITIONED_BY"
	optClusteredBy    = "CLUSTERED_BY"
	optNumberOfShards = "NUMBER_OF_SHARDS"
)

// PostCreateTable renders the trailing clauses of a CREATE TABLE statement
// from the table's option map. Only options prefixed with the dialect name
// participate; the prefix is stripped and the remainder uppercased before
// classification. Emission order is fixed: PARTITIONED BY, then the
// combined CLUSTERED clause, then a WITH block carrying every remaining
// option sorted by key. Each clause is omitted when its options are
// absent. The rendered text starts with a space so it appends directly to
// the closing parenthesis of the column list.
func PostCreateTable(opts map[string]string) string {
	prefix := dialect.Crate + "_"
	selected := make(map[string]string)
	for k, v := range opts {
		if name, ok := strings.CutPrefix(k, prefix); ok {
			selected[strings.ToUpper(name)] = v
		}
	}

	var sb strings.Builder
	if v, ok := selected[optPartitionedBy]; ok {
		fmt.Fprintf(&sb, " PARTITIONED BY (%s)", v)
		delete(selected, optPartitionedBy)
	}
	by, hasBy := selected[optClusteredBy]
	shards, hasShards := selected[optNumberOfShards]
	if hasBy || hasShards {
		sb.WriteString(" CLUSTERED")
		if hasBy {
			fmt.Fprintf(&sb, " BY (%s)", by)
			delete(selected, optClusteredBy)
		}
		if hasShards {
			fmt.Fprintf(&sb, " INTO %s SHARDS", shards)
			delete(selected, optNumberOfShards)
		}
	}
	if len(selected) > 0 {
		pairs := make([]string, 0, len(selected))
		for k, v := range selected {
			pairs = append(pairs, fmt.Sprintf("%s = %s", strings.ToLower(k), v))
		}
		sort.Strings(pairs)
		fmt.Fprintf(&sb, " WITH (%s)", strings.Join(pairs, ", "))
	}
	return sb.String()
}
