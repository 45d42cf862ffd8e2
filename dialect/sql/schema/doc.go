// Package schema renders CrateDB table definitions: column types, CREATE
// TABLE statements, and the trailing partitioning, clustering and storage
// clauses CrateDB layers on top of ordinary relational DDL.
//
// Table options are namespaced with the dialect name, mirroring how the
// rest of the adapter attaches dialect-specific metadata:
//
//	t := schema.NewTable("logs",
//		schema.NewColumn("id", schema.String),
//		schema.NewColumn("payload", schema.Object),
//	).
//		Option("crate_partitioned_by", "region").
//		Option("crate_clustered_by", "id").
//		Option("crate_number_of_shards", "4")
//
//	ddl, err := schema.CreateTable(t)
package schema
