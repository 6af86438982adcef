// Package sqlite provides a SQLite-based implementation of the
// AnnotationStore driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. The database holds the
// four HPO annotation tables (phenotype_to_genes, genes_to_phenotype,
// genes_to_disease, hpo_annotations) and is populated from the official HPO
// distribution files via the bulk insert methods.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files.
//
// # Data Location
//
// By default, the database is stored at ~/.phenomap/data/annotations.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
