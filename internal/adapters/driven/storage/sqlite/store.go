package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/phenomap-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
)

// Store is a SQLite-backed HPO annotation database. It serves the read
// paths of the lookup service and is populated from the official HPO
// distribution files via the insert methods.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.AnnotationStore = (*Store)(nil)

// NewStore opens (or creates) the annotation database under dataDir.
// If dataDir is empty, defaults to ~/.phenomap/data/annotations.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".phenomap", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "annotations.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Lookups ====================

// GenesByHPO returns the genes associated with an HPO term.
func (s *Store) GenesByHPO(ctx context.Context, hpoID string) (driven.HPOTerm, []driven.Gene, error) {
	term := driven.HPOTerm{ID: hpoID}

	row := s.db.QueryRowContext(ctx, `
		SELECT hpo_name FROM phenotype_to_genes WHERE hpo_id = ? LIMIT 1
	`, hpoID)
	if err := row.Scan(&term.Name); err != nil {
		if err == sql.ErrNoRows {
			return driven.HPOTerm{}, nil, fmt.Errorf("HPO term %s: %w", hpoID, domain.ErrNotFound)
		}
		return driven.HPOTerm{}, nil, fmt.Errorf("querying HPO term: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT ncbi_gene_id, gene_symbol
		FROM phenotype_to_genes
		WHERE hpo_id = ?
		ORDER BY gene_symbol
	`, hpoID)
	if err != nil {
		return driven.HPOTerm{}, nil, fmt.Errorf("querying genes: %w", err)
	}
	defer rows.Close()

	genes, err := scanGenes(rows)
	if err != nil {
		return driven.HPOTerm{}, nil, err
	}
	return term, genes, nil
}

// HPOByGene returns the HPO terms associated with a gene. The gene may be
// given by symbol or by NCBI gene ID.
func (s *Store) HPOByGene(ctx context.Context, geneID string) (driven.Gene, []driven.HPOTerm, error) {
	var gene driven.Gene
	row := s.db.QueryRowContext(ctx, `
		SELECT ncbi_gene_id, gene_symbol
		FROM genes_to_phenotype
		WHERE gene_symbol = ? OR ncbi_gene_id = ?
		LIMIT 1
	`, geneID, geneID)
	if err := row.Scan(&gene.NCBIGeneID, &gene.Symbol); err != nil {
		if err == sql.ErrNoRows {
			return driven.Gene{}, nil, fmt.Errorf("gene %s: %w", geneID, domain.ErrNotFound)
		}
		return driven.Gene{}, nil, fmt.Errorf("querying gene: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT hpo_id, hpo_name
		FROM genes_to_phenotype
		WHERE gene_symbol = ? OR ncbi_gene_id = ?
		ORDER BY hpo_id
	`, geneID, geneID)
	if err != nil {
		return driven.Gene{}, nil, fmt.Errorf("querying phenotypes: %w", err)
	}
	defer rows.Close()

	terms, err := scanTerms(rows)
	if err != nil {
		return driven.Gene{}, nil, err
	}
	return gene, terms, nil
}

// DiseasesByGene returns the diseases associated with a gene.
func (s *Store) DiseasesByGene(ctx context.Context, geneID string) (driven.Gene, []driven.Disease, error) {
	var gene driven.Gene
	row := s.db.QueryRowContext(ctx, `
		SELECT ncbi_gene_id, gene_symbol
		FROM genes_to_disease
		WHERE gene_symbol = ? OR ncbi_gene_id = ?
		LIMIT 1
	`, geneID, geneID)
	if err := row.Scan(&gene.NCBIGeneID, &gene.Symbol); err != nil {
		if err == sql.ErrNoRows {
			return driven.Gene{}, nil, fmt.Errorf("gene %s: %w", geneID, domain.ErrNotFound)
		}
		return driven.Gene{}, nil, fmt.Errorf("querying gene: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT disease_id
		FROM genes_to_disease
		WHERE gene_symbol = ? OR ncbi_gene_id = ?
		ORDER BY disease_id
	`, geneID, geneID)
	if err != nil {
		return driven.Gene{}, nil, fmt.Errorf("querying diseases: %w", err)
	}
	defer rows.Close()

	var diseases []driven.Disease
	for rows.Next() {
		var d driven.Disease
		if err := rows.Scan(&d.ID); err != nil {
			return driven.Gene{}, nil, fmt.Errorf("scanning disease: %w", err)
		}
		diseases = append(diseases, d)
	}
	if err := rows.Err(); err != nil {
		return driven.Gene{}, nil, fmt.Errorf("iterating diseases: %w", err)
	}
	return gene, diseases, nil
}

// GenesByDisease returns the genes associated with a disease.
func (s *Store) GenesByDisease(ctx context.Context, diseaseID string) ([]driven.Gene, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT ncbi_gene_id, gene_symbol
		FROM genes_to_disease
		WHERE disease_id = ?
		ORDER BY gene_symbol
	`, diseaseID)
	if err != nil {
		return nil, fmt.Errorf("querying genes: %w", err)
	}
	defer rows.Close()

	genes, err := scanGenes(rows)
	if err != nil {
		return nil, err
	}
	if len(genes) == 0 {
		return nil, fmt.Errorf("disease %s: %w", diseaseID, domain.ErrNotFound)
	}
	return genes, nil
}

// DiseasesByHPO returns the diseases annotated with an HPO term.
func (s *Store) DiseasesByHPO(ctx context.Context, hpoID string) ([]driven.Disease, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT DatabaseId, DB_Name
		FROM hpo_annotations
		WHERE HPO_ID = ?
		ORDER BY DatabaseId
	`, hpoID)
	if err != nil {
		return nil, fmt.Errorf("querying diseases: %w", err)
	}
	defer rows.Close()

	var diseases []driven.Disease
	for rows.Next() {
		var d driven.Disease
		var name sql.NullString
		if err := rows.Scan(&d.ID, &name); err != nil {
			return nil, fmt.Errorf("scanning disease: %w", err)
		}
		d.Name = name.String
		diseases = append(diseases, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating diseases: %w", err)
	}
	if len(diseases) == 0 {
		return nil, fmt.Errorf("HPO term %s: %w", hpoID, domain.ErrNotFound)
	}
	return diseases, nil
}

// HPOByDisease returns the HPO terms annotating a disease. Term names are
// resolved against phenotype_to_genes where available.
func (s *Store) HPOByDisease(ctx context.Context, diseaseID string) ([]driven.HPOTerm, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT a.HPO_ID, COALESCE(p.hpo_name, '')
		FROM hpo_annotations a
		LEFT JOIN phenotype_to_genes p ON p.hpo_id = a.HPO_ID
		WHERE a.DatabaseId = ?
		ORDER BY a.HPO_ID
	`, diseaseID)
	if err != nil {
		return nil, fmt.Errorf("querying phenotypes: %w", err)
	}
	defer rows.Close()

	terms, err := scanTerms(rows)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("disease %s: %w", diseaseID, domain.ErrNotFound)
	}
	return terms, nil
}

// AllHPOTerms returns every distinct HPO term in the phenotype_to_genes
// table, ordered by ID. This is the term universe the vector index is
// built from.
func (s *Store) AllHPOTerms(ctx context.Context) ([]driven.HPOTerm, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT hpo_id, hpo_name
		FROM phenotype_to_genes
		ORDER BY hpo_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying HPO terms: %w", err)
	}
	defer rows.Close()

	return scanTerms(rows)
}

// HPONameByID resolves an HPO code to its primary label.
func (s *Store) HPONameByID(ctx context.Context, hpoID string) (driven.HPOTerm, error) {
	term := driven.HPOTerm{ID: hpoID}
	row := s.db.QueryRowContext(ctx, `
		SELECT hpo_name FROM phenotype_to_genes WHERE hpo_id = ? LIMIT 1
	`, hpoID)
	if err := row.Scan(&term.Name); err != nil {
		if err == sql.ErrNoRows {
			return driven.HPOTerm{}, fmt.Errorf("HPO term %s: %w", hpoID, domain.ErrNotFound)
		}
		return driven.HPOTerm{}, fmt.Errorf("querying HPO term: %w", err)
	}
	return term, nil
}

// ==================== Import ====================

// PhenotypeGeneRow is one row of the phenotype_to_genes HPO distribution file.
type PhenotypeGeneRow struct {
	HPOID      string
	HPOName    string
	NCBIGeneID string
	GeneSymbol string
}

// GenePhenotypeRow is one row of the genes_to_phenotype HPO distribution file.
type GenePhenotypeRow struct {
	NCBIGeneID string
	GeneSymbol string
	HPOID      string
	HPOName    string
	Frequency  string
	DiseaseID  string
}

// GeneDiseaseRow is one row of the genes_to_disease HPO distribution file.
type GeneDiseaseRow struct {
	NCBIGeneID      string
	GeneSymbol      string
	AssociationType string
	DiseaseID       string
	Source          string
}

// AnnotationRow is one row of the phenotype.hpoa HPO distribution file.
type AnnotationRow struct {
	DatabaseID  string
	DBName      string
	Qualifier   string
	HPOID       string
	DBReference string
	Evidence    string
	Onset       string
	Frequency   string
	Sex         string
	Modifier    string
	Aspect      string
	Biocuration string
}

// ClearAll empties every annotation table ahead of a fresh import.
func (s *Store) ClearAll(ctx context.Context) error {
	tables := []string{"hpo_annotations", "genes_to_disease", "genes_to_phenotype", "phenotype_to_genes"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// InsertPhenotypeGenes bulk-inserts phenotype_to_genes rows in one transaction.
func (s *Store) InsertPhenotypeGenes(ctx context.Context, rows []PhenotypeGeneRow) error {
	return s.bulkInsert(ctx, `
		INSERT INTO phenotype_to_genes (hpo_id, hpo_name, ncbi_gene_id, gene_symbol)
		VALUES (?, ?, ?, ?)
	`, len(rows), func(stmt *sql.Stmt, i int) error {
		r := rows[i]
		_, err := stmt.ExecContext(ctx, r.HPOID, r.HPOName, r.NCBIGeneID, r.GeneSymbol)
		return err
	})
}

// InsertGenePhenotypes bulk-inserts genes_to_phenotype rows in one transaction.
func (s *Store) InsertGenePhenotypes(ctx context.Context, rows []GenePhenotypeRow) error {
	return s.bulkInsert(ctx, `
		INSERT INTO genes_to_phenotype (ncbi_gene_id, gene_symbol, hpo_id, hpo_name, frequency, disease_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, len(rows), func(stmt *sql.Stmt, i int) error {
		r := rows[i]
		_, err := stmt.ExecContext(ctx, r.NCBIGeneID, r.GeneSymbol, r.HPOID, r.HPOName, r.Frequency, r.DiseaseID)
		return err
	})
}

// InsertGeneDiseases bulk-inserts genes_to_disease rows in one transaction.
func (s *Store) InsertGeneDiseases(ctx context.Context, rows []GeneDiseaseRow) error {
	return s.bulkInsert(ctx, `
		INSERT INTO genes_to_disease (ncbi_gene_id, gene_symbol, association_type, disease_id, source)
		VALUES (?, ?, ?, ?, ?)
	`, len(rows), func(stmt *sql.Stmt, i int) error {
		r := rows[i]
		_, err := stmt.ExecContext(ctx, r.NCBIGeneID, r.GeneSymbol, r.AssociationType, r.DiseaseID, r.Source)
		return err
	})
}

// InsertAnnotations bulk-inserts hpo_annotations rows in one transaction.
func (s *Store) InsertAnnotations(ctx context.Context, rows []AnnotationRow) error {
	return s.bulkInsert(ctx, `
		INSERT INTO hpo_annotations (DatabaseId, DB_Name, Qualifier, HPO_ID, DB_Reference, Evidence,
			Onset, Frequency, Sex, Modifier, Aspect, BiocurationBy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, len(rows), func(stmt *sql.Stmt, i int) error {
		r := rows[i]
		_, err := stmt.ExecContext(ctx, r.DatabaseID, r.DBName, r.Qualifier, r.HPOID, r.DBReference,
			r.Evidence, r.Onset, r.Frequency, r.Sex, r.Modifier, r.Aspect, r.Biocuration)
		return err
	})
}

// bulkInsert runs n prepared inserts inside a single transaction.
func (s *Store) bulkInsert(ctx context.Context, query string, n int, exec func(*sql.Stmt, int) error) error {
	if n == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if err := exec(stmt, i); err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Scan helpers ====================

func scanGenes(rows *sql.Rows) ([]driven.Gene, error) {
	var genes []driven.Gene
	for rows.Next() {
		var g driven.Gene
		if err := rows.Scan(&g.NCBIGeneID, &g.Symbol); err != nil {
			return nil, fmt.Errorf("scanning gene: %w", err)
		}
		genes = append(genes, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating genes: %w", err)
	}
	return genes, nil
}

func scanTerms(rows *sql.Rows) ([]driven.HPOTerm, error) {
	var terms []driven.HPOTerm
	for rows.Next() {
		var t driven.HPOTerm
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scanning HPO term: %w", err)
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating HPO terms: %w", err)
	}
	return terms, nil
}
