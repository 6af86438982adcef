package hpo

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/phenomap-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/phenomap-cli/internal/logger"
)

// Distribution file names as published with each HPO release.
const (
	FileAnnotations      = "phenotype.hpoa"
	FileGenesToDisease   = "genes_to_disease.txt"
	FileGenesToPhenotype = "genes_to_phenotype.txt"
	FilePhenotypeToGenes = "phenotype_to_genes.txt"
)

// RequiredFiles lists the four distribution files an import needs.
var RequiredFiles = []string{
	FileAnnotations,
	FileGenesToDisease,
	FileGenesToPhenotype,
	FilePhenotypeToGenes,
}

// Store is the write surface of the annotation database.
type Store interface {
	ClearAll(ctx context.Context) error
	InsertAnnotations(ctx context.Context, rows []sqlite.AnnotationRow) error
	InsertGeneDiseases(ctx context.Context, rows []sqlite.GeneDiseaseRow) error
	InsertGenePhenotypes(ctx context.Context, rows []sqlite.GenePhenotypeRow) error
	InsertPhenotypeGenes(ctx context.Context, rows []sqlite.PhenotypeGeneRow) error
}

// Stats summarises an import run.
type Stats struct {
	Annotations    int
	GeneDiseases   int
	GenePhenotypes int
	PhenotypeGenes int
}

// Importer loads HPO distribution files into the annotation database.
type Importer struct {
	store Store
}

// NewImporter creates an importer writing to the given store.
func NewImporter(store Store) *Importer {
	return &Importer{store: store}
}

// ImportDir reads the four distribution files from dir and replaces the
// annotation tables with their contents. All files are parsed before any
// table is cleared, so a malformed file leaves the database untouched.
func (i *Importer) ImportDir(ctx context.Context, dir string) (Stats, error) {
	annotations, err := parseAnnotations(filepath.Join(dir, FileAnnotations))
	if err != nil {
		return Stats{}, err
	}

	geneDiseases, err := parseGeneDiseases(filepath.Join(dir, FileGenesToDisease))
	if err != nil {
		return Stats{}, err
	}

	genePhenotypes, err := parseGenePhenotypes(filepath.Join(dir, FileGenesToPhenotype))
	if err != nil {
		return Stats{}, err
	}

	phenotypeGenes, err := parsePhenotypeGenes(filepath.Join(dir, FilePhenotypeToGenes))
	if err != nil {
		return Stats{}, err
	}

	if err := i.store.ClearAll(ctx); err != nil {
		return Stats{}, fmt.Errorf("clearing annotation tables: %w", err)
	}
	if err := i.store.InsertAnnotations(ctx, annotations); err != nil {
		return Stats{}, fmt.Errorf("inserting annotations: %w", err)
	}
	if err := i.store.InsertGeneDiseases(ctx, geneDiseases); err != nil {
		return Stats{}, fmt.Errorf("inserting gene-disease rows: %w", err)
	}
	if err := i.store.InsertGenePhenotypes(ctx, genePhenotypes); err != nil {
		return Stats{}, fmt.Errorf("inserting gene-phenotype rows: %w", err)
	}
	if err := i.store.InsertPhenotypeGenes(ctx, phenotypeGenes); err != nil {
		return Stats{}, fmt.Errorf("inserting phenotype-gene rows: %w", err)
	}

	stats := Stats{
		Annotations:    len(annotations),
		GeneDiseases:   len(geneDiseases),
		GenePhenotypes: len(genePhenotypes),
		PhenotypeGenes: len(phenotypeGenes),
	}
	logger.Info("Import: %d annotation, %d gene-disease, %d gene-phenotype, %d phenotype-gene rows",
		stats.Annotations, stats.GeneDiseases, stats.GenePhenotypes, stats.PhenotypeGenes)
	return stats, nil
}

// parseAnnotations reads phenotype.hpoa (12 tab-separated columns).
func parseAnnotations(path string) ([]sqlite.AnnotationRow, error) {
	fields, err := readTSV(path, 12)
	if err != nil {
		return nil, err
	}

	rows := make([]sqlite.AnnotationRow, len(fields))
	for i, f := range fields {
		rows[i] = sqlite.AnnotationRow{
			DatabaseID:  f[0],
			DBName:      f[1],
			Qualifier:   f[2],
			HPOID:       f[3],
			DBReference: f[4],
			Evidence:    f[5],
			Onset:       f[6],
			Frequency:   f[7],
			Sex:         f[8],
			Modifier:    f[9],
			Aspect:      f[10],
			Biocuration: f[11],
		}
	}
	return rows, nil
}

// parseGeneDiseases reads genes_to_disease.txt (5 tab-separated columns).
func parseGeneDiseases(path string) ([]sqlite.GeneDiseaseRow, error) {
	fields, err := readTSV(path, 5)
	if err != nil {
		return nil, err
	}

	rows := make([]sqlite.GeneDiseaseRow, len(fields))
	for i, f := range fields {
		rows[i] = sqlite.GeneDiseaseRow{
			NCBIGeneID:      f[0],
			GeneSymbol:      f[1],
			AssociationType: f[2],
			DiseaseID:       f[3],
			Source:          f[4],
		}
	}
	return rows, nil
}

// parseGenePhenotypes reads genes_to_phenotype.txt (6 tab-separated columns).
func parseGenePhenotypes(path string) ([]sqlite.GenePhenotypeRow, error) {
	fields, err := readTSV(path, 6)
	if err != nil {
		return nil, err
	}

	rows := make([]sqlite.GenePhenotypeRow, len(fields))
	for i, f := range fields {
		rows[i] = sqlite.GenePhenotypeRow{
			NCBIGeneID: f[0],
			GeneSymbol: f[1],
			HPOID:      f[2],
			HPOName:    f[3],
			Frequency:  f[4],
			DiseaseID:  f[5],
		}
	}
	return rows, nil
}

// parsePhenotypeGenes reads phenotype_to_genes.txt. Only the first four
// columns are kept; newer releases append disease columns after them.
func parsePhenotypeGenes(path string) ([]sqlite.PhenotypeGeneRow, error) {
	fields, err := readTSV(path, 4)
	if err != nil {
		return nil, err
	}

	rows := make([]sqlite.PhenotypeGeneRow, len(fields))
	for i, f := range fields {
		rows[i] = sqlite.PhenotypeGeneRow{
			HPOID:      f[0],
			HPOName:    f[1],
			NCBIGeneID: f[2],
			GeneSymbol: f[3],
		}
	}
	return rows, nil
}

// readTSV reads a tab-separated distribution file, skipping '#' comment
// lines and the column-header row. Rows with fewer than minFields columns
// are dropped.
func readTSV(path string, minFields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var rows [][]string
	headerSkipped := false

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !headerSkipped {
			headerSkipped = true
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < minFields {
			continue
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}
