package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phenomap-cli/internal/importers/hpo"
)

var (
	importDir      string
	importDownload bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import HPO annotation files into the local database",
	Long: `Import loads the official HPO annotation distribution files
(phenotype.hpoa, genes_to_disease.txt, genes_to_phenotype.txt and
phenotype_to_genes.txt) into the local annotation database, replacing
any previous contents.

Files are read from --dir, or fetched from the latest HPO release on
GitHub with --download. After importing, rebuild the vector index with
'phenomap index build'.`,
	Example: `  phenomap import --download
  phenomap import --dir ./hpo-release`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importDir, "dir", "d", "", "directory containing the HPO distribution files")
	importCmd.Flags().BoolVar(&importDownload, "download", false, "download the latest HPO release before importing")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	if importDir == "" && !importDownload {
		return errors.New("either --dir or --download is required")
	}
	if importDir != "" && importDownload {
		return errors.New("--dir and --download are mutually exclusive")
	}

	ctx := cmd.Context()

	dir := importDir
	if importDownload {
		tmpDir, err := os.MkdirTemp("", "phenomap-hpo-*")
		if err != nil {
			return fmt.Errorf("creating download directory: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		cmd.Println("Downloading latest HPO release...")
		tag, err := hpo.NewDownloader().DownloadLatest(ctx, tmpDir)
		if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}
		cmd.Printf("Downloaded release %s\n", tag)
		dir = tmpDir
	}

	store, err := openAnnotationStore()
	if err != nil {
		return fmt.Errorf("failed to open annotation database: %w", err)
	}
	defer store.Close()

	cmd.Printf("Importing HPO annotations from %s\n", dir)
	stats, err := hpo.NewImporter(store).ImportDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.Printf("Imported %d disease annotations\n", stats.Annotations)
	cmd.Printf("Imported %d gene-disease associations\n", stats.GeneDiseases)
	cmd.Printf("Imported %d gene-phenotype associations\n", stats.GenePhenotypes)
	cmd.Printf("Imported %d phenotype-gene associations\n", stats.PhenotypeGenes)
	cmd.Printf("Database: %s\n", store.Path())
	return nil
}
