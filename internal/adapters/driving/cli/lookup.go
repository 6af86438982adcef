package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
)

var lookupJSON bool

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Query HPO annotation associations",
	Long: `Keyed lookups over the HPO annotation database: gene-to-phenotype,
phenotype-to-gene, gene-to-disease and disease annotation tables.

Genes accept a symbol (FBN1) or an NCBI gene ID (2200). Diseases use
prefixed identifiers (OMIM:154700, ORPHA:558).`,
}

var lookupGenesByHPOCmd = &cobra.Command{
	Use:   "genes-by-hpo [hpo-id]",
	Short: "List genes associated with an HPO term",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookupGenesByHPO,
}

var lookupHPOByGeneCmd = &cobra.Command{
	Use:   "hpo-by-gene [gene]",
	Short: "List HPO terms associated with a gene",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookupHPOByGene,
}

var lookupDiseasesByGeneCmd = &cobra.Command{
	Use:   "diseases-by-gene [gene]",
	Short: "List diseases associated with a gene",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookupDiseasesByGene,
}

var lookupGenesByDiseaseCmd = &cobra.Command{
	Use:   "genes-by-disease [disease-id]",
	Short: "List genes associated with a disease",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookupGenesByDisease,
}

var lookupDiseasesByHPOCmd = &cobra.Command{
	Use:   "diseases-by-hpo [hpo-id]",
	Short: "List diseases annotated with an HPO term",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookupDiseasesByHPO,
}

var lookupHPOByDiseaseCmd = &cobra.Command{
	Use:   "hpo-by-disease [disease-id]",
	Short: "List HPO terms annotating a disease",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookupHPOByDisease,
}

var lookupHPONameCmd = &cobra.Command{
	Use:   "hpo-name [hpo-id]",
	Short: "Resolve an HPO code to its name",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookupHPOName,
}

func init() {
	lookupCmd.PersistentFlags().BoolVar(&lookupJSON, "json", false, "output results as JSON")
	lookupCmd.AddCommand(lookupGenesByHPOCmd)
	lookupCmd.AddCommand(lookupHPOByGeneCmd)
	lookupCmd.AddCommand(lookupDiseasesByGeneCmd)
	lookupCmd.AddCommand(lookupGenesByDiseaseCmd)
	lookupCmd.AddCommand(lookupDiseasesByHPOCmd)
	lookupCmd.AddCommand(lookupHPOByDiseaseCmd)
	lookupCmd.AddCommand(lookupHPONameCmd)
	rootCmd.AddCommand(lookupCmd)
}

func requireLookupService() error {
	if err := ensureLookupService(); err != nil {
		return err
	}
	if lookupService == nil {
		return errors.New("lookup service not configured")
	}
	return nil
}

func runLookupGenesByHPO(cmd *cobra.Command, args []string) error {
	if err := requireLookupService(); err != nil {
		return err
	}

	term, genes, err := lookupService.GenesByHPO(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if lookupJSON {
		return outputLookupJSON(cmd, map[string]any{
			"hpo_id": term.ID, "hpo_name": term.Name, "genes": genes, "total_genes": len(genes),
		})
	}

	cmd.Printf("%s (%s): %d genes\n", term.ID, term.Name, len(genes))
	for _, g := range genes {
		cmd.Printf("  %s (NCBI:%s)\n", g.Symbol, g.NCBIGeneID)
	}
	return nil
}

func runLookupHPOByGene(cmd *cobra.Command, args []string) error {
	if err := requireLookupService(); err != nil {
		return err
	}

	gene, terms, err := lookupService.HPOByGene(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if lookupJSON {
		return outputLookupJSON(cmd, map[string]any{
			"gene_symbol": gene.Symbol, "ncbi_gene_id": gene.NCBIGeneID,
			"phenotypes": terms, "total_phenotypes": len(terms),
		})
	}

	cmd.Printf("%s (NCBI:%s): %d phenotypes\n", gene.Symbol, gene.NCBIGeneID, len(terms))
	printHPOTerms(cmd, terms)
	return nil
}

func runLookupDiseasesByGene(cmd *cobra.Command, args []string) error {
	if err := requireLookupService(); err != nil {
		return err
	}

	gene, diseases, err := lookupService.DiseasesByGene(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if lookupJSON {
		return outputLookupJSON(cmd, map[string]any{
			"gene_symbol": gene.Symbol, "ncbi_gene_id": gene.NCBIGeneID,
			"diseases": diseases, "total_diseases": len(diseases),
		})
	}

	cmd.Printf("%s (NCBI:%s): %d diseases\n", gene.Symbol, gene.NCBIGeneID, len(diseases))
	printDiseases(cmd, diseases)
	return nil
}

func runLookupGenesByDisease(cmd *cobra.Command, args []string) error {
	if err := requireLookupService(); err != nil {
		return err
	}

	genes, err := lookupService.GenesByDisease(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if lookupJSON {
		return outputLookupJSON(cmd, map[string]any{
			"disease_id": args[0], "genes": genes, "total_genes": len(genes),
		})
	}

	cmd.Printf("%s: %d genes\n", args[0], len(genes))
	for _, g := range genes {
		cmd.Printf("  %s (NCBI:%s)\n", g.Symbol, g.NCBIGeneID)
	}
	return nil
}

func runLookupDiseasesByHPO(cmd *cobra.Command, args []string) error {
	if err := requireLookupService(); err != nil {
		return err
	}

	diseases, err := lookupService.DiseasesByHPO(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if lookupJSON {
		return outputLookupJSON(cmd, map[string]any{
			"hpo_id": args[0], "diseases": diseases, "total_diseases": len(diseases),
		})
	}

	cmd.Printf("%s: %d diseases\n", args[0], len(diseases))
	printDiseases(cmd, diseases)
	return nil
}

func runLookupHPOByDisease(cmd *cobra.Command, args []string) error {
	if err := requireLookupService(); err != nil {
		return err
	}

	terms, err := lookupService.HPOByDisease(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if lookupJSON {
		return outputLookupJSON(cmd, map[string]any{
			"disease_id": args[0], "phenotypes": terms, "total_phenotypes": len(terms),
		})
	}

	cmd.Printf("%s: %d phenotypes\n", args[0], len(terms))
	printHPOTerms(cmd, terms)
	return nil
}

func runLookupHPOName(cmd *cobra.Command, args []string) error {
	if err := requireLookupService(); err != nil {
		return err
	}

	term, err := lookupService.HPOName(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if lookupJSON {
		return outputLookupJSON(cmd, map[string]any{"hpo_id": term.ID, "hpo_name": term.Name})
	}

	cmd.Printf("%s: %s\n", term.ID, term.Name)
	return nil
}

func outputLookupJSON(cmd *cobra.Command, payload map[string]any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printHPOTerms(cmd *cobra.Command, terms []driven.HPOTerm) {
	for _, t := range terms {
		if t.Name != "" {
			cmd.Printf("  %s %s\n", t.ID, t.Name)
		} else {
			cmd.Printf("  %s\n", t.ID)
		}
	}
}

func printDiseases(cmd *cobra.Command, diseases []driven.Disease) {
	for _, d := range diseases {
		if d.Name != "" {
			cmd.Printf("  %s %s\n", d.ID, d.Name)
		} else {
			cmd.Printf("  %s\n", d.ID)
		}
	}
}
