// Package hpo imports the official Human Phenotype Ontology annotation
// distribution into the local annotation database. The four release
// files (phenotype.hpoa, genes_to_disease.txt, genes_to_phenotype.txt
// and phenotype_to_genes.txt) can be read from a local directory or
// downloaded from the latest GitHub release of the ontology.
package hpo
