// Package services implements the driving port interfaces.
// Services contain the core business logic: term extraction, candidate
// retrieval, term selection and the pipeline orchestrator that ties the
// three stages together, plus the annotation lookup service.
//
// Services are pure Go with no CGO or external dependencies beyond the
// driven ports they orchestrate.
package services
