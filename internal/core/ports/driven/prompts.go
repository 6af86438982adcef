package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptExtractEnglish extracts symptoms from English clinical text.
	// The template expects a %s placeholder for the clinical text.
	PromptExtractEnglish = "extract_english"

	// PromptExtractChinese extracts, standardises and translates symptoms
	// from Chinese clinical text.
	// The template expects a %s placeholder for the clinical text.
	PromptExtractChinese = "extract_chinese"

	// PromptSelect picks the best ontology term for one clinical term.
	// The template expects placeholders for the term fields, the candidate
	// JSON and the confidence threshold.
	PromptSelect = "select_term"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
// Services implementing this interface can have their prompt templates customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
