package domain

const unknownDescription = "Unknown"

// InputLanguage selects which extraction prompt variant the pipeline uses.
type InputLanguage string

// Supported input languages.
const (
	// LanguageEnglish processes English clinical text (no translation step).
	LanguageEnglish InputLanguage = "en"

	// LanguageChinese processes Chinese clinical text; extraction also
	// standardises and translates each symptom to English.
	LanguageChinese InputLanguage = "zh"
)

// IsValid returns true if the language is recognised.
func (l InputLanguage) IsValid() bool {
	switch l {
	case LanguageEnglish, LanguageChinese:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (l InputLanguage) String() string {
	return string(l)
}

// Description returns a human-readable description of the language.
func (l InputLanguage) Description() string {
	switch l {
	case LanguageEnglish:
		return "English clinical text"
	case LanguageChinese:
		return "Chinese clinical text (translated during extraction)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderVoyage is the Voyage AI cloud API (embeddings only).
	AIProviderVoyage AIProvider = "voyage"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderVoyage:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderVoyage
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderVoyage:
		return "Voyage AI (cloud, embeddings only)"
	default:
		return unknownDescription
	}
}

// AllInputLanguages returns the supported input languages.
func AllInputLanguages() []InputLanguage {
	return []InputLanguage{LanguageEnglish, LanguageChinese}
}

// AllEmbeddingProviders returns providers that offer embedding models.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderVoyage}
}

// AllLLMProviders returns providers that offer chat models.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}
}

// DefaultEmbeddingModels returns the default embedding model per provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderVoyage: "voyage-3",
	}
}

// DefaultLLMModels returns the default LLM model per provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible gateways).
	BaseURL string

	// APIKey is the API key (for OpenAI/Voyage).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible gateways).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// Pipeline defaults.
const (
	// DefaultRetrievalK is the number of candidates retrieved per term
	// during pipeline execution.
	DefaultRetrievalK = 10

	// DefaultSearchK is the number of candidates returned by the standalone
	// symptom search tool.
	DefaultSearchK = 5

	// DefaultMappingWorkers bounds the per-term mapping concurrency within
	// one document. 1 means sequential processing.
	DefaultMappingWorkers = 4
)

// PipelineSettings holds mapping pipeline behaviour configuration.
type PipelineSettings struct {
	// Language selects the extraction prompt variant.
	Language InputLanguage

	// ConfidenceThreshold is the minimum selector confidence for acceptance.
	ConfidenceThreshold float64

	// RetrievalK is the number of candidates retrieved per term.
	RetrievalK int

	// MappingWorkers bounds per-term concurrency. Terms share no mutable
	// state, so any value >= 1 preserves semantics.
	MappingWorkers int
}

// Normalise fills zero values with defaults.
func (p PipelineSettings) Normalise() PipelineSettings {
	if !p.Language.IsValid() {
		p.Language = LanguageEnglish
	}
	if p.ConfidenceThreshold <= 0 {
		p.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if p.RetrievalK <= 0 {
		p.RetrievalK = DefaultRetrievalK
	}
	if p.MappingWorkers <= 0 {
		p.MappingWorkers = DefaultMappingWorkers
	}
	return p
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Pipeline holds mapping pipeline settings.
	Pipeline PipelineSettings

	// IndexPath is the path to the precomputed ontology vector index.
	IndexPath string

	// AnnotationDBPath is the path to the HPO annotation database.
	AnnotationDBPath string
}

// DefaultAppSettings returns settings with sensible defaults.
// AI providers are left unconfigured; the user must supply credentials
// via the config file or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Pipeline: PipelineSettings{}.Normalise(),
	}
}
