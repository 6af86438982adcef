package services

import (
	"fmt"
	"os"

	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyLLMProvider   = "llm.provider"
	keyLLMModel      = "llm.model"
	keyLLMBaseURL    = "llm.base_url"
	keyLLMAPIKey     = "llm.api_key"
	keyLanguage      = "pipeline.language"
	keyThreshold     = "pipeline.confidence_threshold"
	keyRetrievalK    = "pipeline.retrieval_k"
	keyWorkers       = "pipeline.workers"
	keyIndexPath     = "data.index_path"
	keyAnnotationDB  = "data.annotation_db_path"
)

// Environment variables consulted when the config file carries no API key.
var apiKeyEnvVars = map[domain.AIProvider][]string{
	domain.AIProviderVoyage:    {"PHENOMAP_VOYAGE_API_KEY", "VOYAGE_API_KEY"},
	domain.AIProviderOpenAI:    {"PHENOMAP_OPENAI_API_KEY", "OPENAI_API_KEY"},
	domain.AIProviderAnthropic: {"PHENOMAP_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
}

// SettingsService manages application settings backed by the config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. API keys missing from the
// config file fall back to provider environment variables.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: domain.AIProvider(s.configStore.GetString(keyEmbedProvider)),
			Model:    s.configStore.GetString(keyEmbedModel),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL),
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: domain.AIProvider(s.configStore.GetString(keyLLMProvider)),
			Model:    s.configStore.GetString(keyLLMModel),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Pipeline: domain.PipelineSettings{
			Language:            domain.InputLanguage(s.configStore.GetString(keyLanguage)),
			ConfidenceThreshold: s.configStore.GetFloat(keyThreshold),
			RetrievalK:          s.configStore.GetInt(keyRetrievalK),
			MappingWorkers:      s.configStore.GetInt(keyWorkers),
		},
		IndexPath:        s.configStore.GetString(keyIndexPath),
		AnnotationDBPath: s.configStore.GetString(keyAnnotationDB),
	}
	settings.Pipeline = settings.Pipeline.Normalise()

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = apiKeyFromEnv(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = apiKeyFromEnv(settings.LLM.Provider)
	}

	return settings, nil
}

// Save persists application settings. API keys are only written when set,
// so env-provided keys never leak into the config file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != apiKeyFromEnv(settings.Embedding.Provider) {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != apiKeyFromEnv(settings.LLM.Provider) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	if err := s.configStore.Set(keyLanguage, settings.Pipeline.Language.String()); err != nil {
		return fmt.Errorf("save pipeline language: %w", err)
	}
	if err := s.configStore.Set(keyThreshold, settings.Pipeline.ConfidenceThreshold); err != nil {
		return fmt.Errorf("save confidence threshold: %w", err)
	}
	if err := s.configStore.Set(keyRetrievalK, settings.Pipeline.RetrievalK); err != nil {
		return fmt.Errorf("save retrieval k: %w", err)
	}
	if err := s.configStore.Set(keyWorkers, settings.Pipeline.MappingWorkers); err != nil {
		return fmt.Errorf("save workers: %w", err)
	}

	if err := s.configStore.Set(keyIndexPath, settings.IndexPath); err != nil {
		return fmt.Errorf("save index path: %w", err)
	}
	if err := s.configStore.Set(keyAnnotationDB, settings.AnnotationDBPath); err != nil {
		return fmt.Errorf("save annotation db path: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider %q", domain.ErrInvalidInput, provider)
	}
	if provider == domain.AIProviderAnthropic {
		return fmt.Errorf("%w: anthropic does not offer embedding models", domain.ErrInvalidInput)
	}
	if provider.RequiresAPIKey() && apiKey == "" && apiKeyFromEnv(provider) == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	settings.Embedding.APIKey = apiKey
	if provider.IsLocal() && settings.Embedding.BaseURL == "" {
		settings.Embedding.BaseURL = "http://localhost:11434"
	}
	if !provider.IsLocal() {
		settings.Embedding.BaseURL = ""
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid llm provider %q", domain.ErrInvalidInput, provider)
	}
	if provider == domain.AIProviderVoyage {
		return fmt.Errorf("%w: voyage does not offer chat models", domain.ErrInvalidInput)
	}
	if provider.RequiresAPIKey() && apiKey == "" && apiKeyFromEnv(provider) == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = model
	settings.LLM.APIKey = apiKey
	if provider.IsLocal() && settings.LLM.BaseURL == "" {
		settings.LLM.BaseURL = "http://localhost:11434"
	}
	if !provider.IsLocal() {
		settings.LLM.BaseURL = ""
	}

	return s.Save(settings)
}

// SetLanguage updates the pipeline input language.
func (s *SettingsService) SetLanguage(language domain.InputLanguage) error {
	if !language.IsValid() {
		return fmt.Errorf("%w: invalid language %q (use en or zh)", domain.ErrInvalidInput, language)
	}
	return s.configStore.Set(keyLanguage, language.String())
}

// SetDataPaths updates the index and annotation database locations.
// Empty values keep the current setting.
func (s *SettingsService) SetDataPaths(indexPath, annotationDBPath string) error {
	if indexPath != "" {
		if err := s.configStore.Set(keyIndexPath, indexPath); err != nil {
			return fmt.Errorf("save index path: %w", err)
		}
	}
	if annotationDBPath != "" {
		if err := s.configStore.Set(keyAnnotationDB, annotationDBPath); err != nil {
			return fmt.Errorf("save annotation db path: %w", err)
		}
	}
	return nil
}

// apiKeyFromEnv returns the first non-empty provider API key env var.
func apiKeyFromEnv(provider domain.AIProvider) string {
	for _, name := range apiKeyEnvVars[provider] {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
