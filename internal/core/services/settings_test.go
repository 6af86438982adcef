package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
)

func clearAPIKeyEnv(t *testing.T) {
	t.Helper()
	for _, names := range apiKeyEnvVars {
		for _, name := range names {
			t.Setenv(name, "")
		}
	}
}

func TestSettingsService_Get_Defaults(t *testing.T) {
	clearAPIKeyEnv(t)
	svc := NewSettingsService(newMockConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.LanguageEnglish, settings.Pipeline.Language)
	assert.InDelta(t, domain.DefaultConfidenceThreshold, settings.Pipeline.ConfidenceThreshold, 0.001)
	assert.Equal(t, domain.DefaultRetrievalK, settings.Pipeline.RetrievalK)
	assert.Equal(t, domain.DefaultMappingWorkers, settings.Pipeline.MappingWorkers)
	assert.False(t, settings.Embedding.IsConfigured())
	assert.False(t, settings.LLM.IsConfigured())
}

func TestSettingsService_Get_FromStore(t *testing.T) {
	clearAPIKeyEnv(t)
	store := newMockConfigStore()
	store.values = map[string]any{
		"embedding.provider":            "ollama",
		"embedding.model":               "nomic-embed-text",
		"embedding.base_url":            "http://localhost:11434",
		"llm.provider":                  "openai",
		"llm.model":                     "gpt-4o-mini",
		"llm.api_key":                   "sk-test",
		"pipeline.language":             "zh",
		"pipeline.confidence_threshold": 0.8,
		"pipeline.retrieval_k":          int64(15),
		"pipeline.workers":              2,
		"data.index_path":               "/data/hpo.index",
		"data.annotation_db_path":       "/data/annotations.db",
	}
	svc := NewSettingsService(store)

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
	assert.Equal(t, domain.AIProviderOpenAI, settings.LLM.Provider)
	assert.Equal(t, "sk-test", settings.LLM.APIKey)
	assert.Equal(t, domain.LanguageChinese, settings.Pipeline.Language)
	assert.InDelta(t, 0.8, settings.Pipeline.ConfidenceThreshold, 0.001)
	assert.Equal(t, 15, settings.Pipeline.RetrievalK)
	assert.Equal(t, 2, settings.Pipeline.MappingWorkers)
	assert.Equal(t, "/data/hpo.index", settings.IndexPath)
	assert.Equal(t, "/data/annotations.db", settings.AnnotationDBPath)
}

func TestSettingsService_Get_APIKeyFromEnv(t *testing.T) {
	clearAPIKeyEnv(t)
	t.Setenv("VOYAGE_API_KEY", "voyage-env-key")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-env-key")

	store := newMockConfigStore()
	store.values = map[string]any{
		"embedding.provider": "voyage",
		"llm.provider":       "anthropic",
	}
	svc := NewSettingsService(store)

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, "voyage-env-key", settings.Embedding.APIKey)
	assert.Equal(t, "anthropic-env-key", settings.LLM.APIKey)
}

func TestSettingsService_Get_ConfigKeyBeatsEnv(t *testing.T) {
	clearAPIKeyEnv(t)
	t.Setenv("OPENAI_API_KEY", "env-key")

	store := newMockConfigStore()
	store.values = map[string]any{
		"llm.provider": "openai",
		"llm.api_key":  "file-key",
	}
	svc := NewSettingsService(store)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "file-key", settings.LLM.APIKey)
}

func TestSettingsService_Get_PrefixedEnvVarWins(t *testing.T) {
	clearAPIKeyEnv(t)
	t.Setenv("PHENOMAP_OPENAI_API_KEY", "prefixed-key")
	t.Setenv("OPENAI_API_KEY", "plain-key")

	store := newMockConfigStore()
	store.values = map[string]any{"llm.provider": "openai"}
	svc := NewSettingsService(store)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "prefixed-key", settings.LLM.APIKey)
}

func TestSettingsService_Save_RoundTrip(t *testing.T) {
	clearAPIKeyEnv(t)
	store := newMockConfigStore()
	svc := NewSettingsService(store)

	in := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: domain.AIProviderVoyage,
			Model:    "voyage-3",
			APIKey:   "voyage-key",
		},
		LLM: domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			Model:    "llama3.1",
			BaseURL:  "http://localhost:11434",
		},
		Pipeline: domain.PipelineSettings{
			Language:            domain.LanguageChinese,
			ConfidenceThreshold: 0.75,
			RetrievalK:          20,
			MappingWorkers:      8,
		},
		IndexPath:        "/data/hpo.index",
		AnnotationDBPath: "/data/annotations.db",
	}
	require.NoError(t, svc.Save(in))

	out, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, in.Embedding, out.Embedding)
	assert.Equal(t, in.LLM, out.LLM)
	assert.Equal(t, in.Pipeline, out.Pipeline)
	assert.Equal(t, in.IndexPath, out.IndexPath)
	assert.Equal(t, in.AnnotationDBPath, out.AnnotationDBPath)
}

func TestSettingsService_Save_DoesNotPersistEnvKey(t *testing.T) {
	clearAPIKeyEnv(t)
	t.Setenv("OPENAI_API_KEY", "env-key")

	store := newMockConfigStore()
	store.values["llm.provider"] = "openai"
	svc := NewSettingsService(store)

	settings, err := svc.Get()
	require.NoError(t, err)
	require.Equal(t, "env-key", settings.LLM.APIKey)

	require.NoError(t, svc.Save(settings))

	_, exists := store.Get("llm.api_key")
	assert.False(t, exists, "env-provided key should not be written to config")
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	clearAPIKeyEnv(t)

	t.Run("local provider gets default base URL", func(t *testing.T) {
		store := newMockConfigStore()
		svc := NewSettingsService(store)

		require.NoError(t, svc.SetEmbeddingProvider(domain.AIProviderOllama, "nomic-embed-text", ""))

		settings, err := svc.Get()
		require.NoError(t, err)
		assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
		assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
		assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
	})

	t.Run("cloud provider requires API key", func(t *testing.T) {
		svc := NewSettingsService(newMockConfigStore())

		err := svc.SetEmbeddingProvider(domain.AIProviderVoyage, "voyage-3", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cloud provider accepts env key", func(t *testing.T) {
		t.Setenv("VOYAGE_API_KEY", "env-key")
		svc := NewSettingsService(newMockConfigStore())

		require.NoError(t, svc.SetEmbeddingProvider(domain.AIProviderVoyage, "voyage-3", ""))
	})

	t.Run("anthropic rejected for embeddings", func(t *testing.T) {
		svc := NewSettingsService(newMockConfigStore())

		err := svc.SetEmbeddingProvider(domain.AIProviderAnthropic, "", "sk-ant")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("invalid provider rejected", func(t *testing.T) {
		svc := NewSettingsService(newMockConfigStore())

		err := svc.SetEmbeddingProvider(domain.AIProvider("bogus"), "", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	clearAPIKeyEnv(t)

	t.Run("configures provider and model", func(t *testing.T) {
		store := newMockConfigStore()
		svc := NewSettingsService(store)

		require.NoError(t, svc.SetLLMProvider(domain.AIProviderAnthropic, "claude-sonnet-4-5", "sk-ant-test"))

		settings, err := svc.Get()
		require.NoError(t, err)
		assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
		assert.Equal(t, "claude-sonnet-4-5", settings.LLM.Model)
		assert.Equal(t, "sk-ant-test", settings.LLM.APIKey)
		assert.Empty(t, settings.LLM.BaseURL)
	})

	t.Run("voyage rejected for chat", func(t *testing.T) {
		svc := NewSettingsService(newMockConfigStore())

		err := svc.SetLLMProvider(domain.AIProviderVoyage, "", "key")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("switch to local clears API requirement", func(t *testing.T) {
		store := newMockConfigStore()
		svc := NewSettingsService(store)

		require.NoError(t, svc.SetLLMProvider(domain.AIProviderOllama, "qwen2.5", ""))

		settings, err := svc.Get()
		require.NoError(t, err)
		assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
		assert.Equal(t, "http://localhost:11434", settings.LLM.BaseURL)
	})
}

func TestSettingsService_SetLanguage(t *testing.T) {
	store := newMockConfigStore()
	svc := NewSettingsService(store)

	require.NoError(t, svc.SetLanguage(domain.LanguageChinese))
	assert.Equal(t, "zh", store.GetString("pipeline.language"))

	err := svc.SetLanguage(domain.InputLanguage("fr"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_SetDataPaths(t *testing.T) {
	store := newMockConfigStore()
	store.values["data.index_path"] = "/old/hpo.index"
	svc := NewSettingsService(store)

	require.NoError(t, svc.SetDataPaths("", "/new/annotations.db"))

	assert.Equal(t, "/old/hpo.index", store.GetString("data.index_path"))
	assert.Equal(t, "/new/annotations.db", store.GetString("data.annotation_db_path"))
}
