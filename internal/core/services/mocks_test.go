package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockLLMService implements driven.LLMService for testing.
// Responses can be scripted in order, or computed per call with chatFunc
// when the test runs concurrent requests.
type mockLLMService struct {
	mu        sync.Mutex
	responses []string
	chatFunc  func(messages []driven.ChatMessage) (string, error)
	chatErr   error
	calls     []string // user message content, in call order
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	return m.respond([]driven.ChatMessage{{Role: "user", Content: prompt}})
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	return m.respond(messages)
}

func (m *mockLLMService) respond(messages []driven.ChatMessage) (string, error) {
	m.mu.Lock()
	for _, msg := range messages {
		if msg.Role == "user" {
			m.calls = append(m.calls, msg.Content)
		}
	}
	m.mu.Unlock()

	if m.chatFunc != nil {
		return m.chatFunc(messages)
	}
	if m.chatErr != nil {
		return "", m.chatErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.responses) == 0 {
		return "", errors.New("mock: no scripted response")
	}
	response := m.responses[0]
	m.responses = m.responses[1:]
	return response, nil
}

func (m *mockLLMService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockLLMService) lastCall() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return ""
	}
	return m.calls[len(m.calls)-1]
}

func (m *mockLLMService) ModelName() string            { return "mock-model" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
	dims      int
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.embedding
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int              { return m.dims }
func (m *mockEmbeddingService) ModelName() string            { return "mock-embedder" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	hits      []driven.VectorHit
	searchErr error
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Size() int    { return len(m.hits) }
func (m *mockVectorIndex) Close() error { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	loadErr error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// mockAnnotationStore implements driven.AnnotationStore for testing.
// It records the last key each method was called with.
type mockAnnotationStore struct {
	hpoTerm  driven.HPOTerm
	gene     driven.Gene
	genes    []driven.Gene
	hpoTerms []driven.HPOTerm
	diseases []driven.Disease
	err      error
	lastKey  string
}

func (m *mockAnnotationStore) GenesByHPO(_ context.Context, hpoID string) (driven.HPOTerm, []driven.Gene, error) {
	m.lastKey = hpoID
	return m.hpoTerm, m.genes, m.err
}

func (m *mockAnnotationStore) HPOByGene(_ context.Context, geneID string) (driven.Gene, []driven.HPOTerm, error) {
	m.lastKey = geneID
	return m.gene, m.hpoTerms, m.err
}

func (m *mockAnnotationStore) DiseasesByGene(_ context.Context, geneID string) (driven.Gene, []driven.Disease, error) {
	m.lastKey = geneID
	return m.gene, m.diseases, m.err
}

func (m *mockAnnotationStore) GenesByDisease(_ context.Context, diseaseID string) ([]driven.Gene, error) {
	m.lastKey = diseaseID
	return m.genes, m.err
}

func (m *mockAnnotationStore) DiseasesByHPO(_ context.Context, hpoID string) ([]driven.Disease, error) {
	m.lastKey = hpoID
	return m.diseases, m.err
}

func (m *mockAnnotationStore) HPOByDisease(_ context.Context, diseaseID string) ([]driven.HPOTerm, error) {
	m.lastKey = diseaseID
	return m.hpoTerms, m.err
}

func (m *mockAnnotationStore) HPONameByID(_ context.Context, hpoID string) (driven.HPOTerm, error) {
	m.lastKey = hpoID
	return m.hpoTerm, m.err
}

func (m *mockAnnotationStore) AllHPOTerms(_ context.Context) ([]driven.HPOTerm, error) {
	return m.hpoTerms, m.err
}

func (m *mockAnnotationStore) Close() error { return nil }

// mockConfigStore implements driven.ConfigStore for testing.
// Values are held in memory; Set records immediately like the file store.
type mockConfigStore struct {
	values map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	switch v := m.values[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error  { return nil }
func (m *mockConfigStore) Load() error  { return nil }
func (m *mockConfigStore) Path() string { return "/tmp/mock-config.toml" }
