package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/physaikat/langchain/core/protocol"
	"github.com/physaikat/langchain/models"
)

// CachedModel wraps a chat model with response caching. Generations are
// keyed by model name plus a digest of the messages and sampling options,
// so identical requests are served from the cache without a model call.
type CachedModel struct {
	inner models.Model
	cache *Cache
}

// WrapModel creates a caching wrapper around inner backed by cache.
func WrapModel(inner models.Model, cache *Cache) *CachedModel {
	return &CachedModel{inner: inner, cache: cache}
}

func (m *CachedModel) Name() string {
	return m.inner.Name()
}

func (m *CachedModel) Generate(ctx context.Context, messages []protocol.Message, opts *models.Options) (*models.Generation, error) {
	key, err := requestKey(m.inner.Name(), messages, opts)
	if err != nil {
		return nil, err
	}

	if m.cache.Has(key) {
		if err := m.cache.Resolve(ctx, key); err != nil {
			return nil, err
		}
	}
	if data, ok := m.cache.Get(key); ok {
		var gen models.Generation
		if err := json.Unmarshal(data, &gen); err == nil {
			return &gen, nil
		}
		// Corrupt entry: drop it and fall through to the model.
		m.cache.Delete(key)
	}

	gen, err := m.inner.Generate(ctx, messages, opts)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(gen)
	if err != nil {
		return nil, fmt.Errorf("encoding generation: %w", err)
	}
	m.cache.Set(key, data)

	return gen, nil
}

// WrapRegistry replaces every model registered in the registry with a
// caching wrapper over the same instance, so chains and agents resolving
// models by name get cached generations transparently. Models are
// instantiated eagerly to capture the unwrapped instance.
func WrapRegistry(registry *models.Registry, cache *Cache) error {
	for _, name := range registry.List() {
		model, err := registry.Get(name)
		if err != nil {
			return err
		}
		wrapped := WrapModel(model, cache)
		if err := registry.Replace(name, func() (models.Model, error) { return wrapped, nil }); err != nil {
			return err
		}
	}
	return nil
}

// requestKey digests the full request into a stable cache key under the
// model's namespace.
func requestKey(model string, messages []protocol.Message, opts *models.Options) (string, error) {
	payload, err := json.Marshal(struct {
		Messages []protocol.Message `json:"messages"`
		Options  *models.Options    `json:"options,omitempty"`
	}{Messages: messages, Options: opts})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	sum := sha256.Sum256(payload)
	return model + "/" + hex.EncodeToString(sum[:]), nil
}
