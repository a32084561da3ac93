// Package media stores post images as opaque blobs and hands back string
// references that posts keep in their Image field.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"yatube/internal/models"
)

type Store interface {
	// Put stores the blob and returns its reference.
	Put(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
	// Open returns the blob and its content type, or models.ErrNotFound.
	Open(ctx context.Context, ref string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, ref string) error
}

type blob struct {
	data        []byte
	contentType string
}

// Memory keeps blobs in process memory. Used when no blob service is
// configured, and in tests.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string]blob
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string]blob)}
}

func (m *Memory) Put(_ context.Context, _ string, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	ref := uuid.NewString()
	m.mu.Lock()
	m.blobs[ref] = blob{data: data, contentType: contentType}
	m.mu.Unlock()
	return ref, nil
}

func (m *Memory) Open(_ context.Context, ref string) (io.ReadCloser, string, error) {
	m.mu.RLock()
	b, ok := m.blobs[ref]
	m.mu.RUnlock()
	if !ok {
		return nil, "", fmt.Errorf("image %s: %w", ref, models.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(b.data)), b.contentType, nil
}

func (m *Memory) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	delete(m.blobs, ref)
	m.mu.Unlock()
	return nil
}

// Len reports how many blobs are stored.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}
