package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/planform/planform/backend-go/internal/typeid"
)

type memoryVersion struct {
	list, plan []byte
}

type memoryDoc struct {
	Summary
	createdAt time.Time
	versions  []memoryVersion
}

// Memory keeps documents in process. Content is stored as JSON so callers
// never share slices with the store.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]*memoryDoc
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]*memoryDoc), now: time.Now}
}

func (m *Memory) Create(_ context.Context, name string, c Content) (*Document, error) {
	list, plan, err := c.encode()
	if err != nil {
		return nil, err
	}
	now := m.now().UTC()
	d := &memoryDoc{
		Summary:   Summary{ID: typeid.NewDocumentID(), Name: name, Version: 1, UpdatedAt: now},
		createdAt: now,
		versions:  []memoryVersion{{list, plan}},
	}

	m.mu.Lock()
	m.docs[d.ID] = d
	m.mu.Unlock()
	return d.document()
}

func (m *Memory) Get(_ context.Context, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return d.document()
}

func (m *Memory) Save(_ context.Context, id string, c Content) (*Document, error) {
	list, plan, err := c.encode()
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	d.versions = append(d.versions, memoryVersion{list, plan})
	d.Version = len(d.versions)
	d.UpdatedAt = m.now().UTC()
	return d.document()
}

func (m *Memory) List(context.Context) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Summary, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, d.Summary)
	}
	slices.SortFunc(out, func(a, b Summary) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	return out, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.docs, id)
	return nil
}

func (m *Memory) Close() {}

func (d *memoryDoc) document() (*Document, error) {
	last := d.versions[len(d.versions)-1]
	content, err := decodeContent(last.list, last.plan)
	if err != nil {
		return nil, err
	}
	return &Document{
		ID:        d.ID,
		Name:      d.Name,
		Version:   d.Version,
		Content:   content,
		CreatedAt: d.createdAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}
