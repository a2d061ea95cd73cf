package docstore

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type memoryCollection struct {
	order []string
	docs  map[string][]byte
}

// MemoryStore keeps documents in process memory. Documents are stored as
// JSON so callers never share maps with the store.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
	uniques     map[string][]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*memoryCollection),
		uniques:     make(map[string][]string),
	}
}

// WithUniqueField makes writes to collection fail with ErrConflict when
// another document already holds the same value in field.
func (s *MemoryStore) WithUniqueField(collection, field string) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uniques[collection] = append(s.uniques[collection], field)
	return s
}

func (s *MemoryStore) collection(name string) *memoryCollection {
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{docs: make(map[string][]byte)}
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.collection(collection).docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return unmarshalDocument(raw)
}

func (s *MemoryStore) Query(_ context.Context, collection string, predicates ...Predicate) ([]Document, error) {
	for _, p := range predicates {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collection)
	result := make([]Document, 0)
	for _, id := range c.order {
		doc, err := unmarshalDocument(c.docs[id])
		if err != nil {
			return nil, err
		}
		if matchesAll(doc, predicates) {
			result = append(result, doc)
		}
	}
	return result, nil
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, doc Document, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collection)
	next := doc
	if merge {
		if raw, ok := c.docs[id]; ok {
			current, err := unmarshalDocument(raw)
			if err != nil {
				return err
			}
			next = mergeFields(current, doc)
		}
	}
	return s.write(collection, c, id, next)
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, fields Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collection)
	raw, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	current, err := unmarshalDocument(raw)
	if err != nil {
		return err
	}
	return s.write(collection, c, id, mergeFields(current, fields))
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collection)
	if _, ok := c.docs[id]; !ok {
		return false, nil
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *MemoryStore) GenerateID(string) string {
	return uuid.NewString()
}

func (s *MemoryStore) RunTransaction(ctx context.Context, collection, id string, fn TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	c := s.collection(collection)
	raw, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	current, err := unmarshalDocument(raw)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}
	return s.write(collection, c, id, next)
}

// write expects s.mu to be held.
func (s *MemoryStore) write(collection string, c *memoryCollection, id string, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	normalized, err := unmarshalDocument(raw)
	if err != nil {
		return err
	}
	for _, field := range s.uniques[collection] {
		value, ok := normalized[field]
		if !ok {
			continue
		}
		for otherID, otherRaw := range c.docs {
			if otherID == id {
				continue
			}
			other, err := unmarshalDocument(otherRaw)
			if err != nil {
				return err
			}
			if reflect.DeepEqual(other[field], value) {
				return ErrConflict
			}
		}
	}
	// Ids may alias reused request buffers, and assigning to an existing
	// key replaces the stored key, so always write an owned copy.
	id = strings.Clone(id)
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = raw
	return nil
}

func unmarshalDocument(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func matchesAll(doc Document, predicates []Predicate) bool {
	for _, p := range predicates {
		if !matches(doc, p) {
			return false
		}
	}
	return true
}

func matches(doc Document, p Predicate) bool {
	field, ok := doc[p.Field]
	if !ok {
		return false
	}
	switch p.Op {
	case OpEquals:
		return reflect.DeepEqual(field, normalize(p.Value))
	case OpArrayContains:
		return arrayHas(field, normalize(p.Value))
	case OpArrayContainsAny:
		values, _ := p.Value.([]any)
		for _, v := range values {
			if arrayHas(field, normalize(v)) {
				return true
			}
		}
	}
	return false
}

func arrayHas(field, value any) bool {
	items, ok := field.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if reflect.DeepEqual(item, value) {
			return true
		}
	}
	return false
}

// normalize maps a Go value onto the types produced by encoding/json.
func normalize(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}
