// Package docstore provides a small document database contract with a Postgres
// JSONB implementation and an in-memory implementation.
//
// Documents are JSON objects grouped in named collections and addressed by id.
// Queries are conjunctions of field predicates; results are returned in
// insertion order.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the addressed document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("document conflict")
)

// Document is a decoded JSON object.
type Document map[string]any

// TxFunc receives the current document and returns its replacement.
// Returning a nil Document leaves the stored document untouched.
type TxFunc func(current Document) (Document, error)

// Store is the document store collaborator used by repositories.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Query(ctx context.Context, collection string, predicates ...Predicate) ([]Document, error)
	// Set writes doc under id. With merge the top-level fields of doc are
	// merged into an existing document instead of replacing it.
	Set(ctx context.Context, collection, id string, doc Document, merge bool) error
	// Update merges fields into an existing document and fails with
	// ErrNotFound when it does not exist.
	Update(ctx context.Context, collection, id string, fields Document) error
	// Delete removes the document and reports whether it existed.
	Delete(ctx context.Context, collection, id string) (bool, error)
	GenerateID(collection string) string
	// RunTransaction reads the document and writes fn's result atomically
	// with respect to every other RunTransaction on the same document.
	// fn must not call back into the store.
	RunTransaction(ctx context.Context, collection, id string, fn TxFunc) error
}

// Operator enumerates supported predicate operators.
type Operator string

const (
	OpEquals           Operator = "=="
	OpArrayContains    Operator = "array-contains"
	OpArrayContainsAny Operator = "array-contains-any"
)

// Predicate filters documents on a single top-level field.
type Predicate struct {
	Field string
	Op    Operator
	Value any
}

// Equals matches documents whose scalar field equals value.
func Equals(field string, value any) Predicate {
	return Predicate{Field: field, Op: OpEquals, Value: value}
}

// ArrayContains matches documents whose array field holds value.
func ArrayContains(field string, value any) Predicate {
	return Predicate{Field: field, Op: OpArrayContains, Value: value}
}

// ArrayContainsAny matches documents whose array field holds at least one of values.
func ArrayContainsAny(field string, values ...any) Predicate {
	return Predicate{Field: field, Op: OpArrayContainsAny, Value: values}
}

func (p Predicate) validate() error {
	if p.Field == "" {
		return errors.New("predicate field required")
	}
	switch p.Op {
	case OpEquals, OpArrayContains, OpArrayContainsAny:
		return nil
	default:
		return fmt.Errorf("unsupported operator %q", p.Op)
	}
}

// Encode converts a JSON-tagged value into a Document.
func Encode(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return doc, nil
}

// Decode fills v from a Document.
func Decode(doc Document, v any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func mergeFields(dst, src Document) Document {
	if dst == nil {
		dst = Document{}
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
