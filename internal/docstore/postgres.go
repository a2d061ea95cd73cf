package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresStore keeps documents in the documents table as JSONB.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	const query = `SELECT data FROM documents WHERE collection=$1 AND id=$2`
	var raw []byte
	if err := s.pool.QueryRow(ctx, query, collection, id).Scan(&raw); err != nil {
		return nil, mapPgError(err)
	}
	return unmarshalDocument(raw)
}

func (s *PostgresStore) Query(ctx context.Context, collection string, predicates ...Predicate) ([]Document, error) {
	where, args, err := buildFilter(collection, predicates)
	if err != nil {
		return nil, err
	}
	query := "SELECT data FROM documents WHERE " + where + " ORDER BY created_at, id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]Document, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		doc, err := unmarshalDocument(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	return result, rows.Err()
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, doc Document, merge bool) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO documents (collection, id, data)
        VALUES ($1, $2, $3::jsonb)
        ON CONFLICT (collection, id) DO UPDATE SET data=EXCLUDED.data, updated_at=NOW()`
	if merge {
		query = `
        INSERT INTO documents (collection, id, data)
        VALUES ($1, $2, $3::jsonb)
        ON CONFLICT (collection, id) DO UPDATE SET data=documents.data || EXCLUDED.data, updated_at=NOW()`
	}
	_, err = s.pool.Exec(ctx, query, collection, id, string(raw))
	return mapPgError(err)
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields Document) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	const query = `
        UPDATE documents SET data=data || $3::jsonb, updated_at=NOW()
        WHERE collection=$1 AND id=$2`
	cmd, err := s.pool.Exec(ctx, query, collection, id, string(raw))
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) (bool, error) {
	const query = `DELETE FROM documents WHERE collection=$1 AND id=$2`
	tag, err := s.pool.Exec(ctx, query, collection, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) GenerateID(string) string {
	return uuid.NewString()
}

func (s *PostgresStore) RunTransaction(ctx context.Context, collection, id string, fn TxFunc) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const selectQuery = `SELECT data FROM documents WHERE collection=$1 AND id=$2 FOR UPDATE`
	var raw []byte
	if err := tx.QueryRow(ctx, selectQuery, collection, id).Scan(&raw); err != nil {
		return mapPgError(err)
	}
	current, err := unmarshalDocument(raw)
	if err != nil {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	if next != nil {
		encoded, err := json.Marshal(next)
		if err != nil {
			return err
		}
		const updateQuery = `
            UPDATE documents SET data=$3::jsonb, updated_at=NOW()
            WHERE collection=$1 AND id=$2`
		if _, err := tx.Exec(ctx, updateQuery, collection, id, string(encoded)); err != nil {
			return mapPgError(err)
		}
	}
	return tx.Commit(ctx)
}

// buildFilter renders predicates as JSONB containment clauses.
func buildFilter(collection string, predicates []Predicate) (string, []any, error) {
	clauses := []string{"collection=$1"}
	args := []any{collection}

	containment := func(field string, value any) (string, error) {
		raw, err := json.Marshal(map[string]any{field: value})
		if err != nil {
			return "", err
		}
		args = append(args, string(raw))
		return fmt.Sprintf("data @> $%d::jsonb", len(args)), nil
	}

	for _, p := range predicates {
		if err := p.validate(); err != nil {
			return "", nil, err
		}
		switch p.Op {
		case OpEquals:
			clause, err := containment(p.Field, p.Value)
			if err != nil {
				return "", nil, err
			}
			clauses = append(clauses, clause)
		case OpArrayContains:
			clause, err := containment(p.Field, []any{p.Value})
			if err != nil {
				return "", nil, err
			}
			clauses = append(clauses, clause)
		case OpArrayContainsAny:
			values, _ := p.Value.([]any)
			if len(values) == 0 {
				clauses = append(clauses, "FALSE")
				continue
			}
			alternatives := make([]string, 0, len(values))
			for _, v := range values {
				clause, err := containment(p.Field, []any{v})
				if err != nil {
					return "", nil, err
				}
				alternatives = append(alternatives, clause)
			}
			clauses = append(clauses, "("+strings.Join(alternatives, " OR ")+")")
		}
	}
	return strings.Join(clauses, " AND "), args, nil
}

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
	}
	return err
}
