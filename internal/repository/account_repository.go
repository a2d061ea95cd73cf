package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Rupeshkotha/Hackhub/internal/docstore"
	"github.com/Rupeshkotha/Hackhub/internal/domain"
)

const accountsCollection = "accounts"

// ErrDuplicateEmail is returned when an account with the email already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// AccountRepository defines persistence access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type accountRepository struct {
	store docstore.Store
}

// NewAccountRepository returns a document store backed implementation.
func NewAccountRepository(store docstore.Store) AccountRepository {
	return &accountRepository{store: store}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	account.Email = normalizeEmail(account.Email)
	if _, err := r.GetByEmail(ctx, account.Email); err == nil {
		return ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if account.ID == "" {
		account.ID = r.store.GenerateID(accountsCollection)
	}
	doc, err := docstore.Encode(account)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, accountsCollection, account.ID, doc, false); err != nil {
		if errors.Is(err, docstore.ErrConflict) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	doc, err := r.store.Get(ctx, accountsCollection, id)
	if err != nil {
		return nil, err
	}
	var account domain.Account
	if err := docstore.Decode(doc, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	docs, err := r.store.Query(ctx, accountsCollection, docstore.Equals("email", normalizeEmail(email)))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	var account domain.Account
	if err := docstore.Decode(docs[0], &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
