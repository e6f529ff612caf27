package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Behnamfe76/user-auth-service/internal/domain"
	"github.com/Behnamfe76/user-auth-service/internal/repository"
)

// UserStore is the lookup capability the resolver depends on. A missing
// record is reported as repository.ErrNotFound.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// IdentityResolver loads the user a verified token refers to. Results are
// never cached, so a deleted account is rejected on its next request.
type IdentityResolver struct {
	store UserStore
}

// NewIdentityResolver constructs a resolver over store.
func NewIdentityResolver(store UserStore) *IdentityResolver {
	return &IdentityResolver{store: store}
}

// Resolve looks up the user identified by subject.
func (r *IdentityResolver) Resolve(ctx context.Context, subject string) (*domain.User, error) {
	user, err := r.store.FindByID(ctx, subject)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrServerError, ctxErr)
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrUserNoLongerExists
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrServerError, err)
	case user == nil:
		return nil, ErrUserNoLongerExists
	}
	return user, nil
}
