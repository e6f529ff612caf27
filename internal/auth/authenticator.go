package auth

import (
	"context"
	"errors"

	"github.com/Behnamfe76/user-auth-service/internal/domain"
)

// DecisionRecorder receives one outcome label per authentication attempt.
type DecisionRecorder interface {
	RecordAuthDecision(outcome string)
}

// Authenticator turns a raw token into the user it authenticates.
type Authenticator struct {
	tokens   *TokenManager
	resolver *IdentityResolver
	recorder DecisionRecorder
}

// NewAuthenticator wires the token manager and resolver. recorder may be nil.
func NewAuthenticator(tokens *TokenManager, resolver *IdentityResolver, recorder DecisionRecorder) *Authenticator {
	return &Authenticator{tokens: tokens, resolver: resolver, recorder: recorder}
}

// Authenticate verifies token and resolves its subject. Errors from the
// codec and resolver are returned unchanged.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		a.record(err)
		return nil, err
	}

	user, err := a.resolver.Resolve(ctx, claims.Subject)
	a.record(err)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (a *Authenticator) record(err error) {
	if a.recorder == nil {
		return
	}
	a.recorder.RecordAuthDecision(outcomeLabel(err))
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "authenticated"
	case errors.Is(err, ErrTokenNotProvided):
		return "token_not_provided"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, ErrUserNoLongerExists):
		return "user_no_longer_exists"
	default:
		return "server_error"
	}
}
