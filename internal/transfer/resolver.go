package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/storm-aslanbek/veridian/internal/domain"
)

// NormalizePhone reduces a phone number to the canonical national form used
// as the lookup key everywhere: digits only, with the leading 7 of an
// 11-digit number replaced by 8 and a bare 10-digit number prefixed with 8.
// Anything else is returned as its digit string untouched.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 11 && digits[0] == '7':
		return "8" + digits[1:]
	case len(digits) == 10:
		return "8" + digits
	default:
		return digits
	}
}

// Resolver turns a raw phone number into a transfer destination: the owning
// user and one of their active accounts.
type Resolver struct {
	users    userDirectory
	accounts accountStore
}

func NewResolver(users userDirectory, accounts accountStore) *Resolver {
	return &Resolver{users: users, accounts: accounts}
}

func (r *Resolver) ResolveByPhone(ctx context.Context, rawPhone string, requesterID uuid.UUID) (*domain.User, error) {
	phone := NormalizePhone(rawPhone)
	if phone == "" {
		return nil, fmt.Errorf("ResolveByPhone: %w", domain.ErrInvalidPhone)
	}

	user, err := r.users.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("ResolveByPhone: %w", domain.ErrRecipientNotFound)
		}
		return nil, fmt.Errorf("ResolveByPhone: %w", err)
	}

	if user.ID == requesterID {
		return nil, fmt.Errorf("ResolveByPhone: %w", domain.ErrSelfTransfer)
	}

	return user, nil
}

// ActiveAccountFor selects the destination account for an incoming transfer.
// The selection is deterministic: the recipient's oldest active account.
func (r *Resolver) ActiveAccountFor(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	acct, err := r.accounts.OldestActiveForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ActiveAccountFor: %w", err)
	}
	return acct, nil
}
