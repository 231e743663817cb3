package transfer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storm-aslanbek/veridian/internal/domain"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"formatted international", "+7 (777) 123-45-67", "87771234567"},
		{"bare international digits", "77771234567", "87771234567"},
		{"ten digits without prefix", "7771234567", "87771234567"},
		{"already canonical", "87771234567", "87771234567"},
		{"canonical with spaces", "8 777 123 45 67", "87771234567"},
		{"too short passes through", "123", "123"},
		{"eleven digits not starting with 7", "97771234567", "97771234567"},
		{"no digits", "abc", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.raw))
		})
	}
}

type stubDirectory struct {
	users map[string]*domain.User
}

func (d *stubDirectory) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	u, ok := d.users[phone]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func TestResolveByPhone(t *testing.T) {
	recipient := &domain.User{ID: uuid.New(), Phone: "87019876543"}
	resolver := NewResolver(&stubDirectory{
		users: map[string]*domain.User{recipient.Phone: recipient},
	}, nil)
	ctx := context.Background()
	requester := uuid.New()

	t.Run("finds recipient by any spelling of the number", func(t *testing.T) {
		for _, raw := range []string{"87019876543", "+7 701 987-65-43", "7019876543"} {
			u, err := resolver.ResolveByPhone(ctx, raw, requester)
			require.NoError(t, err, "raw %q", raw)
			assert.Equal(t, recipient.ID, u.ID)
		}
	})

	t.Run("unknown number", func(t *testing.T) {
		_, err := resolver.ResolveByPhone(ctx, "87770000000", requester)
		require.ErrorIs(t, err, domain.ErrRecipientNotFound)
	})

	t.Run("no digits at all", func(t *testing.T) {
		_, err := resolver.ResolveByPhone(ctx, "---", requester)
		require.ErrorIs(t, err, domain.ErrInvalidPhone)
	})

	t.Run("own number is rejected", func(t *testing.T) {
		_, err := resolver.ResolveByPhone(ctx, recipient.Phone, recipient.ID)
		require.ErrorIs(t, err, domain.ErrSelfTransfer)
	})
}
