// Package transfer implements the funds movement engine: single-leg card
// transfers and two-leg phone transfers over atomic conditional balance
// adjustments, with compensating reversals when a later step fails.
package transfer

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/storm-aslanbek/veridian/internal/domain"
	"github.com/storm-aslanbek/veridian/internal/logging"
)

type accountStore interface {
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Account, error)
	OldestActiveForUser(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
	AdjustBalance(ctx context.Context, id uuid.UUID, delta, minResulting int64) (int64, error)
}

type ledgerWriter interface {
	Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error
}

type userDirectory interface {
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
}

const (
	defaultStorageTimeout = 5 * time.Second

	// How often a compensating adjustment is retried before the failure is
	// escalated for manual reconciliation.
	compensationAttempts = 3
	compensationBackoff  = 100 * time.Millisecond
)

type Service struct {
	accounts accountStore
	ledger   ledgerWriter
	resolver *Resolver
	db       *sql.DB

	storageTimeout time.Duration
}

func NewService(accounts accountStore, ledger ledgerWriter, resolver *Resolver, db *sql.DB, storageTimeout time.Duration) *Service {
	if storageTimeout <= 0 {
		storageTimeout = defaultStorageTimeout
	}
	return &Service{
		accounts:       accounts,
		ledger:         ledger,
		resolver:       resolver,
		db:             db,
		storageTimeout: storageTimeout,
	}
}

// Result is returned to the boundary layer on success.
type Result struct {
	TransactionID uuid.UUID
}

// opCtx bounds a single storage call. No call made by the engine is allowed
// to block indefinitely; a timeout is an infra failure subject to the
// compensation rules.
func (s *Service) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storageTimeout)
}

// compensate reapplies delta to an account after a later step of a transfer
// failed. It runs detached from the caller's cancellation: once a balance has
// been adjusted the reversal must go through even if the request is gone.
// A non-nil return means the books are inconsistent.
func (s *Service) compensate(ctx context.Context, accountID uuid.UUID, delta int64) error {
	log := logging.FromContext(ctx)
	base := context.WithoutCancel(ctx)

	var err error
	backoff := compensationBackoff
	for attempt := 1; attempt <= compensationAttempts; attempt++ {
		opCtx, cancel := context.WithTimeout(base, s.storageTimeout)
		_, err = s.accounts.AdjustBalance(opCtx, accountID, delta, 0)
		cancel()
		if err == nil {
			return nil
		}
		log.Warn("compensating adjustment failed",
			"account_id", accountID,
			"delta", delta,
			"attempt", attempt,
			"error", err,
		)
		if attempt == compensationAttempts {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
	}

	log.Error("compensation exhausted, manual reconciliation required",
		"account_id", accountID,
		"delta", delta,
		"error", err,
	)
	return err
}
