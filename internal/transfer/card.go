package transfer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/storm-aslanbek/veridian/internal/domain"
	"github.com/storm-aslanbek/veridian/internal/logging"
)

type ToCardRequest struct {
	OwnerID     uuid.UUID
	AccountID   uuid.UUID
	CardNumber  string
	Amount      int64
	Description string
}

// ToCard debits the owner's account and appends a single outgoing transfer
// record carrying the card number as counterparty reference. The debit and
// the record are not observably separable: a failed append is undone by
// crediting the amount back before the error is returned.
func (s *Service) ToCard(ctx context.Context, req ToCardRequest) (*Result, error) {
	log := logging.FromContext(ctx)

	if req.Amount <= 0 {
		return nil, fmt.Errorf("ToCard: %w", domain.ErrInvalidAmount)
	}
	if strings.TrimSpace(req.CardNumber) == "" {
		return nil, fmt.Errorf("ToCard: card number: %w", domain.ErrInvalidRequest)
	}

	getCtx, cancel := s.opCtx(ctx)
	acct, err := s.accounts.GetForOwner(getCtx, req.AccountID, req.OwnerID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("ToCard: %w", err)
	}
	if !acct.Active {
		return nil, fmt.Errorf("ToCard: %w", domain.ErrAccountInactive)
	}

	debitCtx, cancel := s.opCtx(ctx)
	_, err = s.accounts.AdjustBalance(debitCtx, acct.ID, -req.Amount, 0)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("ToCard: debit: %w", err)
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Transfer to %s", req.CardNumber)
	}

	record := &domain.Transaction{
		ID:              uuid.New(),
		UserID:          req.OwnerID,
		AccountID:       acct.ID,
		Kind:            domain.KindTransfer,
		Category:        "Transfer",
		Amount:          -req.Amount,
		Currency:        acct.Currency,
		CounterpartyRef: &req.CardNumber,
		Description:     &description,
		Status:          domain.TransactionStatusCompleted,
	}

	if err := s.appendRecords(ctx, record); err != nil {
		if compErr := s.compensate(ctx, acct.ID, req.Amount); compErr != nil {
			return nil, fmt.Errorf("ToCard: append failed (%v) and reversal failed (%v): %w",
				err, compErr, domain.ErrReconciliationRequired)
		}
		return nil, fmt.Errorf("ToCard: append: %w", err)
	}

	log.Info("card transfer completed",
		"transaction_id", record.ID,
		"account_id", acct.ID,
		"amount", req.Amount,
		"currency", acct.Currency,
	)

	return &Result{TransactionID: record.ID}, nil
}

// appendRecords writes the given ledger records in one database transaction,
// so a reader either sees all of them or none.
func (s *Service) appendRecords(ctx context.Context, records ...*domain.Transaction) error {
	txCtx, cancel := s.opCtx(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		return fmt.Errorf("appendRecords: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, r := range records {
		if err := s.ledger.Create(txCtx, tx, r); err != nil {
			return fmt.Errorf("appendRecords: %s: %w", r.Kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("appendRecords: commit: %w", err)
	}
	return nil
}
