package transfer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storm-aslanbek/veridian/internal/domain"
	"github.com/storm-aslanbek/veridian/internal/logging"
)

type ByPhoneRequest struct {
	OwnerID     uuid.UUID
	AccountID   uuid.UUID
	Phone       string
	Amount      int64
	Description string
}

// ByPhone moves funds between two users as an all-or-nothing operation:
// resolve the recipient, debit the source, credit the recipient's oldest
// active account, then append the paired transfer_out/transfer_in records in
// one database transaction. Each step after the debit has a compensating
// reversal; the caller never observes a debited source without either a
// completed transfer or the reversal applied.
func (s *Service) ByPhone(ctx context.Context, req ByPhoneRequest) (*Result, error) {
	log := logging.FromContext(ctx)

	if req.Amount <= 0 {
		return nil, fmt.Errorf("ByPhone: %w", domain.ErrInvalidAmount)
	}

	getCtx, cancel := s.opCtx(ctx)
	source, err := s.accounts.GetForOwner(getCtx, req.AccountID, req.OwnerID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("ByPhone: %w", err)
	}
	if !source.Active {
		return nil, fmt.Errorf("ByPhone: %w", domain.ErrAccountInactive)
	}

	resolveCtx, cancel := s.opCtx(ctx)
	recipient, err := s.resolver.ResolveByPhone(resolveCtx, req.Phone, req.OwnerID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("ByPhone: %w", err)
	}

	acctCtx, cancel := s.opCtx(ctx)
	dest, err := s.resolver.ActiveAccountFor(acctCtx, recipient.ID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("ByPhone: %w", err)
	}

	debitCtx, cancel := s.opCtx(ctx)
	_, err = s.accounts.AdjustBalance(debitCtx, source.ID, -req.Amount, 0)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("ByPhone: debit: %w", err)
	}

	creditCtx, cancel := s.opCtx(ctx)
	_, err = s.accounts.AdjustBalance(creditCtx, dest.ID, req.Amount, 0)
	cancel()
	if err != nil {
		if compErr := s.compensate(ctx, source.ID, req.Amount); compErr != nil {
			return nil, fmt.Errorf("ByPhone: credit failed (%v) and reversal failed (%v): %w",
				err, compErr, domain.ErrReconciliationRequired)
		}
		return nil, fmt.Errorf("ByPhone: credit: %w", err)
	}

	out, in := s.buildPhonePair(req, source, dest, recipient)

	if err := s.appendRecords(ctx, out, in); err != nil {
		if compErr := s.reversePhoneTransfer(ctx, source.ID, dest.ID, req.Amount); compErr != nil {
			return nil, fmt.Errorf("ByPhone: append failed (%v) and reversal failed (%v): %w",
				err, compErr, domain.ErrReconciliationRequired)
		}
		return nil, fmt.Errorf("ByPhone: append: %w", err)
	}

	log.Info("phone transfer completed",
		"transaction_id", out.ID,
		"source_account", source.ID,
		"dest_account", dest.ID,
		"recipient_user", recipient.ID,
		"amount", req.Amount,
	)

	return &Result{TransactionID: out.ID}, nil
}

// buildPhonePair creates both legs up front so each record can carry the
// other's id as its counterparty reference. The signed amounts sum to zero
// and each leg is denominated in its own account's currency.
func (s *Service) buildPhonePair(req ByPhoneRequest, source, dest *domain.Account, recipient *domain.User) (*domain.Transaction, *domain.Transaction) {
	outID, inID := uuid.New(), uuid.New()
	outRef, inRef := inID.String(), outID.String()

	outDescription := req.Description
	if outDescription == "" {
		outDescription = fmt.Sprintf("Transfer to %s", NormalizePhone(req.Phone))
	}
	inDescription := "Incoming transfer via phone"

	out := &domain.Transaction{
		ID:              outID,
		UserID:          req.OwnerID,
		AccountID:       source.ID,
		Kind:            domain.KindTransferOut,
		Category:        "Transfer",
		Amount:          -req.Amount,
		Currency:        source.Currency,
		CounterpartyRef: &outRef,
		Description:     &outDescription,
		Status:          domain.TransactionStatusCompleted,
	}
	in := &domain.Transaction{
		ID:              inID,
		UserID:          recipient.ID,
		AccountID:       dest.ID,
		Kind:            domain.KindTransferIn,
		Category:        "Transfer",
		Amount:          req.Amount,
		Currency:        dest.Currency,
		CounterpartyRef: &inRef,
		Description:     &inDescription,
		Status:          domain.TransactionStatusCompleted,
	}
	return out, in
}

// reversePhoneTransfer undoes both balance adjustments after the ledger
// append failed. The destination is debited first so funds are never parked
// on both sides at once; if the recipient already spent the credit the debit
// is refused by the balance floor and the failure escalates.
func (s *Service) reversePhoneTransfer(ctx context.Context, sourceID, destID uuid.UUID, amount int64) error {
	if err := s.compensate(ctx, destID, -amount); err != nil {
		return fmt.Errorf("reversePhoneTransfer: dest: %w", err)
	}
	if err := s.compensate(ctx, sourceID, amount); err != nil {
		return fmt.Errorf("reversePhoneTransfer: source: %w", err)
	}
	return nil
}
