package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/storm-aslanbek/veridian/internal/domain"
)

type BillRepository struct {
	db *sql.DB
}

func NewBillRepository(db *sql.DB) *BillRepository {
	return &BillRepository{db: db}
}

func (r *BillRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Bill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, payee_name, category, amount, currency, due_date, paid, created_at
		FROM bills WHERE user_id = $1 ORDER BY due_date`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	defer rows.Close()

	var bills []domain.Bill
	for rows.Next() {
		var b domain.Bill
		err := rows.Scan(
			&b.ID, &b.UserID, &b.PayeeName, &b.Category, &b.Amount,
			&b.Currency, &b.DueDate, &b.Paid, &b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("GetByUserID: scan: %w", err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByUserID: rows: %w", err)
	}
	return bills, nil
}

type LoanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

func (r *LoanRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Loan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, provider, amount, remaining_amount, currency,
			interest_rate, next_payment_date, status, created_at
		FROM loans WHERE user_id = $1 ORDER BY created_at`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		var l domain.Loan
		err := rows.Scan(
			&l.ID, &l.UserID, &l.Provider, &l.Amount, &l.RemainingAmount,
			&l.Currency, &l.InterestRate, &l.NextPaymentDate, &l.Status, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("GetByUserID: scan: %w", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByUserID: rows: %w", err)
	}
	return loans, nil
}
