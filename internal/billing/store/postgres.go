package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"qrbill/internal/billing"
	"qrbill/pkg/bill"
	"qrbill/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresStore persists issued bills in PostgreSQL. The table layout is
// created by postgres.Migrate.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, issued *billing.IssuedBill) error {
	if issued == nil || issued.Bill == nil {
		return fmt.Errorf("issued bill is required")
	}
	data, err := json.Marshal(issued.Bill)
	if err != nil {
		return fmt.Errorf("marshal bill: %w", err)
	}

	query := `
		INSERT INTO issued_bills (id, reference, qr_text, bill, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = s.db.ExecContext(ctx, query, issued.ID, issued.Bill.Reference, issued.QRText, string(data), issued.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("save bill %s: %w", issued.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("save bill: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*billing.IssuedBill, error) {
	query := `SELECT id, qr_text, bill, created_at FROM issued_bills WHERE id = $1`

	var (
		issued billing.IssuedBill
		data   []byte
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&issued.ID, &issued.QRText, &data, &issued.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("bill %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find bill: %w", err)
	}

	issued.Bill = &bill.Bill{}
	if err := json.Unmarshal(data, issued.Bill); err != nil {
		return nil, fmt.Errorf("unmarshal bill %s: %w", id, err)
	}
	issued.CreatedAt = issued.CreatedAt.UTC()
	return &issued, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
