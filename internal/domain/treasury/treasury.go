package treasury

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/komla9992-max/gestion-sub000/internal/platform/db"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrBadAccount    = errors.New("unknown account")
	ErrBadDirection  = errors.New("unknown direction")
	ErrNotFound      = errors.New("operation not found")
)

const (
	AccountCash = "cash"
	AccountBank = "bank"

	DirectionIn  = "in"
	DirectionOut = "out"
)

type Operation struct {
	ID         string          `json:"id"`
	Account    string          `json:"account"`
	Direction  string          `json:"direction"`
	Amount     decimal.Decimal `json:"amount"`
	Label      string          `json:"label,omitempty"`
	OccurredOn time.Time       `json:"occurredOn"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// RunningBalance folds operations into a signed total: inflows add,
// outflows subtract. Derived on every read.
func RunningBalance(ops []Operation) decimal.Decimal {
	balance := decimal.Zero
	for _, op := range ops {
		if op.Direction == DirectionOut {
			balance = balance.Sub(op.Amount)
		} else {
			balance = balance.Add(op.Amount)
		}
	}
	return balance
}

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type CreateInput struct {
	Account    string
	Direction  string
	Amount     decimal.Decimal
	Label      string
	OccurredOn time.Time
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Operation, error) {
	if in.Account != AccountCash && in.Account != AccountBank {
		return Operation{}, ErrBadAccount
	}
	if in.Direction != DirectionIn && in.Direction != DirectionOut {
		return Operation{}, ErrBadDirection
	}
	if in.Amount.Sign() <= 0 {
		return Operation{}, ErrInvalidAmount
	}
	id, err := s.store.Insert(ctx, Operation{
		Account:    in.Account,
		Direction:  in.Direction,
		Amount:     in.Amount,
		Label:      in.Label,
		OccurredOn: in.OccurredOn,
	})
	if err != nil {
		return Operation{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, account string) ([]Operation, error) {
	return s.store.List(ctx, account)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Balance recomputes the account balance from its full operation history.
func (s *Service) Balance(ctx context.Context, account string) (decimal.Decimal, error) {
	ops, err := s.store.List(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}
	return RunningBalance(ops), nil
}

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const operationColumns = "id, account, direction, amount, COALESCE(label, ''), occurred_on, created_at"

func scanOperation(row pgx.Row) (Operation, error) {
	var op Operation
	err := row.Scan(&op.ID, &op.Account, &op.Direction, &op.Amount, &op.Label, &op.OccurredOn, &op.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Operation{}, ErrNotFound
	}
	return op, err
}

func (s *Store) Insert(ctx context.Context, op Operation) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO treasury_operations (account, direction, amount, label, occurred_on)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, op.Account, op.Direction, op.Amount, op.Label, op.OccurredOn).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (Operation, error) {
	return scanOperation(s.DB.QueryRow(ctx,
		"SELECT "+operationColumns+" FROM treasury_operations WHERE id = $1", id))
}

func (s *Store) List(ctx context.Context, account string) ([]Operation, error) {
	query := "SELECT " + operationColumns + " FROM treasury_operations"
	args := []any{}
	if account != "" {
		query += " WHERE account = $1"
		args = append(args, account)
	}
	query += " ORDER BY occurred_on ASC, created_at ASC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM treasury_operations WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
