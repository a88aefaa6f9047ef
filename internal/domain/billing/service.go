package billing

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type CreateInput struct {
	ClientID string
	Number   string
	IssuedOn time.Time
	DueOn    *time.Time
	Amount   decimal.Decimal
	Label    string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Invoice, error) {
	if in.Amount.Sign() <= 0 {
		return Invoice{}, ErrInvalidAmount
	}
	id, err := s.store.Insert(ctx, Invoice{
		ClientID: in.ClientID,
		Number:   in.Number,
		IssuedOn: in.IssuedOn,
		DueOn:    in.DueOn,
		Amount:   in.Amount,
		Label:    in.Label,
	})
	if err != nil {
		return Invoice{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (Invoice, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, clientID string) ([]Invoice, error) {
	return s.store.List(ctx, clientID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// RecordPayment appends a payment after validating it against the open
// balance.
func (s *Service) RecordPayment(ctx context.Context, id string, amount decimal.Decimal, paidOn time.Time, method string) (Invoice, error) {
	inv, err := s.store.Get(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	if err := ValidatePayment(inv, amount); err != nil {
		return Invoice{}, err
	}

	payment := Payment{
		ID:         uuid.NewString(),
		Amount:     amount,
		PaidOn:     paidOn,
		Method:     method,
		RecordedAt: time.Now().UTC(),
	}
	if err := s.store.AppendPayment(ctx, id, payment); err != nil {
		return Invoice{}, err
	}
	return s.store.Get(ctx, id)
}

// RenderPDF produces a printable invoice. clientName is resolved by the
// caller; a dangling reference renders as-is.
func (s *Service) RenderPDF(inv Invoice, clientName string) ([]byte, error) {
	view := inv.View()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Facture %s", inv.Number))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Client: %s", clientName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", inv.IssuedOn.Format("2006-01-02")))
	if inv.DueOn != nil {
		pdf.Ln(7)
		pdf.Cell(0, 8, fmt.Sprintf("Echeance: %s", inv.DueOn.Format("2006-01-02")))
	}
	if inv.Label != "" {
		pdf.Ln(7)
		pdf.Cell(0, 8, inv.Label)
	}
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Montant: %s", view.Amount.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Regle: %s", view.TotalPaid.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Solde: %s", view.Balance.StringFixed(2)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
