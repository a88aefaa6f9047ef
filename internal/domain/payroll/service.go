package payroll

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/komla9992-max/gestion-sub000/internal/domain/advance"
	"github.com/komla9992-max/gestion-sub000/internal/domain/core"
)

type Service struct {
	store     *Store
	employees *core.Store
	advances  *advance.Service
}

func NewService(store *Store, employees *core.Store, advances *advance.Service) *Service {
	return &Service{store: store, employees: employees, advances: advances}
}

type CreateInput struct {
	EmployeeID      string
	Month           time.Time
	Bonus           decimal.Decimal
	OtherDeductions decimal.Decimal
}

// Create issues a payslip for the employee's month. The base salary comes
// from the employee record and the advance deduction from the advance
// ledger's repayments dated within that month.
func (s *Service) Create(ctx context.Context, in CreateInput) (Payslip, error) {
	if in.Bonus.Sign() < 0 || in.OtherDeductions.Sign() < 0 {
		return Payslip{}, ErrInvalidAmount
	}

	employee, err := s.employees.GetEmployee(ctx, in.EmployeeID)
	if err != nil {
		return Payslip{}, err
	}
	base := decimal.Zero
	if employee.Salary != nil {
		base = *employee.Salary
	}

	advanceDeduction, err := s.advances.RepaidInMonth(ctx, in.EmployeeID, in.Month)
	if err != nil {
		return Payslip{}, err
	}

	gross, deductions, net := ComputePayslip(base, in.Bonus, advanceDeduction, in.OtherDeductions)

	id, err := s.store.Insert(ctx, Payslip{
		EmployeeID:       in.EmployeeID,
		Month:            time.Date(in.Month.Year(), in.Month.Month(), 1, 0, 0, 0, 0, time.UTC),
		BaseSalary:       base,
		Bonus:            in.Bonus,
		AdvanceDeduction: advanceDeduction,
		OtherDeductions:  in.OtherDeductions,
		Gross:            gross,
		Deductions:       deductions,
		Net:              net,
	})
	if err != nil {
		return Payslip{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (Payslip, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, employeeID string) ([]Payslip, error) {
	return s.store.List(ctx, employeeID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// RenderPDF produces the printable payslip for an issued slip.
func (s *Service) RenderPDF(ctx context.Context, id string) ([]byte, error) {
	slip, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	employeeName := core.UnknownLabel
	if employee, err := s.employees.GetEmployee(ctx, slip.EmployeeID); err == nil {
		employeeName = employee.FullName()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Bulletin de paie")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employe: %s", employeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Periode: %s", slip.Month.Format("2006-01")))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Salaire de base: %s", slip.BaseSalary.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Primes: %s", slip.Bonus.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Retenue avance: %s", slip.AdvanceDeduction.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Autres retenues: %s", slip.OtherDeductions.StringFixed(2)))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net a payer: %s", slip.Net.StringFixed(2)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
