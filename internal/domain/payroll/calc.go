package payroll

import "github.com/shopspring/decimal"

// ComputePayslip derives the payslip figures. Gross is base salary plus
// bonuses; deductions are the month's salary-advance repayments plus any
// other withholdings; net is their difference.
func ComputePayslip(baseSalary, bonus, advanceDeduction, otherDeductions decimal.Decimal) (gross, deductions, net decimal.Decimal) {
	gross = baseSalary.Add(bonus)
	deductions = advanceDeduction.Add(otherDeductions)
	net = gross.Sub(deductions)
	return gross, deductions, net
}
