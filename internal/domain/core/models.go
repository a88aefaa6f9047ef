package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID        string           `json:"id"`
	Matricule string           `json:"matricule"`
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Email     string           `json:"email,omitempty"`
	Phone     string           `json:"phone,omitempty"`
	Address   string           `json:"address,omitempty"`
	Post      string           `json:"post"`
	Salary    *decimal.Decimal `json:"salary,omitempty"`
	HireDate  *time.Time       `json:"hireDate,omitempty"`
	EndDate   *time.Time       `json:"endDate,omitempty"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type Client struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contactName,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Contract struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"clientId"`
	Reference     string          `json:"reference"`
	StartDate     *time.Time      `json:"startDate,omitempty"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
	AgentCount    int             `json:"agentCount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Document is an opaque employee file: payload plus metadata.
type Document struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	FileSize    int64     `json:"fileSize"`
	Data        []byte    `json:"-"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// UnknownLabel is what a dangling employee or client reference renders as.
// References are soft: nothing validates them at write time.
const UnknownLabel = "Inconnu"
