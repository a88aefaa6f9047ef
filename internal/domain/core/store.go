package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/komla9992-max/gestion-sub000/internal/platform/db"
)

var ErrNotFound = errors.New("record not found")

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const employeeColumns = `id, COALESCE(matricule, ''), first_name, last_name, COALESCE(email, ''),
       COALESCE(phone, ''), COALESCE(address, ''), COALESCE(post, ''), salary,
       hire_date, end_date, status, created_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.Matricule, &e.FirstName, &e.LastName, &e.Email,
		&e.Phone, &e.Address, &e.Post, &e.Salary, &e.HireDate, &e.EndDate, &e.Status, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return e, err
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+employeeColumns+" FROM employees ORDER BY last_name, first_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id))
}

func (s *Store) InsertEmployee(ctx context.Context, e Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (matricule, first_name, last_name, email, phone, address, post, salary, hire_date, end_date, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `, e.Matricule, e.FirstName, e.LastName, e.Email, e.Phone, e.Address, e.Post, e.Salary, e.HireDate, e.EndDate, e.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, e Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET matricule = $2, first_name = $3, last_name = $4, email = $5, phone = $6,
        address = $7, post = $8, salary = $9, hire_date = $10, end_date = $11, status = $12
    WHERE id = $1
  `, e.ID, e.Matricule, e.FirstName, e.LastName, e.Email, e.Phone, e.Address, e.Post, e.Salary, e.HireDate, e.EndDate, e.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// EmployeeNameIndex maps employee ids to display names, for decorating
// records that hold soft references. Missing ids are simply absent; callers
// render UnknownLabel.
func (s *Store) EmployeeNameIndex(ctx context.Context) (map[string]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, first_name || ' ' || last_name FROM employees")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := map[string]string{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		index[id] = name
	}
	return index, rows.Err()
}

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.ContactName, &c.Email, &c.Phone, &c.Address, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	return c, err
}

const clientColumns = `id, name, COALESCE(contact_name, ''), COALESCE(email, ''),
       COALESCE(phone, ''), COALESCE(address, ''), created_at`

func (s *Store) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+clientColumns+" FROM clients ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *Store) GetClient(ctx context.Context, id string) (Client, error) {
	return scanClient(s.DB.QueryRow(ctx, "SELECT "+clientColumns+" FROM clients WHERE id = $1", id))
}

func (s *Store) InsertClient(ctx context.Context, c Client) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO clients (name, contact_name, email, phone, address)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, c.Name, c.ContactName, c.Email, c.Phone, c.Address).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateClient(ctx context.Context, c Client) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE clients
    SET name = $2, contact_name = $3, email = $4, phone = $5, address = $6
    WHERE id = $1
  `, c.ID, c.Name, c.ContactName, c.Email, c.Phone, c.Address)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM clients WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ClientNameIndex(ctx context.Context) (map[string]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name FROM clients")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := map[string]string{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		index[id] = name
	}
	return index, rows.Err()
}

const contractColumns = `id, client_id, COALESCE(reference, ''), start_date, end_date,
       monthly_amount, agent_count, status, created_at`

func scanContract(row pgx.Row) (Contract, error) {
	var c Contract
	err := row.Scan(&c.ID, &c.ClientID, &c.Reference, &c.StartDate, &c.EndDate,
		&c.MonthlyAmount, &c.AgentCount, &c.Status, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Contract{}, ErrNotFound
	}
	return c, err
}

func (s *Store) ListContracts(ctx context.Context) ([]Contract, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+contractColumns+" FROM contracts ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func (s *Store) GetContract(ctx context.Context, id string) (Contract, error) {
	return scanContract(s.DB.QueryRow(ctx, "SELECT "+contractColumns+" FROM contracts WHERE id = $1", id))
}

func (s *Store) InsertContract(ctx context.Context, c Contract) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO contracts (client_id, reference, start_date, end_date, monthly_amount, agent_count, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, c.ClientID, c.Reference, c.StartDate, c.EndDate, c.MonthlyAmount, c.AgentCount, c.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateContract(ctx context.Context, c Contract) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE contracts
    SET client_id = $2, reference = $3, start_date = $4, end_date = $5,
        monthly_amount = $6, agent_count = $7, status = $8
    WHERE id = $1
  `, c.ID, c.ClientID, c.Reference, c.StartDate, c.EndDate, c.MonthlyAmount, c.AgentCount, c.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteContract(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM contracts WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) InsertDocument(ctx context.Context, d Document) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_documents (employee_id, file_name, content_type, file_size, data)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, d.EmployeeID, d.FileName, d.ContentType, d.FileSize, d.Data).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListDocuments(ctx context.Context, employeeID string) ([]Document, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, file_name, content_type, file_size, uploaded_at
    FROM employee_documents
    WHERE employee_id = $1
    ORDER BY uploaded_at DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.EmployeeID, &d.FileName, &d.ContentType, &d.FileSize, &d.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *Store) GetDocument(ctx context.Context, id string) (Document, error) {
	var d Document
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, file_name, content_type, file_size, data, uploaded_at
    FROM employee_documents
    WHERE id = $1
  `, id).Scan(&d.ID, &d.EmployeeID, &d.FileName, &d.ContentType, &d.FileSize, &d.Data, &d.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return d, err
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employee_documents WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
