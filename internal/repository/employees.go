package repository

import (
	"context"
	"database/sql"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

const employeeColumns = `id, COALESCE(code, ''), name, department, role, phone, password`

func scanEmployee(row interface{ Scan(...any) error }, e *domain.Employee) error {
	return row.Scan(&e.ID, &e.Code, &e.Name, &e.Department, &e.Role, &e.Phone, &e.Password)
}

func (r *Repository) GetAllEmployees() ([]*domain.Employee, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	return r.listEmployees(ctx, r.dbpool)
}

func (r *Repository) listEmployees(ctx context.Context, q querier) ([]*domain.Employee, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		e := &domain.Employee{}
		if err := scanEmployee(rows, e); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) GetEmployeeByID(id int64) (*domain.Employee, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	e := &domain.Employee{}
	query := r.rebind(`SELECT ` + employeeColumns + ` FROM employees WHERE id = ?`)
	if err := scanEmployee(r.dbpool.QueryRowContext(ctx, query, id), e); err != nil {
		return nil, err
	}

	return e, nil
}

func (r *Repository) CountEmployees() (int64, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	var n int64
	if err := r.dbpool.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repository) CreateEmployee(e *domain.Employee) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := `
		INSERT INTO employees (code, name, department, role, phone, password)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	args := []any{nullable(e.Code), e.Name, e.Department, e.Role, e.Phone, e.Password}
	if err := r.dbpool.QueryRowContext(ctx, r.rebind(query), args...).Scan(&e.ID); err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return err
	}

	return nil
}

// UpdateEmployee rewrites the profile fields. The password is left alone.
func (r *Repository) UpdateEmployee(e *domain.Employee) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := `
		UPDATE employees
		SET code = ?, name = ?, department = ?, role = ?, phone = ?
		WHERE id = ?
	`

	args := []any{nullable(e.Code), e.Name, e.Department, e.Role, e.Phone, e.ID}
	res, err := r.dbpool.ExecContext(ctx, r.rebind(query), args...)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return err
	}
	return expectAffected(res)
}

// DeleteEmployee removes the employee together with their schedule entries.
func (r *Repository) DeleteEmployee(id int64) error {
	ctx, cancel := r.txCtx()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.exec(ctx, tx, `DELETE FROM schedules WHERE employee_id = ?`, id); err != nil {
		return err
	}
	if err := r.exec(ctx, tx, `DELETE FROM employees WHERE id = ?`, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) UpdateEmployeePassword(id int64, password string) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, r.rebind(`UPDATE employees SET password = ? WHERE id = ?`), password, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
