package repository

import (
	"context"
	"strings"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

// GetTasks lists every task, or only those of department plus the shared
// ones when a specific department is given.
func (r *Repository) GetTasks(department string) ([]*domain.Task, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	if department == "" || department == domain.DepartmentAll {
		return r.listTasks(ctx, r.dbpool)
	}

	query := `
		SELECT id, department, name, color, text_color FROM tasks
		WHERE department = ? OR department = ?
		ORDER BY id
	`
	rows, err := r.dbpool.QueryContext(ctx, r.rebind(query), department, domain.DepartmentAll)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

func (r *Repository) listTasks(ctx context.Context, q querier) ([]*domain.Task, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, department, name, color, text_color FROM tasks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

func scanTasks(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		t := &domain.Task{}
		if err := rows.Scan(&t.ID, &t.Department, &t.Name, &t.Color, &t.TextColor); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *Repository) CreateTask(t *domain.Task) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := `
		INSERT INTO tasks (department, name, color, text_color)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`
	return r.dbpool.QueryRowContext(ctx, r.rebind(query), t.Department, t.Name, t.Color, t.TextColor).Scan(&t.ID)
}

func (r *Repository) DeleteTask(id int64) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	return r.exec(ctx, r.dbpool, `DELETE FROM tasks WHERE id = ?`, id)
}

// SalesDepartment owns the built-in task catalogue.
const SalesDepartment = "Bán hàng"

// DefaultTasks is the catalogue SeedTasks guarantees for SalesDepartment.
var DefaultTasks = []domain.Task{
	{Department: SalesDepartment, Name: "Trực hotline", Color: "#22c55e", TextColor: "#ffffff"},
	{Department: SalesDepartment, Name: "Trực cửa", Color: "#a855f7", TextColor: "#ffffff"},
	{Department: SalesDepartment, Name: "Vệ sinh", Color: "#06b6d4", TextColor: "#ffffff"},
}

// SeedTasks adds whichever default tasks are missing. Matching ignores case
// and surrounding spaces, so repeated calls add nothing.
func (r *Repository) SeedTasks() (int, error) {
	ctx, cancel := r.txCtx()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	existing, err := r.listTasks(ctx, tx)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, def := range DefaultTasks {
		found := false
		for _, t := range existing {
			if strings.EqualFold(strings.TrimSpace(t.Department), def.Department) && strings.EqualFold(strings.TrimSpace(t.Name), def.Name) {
				found = true
				break
			}
		}
		if found {
			continue
		}

		query := `INSERT INTO tasks (department, name, color, text_color) VALUES (?, ?, ?, ?)`
		if err := r.exec(ctx, tx, query, def.Department, def.Name, def.Color, def.TextColor); err != nil {
			return 0, err
		}
		added++
	}

	return added, tx.Commit()
}
