package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/punch"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type punchRepositoryImpl struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) punch.PunchRepository {
	return &punchRepositoryImpl{db: db}
}

const punchSelect = `
	SELECT p.id, p.employee_id, p.company_id, p.date, p.punch_type, p.requested_time,
		   p.resolved_at, p.reason, p.status, p.rejection_reason, p.reviewed_by, p.reviewed_at,
		   p.created_at, p.updated_at, e.full_name
	FROM punch_requests p
	JOIN employees e ON e.id = p.employee_id
`

func scanPunchRequest(row pgx.Row) (punch.PunchRequest, error) {
	var p punch.PunchRequest
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.CompanyID, &p.Date, &p.PunchType, &p.RequestedTime,
		&p.ResolvedAt, &p.Reason, &p.Status, &p.RejectionReason, &p.ReviewedBy, &p.ReviewedAt,
		&p.CreatedAt, &p.UpdatedAt, &p.EmployeeName,
	)
	return p, err
}

func (r *punchRepositoryImpl) Create(ctx context.Context, req punch.PunchRequest) (punch.PunchRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO punch_requests (employee_id, company_id, date, punch_type, requested_time, reason, status)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.EmployeeID, req.CompanyID, req.Date.Format("2006-01-02"), req.PunchType,
		req.RequestedTime, req.Reason, req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return punch.PunchRequest{}, fmt.Errorf("failed to create punch request: %w", err)
	}

	return req, nil
}

func (r *punchRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (punch.PunchRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := punchSelect + ` WHERE p.id = $1 AND p.company_id = $2`

	p, err := scanPunchRequest(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return punch.PunchRequest{}, punch.ErrPunchRequestNotFound
		}
		return punch.PunchRequest{}, fmt.Errorf("failed to get punch request: %w", err)
	}
	return p, nil
}

func (r *punchRepositoryImpl) List(ctx context.Context, filter punch.PunchFilter, companyID string) ([]punch.PunchRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"p.company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		where = append(where, fmt.Sprintf("p.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		where = append(where, fmt.Sprintf("p.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.DateFrom != nil && *filter.DateFrom != "" {
		where = append(where, fmt.Sprintf("p.date >= $%d::date", argIdx))
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil && *filter.DateTo != "" {
		where = append(where, fmt.Sprintf("p.date <= $%d::date", argIdx))
		args = append(args, *filter.DateTo)
		argIdx++
	}

	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM punch_requests p"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count punch requests: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf("%s%s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d",
		punchSelect, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list punch requests: %w", err)
	}
	defer rows.Close()

	var requests []punch.PunchRequest
	for rows.Next() {
		p, err := scanPunchRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan punch request: %w", err)
		}
		requests = append(requests, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *punchRepositoryImpl) Update(ctx context.Context, req punch.PunchRequest) (punch.PunchRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE punch_requests SET
			date = $1::date, punch_type = $2, requested_time = $3, resolved_at = $4, reason = $5,
			status = $6, rejection_reason = $7, reviewed_by = $8, reviewed_at = $9, updated_at = NOW()
		WHERE id = $10 AND company_id = $11
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		req.Date.Format("2006-01-02"), req.PunchType, req.RequestedTime, req.ResolvedAt, req.Reason,
		req.Status, req.RejectionReason, req.ReviewedBy, req.ReviewedAt, req.ID, req.CompanyID,
	).Scan(&req.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return punch.PunchRequest{}, punch.ErrPunchRequestNotFound
		}
		return punch.PunchRequest{}, fmt.Errorf("failed to update punch request: %w", err)
	}

	return req, nil
}

func (r *punchRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM punch_requests WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete punch request: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return punch.ErrPunchRequestNotFound
	}
	return nil
}
