package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintFilter captures listing parameters.
type ComplaintFilter struct {
	SubmitterID *string
	Statuses    []domain.ComplaintStatus
	Categories  []domain.ComplaintCategory
	Limit       int
	Offset      int
}

// ComplaintRepository encapsulates complaint persistence. Implementations
// must serialize concurrent status updates per record id: UpdateStatus is a
// compare-and-set on the expected current status and returns ErrStaleStatus
// when the record changed underneath the caller.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.ComplaintStatus, closedAt *time.Time) (*domain.Complaint, error)
	UpdateDepartment(ctx context.Context, id, department string) (*domain.Complaint, error)
	Stats(ctx context.Context) (*domain.ComplaintStats, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiate a Postgres-backed repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, external_key, submitter_id, submitter_name, title, description,
       category, priority, status, assigned_department, reasoning, image_ref,
       created_at, updated_at, closed_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (id, external_key, submitter_id, submitter_name, title, description,
            category, priority, status, assigned_department, reasoning, image_ref, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$13)`
	_, err := r.pool.Exec(ctx, query,
		complaint.ID,
		complaint.ExternalKey,
		complaint.SubmitterID,
		complaint.SubmitterName,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.Priority,
		complaint.Status,
		complaint.AssignedDepartment,
		complaint.Reasoning,
		complaint.ImageRef,
		complaint.CreatedAt,
	)
	return err
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	const query = `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *complaintRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Complaint, error) {
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&complaint.ID,
		&complaint.ExternalKey,
		&complaint.SubmitterID,
		&complaint.SubmitterName,
		&complaint.Title,
		&complaint.Description,
		&complaint.Category,
		&complaint.Priority,
		&complaint.Status,
		&complaint.AssignedDepartment,
		&complaint.Reasoning,
		&complaint.ImageRef,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
		&complaint.ClosedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.SubmitterID != nil {
		query += ` AND submitter_id=$` + strconv.Itoa(idx)
		args = append(args, *filter.SubmitterID)
		idx++
	}
	if len(filter.Statuses) > 0 {
		query += ` AND status = ANY($` + strconv.Itoa(idx) + `)`
		args = append(args, statusStrings(filter.Statuses))
		idx++
	}
	if len(filter.Categories) > 0 {
		query += ` AND category = ANY($` + strconv.Itoa(idx) + `)`
		args = append(args, categoryStrings(filter.Categories))
		idx++
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(idx)
		args = append(args, filter.Limit)
		idx++
	}
	if filter.Offset > 0 {
		query += ` OFFSET $` + strconv.Itoa(idx)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	complaints := []domain.Complaint{}
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.ExternalKey,
			&complaint.SubmitterID,
			&complaint.SubmitterName,
			&complaint.Title,
			&complaint.Description,
			&complaint.Category,
			&complaint.Priority,
			&complaint.Status,
			&complaint.AssignedDepartment,
			&complaint.Reasoning,
			&complaint.ImageRef,
			&complaint.CreatedAt,
			&complaint.UpdatedAt,
			&complaint.ClosedAt,
		); err != nil {
			return nil, err
		}
		complaints = append(complaints, complaint)
	}
	return complaints, rows.Err()
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ComplaintStatus, closedAt *time.Time) (*domain.Complaint, error) {
	const query = `
        UPDATE complaints SET status=$1, closed_at=$2, updated_at=NOW()
        WHERE id=$3 AND status=$4`
	cmd, err := r.pool.Exec(ctx, query, to, closedAt, id, from)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStaleStatus
	}
	return r.GetByID(ctx, id)
}

func (r *complaintRepository) UpdateDepartment(ctx context.Context, id, department string) (*domain.Complaint, error) {
	const query = `
        UPDATE complaints SET assigned_department=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, department, id)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *complaintRepository) Stats(ctx context.Context) (*domain.ComplaintStats, error) {
	stats := &domain.ComplaintStats{
		ByCategory: map[domain.ComplaintCategory]int{},
		ByStatus:   map[domain.ComplaintStatus]int{},
		ByPriority: map[domain.ComplaintPriority]int{},
	}

	const query = `SELECT category, priority, status, COUNT(*) FROM complaints GROUP BY category, priority, status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			category domain.ComplaintCategory
			priority domain.ComplaintPriority
			status   domain.ComplaintStatus
			count    int
		)
		if err := rows.Scan(&category, &priority, &status, &count); err != nil {
			return nil, err
		}
		stats.ByCategory[category] += count
		stats.ByPriority[priority] += count
		stats.ByStatus[status] += count
		stats.Total += count
	}
	return stats, rows.Err()
}

func statusStrings(statuses []domain.ComplaintStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func categoryStrings(categories []domain.ComplaintCategory) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, string(c))
	}
	return out
}

