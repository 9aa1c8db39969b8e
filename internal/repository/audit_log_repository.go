package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"afyalink/internal/domain"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditLogFilter, params domain.PaginationParams) ([]domain.AuditLog, int64, error)
	Search(ctx context.Context, query string, params domain.PaginationParams) ([]domain.AuditLog, int64, error)
	ListForExport(ctx context.Context, filter domain.AuditLogFilter, limit int) ([]domain.AuditLog, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountSuccessSince(ctx context.Context, since time.Time) (int64, error)
	CountByActionSince(ctx context.Context, since time.Time) ([]domain.ActionCount, error)
	CountByEntityTypeSince(ctx context.Context, since time.Time) ([]domain.EntityTypeCount, error)
	TopActorsSince(ctx context.Context, since time.Time, limit int) ([]domain.ActorCount, error)
	HourlyHistogram(ctx context.Context, since time.Time) ([]domain.HourlyCount, error)
}

type auditLogRepository struct {
	db *sqlx.DB
}

func NewAuditLogRepository(db *sqlx.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, user_role, user_name, action, entity_type, entity_id,
			description, changes, ip_address, user_agent, facility_id, success, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		log.ID, log.UserID, log.UserRole, log.UserName, log.Action, log.EntityType, log.EntityID,
		log.Description, log.Changes, log.IPAddress, log.UserAgent, log.FacilityID, log.Success, log.ErrorMessage,
	).Scan(&log.CreatedAt)
}

func buildFilterClause(filter domain.AuditLogFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.UserID != nil {
		add("user_id = $%d", *filter.UserID)
	}
	if filter.EntityType != "" {
		add("entity_type = $%d", filter.EntityType)
	}
	if filter.EntityID != "" {
		add("entity_id = $%d", filter.EntityID)
	}
	if filter.Action != "" {
		add("action = $%d", filter.Action)
	}
	if filter.FacilityID != "" {
		add("facility_id = $%d", filter.FacilityID)
	}
	if filter.StartDate != nil {
		add("created_at >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("created_at <= $%d", *filter.EndDate)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *auditLogRepository) List(ctx context.Context, filter domain.AuditLogFilter, params domain.PaginationParams) ([]domain.AuditLog, int64, error) {
	params.Validate()

	where, args := buildFilterClause(filter)

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM audit_logs"+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT * FROM audit_logs%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, params.Offset())

	var logs []domain.AuditLog
	err := r.db.SelectContext(ctx, &logs, query, args...)
	return logs, total, err
}

func (r *auditLogRepository) Search(ctx context.Context, query string, params domain.PaginationParams) ([]domain.AuditLog, int64, error) {
	params.Validate()
	pattern := "%" + query + "%"

	const where = ` WHERE description ILIKE $1 OR user_name ILIKE $1 OR entity_type ILIKE $1 OR user_role ILIKE $1`

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM audit_logs"+where, pattern); err != nil {
		return nil, 0, err
	}

	var logs []domain.AuditLog
	err := r.db.SelectContext(ctx, &logs, `
		SELECT * FROM audit_logs`+where+`
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, pattern, params.PageSize, params.Offset())
	return logs, total, err
}

func (r *auditLogRepository) ListForExport(ctx context.Context, filter domain.AuditLogFilter, limit int) ([]domain.AuditLog, error) {
	where, args := buildFilterClause(filter)

	query := fmt.Sprintf(`
		SELECT * FROM audit_logs%s
		ORDER BY created_at DESC
		LIMIT $%d`, where, len(args)+1)
	args = append(args, limit)

	var logs []domain.AuditLog
	err := r.db.SelectContext(ctx, &logs, query, args...)
	return logs, err
}

func (r *auditLogRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM audit_logs WHERE created_at >= $1`, since)
	return count, err
}

func (r *auditLogRepository) CountSuccessSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM audit_logs WHERE created_at >= $1 AND success = true`, since)
	return count, err
}

func (r *auditLogRepository) CountByActionSince(ctx context.Context, since time.Time) ([]domain.ActionCount, error) {
	var counts []domain.ActionCount
	err := r.db.SelectContext(ctx, &counts, `
		SELECT action, COUNT(*) AS count FROM audit_logs
		WHERE created_at >= $1
		GROUP BY action
		ORDER BY count DESC`, since)
	return counts, err
}

func (r *auditLogRepository) CountByEntityTypeSince(ctx context.Context, since time.Time) ([]domain.EntityTypeCount, error) {
	var counts []domain.EntityTypeCount
	err := r.db.SelectContext(ctx, &counts, `
		SELECT entity_type, COUNT(*) AS count FROM audit_logs
		WHERE created_at >= $1
		GROUP BY entity_type
		ORDER BY count DESC`, since)
	return counts, err
}

func (r *auditLogRepository) TopActorsSince(ctx context.Context, since time.Time, limit int) ([]domain.ActorCount, error) {
	var counts []domain.ActorCount
	err := r.db.SelectContext(ctx, &counts, `
		SELECT user_id, MAX(user_name) AS user_name, COUNT(*) AS count FROM audit_logs
		WHERE created_at >= $1
		GROUP BY user_id
		ORDER BY count DESC
		LIMIT $2`, since, limit)
	return counts, err
}

func (r *auditLogRepository) HourlyHistogram(ctx context.Context, since time.Time) ([]domain.HourlyCount, error) {
	var counts []domain.HourlyCount
	err := r.db.SelectContext(ctx, &counts, `
		SELECT date_trunc('hour', created_at) AS hour, COUNT(*) AS count FROM audit_logs
		WHERE created_at >= $1
		GROUP BY hour
		ORDER BY hour`, since)
	return counts, err
}
