package audit

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"afyalink/internal/config"
	"afyalink/internal/domain"
	"afyalink/internal/repository"
)

const (
	statsCacheTTL  = 2 * time.Minute
	exportRowLimit = 10000
	topActorsLimit = 10
)

// Service is the read side of the audit trail: paginated queries,
// search, statistics aggregation, and CSV export.
type Service interface {
	List(ctx context.Context, filter domain.AuditLogFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error)
	Search(ctx context.Context, query string, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error)
	Statistics(ctx context.Context, timeframe domain.AuditTimeframe) (*domain.AuditStatistics, error)
	ExportCSV(ctx context.Context, filter domain.AuditLogFilter) ([]byte, error)
	ArchiveCSV(ctx context.Context, filter domain.AuditLogFilter, actor Actor) (string, error)
}

type service struct {
	repo        repository.AuditLogRepository
	sink        *Sink
	redis       *redis.Client
	minioClient *minio.Client
	cfg         *config.Config
}

func NewService(repo repository.AuditLogRepository, sink *Sink, redisClient *redis.Client, minioClient *minio.Client, cfg *config.Config) Service {
	return &service{
		repo:        repo,
		sink:        sink,
		redis:       redisClient,
		minioClient: minioClient,
		cfg:         cfg,
	}
}

func (s *service) List(ctx context.Context, filter domain.AuditLogFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	logs, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.AuditLog]{}, err
	}
	return domain.NewPaginatedResponse(logs, params.Page, params.PageSize, total), nil
}

func (s *service) Search(ctx context.Context, query string, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	logs, total, err := s.repo.Search(ctx, query, params)
	if err != nil {
		return domain.PaginatedResponse[domain.AuditLog]{}, err
	}
	return domain.NewPaginatedResponse(logs, params.Page, params.PageSize, total), nil
}

// Statistics aggregates the trail over a timeframe. The hourly histogram
// (24h only) is isolated: if that one query fails, the rest of the
// response still comes back with an empty series.
func (s *service) Statistics(ctx context.Context, timeframe domain.AuditTimeframe) (*domain.AuditStatistics, error) {
	cacheKey := "audit:stats:" + string(timeframe)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var stats domain.AuditStatistics
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	since := time.Now().Add(-timeframe.Duration())

	total, err := s.repo.CountSince(ctx, since)
	if err != nil {
		return nil, err
	}

	succeeded, err := s.repo.CountSuccessSince(ctx, since)
	if err != nil {
		return nil, err
	}

	byAction, err := s.repo.CountByActionSince(ctx, since)
	if err != nil {
		return nil, err
	}

	byEntity, err := s.repo.CountByEntityTypeSince(ctx, since)
	if err != nil {
		return nil, err
	}

	topActors, err := s.repo.TopActorsSince(ctx, since, topActorsLimit)
	if err != nil {
		return nil, err
	}

	successRate := float64(0)
	if total > 0 {
		successRate = float64(succeeded) / float64(total)
	}

	stats := &domain.AuditStatistics{
		Timeframe:    timeframe,
		Total:        total,
		ByAction:     byAction,
		ByEntityType: byEntity,
		TopActors:    topActors,
		SuccessRate:  successRate,
		Hourly:       []domain.HourlyCount{},
	}

	if timeframe == domain.Timeframe24h {
		hourly, err := s.repo.HourlyHistogram(ctx, since)
		if err != nil {
			log.Printf("audit: hourly histogram failed, returning empty series: %v", err)
		} else {
			stats.Hourly = hourly
		}
	}

	if s.redis != nil {
		if statsJSON, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, cacheKey, statsJSON, statsCacheTTL).Err()
		}
	}

	return stats, nil
}

func (s *service) ExportCSV(ctx context.Context, filter domain.AuditLogFilter) ([]byte, error) {
	logs, err := s.repo.ListForExport(ctx, filter, exportRowLimit)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "created_at", "user_id", "user_role", "user_name", "action",
		"entity_type", "entity_id", "description", "facility_id", "ip_address", "success", "error_message"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, l := range logs {
		row := []string{
			l.ID.String(),
			l.CreatedAt.Format(time.RFC3339),
			l.UserID.String(),
			l.UserRole,
			derefString(l.UserName),
			string(l.Action),
			l.EntityType,
			l.EntityID,
			l.Description,
			derefString(l.FacilityID),
			derefString(l.IPAddress),
			strconv.FormatBool(l.Success),
			derefString(l.ErrorMessage),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ArchiveCSV exports the filtered trail and stores the file in the object
// bucket, returning the storage path.
func (s *service) ArchiveCSV(ctx context.Context, filter domain.AuditLogFilter, actor Actor) (string, error) {
	if s.minioClient == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	data, err := s.ExportCSV(ctx, filter)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("audit-exports/%s/audit-%d.csv",
		time.Now().Format("2006/01"), time.Now().Unix())

	_, err = s.minioClient.PutObject(ctx, s.cfg.MinIOBucket, objectName,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: "text/csv",
		})
	if err != nil {
		return "", fmt.Errorf("failed to archive export: %w", err)
	}

	s.sink.ExportRequested(actor, objectName)
	return objectName, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
