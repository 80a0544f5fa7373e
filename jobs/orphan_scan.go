package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/safetyid/safetyid-console/internal/jobs"
	"github.com/safetyid/safetyid-console/internal/users"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// OrphanScanJob finds users created without any relationship rows. These are
// leftovers of the partial-failure window in the two-step user creation: the
// users row committed but every relationship write failed.
type OrphanScanJob struct {
	Repo    users.RepositoryPort
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewOrphanScanJob initialises the orphan scan handler.
func NewOrphanScanJob(repo users.RepositoryPort, logger *slog.Logger, metrics *jobmetrics.Metrics) *OrphanScanJob {
	return &OrphanScanJob{Repo: repo, Logger: logger, Metrics: metrics}
}

// Handle executes the orphan scan.
func (j *OrphanScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Repo == nil {
		return errors.New("orphan scan: handler not configured")
	}
	var payload OrphanScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.OlderThanMinutes <= 0 {
		payload.OlderThanMinutes = 60
	}

	tracker := j.metrics().Track(TaskTypeOrphanScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("older_than_minutes", payload.OlderThanMinutes))
	logger.Info("starting orphan scan")

	orphans, err := j.Repo.ListOrphanUsers(ctx, time.Duration(payload.OlderThanMinutes)*time.Minute)
	if err != nil {
		resultErr = err
		logger.Error("scan failed", slog.Any("error", err))
		return resultErr
	}

	for _, u := range orphans {
		logger.Warn("user without relationships",
			slog.String("user_id", u.ID),
			slog.String("email", u.Email),
			slog.String("role", string(u.Role)),
			slog.Time("created_at", u.CreatedAt),
		)
	}
	j.metrics().SetOrphanUsers(len(orphans))

	logger.Info("completed orphan scan", slog.Int("orphans", len(orphans)))
	return resultErr
}

func (j *OrphanScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeOrphanScan))
	}
	return slog.Default().With(slog.String("job", TaskTypeOrphanScan))
}

func (j *OrphanScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
