package health

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/server/respond"
	"jobboard-backend/internal/shared/telemetry"
)

const pingTimeout = 2 * time.Second

// Pinger checks database connectivity. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// JobCounter counts stored jobs.
type JobCounter interface {
	Count(ctx context.Context) (int, error)
}

// Service encapsulates health-related checks.
type Service struct {
	DB   Pinger
	Jobs JobCounter
	now  func() time.Time
}

// NewService constructs a new health service. db may be nil when the
// in-memory repositories are in use.
func NewService(db Pinger, jobs JobCounter) *Service {
	return &Service{DB: db, Jobs: jobs, now: time.Now}
}

// Report is the /health payload.
type Report struct {
	Status         string    `json:"status"`
	Message        string    `json:"message"`
	Database       string    `json:"database"`
	JobsInDatabase int       `json:"jobsInDatabase"`
	Timestamp      time.Time `json:"timestamp"`
}

// Status returns the current health payload. It never fails; problems are
// reported in the payload.
func (s *Service) Status(ctx context.Context) Report {
	r := Report{
		Status:    "OK",
		Message:   "Job Board API is running",
		Database:  "in-memory",
		Timestamp: s.now().UTC(),
	}
	if s.DB != nil {
		r.Database = "disconnected"
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := s.DB.PingContext(pingCtx)
		cancel()
		if err != nil {
			telemetry.Warn("health.db_ping_failed", map[string]any{"error": err.Error()})
		} else {
			r.Database = "connected"
		}
	}
	if s.Jobs != nil {
		n, err := s.Jobs.Count(ctx)
		if err != nil {
			telemetry.Warn("health.job_count_failed", map[string]any{"error": err.Error()})
		}
		r.JobsInDatabase = n
	}
	return r
}

// Handler serves the health report.
func (s *Service) Handler(c *gin.Context) {
	respond.OK(c, s.Status(c.Request.Context()))
}
