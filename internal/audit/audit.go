// Package audit persists the outcome of every security pipeline run so
// access decisions can be reconstructed after the fact. Events are
// written asynchronously; audit failures are logged and never block or
// fail the request that produced them.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"forms-service/internal/logging"
	"forms-service/internal/security"
)

// Status represents the outcome of a pipeline run.
type Status string

const (
	StatusPermitted Status = "permitted"
	StatusDenied    Status = "denied"
	StatusError     Status = "error"
)

const recordTimeout = 2 * time.Second

// Event is one recorded pipeline outcome.
type Event struct {
	ID            uuid.UUID
	CorrelationID string
	Method        string
	Pattern       string
	Path          string
	// Classification is the matched policy's route grouping label.
	Classification string
	AuthType       security.AuthType
	ActorType      security.ActorType
	ActorID        string
	ResourceKind   security.Kind
	ResourceID     string
	Status         Status
	HTTPStatus     int
	// Permissions is the granted set at the time of the decision.
	Permissions []security.Permission
	// Decisions is the enricher's full predicate trail.
	Decisions    []security.Decision
	ErrorDetail  string
	IPAddress    string
	UserAgent    string
	TotalLatency time.Duration
	CreatedAt    time.Time
}

// Recorder writes pipeline events to postgres.
type Recorder struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool, log: logging.Component("audit")}
}

// Record inserts one event synchronously.
func (r *Recorder) Record(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	permissionsJSON, err := json.Marshal(event.Permissions)
	if err != nil {
		return err
	}
	decisionsJSON, err := json.Marshal(event.Decisions)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO security_audit_events (
			id, correlation_id, method, pattern, path, classification,
			auth_type, actor_type, actor_id, resource_kind, resource_id,
			status, http_status, permissions, decisions, error_detail,
			ip_address, user_agent, total_latency_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err = r.pool.Exec(ctx, query,
		event.ID,
		event.CorrelationID,
		event.Method,
		event.Pattern,
		event.Path,
		event.Classification,
		event.AuthType,
		event.ActorType,
		event.ActorID,
		event.ResourceKind,
		event.ResourceID,
		event.Status,
		event.HTTPStatus,
		permissionsJSON,
		decisionsJSON,
		event.ErrorDetail,
		event.IPAddress,
		event.UserAgent,
		event.TotalLatency.Milliseconds(),
		event.CreatedAt,
	)

	return err
}

// RecordAsync inserts one event on a background goroutine with its own
// deadline. The caller's request never waits on the write.
func (r *Recorder) RecordAsync(event *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	go func() {
		defer cancel()
		if err := r.Record(ctx, event); err != nil {
			r.log.Error().
				Err(err).
				Str("correlation_id", event.CorrelationID).
				Msg("audit record failed")
		}
	}()
}

// QueryFilter narrows an audit query. Nil fields are ignored.
type QueryFilter struct {
	CorrelationID  *string
	ActorID        *string
	Classification *string
	Status         *Status
	StartTime      *time.Time
	EndTime        *time.Time
	Limit          int
	Offset         int
}

// Query retrieves recorded events, newest first.
func (r *Recorder) Query(ctx context.Context, filter QueryFilter) ([]*Event, error) {
	query := `
		SELECT id, correlation_id, method, pattern, path, classification,
		       auth_type, actor_type, actor_id, resource_kind, resource_id,
		       status, http_status, permissions, decisions, error_detail,
		       ip_address, user_agent, total_latency_ms, created_at
		FROM security_audit_events
		WHERE 1=1
	`
	args := []any{}
	argCount := 1

	if filter.CorrelationID != nil {
		query += fmt.Sprintf(" AND correlation_id = $%d", argCount)
		args = append(args, *filter.CorrelationID)
		argCount++
	}

	if filter.ActorID != nil {
		query += fmt.Sprintf(" AND actor_id = $%d", argCount)
		args = append(args, *filter.ActorID)
		argCount++
	}

	if filter.Classification != nil {
		query += fmt.Sprintf(" AND classification = $%d", argCount)
		args = append(args, *filter.Classification)
		argCount++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, *filter.Status)
		argCount++
	}

	if filter.StartTime != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argCount)
		args = append(args, *filter.StartTime)
		argCount++
	}

	if filter.EndTime != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argCount)
		args = append(args, *filter.EndTime)
		argCount++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
		argCount++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		var (
			e               Event
			permissionsJSON []byte
			decisionsJSON   []byte
			latencyMs       int64
		)
		err := rows.Scan(
			&e.ID, &e.CorrelationID, &e.Method, &e.Pattern, &e.Path, &e.Classification,
			&e.AuthType, &e.ActorType, &e.ActorID, &e.ResourceKind, &e.ResourceID,
			&e.Status, &e.HTTPStatus, &permissionsJSON, &decisionsJSON, &e.ErrorDetail,
			&e.IPAddress, &e.UserAgent, &latencyMs, &e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if len(permissionsJSON) > 0 {
			if err := json.Unmarshal(permissionsJSON, &e.Permissions); err != nil {
				return nil, err
			}
		}
		if len(decisionsJSON) > 0 {
			if err := json.Unmarshal(decisionsJSON, &e.Decisions); err != nil {
				return nil, err
			}
		}
		e.TotalLatency = time.Duration(latencyMs) * time.Millisecond
		events = append(events, &e)
	}

	return events, rows.Err()
}
