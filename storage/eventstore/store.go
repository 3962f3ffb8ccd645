package eventstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"launchpad/core/events"
	"launchpad/core/types"
	"launchpad/observability"
)

const (
	defaultQueryLimit = 100
	maxQueryLimit     = 1000
)

// ErrIdempotencyNotFound is returned when no response was stored for a key.
var ErrIdempotencyNotFound = errors.New("eventstore: idempotency key not found")

// Store journals engine events into a SQL database and serves them back per
// campaign. It implements events.Emitter.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
	nowFn  func() time.Time
}

// Open connects to the SQLite database at dsn and migrates the schema.
func Open(dsn string) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("eventstore: dsn must not be empty")
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("eventstore: open: %w", err)
	}
	return New(db)
}

// New wraps an existing connection and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("eventstore: nil database")
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("eventstore: migrate: %w", err)
	}
	return &Store{db: db, logger: slog.Default(), nowFn: time.Now}, nil
}

// SetLogger overrides the logger used to report journal failures.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetNowFunc overrides the clock stamping records.
func (s *Store) SetNowFunc(now func() time.Time) {
	if now != nil {
		s.nowFn = now
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Emit implements events.Emitter. Failures are logged and counted because
// the engine has already committed the transition.
func (s *Store) Emit(evt events.Event) {
	if evt == nil {
		return
	}
	if _, err := s.Append(context.Background(), evt); err != nil {
		observability.Events().RecordFailure(evt.EventType())
		s.logger.Error("event journal write failed",
			"type", evt.EventType(),
			"error", err)
		return
	}
	observability.Events().RecordJournaled(evt.EventType())
}

// Append stores evt and returns the assigned record.
func (s *Store) Append(ctx context.Context, evt events.Event) (*Record, error) {
	payload := evt.Event()
	if payload == nil {
		return nil, fmt.Errorf("eventstore: event %s has no payload", evt.EventType())
	}
	attrs, err := json.Marshal(payload.Attributes)
	if err != nil {
		return nil, fmt.Errorf("eventstore: encode attributes: %w", err)
	}
	record := &Record{
		Type:       payload.Type,
		Campaign:   payload.Attr("campaign"),
		Attributes: string(attrs),
		CreatedAt:  s.nowFn().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("eventstore: insert: %w", err)
	}
	return record, nil
}

// Filter narrows a journal query. Zero values match everything.
type Filter struct {
	Campaign string
	Type     string
	AfterID  uint64
	Limit    int
}

// Query returns matching records in journal order.
func (s *Store) Query(ctx context.Context, filter Filter) ([]Record, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}
	query := s.db.WithContext(ctx).Model(&Record{}).Where("id > ?", filter.AfterID)
	if campaign := strings.TrimSpace(filter.Campaign); campaign != "" {
		query = query.Where("campaign = ?", strings.TrimPrefix(strings.ToLower(campaign), "0x"))
	}
	if eventType := strings.TrimSpace(filter.Type); eventType != "" {
		query = query.Where("type = ?", eventType)
	}
	var records []Record
	if err := query.Order("id asc").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("eventstore: query: %w", err)
	}
	return records, nil
}

// Event decodes the record back into the generic event payload.
func (r Record) Event() (*types.Event, error) {
	attrs := make(map[string]string)
	if r.Attributes != "" {
		if err := json.Unmarshal([]byte(r.Attributes), &attrs); err != nil {
			return nil, fmt.Errorf("eventstore: decode attributes: %w", err)
		}
	}
	return &types.Event{Type: r.Type, Attributes: attrs}, nil
}

// LookupIdempotency returns the response stored for key by caller.
func (s *Store) LookupIdempotency(ctx context.Context, caller, key string) (*IdempotencyKey, error) {
	var record IdempotencyKey
	err := s.db.WithContext(ctx).First(&record, "key = ? AND caller = ?", key, caller).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrIdempotencyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("eventstore: idempotency lookup: %w", err)
	}
	return &record, nil
}

// SaveIdempotency stores the response of a completed call. A (caller, key)
// pair that was already stored keeps its first response.
func (s *Store) SaveIdempotency(ctx context.Context, record IdempotencyKey) error {
	if strings.TrimSpace(record.Key) == "" {
		return fmt.Errorf("eventstore: idempotency key must not be empty")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.nowFn().UTC()
	}
	err := s.db.WithContext(ctx).Where("caller = ? AND key = ?", record.Caller, record.Key).FirstOrCreate(&record).Error
	if err != nil {
		return fmt.Errorf("eventstore: idempotency save: %w", err)
	}
	return nil
}
