package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	batchSize     = 50
	flushInterval = 5 * time.Second
)

// DBHandler is an slog.Handler that persists ERROR+ records to system_logs.
// Records are buffered and written in batches by a background loop.
type DBHandler struct {
	sink  *dbSink
	attrs []slog.Attr
}

type dbSink struct {
	db       *gorm.DB
	fallback slog.Handler
	mu     sync.Mutex
	buffer []models.SystemLog
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewDBHandler starts the flush loop. Failed writes are reported on
// fallback, which must not route back into this handler.
func NewDBHandler(db *gorm.DB, fallback slog.Handler) *DBHandler {
	if fallback == nil {
		fallback = slog.NewJSONHandler(os.Stderr, nil)
	}
	s := &dbSink{
		db:       db,
		fallback: fallback,
		buffer: make([]models.SystemLog, 0, batchSize),
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.loop()
	return &DBHandler{sink: s}
}

func (s *dbSink) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.report(s.flush())
		case <-s.done:
			s.report(s.flush())
			return
		}
	}
}

func (s *dbSink) flush() error {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return nil
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, batchSize)
	s.mu.Unlock()

	// Writing through slog here would recurse into this handler.
	if err := s.db.CreateInBatches(batch, batchSize).Error; err != nil {
		return fmt.Errorf("flush %d system logs: %w", len(batch), err)
	}
	return nil
}

func (s *dbSink) report(err error) {
	if err == nil {
		return
	}
	rec := slog.NewRecord(time.Now(), slog.LevelError, "failed to write system logs", 0)
	rec.AddAttrs(slog.String("error", err.Error()))
	_ = s.fallback.Handle(context.Background(), rec)
}

// Flush writes everything buffered so far.
func (h *DBHandler) Flush() error {
	return h.sink.flush()
}

// Stop flushes the buffer and ends the background loop. Safe to call twice.
func (h *DBHandler) Stop() {
	h.sink.once.Do(func() { close(h.sink.done) })
	h.sink.wg.Wait()
}

func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time.UTC(),
		Level:     record.Level.String(),
		Message:   record.Message,
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	extra := map[string]interface{}{}
	apply := func(a slog.Attr) bool {
		setField(&entry, extra, a)
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	h.sink.mu.Lock()
	h.sink.buffer = append(h.sink.buffer, entry)
	full := len(h.sink.buffer) >= batchSize
	h.sink.mu.Unlock()

	if full {
		go func() { h.sink.report(h.sink.flush()) }()
	}
	return nil
}

func setField(entry *models.SystemLog, extra map[string]interface{}, a slog.Attr) {
	v := a.Value.Resolve()
	switch a.Key {
	case "request_id":
		entry.RequestID = v.String()
	case "user_id":
		s := v.String()
		entry.UserID = &s
	case "method":
		entry.Method = v.String()
	case "path":
		entry.Path = v.String()
	case "error":
		entry.Error = v.String()
	case "latency_ms":
		switch v.Kind() {
		case slog.KindInt64:
			entry.LatencyMs = int(v.Int64())
		case slog.KindFloat64:
			entry.LatencyMs = int(v.Float64() + 0.5)
		case slog.KindDuration:
			entry.LatencyMs = int(v.Duration().Milliseconds())
		}
	default:
		extra[a.Key] = v.Any()
	}
}

// WithAttrs keeps the attributes so logger.With(...) fields reach the row.
func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &DBHandler{sink: h.sink, attrs: merged}
}

// WithGroup is a no-op; columns are matched on flat keys.
func (h *DBHandler) WithGroup(string) slog.Handler {
	return h
}
