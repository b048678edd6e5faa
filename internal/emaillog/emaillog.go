// Package emaillog keeps the most recent email delivery events for the
// administrators' diagnostic page.
package emaillog

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const DefaultCapacity = 100

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Entry is one delivery event.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// Log is a bounded, newest-first list of entries. Add never fails the
// caller: a backend error only drops the entry.
type Log interface {
	Add(ctx context.Context, e Entry)
	List(ctx context.Context) ([]Entry, error)
	Clear(ctx context.Context) error
}

// Recorder writes entries to a Log and mirrors them to the application log.
type Recorder struct {
	log    Log
	logger *zap.Logger
	now    func() time.Time
}

func NewRecorder(log Log, logger *zap.Logger) *Recorder {
	return &Recorder{log: log, logger: logger.Named("email"), now: time.Now}
}

func (r *Recorder) Info(ctx context.Context, msg string, data map[string]any) {
	r.logger.Info(msg, zap.Any("data", data))
	r.log.Add(ctx, Entry{Timestamp: r.now(), Level: LevelInfo, Message: msg, Data: data})
}

func (r *Recorder) Error(ctx context.Context, msg string, data map[string]any) {
	r.logger.Error(msg, zap.Any("data", data))
	r.log.Add(ctx, Entry{Timestamp: r.now(), Level: LevelError, Message: msg, Data: data})
}

func (r *Recorder) List(ctx context.Context) ([]Entry, error) {
	return r.log.List(ctx)
}

func (r *Recorder) Clear(ctx context.Context) error {
	return r.log.Clear(ctx)
}
