// Package persist maps the task, recommendation and session collections
// onto a flat key-value store.
package persist

import (
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/focus-pilot/internal/domain"
)

const logCategory = "persist"

// Adapter loads and saves whole collections.
type Adapter struct {
	kv     domain.KVStore
	codec  Codec
	logger domain.Logger
}

// New creates an Adapter. A nil codec means JSON; a nil logger discards.
func New(kv domain.KVStore, codec Codec, logger domain.Logger) *Adapter {
	if codec == nil {
		codec = JSONCodec{}
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Adapter{kv: kv, codec: codec, logger: logger}
}

// Codec returns the adapter's codec.
func (a *Adapter) Codec() Codec {
	return a.codec
}

// LoadTasks returns the stored tasks, or an empty list when nothing
// usable is stored.
func (a *Adapter) LoadTasks() []domain.Task {
	var tasks []domain.Task
	a.load(domain.KeyTasks, &tasks)
	if tasks == nil {
		return []domain.Task{}
	}
	return tasks
}

// LoadRecommendations returns only the recommendations created on now's day.
func (a *Adapter) LoadRecommendations(now time.Time) []domain.Recommendation {
	var recs []domain.Recommendation
	a.load(domain.KeyRecommendations, &recs)
	return domain.FilterForDay(recs, now)
}

// LoadSessions returns the stored session log.
func (a *Adapter) LoadSessions() []domain.FocusSession {
	var sessions []domain.FocusSession
	a.load(domain.KeySessions, &sessions)
	if sessions == nil {
		return []domain.FocusSession{}
	}
	return sessions
}

// SaveTasks writes the whole task list.
func (a *Adapter) SaveTasks(tasks []domain.Task) error {
	return a.save(domain.KeyTasks, nonNil(tasks))
}

// SaveRecommendations writes the whole recommendation list.
func (a *Adapter) SaveRecommendations(recs []domain.Recommendation) error {
	return a.save(domain.KeyRecommendations, nonNil(recs))
}

// SaveSessions writes the whole session log.
func (a *Adapter) SaveSessions(sessions []domain.FocusSession) error {
	return a.save(domain.KeySessions, nonNil(sessions))
}

// LastStandup returns when the daily standup was last accepted.
func (a *Adapter) LastStandup() (time.Time, bool) {
	data, err := a.kv.Get(domain.KeyStandup)
	if err != nil {
		a.logger.Warn(logCategory, fmt.Sprintf("read %s: %v", domain.KeyStandup, err))
		return time.Time{}, false
	}
	if len(data) == 0 {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		a.logger.Warn(logCategory, fmt.Sprintf("decode %s: %v", domain.KeyStandup, err))
		return time.Time{}, false
	}
	return t, true
}

// MarkStandup records now as the last standup time.
func (a *Adapter) MarkStandup(now time.Time) error {
	if err := a.kv.Put(domain.KeyStandup, []byte(now.Format(time.RFC3339))); err != nil {
		return fmt.Errorf("write %s: %w", domain.KeyStandup, err)
	}
	return nil
}

// load decodes key into v. Missing keys leave v untouched; read and decode
// failures are logged and leave v empty.
func (a *Adapter) load(key string, v any) {
	data, err := a.kv.Get(key)
	if err != nil {
		a.logger.Warn(logCategory, fmt.Sprintf("read %s: %v", key, err))
		return
	}
	if len(data) == 0 {
		return
	}
	if err := a.codec.Unmarshal(data, v); err != nil {
		a.logger.Warn(logCategory, fmt.Sprintf("decode %s with %s: %v", key, a.codec.Name(), err))
		resetEmpty(v)
	}
}

func (a *Adapter) save(key string, v any) error {
	data, err := a.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := a.kv.Put(key, data); err != nil {
		a.logger.Error(logCategory, fmt.Sprintf("write %s: %v", key, err))
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// resetEmpty discards whatever a failed decode left behind.
func resetEmpty(v any) {
	switch p := v.(type) {
	case *[]domain.Task:
		*p = nil
	case *[]domain.Recommendation:
		*p = nil
	case *[]domain.FocusSession:
		*p = nil
	}
}

// nonNil makes empty collections encode as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
