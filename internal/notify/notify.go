// Package notify delivers user-facing operation outcomes. Services report
// every mutation result through a Notifier so callers see a consistent
// success or failure message regardless of which resource was touched.
package notify

import (
	"context"
	"sync"

	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/logger"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a single user-visible message.
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives operation outcomes as they happen.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, err error)
	Info(ctx context.Context, message string)
}

// LogNotifier writes notifications through the shared logger. Failures are
// translated to their user-facing message before emission.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (n *LogNotifier) Success(ctx context.Context, message string) {
	if n.logger != nil {
		ctx = n.logger.WithField(ctx, "notification", string(LevelSuccess))
		n.logger.Info(ctx, message)
	}
}

func (n *LogNotifier) Error(ctx context.Context, err error) {
	if n.logger == nil || err == nil {
		return
	}
	typed := pkgerrors.Normalize(err)
	ctx = n.logger.WithFields(ctx, map[string]any{
		"notification": string(LevelError),
		"code":         string(typed.Code()),
	})
	n.logger.Warn(ctx, pkgerrors.UserMessage(typed))
}

func (n *LogNotifier) Info(ctx context.Context, message string) {
	if n.logger != nil {
		ctx = n.logger.WithField(ctx, "notification", string(LevelInfo))
		n.logger.Info(ctx, message)
	}
}

// Recorder captures notifications for inspection in tests.
type Recorder struct {
	mu      sync.Mutex
	entries []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Success(_ context.Context, message string) {
	r.append(Notification{Level: LevelSuccess, Message: message})
}

func (r *Recorder) Error(_ context.Context, err error) {
	if err == nil {
		return
	}
	r.append(Notification{Level: LevelError, Message: pkgerrors.UserMessage(err)})
}

func (r *Recorder) Info(_ context.Context, message string) {
	r.append(Notification{Level: LevelInfo, Message: message})
}

func (r *Recorder) append(entry Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.entries))
	copy(out, r.entries)
	return out
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return Notification{}, false
	}
	return r.entries[len(r.entries)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}
