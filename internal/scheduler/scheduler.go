// Package scheduler runs the recurring deadline scan that feeds the
// notification engine. Each tick is stateless; the notification store's
// dedup constraint makes repeated or adjacent ticks idempotent.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nhle/teamspace/internal/store"
)

// deadlineWindow is how far ahead of now a deadline counts as "due soon".
const deadlineWindow = 24 * time.Hour

// messageTimeLayout renders deadlines inside notification messages.
const messageTimeLayout = "Jan 02, 2006 at 03:04 PM"

// TaskSource supplies the tasks nearing their deadline.
type TaskSource interface {
	ListDueTasks(ctx context.Context, from, to time.Time) ([]store.DueTask, error)
}

// Notifier creates at most one notification per (user, task) pair.
type Notifier interface {
	NotifyIfNeeded(ctx context.Context, userID, taskID, message string) (bool, error)
}

// Scanner periodically scans for tasks nearing deadline and notifies
// their creator and assignees.
type Scanner struct {
	tasks    TaskSource
	notifier Notifier
	loc      *time.Location
	interval time.Duration
	log      *logrus.Logger

	// mu guards against overlapping ticks when a scan outlasts the
	// trigger interval.
	mu sync.Mutex
}

// New creates a Scanner. loc is the timezone used to render deadlines
// in messages; nil means UTC.
func New(tasks TaskSource, notifier Notifier, loc *time.Location, interval time.Duration, log *logrus.Logger) *Scanner {
	if loc == nil {
		loc = time.UTC
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scanner{
		tasks:    tasks,
		notifier: notifier,
		loc:      loc,
		interval: interval,
		log:      log,
	}
}

// Run executes the scan on the configured interval until ctx is
// cancelled. The first scan happens immediately.
func (s *Scanner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick performs one deadline scan. A tick that would overlap a still
// running one is skipped; the dedup constraint already makes that safe,
// the skip just keeps slow scans from stacking up. Failures are
// isolated per task: an error while processing one task is logged and
// the scan continues with the rest. Returns the number of
// notifications created.
func (s *Scanner) Tick(ctx context.Context) int {
	if !s.mu.TryLock() {
		s.log.Warn("deadline scan still running, skipping tick")
		return 0
	}
	defer s.mu.Unlock()

	now := time.Now().UTC()
	due, err := s.tasks.ListDueTasks(ctx, now, now.Add(deadlineWindow))
	if err != nil {
		s.log.Errorf("listing due tasks: %v", err)
		return 0
	}

	created := 0
	for _, dt := range due {
		n, err := s.notifyTask(ctx, dt)
		created += n
		if err != nil {
			s.log.Errorf("processing task %s: %v", dt.Task.ID, err)
		}
	}

	if created > 0 {
		s.log.Infof("deadline scan created %d notifications across %d due tasks", created, len(due))
	}
	return created
}

// notifyTask notifies the creator and assignees of one due task.
// Returns the number of notifications created along with the last
// per-recipient error; one recipient failing never blocks the others.
func (s *Scanner) notifyTask(ctx context.Context, dt store.DueTask) (int, error) {
	t := dt.Task

	// The schema forbids tasks without a workspace, but a scan must
	// never trust that a joined row was found.
	if !dt.WorkspaceOK {
		s.log.Warnf("task %s has no workspace assigned, skipping", t.ID)
		return 0, nil
	}

	message := s.renderMessage(dt)

	created := 0
	var lastErr error

	if t.CreatorID != nil {
		ok, err := s.notifier.NotifyIfNeeded(ctx, *t.CreatorID, t.ID, message)
		if err != nil {
			lastErr = err
			s.log.Errorf("notifying creator %s of task %s: %v", *t.CreatorID, t.ID, err)
		} else if ok {
			created++
		}
	}

	for _, assignee := range t.Assignees {
		// Skip the creator only when there is one to skip.
		if t.CreatorID != nil && assignee == *t.CreatorID {
			continue
		}
		ok, err := s.notifier.NotifyIfNeeded(ctx, assignee, t.ID, message)
		if err != nil {
			lastErr = err
			s.log.Errorf("notifying assignee %s of task %s: %v", assignee, t.ID, err)
			continue
		}
		if ok {
			created++
		}
	}

	return created, lastErr
}

// renderMessage builds the human-readable notification text with the
// deadline expressed in the configured timezone.
func (s *Scanner) renderMessage(dt store.DueTask) string {
	deadline := dt.Task.Deadline.In(s.loc).Format(messageTimeLayout)
	return "Task '" + dt.Task.Title + "' is due soon on " + deadline +
		" (Workspace: " + dt.WorkspaceName + ")"
}
