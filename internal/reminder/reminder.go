// Package reminder records "due soon" activity for projects whose due date
// is approaching.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/h00x7r/Media-Flow/internal/activity"
	"github.com/h00x7r/Media-Flow/internal/domain"
)

type projectLister interface {
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Project, error)
}

type Scheduler struct {
	schedule string
	window   time.Duration
	projects projectLister
	feed     activity.Feed
	logger   *slog.Logger
	now      func() time.Time

	cron *cron.Cron
}

func NewScheduler(schedule string, window time.Duration, projects projectLister, feed activity.Feed, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		schedule: schedule,
		window:   window,
		projects: projects,
		feed:     feed,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the sweep on the cron schedule. An empty schedule disables
// reminders.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		s.logger.Info("reminders disabled")
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() {
		if _, err := s.Sweep(context.Background()); err != nil {
			s.logger.Error("reminder sweep failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule reminders %q: %w", s.schedule, err)
	}

	s.cron = c
	c.Start()
	s.logger.Info("reminder scheduler started", "schedule", s.schedule, "window", s.window)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// Sweep records one reminder for every project due within the window that is
// not Completed. It returns the number of reminders recorded.
func (s *Scheduler) Sweep(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.projects.ListDueBetween(ctx, now, now.Add(s.window))
	if err != nil {
		return 0, fmt.Errorf("failed to list due projects: %w", err)
	}

	recorded := 0
	for _, p := range due {
		entry := activity.Entry{
			Kind:        activity.KindReminder,
			Description: fmt.Sprintf("Project %q for %s is due %s", p.Name, p.ClientName, p.DueDate.Format(time.DateOnly)),
			At:          now,
		}
		if err := s.feed.Record(ctx, entry); err != nil {
			s.logger.Warn("failed to record reminder", "project_id", p.ID, "error", err)
			continue
		}
		recorded++
	}

	s.logger.Info("reminder sweep complete", "due", len(due), "recorded", recorded)
	return recorded, nil
}
