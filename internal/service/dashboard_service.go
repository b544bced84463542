package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/h00x7r/Media-Flow/internal/activity"
	"github.com/h00x7r/Media-Flow/internal/domain"
)

// recentActivityLimit is the number of feed entries shown on the dashboard.
const recentActivityLimit = 10

type Dashboard struct {
	ActiveProjects  int              `json:"activeProjects"`
	MoodBoards      int              `json:"moodBoards"`
	ProofsAwaiting  int              `json:"proofsAwaiting"`
	StylesGenerated int64            `json:"stylesGenerated"`
	RecentActivity  []activity.Entry `json:"recentActivity"`
}

type DashboardService struct {
	projects projectRepository
	proofs   proofRepository
	boards   moodBoardRepository
	feed     activity.Feed
	logger   *slog.Logger
}

func NewDashboardService(
	projects projectRepository,
	proofs proofRepository,
	boards moodBoardRepository,
	feed activity.Feed,
	logger *slog.Logger,
) *DashboardService {
	return &DashboardService{
		projects: projects,
		proofs:   proofs,
		boards:   boards,
		feed:     feed,
		logger:   logger,
	}
}

// Summary gathers the quick stats and recent activity. An unavailable feed
// degrades to zero styles and no activity instead of failing.
func (s *DashboardService) Summary(ctx context.Context) (*Dashboard, error) {
	active, err := s.projects.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active projects: %w", err)
	}
	boards, err := s.boards.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count mood boards: %w", err)
	}
	awaiting, err := s.proofs.CountByStatus(ctx, domain.ProofPendingReview)
	if err != nil {
		return nil, fmt.Errorf("failed to count proofs: %w", err)
	}

	d := &Dashboard{
		ActiveProjects: active,
		MoodBoards:     boards,
		ProofsAwaiting: awaiting,
		RecentActivity: []activity.Entry{},
	}
	if s.feed == nil {
		return d, nil
	}

	if n, err := s.feed.Count(ctx, activity.KindStyleGuide); err != nil {
		s.logger.Warn("failed to read style guide count", "error", err)
	} else {
		d.StylesGenerated = n
	}
	if recent, err := s.feed.Recent(ctx, recentActivityLimit); err != nil {
		s.logger.Warn("failed to read recent activity", "error", err)
	} else {
		d.RecentActivity = recent
	}
	return d, nil
}
