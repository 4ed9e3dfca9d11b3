package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/vaguthu/election-console/internal/dto"
	"github.com/vaguthu/election-console/internal/models"
)

type dashboardVoterLister interface {
	List(ctx context.Context, filter models.VoterFilter) ([]models.Voter, error)
}

type settingsReader interface {
	Get(ctx context.Context) (*models.ElectionSettings, error)
}

const dashboardCacheKey = "dash:turnout"

// DashboardService composes the turnout dashboard. The aggregation itself is
// a pure recomputation over the full voter list on every refresh; redis only
// shortens the window between recomputations.
type DashboardService struct {
	voters   dashboardVoterLister
	settings settingsReader
	cache    *CacheService
	logger   *zap.Logger
	now      func() time.Time
	cacheTTL time.Duration
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(voters dashboardVoterLister, settings settingsReader, cache *CacheService, logger *zap.Logger, cacheTTL time.Duration) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &DashboardService{
		voters:   voters,
		settings: settings,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
		cacheTTL: cacheTTL,
	}
}

// Summary returns the dashboard payload and reports cache utilisation.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardResponse, bool, error) {
	if s.cache != nil {
		var cached dto.DashboardResponse
		hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached)
		if err == nil && hit {
			return &cached, true, nil
		}
	}

	voters, err := s.voters.List(ctx, models.VoterFilter{})
	if err != nil {
		return nil, false, wrapStore(err, "failed to load voter list")
	}

	summary := &dto.DashboardResponse{Turnout: AggregateTurnout(voters)}

	settings, err := s.settings.Get(ctx)
	switch {
	case err == nil:
		summary.Countdown = s.countdown(settings)
	case errors.Is(err, sql.ErrNoRows):
		// no election window configured yet; countdown stays absent
	default:
		s.logger.Warn("failed to load election settings", zap.Error(err))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, summary, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
		}
	}
	return summary, false, nil
}

func (s *DashboardService) countdown(settings *models.ElectionSettings) *dto.ElectionCountdown {
	now := s.now().UTC()
	remaining := settings.ElectionEnd.Sub(now).Milliseconds()
	if remaining < 0 {
		remaining = 0
	}
	return &dto.ElectionCountdown{
		StartMillis:     settings.StartMillis(),
		EndMillis:       settings.EndMillis(),
		RemainingMillis: remaining,
		Started:         !now.Before(settings.ElectionStart),
		Ended:           now.After(settings.ElectionEnd),
	}
}

// AggregateTurnout derives the turnout summary from the voter list. It never
// fails; an empty list yields zero counts and 0%.
func AggregateTurnout(voters []models.Voter) dto.TurnoutSummary {
	summary := dto.TurnoutSummary{
		Overall:  countTurnout(voters, func(models.Voter) bool { return true }),
		Sheema:   countTurnout(voters, func(v models.Voter) bool { return v.Sheema }),
		Sadiq:    countTurnout(voters, func(v models.Voter) bool { return v.Sadiq }),
		ByIsland: groupTurnout(voters, func(v models.Voter) string { return v.Island }),
		ByParty:  groupTurnout(voters, func(v models.Voter) string { return v.EffectiveParty() }),
	}
	return summary
}

func countTurnout(voters []models.Voter, include func(models.Voter) bool) dto.TurnoutCounts {
	counts := dto.TurnoutCounts{}
	for _, v := range voters {
		if !include(v) {
			continue
		}
		counts.Total++
		if v.HasVoted {
			counts.Voted++
		}
	}
	counts.Pending = counts.Total - counts.Voted
	counts.Percentage = turnoutPercentage(counts.Voted, counts.Total)
	return counts
}

// groupTurnout buckets voters by key in first-occurrence order.
func groupTurnout(voters []models.Voter, key func(models.Voter) string) []dto.GroupTurnout {
	index := make(map[string]int)
	groups := make([]dto.GroupTurnout, 0)

	for _, v := range voters {
		name := key(v)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, dto.GroupTurnout{Name: name})
		}
		groups[i].Total++
		if v.HasVoted {
			groups[i].Voted++
		}
	}

	for i := range groups {
		groups[i].Pending = groups[i].Total - groups[i].Voted
		groups[i].Percentage = turnoutPercentage(groups[i].Voted, groups[i].Total)
	}
	return groups
}

func turnoutPercentage(voted, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(voted) / float64(total) * 100))
}
