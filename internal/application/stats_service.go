package application

import (
	"context"
	"log/slog"
	"time"
)

// StatsSource exposes the aggregate counters backing the dashboard.
type StatsSource interface {
	CountRooms(ctx context.Context) (int, error)
	CountAvailableRooms(ctx context.Context, ref time.Time) (int, error)
	CountReservationsForDate(ctx context.Context, date time.Time) (int, error)
}

// StatsService computes the dashboard summary figures.
type StatsService struct {
	source StatsSource
	now    func() time.Time
	logger *slog.Logger
}

// NewStatsService wires dependencies for dashboard statistics.
func NewStatsService(source StatsSource, now func() time.Time, logger *slog.Logger) *StatsService {
	if now == nil {
		now = time.Now
	}
	return &StatsService{
		source: source,
		now:    now,
		logger: defaultLogger(logger),
	}
}

// Summary reports total rooms, rooms currently free, and the number of
// reservations starting today (UTC day boundaries).
func (s *StatsService) Summary(ctx context.Context, principal Principal) (Stats, error) {
	now := s.now().UTC()

	total, err := s.source.CountRooms(ctx)
	if err != nil {
		return Stats{}, mapRepoError(err)
	}
	available, err := s.source.CountAvailableRooms(ctx, now)
	if err != nil {
		return Stats{}, mapRepoError(err)
	}

	todays, err := s.source.CountReservationsForDate(ctx, now)
	if err != nil {
		return Stats{}, mapRepoError(err)
	}

	return Stats{
		TotalRooms:     total,
		AvailableRooms: available,
		TodaysBookings: todays,
	}, nil
}
