package application

import (
	"context"
	"testing"
	"time"

	"github.com/example/roombooking/internal/booking"
)

type statsSourceStub struct {
	total     int
	available int
	todays    int
	lastDate  time.Time
}

func (s *statsSourceStub) CountRooms(ctx context.Context) (int, error) {
	return s.total, nil
}

func (s *statsSourceStub) CountAvailableRooms(ctx context.Context, ref time.Time) (int, error) {
	return s.available, nil
}

func (s *statsSourceStub) CountReservationsForDate(ctx context.Context, date time.Time) (int, error) {
	s.lastDate = date
	return s.todays, nil
}

func TestStatsSummary(t *testing.T) {
	source := &statsSourceStub{total: 12, available: 7, todays: 4}
	svc := NewStatsService(source, fixedNow, nil)

	stats, err := svc.Summary(context.Background(), Principal{UserID: "user-1", Role: booking.RoleNormalEmployee})
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if stats.TotalRooms != 12 || stats.AvailableRooms != 7 || stats.TodaysBookings != 4 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if !source.lastDate.Equal(fixedNow()) {
		t.Fatalf("expected today's date passed through, got %v", source.lastDate)
	}
}
