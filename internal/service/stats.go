package service

import (
	"github.com/kovazenko1977/sanatory/internal/models"
)

// StatsAggregator derives read-only rollups by scanning bookings and rooms.
// It has no invariants of its own; it only consumes the read APIs.
type StatsAggregator struct {
	col   *Collections
	rooms *RoomManager
}

func NewStatsAggregator(col *Collections, rooms *RoomManager) *StatsAggregator {
	return &StatsAggregator{col: col, rooms: rooms}
}

// Summary is the combined dashboard rollup.
type Summary struct {
	Rooms            RoomStatistics               `json:"rooms"`
	BookingsByStatus map[models.BookingStatus]int `json:"bookings_by_status"`
	RevenueByMonth   map[string]float64           `json:"revenue_by_month"`
}

// Summary scans the current state and derives all rollups in one pass over
// the bookings collection.
func (a *StatsAggregator) Summary() (Summary, error) {
	roomStats, err := a.rooms.Statistics()
	if err != nil {
		return Summary{}, err
	}

	bookings, err := a.col.Bookings.All()
	if err != nil {
		return Summary{}, err
	}

	byStatus := make(map[models.BookingStatus]int)
	revenue := make(map[string]float64)
	for _, b := range bookings {
		byStatus[b.Status]++
		if b.Status == models.StatusCancelled {
			continue
		}
		if len(b.CheckIn) >= 7 {
			revenue[b.CheckIn[:7]] += b.PaidAmount
		}
	}

	return Summary{
		Rooms:            roomStats,
		BookingsByStatus: byStatus,
		RevenueByMonth:   revenue,
	}, nil
}

// RevenueByMonth sums recorded payments of non-cancelled bookings, keyed by
// check-in month (YYYY-MM).
func (a *StatsAggregator) RevenueByMonth() (map[string]float64, error) {
	summary, err := a.Summary()
	if err != nil {
		return nil, err
	}
	return summary.RevenueByMonth, nil
}
