package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/velotaller/repair-service/internal/domain"
)

// Series is the chart-ready label/value shape handed to report renderers.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// AggregateStatistics summarizes the current ticket snapshot. Every field is
// recomputed wholesale by Compute; nothing is maintained incrementally.
type AggregateStatistics struct {
	Total                    int     `json:"total"`
	Pending                  int     `json:"pending"`
	CompletedToday           int     `json:"completedToday"`
	AverageCompletionMinutes float64 `json:"averageCompletionMinutes"`
	AverageCompletion        string  `json:"averageCompletion"`
	Daily                    Series  `json:"daily"`
	ServiceTypes             Series  `json:"serviceTypes"`
	Statuses                 Series  `json:"statuses"`
	TopBikes                 Series  `json:"topBikes"`
	BikeTypes                Series  `json:"bikeTypes"`
}

// topBikesLimit caps the brand+model histogram.
const topBikesLimit = 10

// Compute derives all aggregates from the ticket set. Pure: the same input
// and clock always yield the same output, and empty input yields zero-valued
// aggregates without error.
func Compute(tickets []domain.Ticket, now time.Time) AggregateStatistics {
	agg := AggregateStatistics{Total: len(tickets)}

	today := now.Format(domain.DateLayout)
	var totalMinutes float64
	var measured int
	for i := range tickets {
		t := &tickets[i]
		switch t.OrderManagement.Status {
		case domain.StatusPending:
			agg.Pending++
		case domain.StatusCompleted:
			if t.Scheduling.DeliveryDate == today {
				agg.CompletedToday++
			}
			received, okR := t.ReceivedAt()
			delivered, okD := t.DeliveredAt()
			if okR && okD {
				totalMinutes += delivered.Sub(received).Minutes()
				measured++
			}
		}
	}
	if measured > 0 {
		agg.AverageCompletionMinutes = totalMinutes / float64(measured)
	}
	agg.AverageCompletion = formatMinutes(agg.AverageCompletionMinutes)

	agg.Daily = dailyCompleted(tickets, now)
	agg.ServiceTypes = groupCount(tickets, func(t *domain.Ticket) string {
		return string(t.RepairDetails.ServiceType)
	})
	agg.Statuses = groupCount(tickets, func(t *domain.Ticket) string {
		return string(t.OrderManagement.Status)
	})
	agg.TopBikes = topN(groupCount(tickets, func(t *domain.Ticket) string {
		return t.Bike.Brand + " " + t.Bike.Model
	}), topBikesLimit)
	agg.BikeTypes = groupCount(tickets, func(t *domain.Ticket) string {
		return string(t.Bike.Type)
	})

	return agg
}

// formatMinutes renders an average as "Xh Ym".
func formatMinutes(avg float64) string {
	hours := int(math.Floor(avg / 60))
	minutes := int(math.Round(math.Mod(avg, 60)))
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// dailyCompleted counts completed deliveries for each of the last seven days
// including today, oldest first and zero-filled. Labels are the MM-DD tail
// of the ISO date. Dates compare as strings, exactly as they are stored.
func dailyCompleted(tickets []domain.Ticket, now time.Time) Series {
	s := Series{
		Labels: make([]string, 0, 7),
		Values: make([]float64, 0, 7),
	}
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(domain.DateLayout)
		var count float64
		for j := range tickets {
			t := &tickets[j]
			if t.OrderManagement.Status == domain.StatusCompleted && t.Scheduling.DeliveryDate == day {
				count++
			}
		}
		s.Labels = append(s.Labels, day[5:])
		s.Values = append(s.Values, count)
	}
	return s
}

// groupCount tallies key occurrences preserving first-seen order.
func groupCount(tickets []domain.Ticket, key func(*domain.Ticket) string) Series {
	index := make(map[string]int)
	var s Series
	for i := range tickets {
		k := key(&tickets[i])
		if at, ok := index[k]; ok {
			s.Values[at]++
			continue
		}
		index[k] = len(s.Labels)
		s.Labels = append(s.Labels, k)
		s.Values = append(s.Values, 1)
	}
	return s
}

// topN sorts a histogram descending by count and truncates. The sort is
// stable so ties keep first-seen order.
func topN(s Series, n int) Series {
	order := make([]int, len(s.Labels))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return s.Values[order[a]] > s.Values[order[b]]
	})
	if len(order) > n {
		order = order[:n]
	}
	top := Series{}
	for _, i := range order {
		top.Labels = append(top.Labels, s.Labels[i])
		top.Values = append(top.Values, s.Values[i])
	}
	return top
}
