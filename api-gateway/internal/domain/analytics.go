package domain

import (
	"math"
	"net"
	"sort"
	"strings"
)

type DailyAnalytics struct {
	ID       int64   `json:"id"`
	Date     string  `json:"date"`
	Visitors int     `json:"visitors"`
	Revenue  float64 `json:"revenue"`
}

type AnalyticsSummary struct {
	TotalVisitors     int              `json:"totalVisitors"`
	TotalRevenue      float64          `json:"totalRevenue"`
	AvgVisitorsPerDay int              `json:"avgVisitorsPerDay"`
	DaysTracked       int              `json:"daysTracked"`
	Analytics         []DailyAnalytics `json:"analytics"`
}

// SummaryWindow is how many trailing days a summary lists.
const SummaryWindow = 30

// Summarize totals every tracked day and lists the last SummaryWindow days
// in date order.
func Summarize(days []DailyAnalytics) AnalyticsSummary {
	days = append([]DailyAnalytics(nil), days...)
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	s := AnalyticsSummary{DaysTracked: len(days), Analytics: []DailyAnalytics{}}
	for _, d := range days {
		s.TotalVisitors += d.Visitors
		s.TotalRevenue += d.Revenue
	}
	if len(days) > 0 {
		s.AvgVisitorsPerDay = int(math.Round(float64(s.TotalVisitors) / float64(len(days))))
	}
	start := len(days) - SummaryWindow
	if start < 0 {
		start = 0
	}
	s.Analytics = append(s.Analytics, days[start:]...)
	return s
}

// IsLocalAddress reports loopback and unspecified client addresses, which are
// not counted as visits.
func IsLocalAddress(addr string) bool {
	host := strings.TrimSpace(addr)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" || strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsUnspecified()
}
