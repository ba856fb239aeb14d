package server

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/duyshop/backend/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type statBucket struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalTransactions int64   `json:"totalTransactions"`
	TotalSold         int64   `json:"totalSold"`
}

type statsResponse struct {
	TotalRevenue      float64               `json:"totalRevenue"`
	TotalTransactions int64                 `json:"totalTransactions"`
	TotalSold         int64                 `json:"totalSold"`
	Details           map[string]statBucket `json:"details"`
}

// statistics answers date-bucketed revenue rollups: hours of a day, days of
// a month, months of a year, or plain totals over a date range.
func (s *Server) statistics(c *gin.Context) {
	kind := c.Query("type")
	from := c.Query("from")
	to := c.Query("to")
	if kind == "" || from == "" {
		fail(c, 400, "Thiếu type hoặc from.")
		return
	}

	ctx := c.Request.Context()
	cacheKey := repository.StatsCacheKey(kind, from, to)
	if s.cache != nil {
		var cached statsResponse
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			c.JSON(200, gin.H{"success": true, "data": cached})
			return
		}
	}

	var (
		resp *statsResponse
		err  error
	)
	switch kind {
	case "daily":
		resp, err = s.bucketStats(ctx, from, "daily")
	case "monthly":
		resp, err = s.bucketStats(ctx, from, "monthly")
	case "yearly":
		resp, err = s.bucketStats(ctx, from, "yearly")
	case "range":
		if to == "" {
			fail(c, 400, "Thiếu to trong kiểu range.")
			return
		}
		resp, err = s.rangeStats(ctx, from, to)
	default:
		fail(c, 400, "Type không hợp lệ. Dùng daily, monthly, yearly, range.")
		return
	}

	if err == errBadDate {
		switch kind {
		case "daily":
			fail(c, 400, "Sai định dạng from (dd-mm-yyyy).")
		case "monthly":
			fail(c, 400, "Sai định dạng from (mm-yyyy).")
		case "yearly":
			fail(c, 400, "Sai định dạng from (yyyy).")
		default:
			fail(c, 400, "Sai định dạng from/to (dd-mm-yyyy).")
		}
		return
	}
	if err != nil {
		s.logger.Error("statistics", zap.String("type", kind), zap.Error(err))
		serverError(c, err)
		return
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, resp, 5*time.Minute); err != nil {
			s.logger.Warn("cache statistics", zap.Error(err))
		}
	}

	c.JSON(200, gin.H{"success": true, "data": resp})
}

var errBadDate = errors.New("malformed date")

// parseDateParts splits dd-mm-yyyy style inputs into their numeric parts.
func parseDateParts(input string, want int) ([]int, error) {
	fields := strings.Split(input, "-")
	if len(fields) != want {
		return nil, errBadDate
	}
	parts := make([]int, 0, want)
	for _, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, errBadDate
		}
		parts = append(parts, n)
	}
	return parts, nil
}

func validDayMonth(day, month int) bool {
	return day >= 1 && day <= 31 && month >= 1 && month <= 12
}

func (s *Server) bucketStats(ctx context.Context, from, kind string) (*statsResponse, error) {
	var (
		start, end  time.Time
		unit        repository.BucketUnit
		first, last int
	)

	switch kind {
	case "daily":
		parts, err := parseDateParts(from, 3) // dd-mm-yyyy
		if err != nil {
			return nil, err
		}
		day, month, year := parts[0], parts[1], parts[2]
		if !validDayMonth(day, month) {
			return nil, errBadDate
		}
		start = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
		end = time.Date(year, time.Month(month), day, 23, 59, 59, 999_000_000, time.Local)
		unit, first, last = repository.BucketHour, 0, 23
	case "monthly":
		parts, err := parseDateParts(from, 2) // mm-yyyy
		if err != nil {
			return nil, err
		}
		month, year := parts[0], parts[1]
		if month < 1 || month > 12 {
			return nil, errBadDate
		}
		start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
		end = start.AddDate(0, 1, 0).Add(-time.Millisecond)
		unit, first = repository.BucketDay, 1
		last = start.AddDate(0, 1, -1).Day() // days in month
	case "yearly":
		parts, err := parseDateParts(from, 1) // yyyy
		if err != nil {
			return nil, err
		}
		year := parts[0]
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
		end = time.Date(year, time.December, 31, 23, 59, 59, 999_000_000, time.Local)
		unit, first, last = repository.BucketMonth, 1, 12
	}

	revenue, err := s.stores.Stats.RevenueBuckets(ctx, start, end, unit)
	if err != nil {
		return nil, err
	}
	sold, err := s.stores.Stats.SoldBuckets(ctx, start, end, unit)
	if err != nil {
		return nil, err
	}

	revenueByBucket := make(map[int]repository.RevenueBucket, len(revenue))
	for _, b := range revenue {
		revenueByBucket[b.Bucket] = b
	}
	soldByBucket := make(map[int]repository.SoldBucket, len(sold))
	for _, b := range sold {
		soldByBucket[b.Bucket] = b
	}

	resp := &statsResponse{Details: make(map[string]statBucket, last-first+1)}
	for i := first; i <= last; i++ {
		bucket := statBucket{
			TotalRevenue:      revenueByBucket[i].TotalRevenue,
			TotalTransactions: revenueByBucket[i].TotalTransactions,
			TotalSold:         soldByBucket[i].TotalSold,
		}
		resp.Details[strconv.Itoa(i)] = bucket
		resp.TotalRevenue += bucket.TotalRevenue
		resp.TotalTransactions += bucket.TotalTransactions
		resp.TotalSold += bucket.TotalSold
	}
	return resp, nil
}

func (s *Server) rangeStats(ctx context.Context, from, to string) (*statsResponse, error) {
	fromParts, err := parseDateParts(from, 3)
	if err != nil {
		return nil, err
	}
	toParts, err := parseDateParts(to, 3)
	if err != nil {
		return nil, err
	}
	if !validDayMonth(fromParts[0], fromParts[1]) || !validDayMonth(toParts[0], toParts[1]) {
		return nil, errBadDate
	}

	start := time.Date(fromParts[2], time.Month(fromParts[1]), fromParts[0], 0, 0, 0, 0, time.Local)
	end := time.Date(toParts[2], time.Month(toParts[1]), toParts[0], 23, 59, 59, 999_000_000, time.Local)

	revenue, transactions, sold, err := s.stores.Stats.RangeTotals(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &statsResponse{
		TotalRevenue:      revenue,
		TotalTransactions: transactions,
		TotalSold:         sold,
		Details:           map[string]statBucket{},
	}, nil
}
