// Package dashboard computes the operator metrics snapshot. Nothing is
// cached: every call recomputes against current storage state.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gruago/internal/model"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ErrAggregationFailed is returned when any of the underlying queries fails.
// No partial snapshot is ever returned.
var ErrAggregationFailed = errors.New("failed to aggregate dashboard metrics")

// Totals holds the headline counters
type Totals struct {
	Users             int64  `json:"users"`
	Drivers           int64  `json:"drivers"`
	Vehicles          int64  `json:"vehicles"`
	Services          int64  `json:"services"`
	TowRequests       int64  `json:"towRequests"`
	Tenants           int64  `json:"tenants"`
	ActiveRequests    int64  `json:"activeRequests"`
	CompletedRequests int64  `json:"completedRequests"`
	TotalRevenue      float64 `json:"totalRevenue"`
	AverageRating     string  `json:"averageRating"`
}

// StatusCount is one row of the status breakdown
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// MonthlyRevenue is completed revenue bucketed by completion month
type MonthlyRevenue struct {
	Month    time.Time `json:"month"`
	Revenue  float64   `json:"revenue"`
	Requests int       `json:"requests"`
}

// TopDriver is a leaderboard entry
type TopDriver struct {
	Name              string `json:"name"`
	CompletedRequests int64  `json:"completedRequests"`
	AverageRating     string `json:"averageRating"`
}

// Metrics is the full dashboard snapshot
type Metrics struct {
	Totals          Totals           `json:"totals"`
	StatusBreakdown []StatusCount    `json:"statusBreakdown"`
	RevenueByMonth  []MonthlyRevenue `json:"revenueByMonth"`
	TopDrivers      []TopDriver      `json:"topDrivers"`
}

// Reporter computes dashboard metrics over the shared pool
type Reporter struct {
	db *gorm.DB
}

// NewReporter creates a dashboard reporter
func NewReporter(db *gorm.DB) *Reporter {
	return &Reporter{db: db}
}

// Metrics runs the independent aggregation queries concurrently and
// assembles the snapshot once all of them finish. Any single failure fails
// the whole call.
func (r *Reporter) Metrics(ctx context.Context) (*Metrics, error) {
	var (
		metrics     Metrics
		ratingCount int64
		ratingAvg   float64
	)

	g, gctx := errgroup.WithContext(ctx)

	activeCount := func(m interface{}, dst *int64) func() error {
		return func() error {
			return r.db.WithContext(gctx).Model(m).Where("is_active = ?", true).Count(dst).Error
		}
	}

	g.Go(activeCount(&model.User{}, &metrics.Totals.Users))
	g.Go(activeCount(&model.Driver{}, &metrics.Totals.Drivers))
	g.Go(activeCount(&model.Vehicle{}, &metrics.Totals.Vehicles))
	g.Go(activeCount(&model.Service{}, &metrics.Totals.Services))
	g.Go(activeCount(&model.Tenant{}, &metrics.Totals.Tenants))

	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&model.TowRequest{}).
			Count(&metrics.Totals.TowRequests).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&model.TowRequest{}).
			Where("status IN ?", model.ActiveStatuses).
			Count(&metrics.Totals.ActiveRequests).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&model.TowRequest{}).
			Where("status = ?", model.StatusCompleted).
			Count(&metrics.Totals.CompletedRequests).Error
	})
	g.Go(func() error {
		var total *float64
		err := r.db.WithContext(gctx).Model(&model.TowRequest{}).
			Where("status = ?", model.StatusCompleted).
			Select("SUM(total_price)").Scan(&total).Error
		if err != nil {
			return err
		}
		if total != nil {
			metrics.Totals.TotalRevenue = *total
		}
		return nil
	})
	g.Go(func() error {
		if err := r.db.WithContext(gctx).Model(&model.Rating{}).Count(&ratingCount).Error; err != nil {
			return err
		}
		if ratingCount == 0 {
			return nil
		}
		var avg *float64
		if err := r.db.WithContext(gctx).Model(&model.Rating{}).
			Select("AVG(score)").Scan(&avg).Error; err != nil {
			return err
		}
		if avg != nil {
			ratingAvg = *avg
		}
		return nil
	})

	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&model.TowRequest{}).
			Select("status, COUNT(*) as count").
			Group("status").
			Scan(&metrics.StatusBreakdown).Error
	})
	g.Go(func() error {
		rows, err := r.revenueByMonth(gctx)
		if err != nil {
			return err
		}
		metrics.RevenueByMonth = rows
		return nil
	})
	g.Go(func() error {
		rows, err := r.topDrivers(gctx)
		if err != nil {
			return err
		}
		metrics.TopDrivers = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAggregationFailed, err)
	}

	if ratingCount == 0 {
		metrics.Totals.AverageRating = "N/A"
	} else {
		metrics.Totals.AverageRating = fmt.Sprintf("%.1f", ratingAvg)
	}

	return &metrics, nil
}

// revenueByMonth fetches the trailing six months of completed requests and
// buckets them by completion month, most recent first. Bucketing happens
// here rather than in SQL so the same query runs on every supported dialect.
func (r *Reporter) revenueByMonth(ctx context.Context) ([]MonthlyRevenue, error) {
	cutoff := time.Now().AddDate(0, -6, 0)

	var rows []struct {
		CompletedAt *time.Time
		TotalPrice  float64
	}
	err := r.db.WithContext(ctx).Model(&model.TowRequest{}).
		Select("completed_at, total_price").
		Where("status = ? AND completed_at >= ?", model.StatusCompleted, cutoff).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	buckets := make(map[time.Time]*MonthlyRevenue)
	for _, row := range rows {
		if row.CompletedAt == nil {
			continue
		}
		month := time.Date(row.CompletedAt.Year(), row.CompletedAt.Month(), 1, 0, 0, 0, 0, row.CompletedAt.Location())
		bucket, ok := buckets[month]
		if !ok {
			bucket = &MonthlyRevenue{Month: month}
			buckets[month] = bucket
		}
		bucket.Revenue += row.TotalPrice
		bucket.Requests++
	}

	result := make([]MonthlyRevenue, 0, len(buckets))
	for _, bucket := range buckets {
		result = append(result, *bucket)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Month.After(result[j].Month)
	})
	return result, nil
}

// topDrivers returns the five active drivers with the most completed
// requests and their average rating over those requests
func (r *Reporter) topDrivers(ctx context.Context) ([]TopDriver, error) {
	var rows []struct {
		Name      string
		Completed int64
		AvgScore  *float64
	}
	err := r.db.WithContext(ctx).Table("drivers").
		Select("drivers.full_name AS name, COUNT(tow_requests.id) AS completed, AVG(ratings.score) AS avg_score").
		Joins("LEFT JOIN tow_requests ON tow_requests.driver_id = drivers.id AND tow_requests.status = ?", model.StatusCompleted).
		Joins("LEFT JOIN ratings ON ratings.request_id = tow_requests.id").
		Where("drivers.is_active = ?", true).
		Group("drivers.id, drivers.full_name").
		Order("completed DESC").
		Limit(5).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]TopDriver, 0, len(rows))
	for _, row := range rows {
		driver := TopDriver{
			Name:              row.Name,
			CompletedRequests: row.Completed,
			AverageRating:     "N/A",
		}
		if row.AvgScore != nil {
			driver.AverageRating = fmt.Sprintf("%.1f", *row.AvgScore)
		}
		result = append(result, driver)
	}
	return result, nil
}
