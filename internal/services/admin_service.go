// internal/services/admin_service.go
package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/shoplane/shoplane-backend/internal/models"
)

type AdminService struct {
	db *gorm.DB
}

type DashboardStats struct {
	TotalUsers          int64          `json:"total_users"`
	TotalProducts       int64          `json:"total_products"`
	TotalOrders         int64          `json:"total_orders"`
	TotalRevenue        float64        `json:"total_revenue"`
	OpenInquiries       int64          `json:"open_inquiries"`
	ActiveSubscriptions int64          `json:"active_subscriptions"`
	OrdersByStatus      map[string]int64 `json:"orders_by_status"`
	RecentOrders        []models.Order `json:"recent_orders"`
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// GetDashboardStats aggregates the counters shown on the admin dashboard.
// Revenue counts completed orders only.
func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{
		OrdersByStatus: make(map[string]int64),
	}

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := s.db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := s.db.Model(&models.Inquiry{}).
		Where("status = ?", models.InquiryStatusOpen).
		Count(&stats.OpenInquiries).Error; err != nil {
		return nil, fmt.Errorf("failed to count inquiries: %w", err)
	}
	if err := s.db.Model(&models.Subscription{}).
		Where("status = ?", models.SubscriptionStatusActive).
		Count(&stats.ActiveSubscriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var revenue struct {
		Total float64
	}
	if err := s.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("status = ?", models.OrderStatusCompleted).
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	stats.TotalRevenue = revenue.Total

	var rows []struct {
		Status string
		Count  int64
	}
	if err := s.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to group orders: %w", err)
	}
	for _, row := range rows {
		stats.OrdersByStatus[row.Status] = row.Count
	}

	if err := s.db.Preload("Items").
		Order("placed_at DESC").
		Limit(5).
		Find(&stats.RecentOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent orders: %w", err)
	}

	return stats, nil
}
