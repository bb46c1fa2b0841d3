// internal/services/order_service.go
package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplane/shoplane-backend/internal/models"
	"github.com/shoplane/shoplane-backend/internal/utils"
)

type OrderService struct {
	db             *gorm.DB
	paymentService *PaymentService
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type CreateOrderRequest struct {
	Items    []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	Shipping models.ShippingAddress `json:"shipping" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

func NewOrderService(db *gorm.DB, paymentService *PaymentService) *OrderService {
	return &OrderService{
		db:             db,
		paymentService: paymentService,
	}
}

// CreateOrder validates the line items, decrements stock and writes the order
// with its payment intent inside one database transaction.
func (s *OrderService) CreateOrder(userID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var order *models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var items []models.OrderItem
		var total float64

		for _, item := range req.Items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return fmt.Errorf("database error: %w", err)
			}

			// Check and decrement in one statement; a separate read would let
			// two concurrent checkouts drive stock negative.
			res := tx.Model(&product).
				Where("stock >= ?", item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to update stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
			}

			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				UnitPrice: product.Price,
				Quantity:  item.Quantity,
			})
			total += product.Price * float64(item.Quantity)
		}

		intent, err := s.paymentService.CreateIntent(userID, total)
		if err != nil {
			return err
		}

		order = &models.Order{
			UserID:      userID,
			Items:       items,
			Shipping:    req.Shipping,
			Payment:     intent,
			Status:      models.OrderStatusNotProcessed,
			TotalAmount: total,
			PlacedAt:    time.Now(),
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *OrderService) GetOrder(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

func (s *OrderService) GetUserOrders(userID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID).Preload("Items")
	return s.listOrders(query, params)
}

func (s *OrderService) GetAllOrders(params utils.PaginationParams, status *models.OrderStatus) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Preload("Items")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return s.listOrders(query, params)
}

func (s *OrderService) listOrders(query *gorm.DB, params utils.PaginationParams) ([]models.Order, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "total_amount", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// UpdateOrderStatus rejects any change once an order is Completed or
// Cancelled. No fuller transition graph is enforced.
func (s *OrderService) UpdateOrderStatus(id uuid.UUID, req *UpdateOrderStatusRequest) (*models.Order, error) {
	if !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}

	if order.Status.Terminal() {
		return nil, ErrOrderFinalized
	}

	if err := s.db.Model(order).Update("status", req.Status).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return order, nil
}

func (s *OrderService) DeleteOrder(id uuid.UUID) error {
	order, err := s.GetOrder(id)
	if err != nil {
		return err
	}

	if order.Status.Terminal() {
		return ErrOrderFinalized
	}

	if err := s.db.Delete(order).Error; err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return nil
}

// ExportCSV streams all orders as CSV rows, newest first.
func (s *OrderService) ExportCSV(w io.Writer) error {
	var orders []models.Order
	if err := s.db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return fmt.Errorf("failed to fetch orders: %w", err)
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"order_id", "user_id", "status", "total_amount", "items", "placed_at"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, order := range orders {
		if err := cw.Write([]string{
			order.ID.String(),
			order.UserID.String(),
			string(order.Status),
			strconv.FormatFloat(order.TotalAmount, 'f', 2, 64),
			strconv.Itoa(len(order.Items)),
			order.PlacedAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}

	return cw.Error()
}
