package service

import (
	"context"
	"errors"
	"fmt"

	"go-teashop/apps/store/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventPublisher 订单事件出口，发布失败只记日志，不影响下单
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// OrderService 下单和订单状态流转的核心逻辑
type OrderService struct {
	db     *gorm.DB
	log    *zap.SugaredLogger
	events EventPublisher // 可以为 nil
}

func NewOrderService(db *gorm.DB, log *zap.SugaredLogger, events EventPublisher) *OrderService {
	return &OrderService{db: db, log: log, events: events}
}

type OrderItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderInput struct {
	CustomerName    string           `json:"customer_name"`
	CustomerPhone   string           `json:"customer_phone"`
	CustomerAddress string           `json:"customer_address"`
	CustomerEmail   string           `json:"customer_email"`
	PaymentMethod   string           `json:"payment_method"`
	Notes           string           `json:"notes"`
	Items           []OrderItemInput `json:"items"`
}

// Create 创建订单的核心逻辑
// 解析商品 -> 快照价格 -> 算总价 -> 主表和明细一个事务落库，
// 任何一步失败整单回滚，不会留下半个订单
func (s *OrderService) Create(ctx context.Context, in *CreateOrderInput) (*model.Order, error) {
	// 1. 入参校验
	if len(in.Items) == 0 {
		return nil, Invalidf("order must contain at least one item")
	}
	if in.CustomerName == "" || in.CustomerPhone == "" || in.CustomerAddress == "" {
		return nil, Invalidf("customer_name, customer_phone and customer_address are required")
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = model.PaymentCOD
	}
	if !model.ValidPaymentMethod(in.PaymentMethod) {
		return nil, Invalidf("invalid payment_method: %s", in.PaymentMethod)
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, Invalidf("quantity must be positive for product %d", item.ProductID)
		}
	}

	order := &model.Order{
		OrderNo:         uuid.New().String(),
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerAddress: in.CustomerAddress,
		CustomerEmail:   in.CustomerEmail,
		Status:          model.OrderPending,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   false,
		Notes:           in.Notes,
	}

	// 2. 事务内: 逐个解析商品并快照当前价格
	// 明细里的 Price 和累加进总价的必须是同一次读到的值
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total int64
		items := make([]model.OrderItem, 0, len(in.Items))

		for _, item := range in.Items {
			var p model.Product
			if err := tx.First(&p, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %d: %w", item.ProductID, ErrNotFound)
				}
				return err
			}

			total += int64(item.Quantity) * p.Price
			items = append(items, model.OrderItem{
				ProductID: p.ID,
				Quantity:  item.Quantity,
				Price:     p.Price, // 快照，之后商品改价不影响这里
			})
		}

		order.TotalAmount = total
		order.Items = items

		// GORM 级联创建: 主表和明细一起落库
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("order created", "order_id", order.ID, "order_no", order.OrderNo, "total", order.TotalAmount)
	s.publish(ctx, "order.created", order)

	// 3. 带商品详情重新捞一遍返回
	return s.Get(ctx, order.ID)
}

// Get 单个订单，明细带商品详情
func (s *OrderService) Get(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("Items.Product").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &order, nil
}

// List 订单列表，新的在前
func (s *OrderService) List(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus 更新订单状态
// 六个状态之间不限制流转方向，和老系统保持一致
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string, staff *model.Staff) (*model.Order, error) {
	if staff == nil || !staff.IsStaff {
		return nil, ErrUnauthorized
	}
	if !model.ValidOrderStatus(status) {
		return nil, Invalidf("invalid status: %s", status)
	}

	var order model.Order
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"status":          status,
		"processed_by_id": staff.ID,
	}
	if err := s.db.WithContext(ctx).Model(&order).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.log.Infow("order status updated", "order_id", id, "status", status, "staff", staff.Username)
	s.publish(ctx, "order.status_changed", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	return s.Get(ctx, id)
}

// OrderStats 订单统计，字段名和前端约定保持一致
type OrderStats struct {
	TotalOrders     int64 `json:"total_orders"`
	PendingOrders   int64 `json:"pending_orders"`
	ConfirmedOrders int64 `json:"confirmed_orders"`
	DeliveredOrders int64 `json:"delivered_orders"`
}

// Stats 纯读聚合，没有副作用
func (s *OrderService) Stats(ctx context.Context) (*OrderStats, error) {
	var stats OrderStats

	if err := s.db.WithContext(ctx).Model(&model.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	byStatus := func(status string, dst *int64) error {
		return s.db.WithContext(ctx).Model(&model.Order{}).Where("status = ?", status).Count(dst).Error
	}
	if err := byStatus(model.OrderPending, &stats.PendingOrders); err != nil {
		return nil, err
	}
	if err := byStatus(model.OrderConfirmed, &stats.ConfirmedOrders); err != nil {
		return nil, err
	}
	if err := byStatus(model.OrderDelivered, &stats.DeliveredOrders); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *OrderService) publish(ctx context.Context, key string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, key, payload); err != nil {
		s.log.Warnw("publish order event failed", "routing_key", key, "err", err)
	}
}
