package model

import "time"

// Order.Status 取值
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Order.PaymentMethod 取值
// online 只是记录一个标记，没有接支付网关
const (
	PaymentCOD    = "cod"
	PaymentOnline = "online"
)

var orderStatusDisplay = map[string]string{
	OrderPending:   "Pending",
	OrderConfirmed: "Confirmed",
	OrderPreparing: "Preparing",
	OrderReady:     "Ready",
	OrderDelivered: "Delivered",
	OrderCancelled: "Cancelled",
}

var paymentMethodDisplay = map[string]string{
	PaymentCOD:    "Cash on delivery",
	PaymentOnline: "Online payment",
}

// ValidOrderStatus 校验订单状态枚举
func ValidOrderStatus(s string) bool {
	_, ok := orderStatusDisplay[s]
	return ok
}

// ValidPaymentMethod 校验支付方式枚举
func ValidPaymentMethod(s string) bool {
	_, ok := paymentMethodDisplay[s]
	return ok
}

// Order 订单主表
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	OrderNo         string      `gorm:"type:varchar(64);uniqueIndex" json:"order_no"`
	CustomerName    string      `gorm:"type:varchar(100);not null" json:"customer_name"`
	CustomerPhone   string      `gorm:"type:varchar(15);not null" json:"customer_phone"`
	CustomerAddress string      `gorm:"type:text;not null" json:"customer_address"`
	CustomerEmail   string      `gorm:"type:varchar(255)" json:"customer_email"`
	Status          string      `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentMethod   string      `gorm:"type:varchar(20);default:'cod'" json:"payment_method"`
	PaymentStatus   bool        `gorm:"default:false" json:"payment_status"`
	TotalAmount     int64       `gorm:"not null" json:"total_amount"`
	Notes           string      `gorm:"type:text" json:"notes"`
	ProcessedByID   *uint       `json:"processed_by"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) FormattedTotal() string {
	return FormatVND(o.TotalAmount)
}

func (o *Order) StatusDisplay() string {
	return orderStatusDisplay[o.Status]
}

func (o *Order) PaymentMethodDisplay() string {
	return paymentMethodDisplay[o.PaymentMethod]
}

// OrderItem 订单明细
// Price 是下单那一刻的商品价格快照，商品之后改价不影响已有订单
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     int64     `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// TotalPrice 派生值: 数量 x 快照单价
func (i *OrderItem) TotalPrice() int64 {
	return int64(i.Quantity) * i.Price
}

func (i *OrderItem) FormattedPrice() string {
	return FormatVND(i.Price)
}

func (i *OrderItem) FormattedTotal() string {
	return FormatVND(i.TotalPrice())
}
