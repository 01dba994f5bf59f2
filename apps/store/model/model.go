package model

import (
	"fmt"
	"time"
)

// Product.Size 取值
const (
	SizeSmall  = "S"
	SizeMedium = "M"
	SizeLarge  = "L"
)

// Product.Status 取值，只是展示标签，不影响能否购买
const (
	StatusNone    = ""
	StatusHot     = "hot"
	StatusSale    = "sale"
	StatusSoldOut = "sold_out"
)

var sizeDisplay = map[string]string{
	SizeSmall:  "Small",
	SizeMedium: "Medium",
	SizeLarge:  "Large",
}

var productStatusDisplay = map[string]string{
	StatusNone:    "",
	StatusHot:     "Hot",
	StatusSale:    "Sale",
	StatusSoldOut: "Sold out",
}

// ValidSize 校验尺寸枚举
func ValidSize(s string) bool {
	_, ok := sizeDisplay[s]
	return ok
}

// ValidProductStatus 校验商品标签枚举
func ValidProductStatus(s string) bool {
	_, ok := productStatusDisplay[s]
	return ok
}

// Category 商品分类
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Product 商品
// 价格用整数 VND，没有小数位
type Product struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Name               string    `gorm:"type:varchar(200);not null" json:"name"`
	Description        string    `gorm:"type:text" json:"description"`
	CategoryID         uint      `gorm:"not null;index" json:"category_id"`
	Category           *Category `gorm:"foreignKey:CategoryID" json:"-"`
	Price              int64     `gorm:"not null" json:"price"`
	Size               string    `gorm:"type:varchar(1);default:'M'" json:"size"`
	Image              string    `gorm:"type:varchar(255)" json:"image"`
	IsAvailable        bool      `json:"is_available"`
	IsFeatured         bool      `gorm:"default:false" json:"is_featured"`
	Status             string    `gorm:"type:varchar(20);default:''" json:"status"`
	DiscountPercentage int       `gorm:"default:0" json:"discount_percentage"`
	OriginalPrice      *int64    `json:"original_price"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// DiscountAmount 折扣金额是派生值，从不入库
func (p *Product) DiscountAmount() int64 {
	if p.OriginalPrice != nil && p.DiscountPercentage > 0 {
		return *p.OriginalPrice - p.Price
	}
	return 0
}

// DiscountDisplay 折扣角标，如 "-20%"
func (p *Product) DiscountDisplay() string {
	if p.Status == StatusSale && p.DiscountPercentage > 0 {
		return fmt.Sprintf("-%d%%", p.DiscountPercentage)
	}
	return ""
}

func (p *Product) FormattedPrice() string {
	return FormatVND(p.Price)
}

func (p *Product) FormattedOriginalPrice() string {
	if p.OriginalPrice == nil {
		return ""
	}
	return FormatVND(*p.OriginalPrice)
}

func (p *Product) StatusDisplay() string {
	return productStatusDisplay[p.Status]
}

func (p *Product) SizeDisplay() string {
	return sizeDisplay[p.Size]
}

// Banner 首页轮播图，和其他实体没有任何关联
type Banner struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Subtitle  string    `gorm:"type:varchar(300)" json:"subtitle"`
	Image     string    `gorm:"type:varchar(255)" json:"image"`
	IsActive  bool      `json:"is_active"`
	Order     int       `gorm:"column:display_order;default:0" json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

func (Banner) TableName() string {
	return "banners"
}

// StaffUser 后台员工账号，密码为 bcrypt 哈希
type StaffUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"type:varchar(100);not null" json:"-"`
	IsStaff   bool      `gorm:"default:false" json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StaffUser) TableName() string {
	return "staff_users"
}

// Staff 请求级的员工凭证，由鉴权中间件构造后显式传入各管理操作
type Staff struct {
	ID       uint
	Username string
	IsStaff  bool
}

// FormatVND 整数金额加千分位，如 25000 -> "25,000 VND"
func FormatVND(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%d", amount)
	n := len(s)
	if n > 3 {
		var b []byte
		for i, c := range []byte(s) {
			if i > 0 && (n-i)%3 == 0 {
				b = append(b, ',')
			}
			b = append(b, c)
		}
		s = string(b)
	}
	if neg {
		s = "-" + s
	}
	return s + " VND"
}
