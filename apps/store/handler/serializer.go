package handler

import (
	"go-teashop/apps/store/model"
	"go-teashop/apps/store/service"

	"github.com/gin-gonic/gin"
)

// 出参统一在这里拼，派生字段 (格式化价格、折扣角标) 读时计算，从不入库

func productJSON(p *model.Product) gin.H {
	categoryName := ""
	if p.Category != nil {
		categoryName = p.Category.Name
	}

	h := gin.H{
		"id":                  p.ID,
		"name":                p.Name,
		"description":         p.Description,
		"category":            p.CategoryID,
		"category_name":       categoryName,
		"price":               p.Price,
		"formatted_price":     p.FormattedPrice(),
		"original_price":      p.OriginalPrice,
		"discount_percentage": p.DiscountPercentage,
		"discount_amount":     p.DiscountAmount(),
		"size":                p.Size,
		"size_display":        p.SizeDisplay(),
		"image":               p.Image,
		"is_available":        p.IsAvailable,
		"is_featured":         p.IsFeatured,
		"status":              p.Status,
		"status_display":      p.StatusDisplay(),
		"created_at":          p.CreatedAt,
	}

	// 可空的展示字段，没有就给 null，前端好判断
	h["formatted_original_price"] = nil
	if p.OriginalPrice != nil {
		h["formatted_original_price"] = p.FormattedOriginalPrice()
	}
	h["formatted_discount_amount"] = nil
	if p.DiscountAmount() > 0 {
		h["formatted_discount_amount"] = model.FormatVND(p.DiscountAmount())
	}
	h["discount_display"] = nil
	if d := p.DiscountDisplay(); d != "" {
		h["discount_display"] = d
	}

	return h
}

func productListJSON(products []model.Product) []gin.H {
	out := make([]gin.H, 0, len(products))
	for i := range products {
		out = append(out, productJSON(&products[i]))
	}
	return out
}

func categoryListJSON(categories []service.CategoryInfo) []gin.H {
	out := make([]gin.H, 0, len(categories))
	for _, c := range categories {
		out = append(out, gin.H{
			"id":            c.ID,
			"name":          c.Name,
			"description":   c.Description,
			"is_active":     c.IsActive,
			"product_count": c.ProductCount,
			"created_at":    c.CreatedAt,
		})
	}
	return out
}

func orderItemJSON(i *model.OrderItem) gin.H {
	h := gin.H{
		"id":              i.ID,
		"product_id":      i.ProductID,
		"quantity":        i.Quantity,
		"price":           i.Price,
		"total_price":     i.TotalPrice(),
		"formatted_price": i.FormattedPrice(),
		"formatted_total": i.FormattedTotal(),
	}
	if i.Product != nil {
		h["product"] = productJSON(i.Product)
	}
	return h
}

func orderJSON(o *model.Order) gin.H {
	items := make([]gin.H, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, orderItemJSON(&o.Items[i]))
	}

	return gin.H{
		"id":                     o.ID,
		"order_no":               o.OrderNo,
		"customer_name":          o.CustomerName,
		"customer_phone":         o.CustomerPhone,
		"customer_address":       o.CustomerAddress,
		"customer_email":         o.CustomerEmail,
		"status":                 o.Status,
		"status_display":         o.StatusDisplay(),
		"payment_method":         o.PaymentMethod,
		"payment_method_display": o.PaymentMethodDisplay(),
		"payment_status":         o.PaymentStatus,
		"total_amount":           o.TotalAmount,
		"formatted_total":        o.FormattedTotal(),
		"notes":                  o.Notes,
		"processed_by":           o.ProcessedByID,
		"items":                  items,
		"created_at":             o.CreatedAt,
		"updated_at":             o.UpdatedAt,
	}
}
