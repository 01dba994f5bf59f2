package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-teashop/apps/store/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductIndexer 商品搜索索引出口，配了 ES 才有，可以为 nil
type ProductIndexer interface {
	Index(ctx context.Context, p *model.Product) error
	Remove(ctx context.Context, id uint) error
	Search(ctx context.Context, keyword string) ([]uint, error)
}

// CatalogService 分类和商品的读写
// 所有写操作都要求显式传入员工凭证，校验发生在任何写入之前
type CatalogService struct {
	db    *gorm.DB
	log   *zap.SugaredLogger
	index ProductIndexer // 可以为 nil
}

func NewCatalogService(db *gorm.DB, log *zap.SugaredLogger, index ProductIndexer) *CatalogService {
	return &CatalogService{db: db, log: log, index: index}
}

// ---------- 分类 ----------

// CategoryInfo 列表返回带商品数
type CategoryInfo struct {
	model.Category
	ProductCount int64 `json:"product_count"`
}

// ListCategories 全部分类，按名称排序
func (s *CatalogService) ListCategories(ctx context.Context) ([]CategoryInfo, error) {
	var categories []model.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}

	infos := make([]CategoryInfo, 0, len(categories))
	for _, c := range categories {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Product{}).
			Where("category_id = ?", c.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		infos = append(infos, CategoryInfo{Category: c, ProductCount: count})
	}
	return infos, nil
}

// CreateCategory 新建分类，name 必填
func (s *CatalogService) CreateCategory(ctx context.Context, staff *model.Staff, data map[string]interface{}) (*model.Category, error) {
	if staff == nil || !staff.IsStaff {
		return nil, ErrUnauthorized
	}
	name, _ := strField(data, "name")
	if name == "" {
		return nil, Invalidf("field name is required")
	}

	c := &model.Category{Name: name, IsActive: true}
	if desc, ok := strField(data, "description"); ok {
		c.Description = desc
	}
	if active, ok, err := boolField(data, "is_active"); err != nil {
		return nil, err
	} else if ok {
		c.IsActive = active
	}

	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	s.log.Infow("category created", "id", c.ID, "name", c.Name, "staff", staff.Username)
	return c, nil
}

// UpdateCategory 部分更新，只动出现的字段
func (s *CatalogService) UpdateCategory(ctx context.Context, staff *model.Staff, id uint, data map[string]interface{}) (*model.Category, error) {
	if staff == nil || !staff.IsStaff {
		return nil, ErrUnauthorized
	}

	var c model.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if name, ok := strField(data, "name"); ok {
		if name == "" {
			return nil, Invalidf("field name cannot be empty")
		}
		updates["name"] = name
	}
	if desc, ok := strField(data, "description"); ok {
		updates["description"] = desc
	}
	if active, ok, err := boolField(data, "is_active"); err != nil {
		return nil, err
	} else if ok {
		updates["is_active"] = active
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&c).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// DeleteCategory 分类下还有商品时拒绝删除，不做级联也不做转移
func (s *CatalogService) DeleteCategory(ctx context.Context, staff *model.Staff, id uint) error {
	if staff == nil || !staff.IsStaff {
		return ErrUnauthorized
	}

	var c model.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("cannot delete a category that still has products: %w", ErrConflict)
	}

	return s.db.WithContext(ctx).Delete(&c).Error
}

// ---------- 商品 ----------

// ProductFilters 公开商品列表的过滤条件
type ProductFilters struct {
	CategoryID uint
	Size       string
	Featured   *bool
	Search     string
	Ordering   string // price / created_at / name，前缀 - 表示倒序
}

// 排序白名单，防止把任意列名拼进 SQL
var orderingColumns = map[string]string{
	"price":      "price",
	"created_at": "created_at",
	"name":       "name",
}

// ListProducts 公开商品列表，只返回上架商品
// search 走 ES，没配 ES 或 ES 挂了就退化为数据库 LIKE
func (s *CatalogService) ListProducts(ctx context.Context, f *ProductFilters) ([]model.Product, error) {
	query := s.db.WithContext(ctx).Preload("Category").Where("is_available = ?", true)

	if f.CategoryID > 0 {
		query = query.Where("category_id = ?", f.CategoryID)
	}
	if f.Size != "" {
		if !model.ValidSize(f.Size) {
			return nil, Invalidf("invalid size: %s", f.Size)
		}
		query = query.Where("size = ?", f.Size)
	}
	if f.Featured != nil {
		query = query.Where("is_featured = ?", *f.Featured)
	}

	if f.Search != "" {
		matched := false
		if s.index != nil {
			ids, err := s.index.Search(ctx, f.Search)
			if err != nil {
				s.log.Warnw("es search failed, falling back to LIKE", "err", err)
			} else {
				if len(ids) == 0 {
					return []model.Product{}, nil
				}
				query = query.Where("id IN ?", ids)
				matched = true
			}
		}
		if !matched {
			kw := "%" + f.Search + "%"
			query = query.Where("name LIKE ? OR description LIKE ?", kw, kw)
		}
	}

	// 排序，默认新品在前。不认识的排序字段直接忽略，用默认排序
	orderClause := "created_at desc"
	if f.Ordering != "" {
		field := f.Ordering
		desc := false
		if strings.HasPrefix(field, "-") {
			field = field[1:]
			desc = true
		}
		if col, ok := orderingColumns[field]; ok {
			orderClause = col
			if desc {
				orderClause += " desc"
			}
		}
	}

	var products []model.Product
	if err := query.Order(orderClause).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct 公开详情，下架商品等同不存在
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := s.db.WithContext(ctx).Preload("Category").
		Where("is_available = ?", true).First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

// FeaturedProducts 首页推荐位
func (s *CatalogService) FeaturedProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Preload("Category").
		Where("is_available = ? AND is_featured = ?", true, true).
		Order("created_at desc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ProductStats 商品统计
type ProductStats struct {
	TotalProducts    int64 `json:"total_products"`
	FeaturedProducts int64 `json:"featured_products"`
	Categories       int64 `json:"categories"`
}

func (s *CatalogService) Stats(ctx context.Context) (*ProductStats, error) {
	var stats ProductStats
	if err := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_available = ?", true).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_available = ? AND is_featured = ?", true, true).
		Count(&stats.FeaturedProducts).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&model.Category{}).Count(&stats.Categories).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreateProduct 新建商品
// 必填: name, description, category_id, price, size
func (s *CatalogService) CreateProduct(ctx context.Context, staff *model.Staff, data map[string]interface{}) (*model.Product, error) {
	if staff == nil || !staff.IsStaff {
		return nil, ErrUnauthorized
	}
	if err := requireFields(data, "name", "description", "category_id", "price", "size"); err != nil {
		return nil, err
	}

	name, _ := strField(data, "name")
	desc, _ := strField(data, "description")
	size, _ := strField(data, "size")
	if !model.ValidSize(size) {
		return nil, Invalidf("invalid size: %s", size)
	}

	categoryID, _, err := intField(data, "category_id")
	if err != nil {
		return nil, err
	}
	var category model.Category
	if err := s.db.WithContext(ctx).First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Invalidf("category not found")
		}
		return nil, err
	}

	price, _, err := intField(data, "price")
	if err != nil {
		return nil, err
	}
	if price < 0 {
		return nil, Invalidf("price cannot be negative")
	}

	p := &model.Product{
		Name:        name,
		Description: desc,
		CategoryID:  category.ID,
		Price:       price,
		Size:        size,
		IsAvailable: true,
	}

	if err := s.applyProductOptions(p, data); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	p.Category = &category

	s.log.Infow("product created", "id", p.ID, "name", p.Name, "staff", staff.Username)
	s.indexProduct(ctx, p)
	return p, nil
}

// UpdateProduct 部分更新
func (s *CatalogService) UpdateProduct(ctx context.Context, staff *model.Staff, id uint, data map[string]interface{}) (*model.Product, error) {
	if staff == nil || !staff.IsStaff {
		return nil, ErrUnauthorized
	}

	var p model.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	if name, ok := strField(data, "name"); ok {
		p.Name = name
	}
	if desc, ok := strField(data, "description"); ok {
		p.Description = desc
	}
	if categoryID, ok, err := intField(data, "category_id"); err != nil {
		return nil, err
	} else if ok {
		var category model.Category
		if err := s.db.WithContext(ctx).First(&category, categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, Invalidf("category not found")
			}
			return nil, err
		}
		p.CategoryID = category.ID
	}
	if price, ok, err := intField(data, "price"); err != nil {
		return nil, err
	} else if ok {
		if price < 0 {
			return nil, Invalidf("price cannot be negative")
		}
		p.Price = price
	}
	if size, ok := strField(data, "size"); ok {
		if !model.ValidSize(size) {
			return nil, Invalidf("invalid size: %s", size)
		}
		p.Size = size
	}

	if err := s.applyProductOptions(&p, data); err != nil {
		return nil, err
	}

	// Save 全量写，布尔字段改成 false 也能落库
	if err := s.db.WithContext(ctx).Save(&p).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Preload("Category").First(&p, p.ID).Error; err != nil {
		return nil, err
	}

	s.indexProduct(ctx, &p)
	return &p, nil
}

// applyProductOptions 创建和更新共用的可选字段
func (s *CatalogService) applyProductOptions(p *model.Product, data map[string]interface{}) error {
	if available, ok, err := boolField(data, "is_available"); err != nil {
		return err
	} else if ok {
		p.IsAvailable = available
	}
	if featured, ok, err := boolField(data, "is_featured"); err != nil {
		return err
	} else if ok {
		p.IsFeatured = featured
	}
	if status, ok := strField(data, "status"); ok {
		if !model.ValidProductStatus(status) {
			return Invalidf("invalid status: %s", status)
		}
		p.Status = status
	}
	if pct, ok, err := intField(data, "discount_percentage"); err != nil {
		return err
	} else if ok {
		if pct < 0 || pct > 100 {
			return Invalidf("discount_percentage must be between 0 and 100")
		}
		p.DiscountPercentage = int(pct)
	}
	if _, present := data["original_price"]; present {
		orig, ok, err := intField(data, "original_price")
		if err != nil {
			return err
		}
		if ok {
			p.OriginalPrice = &orig
		} else {
			// 传了空串表示清掉原价
			p.OriginalPrice = nil
		}
	}
	if image, ok := strField(data, "image"); ok {
		p.Image = image
	}
	return nil
}

// DeleteProduct 删除商品，关联的订单明细由数据库级联删除
func (s *CatalogService) DeleteProduct(ctx context.Context, staff *model.Staff, id uint) error {
	if staff == nil || !staff.IsStaff {
		return ErrUnauthorized
	}

	var p model.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&p).Error; err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.Remove(ctx, id); err != nil {
			s.log.Warnw("remove product from index failed", "id", id, "err", err)
		}
	}
	return nil
}

func (s *CatalogService) indexProduct(ctx context.Context, p *model.Product) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, p); err != nil {
		s.log.Warnw("index product failed", "id", p.ID, "err", err)
	}
}
