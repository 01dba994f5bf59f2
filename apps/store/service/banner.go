package service

import (
	"context"
	"errors"
	"fmt"

	"go-teashop/apps/store/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BannerService 首页轮播图管理
type BannerService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewBannerService(db *gorm.DB, log *zap.SugaredLogger) *BannerService {
	return &BannerService{db: db, log: log}
}

// ListActive 前台轮播列表: 只要启用的，按 order 升序，同序号新的在前
func (s *BannerService) ListActive(ctx context.Context) ([]model.Banner, error) {
	var banners []model.Banner
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order asc, created_at desc").
		Find(&banners).Error
	if err != nil {
		return nil, err
	}
	return banners, nil
}

// Create 新建轮播图，title 和 subtitle 必填，order 缺省为 0
func (s *BannerService) Create(ctx context.Context, staff *model.Staff, data map[string]interface{}) (*model.Banner, error) {
	if staff == nil || !staff.IsStaff {
		return nil, ErrUnauthorized
	}
	if err := requireFields(data, "title", "subtitle"); err != nil {
		return nil, err
	}

	title, _ := strField(data, "title")
	subtitle, _ := strField(data, "subtitle")
	if title == "" || subtitle == "" {
		return nil, Invalidf("title and subtitle cannot be empty")
	}

	b := &model.Banner{Title: title, Subtitle: subtitle, IsActive: true}
	if order, ok, err := intField(data, "order"); err != nil {
		return nil, err
	} else if ok {
		b.Order = int(order)
	}
	if active, ok, err := boolField(data, "is_active"); err != nil {
		return nil, err
	} else if ok {
		b.IsActive = active
	}
	if image, ok := strField(data, "image"); ok {
		b.Image = image
	}

	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, err
	}
	s.log.Infow("banner created", "id", b.ID, "title", b.Title, "staff", staff.Username)
	return b, nil
}

// Update 部分更新
func (s *BannerService) Update(ctx context.Context, staff *model.Staff, id uint, data map[string]interface{}) (*model.Banner, error) {
	if staff == nil || !staff.IsStaff {
		return nil, ErrUnauthorized
	}

	var b model.Banner
	if err := s.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("banner %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if title, ok := strField(data, "title"); ok {
		updates["title"] = title
	}
	if subtitle, ok := strField(data, "subtitle"); ok {
		updates["subtitle"] = subtitle
	}
	if order, ok, err := intField(data, "order"); err != nil {
		return nil, err
	} else if ok {
		updates["display_order"] = int(order)
	}
	if active, ok, err := boolField(data, "is_active"); err != nil {
		return nil, err
	} else if ok {
		updates["is_active"] = active
	}
	if image, ok := strField(data, "image"); ok {
		updates["image"] = image
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&b).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &b, nil
}

// Delete 删除轮播图
func (s *BannerService) Delete(ctx context.Context, staff *model.Staff, id uint) error {
	if staff == nil || !staff.IsStaff {
		return ErrUnauthorized
	}

	var b model.Banner
	if err := s.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("banner %d: %w", id, ErrNotFound)
		}
		return err
	}
	return s.db.WithContext(ctx).Delete(&b).Error
}
