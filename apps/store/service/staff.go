package service

import (
	"context"
	"errors"

	"go-teashop/apps/store/model"
	"go-teashop/pkg/jwt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// StaffService 员工登录，只负责换取凭证，不管注册
type StaffService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewStaffService(db *gorm.DB, log *zap.SugaredLogger) *StaffService {
	return &StaffService{db: db, log: log}
}

// Login 校验账号密码，通过则签发 Token
// 非员工账号即使密码正确也拒绝
func (s *StaffService) Login(ctx context.Context, username, password string) (string, *model.StaffUser, error) {
	if username == "" || password == "" {
		return "", nil, Invalidf("username and password are required")
	}

	var u model.StaffUser
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrUnauthorized
		}
		return "", nil, err
	}

	// 密码比对: 库里的 Hash vs 输入的明文
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, ErrUnauthorized
	}
	if !u.IsStaff {
		return "", nil, ErrUnauthorized
	}

	token, err := jwt.GenerateToken(u.ID, u.Username, u.IsStaff)
	if err != nil {
		return "", nil, err
	}

	s.log.Infow("staff logged in", "username", u.Username)
	return token, &u, nil
}

// SeedAdmin 首次启动时种子一个员工账号，已存在则什么都不做
func (s *StaffService) SeedAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	var cnt int64
	if err := s.db.WithContext(ctx).Model(&model.StaffUser{}).
		Where("username = ?", username).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u := &model.StaffUser{Username: username, Password: string(hashed), IsStaff: true}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return err
	}
	s.log.Infow("admin account seeded", "username", username)
	return nil
}
