package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go-teashop/apps/store/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Banner{},
		&model.Order{},
		&model.OrderItem{},
		&model.StaffUser{},
	))
	return db
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func testStaff() *model.Staff {
	return &model.Staff{ID: 1, Username: "admin", IsStaff: true}
}

// seedProduct 直接插一条分类和商品
func seedProduct(t *testing.T, db *gorm.DB, name string, price int64) *model.Product {
	t.Helper()

	c := model.Category{Name: "Tea", IsActive: true}
	require.NoError(t, db.FirstOrCreate(&c, model.Category{Name: "Tea"}).Error)

	p := model.Product{
		Name:        name,
		Description: "test product",
		CategoryID:  c.ID,
		Price:       price,
		Size:        model.SizeMedium,
		IsAvailable: true,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

// fakePublisher 记录发出的事件
type fakePublisher struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, routingKey)
	return nil
}

func (f *fakePublisher) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}
