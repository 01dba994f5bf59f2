package service

import (
	"context"
	"testing"

	"go-teashop/apps/store/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategoryRequiresStaff(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, testLogger(), nil)

	_, err := svc.CreateCategory(context.Background(), nil, map[string]interface{}{"name": "Tea"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.CreateCategory(context.Background(), &model.Staff{IsStaff: false}, map[string]interface{}{"name": "Tea"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	// 鉴权失败不能留下任何写入
	var count int64
	require.NoError(t, db.Model(&model.Category{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCategoryCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, testLogger(), nil)
	staff := testStaff()

	// name 必填
	_, err := svc.CreateCategory(context.Background(), staff, map[string]interface{}{})
	assert.True(t, IsValidation(err))

	c, err := svc.CreateCategory(context.Background(), staff, map[string]interface{}{
		"name":        "Tea",
		"description": "Trà sữa các loại",
	})
	require.NoError(t, err)
	assert.True(t, c.IsActive) // 默认启用

	// 部分更新: 没出现的字段不动
	got, err := svc.UpdateCategory(context.Background(), staff, c.ID, map[string]interface{}{
		"is_active": false,
	})
	require.NoError(t, err)
	var reloaded model.Category
	require.NoError(t, db.First(&reloaded, got.ID).Error)
	assert.False(t, reloaded.IsActive)
	assert.Equal(t, "Tea", reloaded.Name)
	assert.Equal(t, "Trà sữa các loại", reloaded.Description)

	_, err = svc.UpdateCategory(context.Background(), staff, 9999, map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCategoryBlockedWhileProductsExist(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, testLogger(), nil)
	staff := testStaff()

	p := seedProduct(t, db, "Milk Tea", 25000)

	err := svc.DeleteCategory(context.Background(), staff, p.CategoryID)
	assert.ErrorIs(t, err, ErrConflict)

	// 分类还在
	var count int64
	require.NoError(t, db.Model(&model.Category{}).Where("id = ?", p.CategoryID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// 商品删光之后就能删了
	require.NoError(t, svc.DeleteProduct(context.Background(), staff, p.ID))
	require.NoError(t, svc.DeleteCategory(context.Background(), staff, p.CategoryID))

	err = svc.DeleteCategory(context.Background(), staff, p.CategoryID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, testLogger(), nil)
	staff := testStaff()

	c, err := svc.CreateCategory(context.Background(), staff, map[string]interface{}{"name": "Tea"})
	require.NoError(t, err)

	// 缺必填字段
	_, err = svc.CreateProduct(context.Background(), staff, map[string]interface{}{
		"name": "Milk Tea",
	})
	assert.True(t, IsValidation(err))

	// 分类不存在
	_, err = svc.CreateProduct(context.Background(), staff, map[string]interface{}{
		"name": "Milk Tea", "description": "d", "category_id": float64(9999),
		"price": float64(25000), "size": "M",
	})
	assert.True(t, IsValidation(err))

	p, err := svc.CreateProduct(context.Background(), staff, map[string]interface{}{
		"name":        "Milk Tea",
		"description": "Classic",
		"category_id": float64(c.ID),
		"price":       float64(25000),
		"size":        "M",
	})
	require.NoError(t, err)
	assert.True(t, p.IsAvailable) // 默认上架
	assert.False(t, p.IsFeatured)
	assert.Equal(t, model.StatusNone, p.Status)
	assert.Equal(t, int64(25000), p.Price)

	// 表单过来的数字是字符串，也要能收
	p2, err := svc.CreateProduct(context.Background(), staff, map[string]interface{}{
		"name":        "Matcha",
		"description": "d",
		"category_id": "1",
		"price":       "40000",
		"size":        "L",
		"is_featured": true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(40000), p2.Price)
	assert.True(t, p2.IsFeatured)
}

func TestCreateWithExplicitFalseFlags(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, testLogger(), nil)
	staff := testStaff()

	// 显式传 false 必须原样落库，不能被列默认值吃掉
	c, err := svc.CreateCategory(context.Background(), staff, map[string]interface{}{
		"name":      "Seasonal",
		"is_active": false,
	})
	require.NoError(t, err)
	var cat model.Category
	require.NoError(t, db.First(&cat, c.ID).Error)
	assert.False(t, cat.IsActive)

	p, err := svc.CreateProduct(context.Background(), staff, map[string]interface{}{
		"name":         "Draft Tea",
		"description":  "not ready yet",
		"category_id":  float64(c.ID),
		"price":        float64(25000),
		"size":         "M",
		"is_available": false,
	})
	require.NoError(t, err)
	var prod model.Product
	require.NoError(t, db.First(&prod, p.ID).Error)
	assert.False(t, prod.IsAvailable)

	// 下架建的商品不能漏进公开列表
	list, err := svc.ListProducts(context.Background(), &ProductFilters{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateProductValidatesEnums(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, testLogger(), nil)
	staff := testStaff()

	c, err := svc.CreateCategory(context.Background(), staff, map[string]interface{}{"name": "Tea"})
	require.NoError(t, err)

	base := func() map[string]interface{} {
		return map[string]interface{}{
			"name": "x", "description": "d", "category_id": float64(c.ID),
			"price": float64(1000), "size": "M",
		}
	}

	bad := base()
	bad["size"] = "XL"
	_, err = svc.CreateProduct(context.Background(), staff, bad)
	assert.True(t, IsValidation(err))

	bad = base()
	bad["status"] = "discontinued"
	_, err = svc.CreateProduct(context.Background(), staff, bad)
	assert.True(t, IsValidation(err))

	bad = base()
	bad["discount_percentage"] = float64(120)
	_, err = svc.CreateProduct(context.Background(), staff, bad)
	assert.True(t, IsValidation(err))
}

func TestUpdateProductPartial(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, testLogger(), nil)
	staff := testStaff()

	p := seedProduct(t, db, "Milk Tea", 25000)

	got, err := svc.UpdateProduct(context.Background(), staff, p.ID, map[string]interface{}{
		"price": float64(30000),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30000), got.Price)
	assert.Equal(t, "Milk Tea", got.Name) // 没传的字段不动
	assert.True(t, got.IsAvailable)

	// 打折信息
	got, err = svc.UpdateProduct(context.Background(), staff, p.ID, map[string]interface{}{
		"status":              "sale",
		"discount_percentage": float64(20),
		"original_price":      float64(37500),
	})
	require.NoError(t, err)
	require.NotNil(t, got.OriginalPrice)
	assert.Equal(t, int64(7500), got.DiscountAmount())
	assert.Equal(t, "-20%", got.DiscountDisplay())

	// 清掉原价
	got, err = svc.UpdateProduct(context.Background(), staff, p.ID, map[string]interface{}{
		"original_price": "",
	})
	require.NoError(t, err)
	assert.Nil(t, got.OriginalPrice)
	assert.Zero(t, got.DiscountAmount())

	_, err = svc.UpdateProduct(context.Background(), staff, 9999, map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProductsFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, testLogger(), nil)
	staff := testStaff()

	tea, err := svc.CreateCategory(context.Background(), staff, map[string]interface{}{"name": "Tea"})
	require.NoError(t, err)
	coffee, err := svc.CreateCategory(context.Background(), staff, map[string]interface{}{"name": "Coffee"})
	require.NoError(t, err)

	mk := func(name string, categoryID uint, price int64, size string, featured, available bool) *model.Product {
		p := &model.Product{
			Name: name, Description: name + " drink", CategoryID: categoryID,
			Price: price, Size: size, IsAvailable: available, IsFeatured: featured,
		}
		require.NoError(t, db.Create(p).Error)
		return p
	}

	mk("Milk Tea", tea.ID, 25000, "M", true, true)
	mk("Black Tea", tea.ID, 20000, "S", false, true)
	mk("Espresso", coffee.ID, 30000, "S", false, true)
	mk("Hidden Latte", coffee.ID, 35000, "L", false, false)

	// 只出上架商品
	all, err := svc.ListProducts(context.Background(), &ProductFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// 分类过滤
	got, err := svc.ListProducts(context.Background(), &ProductFilters{CategoryID: tea.ID})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// 尺寸过滤
	got, err = svc.ListProducts(context.Background(), &ProductFilters{Size: "S"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// featured 过滤
	featured := true
	got, err = svc.ListProducts(context.Background(), &ProductFilters{Featured: &featured})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Milk Tea", got[0].Name)

	// 没配 ES 时搜索走 LIKE
	got, err = svc.ListProducts(context.Background(), &ProductFilters{Search: "tea"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// 排序白名单
	got, err = svc.ListProducts(context.Background(), &ProductFilters{Ordering: "price"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(20000), got[0].Price)

	got, err = svc.ListProducts(context.Background(), &ProductFilters{Ordering: "-price"})
	require.NoError(t, err)
	assert.Equal(t, int64(30000), got[0].Price)

	// 不认识的排序字段忽略掉，绝不拼进 SQL
	got, err = svc.ListProducts(context.Background(), &ProductFilters{Ordering: "id; DROP TABLE products"})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = svc.ListProducts(context.Background(), &ProductFilters{Size: "XXL"})
	assert.True(t, IsValidation(err))
}

func TestGetProductHidesUnavailable(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, testLogger(), nil)

	p := seedProduct(t, db, "Milk Tea", 25000)
	require.NoError(t, db.Model(&model.Product{}).Where("id = ?", p.ID).Update("is_available", false).Error)

	_, err := svc.GetProduct(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCategoriesProductCount(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, testLogger(), nil)

	seedProduct(t, db, "Milk Tea", 25000)

	infos, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, int64(1), infos[0].ProductCount)
}
