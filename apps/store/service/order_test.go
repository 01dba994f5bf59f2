package service

import (
	"context"
	"testing"
	"time"

	"go-teashop/apps/store/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderComputesTotalFromSnapshots(t *testing.T) {
	db := newTestDB(t)
	events := &fakePublisher{}
	svc := NewOrderService(db, testLogger(), events)

	milkTea := seedProduct(t, db, "Milk Tea", 25000)
	matcha := seedProduct(t, db, "Matcha Latte", 40000)

	order, err := svc.Create(context.Background(), &CreateOrderInput{
		CustomerName:    "Nguyen Van A",
		CustomerPhone:   "0901234567",
		CustomerAddress: "123 Le Loi, Q1",
		Items: []OrderItemInput{
			{ProductID: milkTea.ID, Quantity: 2},
			{ProductID: matcha.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2*25000+40000), order.TotalAmount)
	assert.Equal(t, model.OrderPending, order.Status)
	assert.False(t, order.PaymentStatus)
	assert.Equal(t, model.PaymentCOD, order.PaymentMethod)
	require.Len(t, order.Items, 2)

	// 总价必须等于明细之和
	var sum int64
	for _, item := range order.Items {
		sum += item.TotalPrice()
	}
	assert.Equal(t, order.TotalAmount, sum)

	// 明细带商品详情
	require.NotNil(t, order.Items[0].Product)

	assert.Contains(t, events.published(), "order.created")
}

func TestCreateOrderSnapshotSurvivesPriceChange(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, testLogger(), nil)

	p := seedProduct(t, db, "Milk Tea", 25000)

	order, err := svc.Create(context.Background(), &CreateOrderInput{
		CustomerName:    "Tran Thi B",
		CustomerPhone:   "0907654321",
		CustomerAddress: "45 Nguyen Hue",
		Items:           []OrderItemInput{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(50000), order.TotalAmount)

	// 商品改价
	require.NoError(t, db.Model(&model.Product{}).Where("id = ?", p.ID).Update("price", 30000).Error)

	// 已有订单的快照价和总价不受影响
	got, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(25000), got.Items[0].Price)
	assert.Equal(t, int64(50000), got.TotalAmount)
}

func TestCreateOrderUnknownProductPersistsNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, testLogger(), nil)

	p := seedProduct(t, db, "Milk Tea", 25000)

	_, err := svc.Create(context.Background(), &CreateOrderInput{
		CustomerName:    "C",
		CustomerPhone:   "0900000000",
		CustomerAddress: "addr",
		Items: []OrderItemInput{
			{ProductID: p.ID, Quantity: 1},
			{ProductID: 9999, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, ErrNotFound)

	// 整单回滚，一行都不能留
	var orderCount, itemCount int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&model.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
}

func TestCreateOrderValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, testLogger(), nil)
	p := seedProduct(t, db, "Milk Tea", 25000)

	tests := []struct {
		name string
		in   *CreateOrderInput
	}{
		{
			name: "empty items",
			in: &CreateOrderInput{
				CustomerName: "A", CustomerPhone: "1", CustomerAddress: "x",
			},
		},
		{
			name: "missing customer fields",
			in: &CreateOrderInput{
				Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
			},
		},
		{
			name: "unknown payment method",
			in: &CreateOrderInput{
				CustomerName: "A", CustomerPhone: "1", CustomerAddress: "x",
				PaymentMethod: "bitcoin",
				Items:         []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
			},
		},
		{
			name: "non-positive quantity",
			in: &CreateOrderInput{
				CustomerName: "A", CustomerPhone: "1", CustomerAddress: "x",
				Items: []OrderItemInput{{ProductID: p.ID, Quantity: 0}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			assert.True(t, IsValidation(err), "expected validation error, got %v", err)

			var count int64
			require.NoError(t, db.Model(&model.Order{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	events := &fakePublisher{}
	svc := NewOrderService(db, testLogger(), events)
	staff := testStaff()

	p := seedProduct(t, db, "Milk Tea", 25000)
	order, err := svc.Create(context.Background(), &CreateOrderInput{
		CustomerName: "A", CustomerPhone: "1", CustomerAddress: "x",
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// 正常流转
	got, err := svc.UpdateStatus(context.Background(), order.ID, model.OrderConfirmed, staff)
	require.NoError(t, err)
	assert.Equal(t, model.OrderConfirmed, got.Status)
	require.NotNil(t, got.ProcessedByID)
	assert.Equal(t, staff.ID, *got.ProcessedByID)
	assert.Contains(t, events.published(), "order.status_changed")

	// 六个状态之外的值被拒绝，原状态不动
	_, err = svc.UpdateStatus(context.Background(), order.ID, "bogus", staff)
	assert.True(t, IsValidation(err))
	got, err = svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderConfirmed, got.Status)

	// 不限制流转方向: 终态也能改回来
	got, err = svc.UpdateStatus(context.Background(), order.ID, model.OrderCancelled, staff)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, got.Status)
	got, err = svc.UpdateStatus(context.Background(), order.ID, model.OrderPreparing, staff)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPreparing, got.Status)

	// 不存在的订单
	_, err = svc.UpdateStatus(context.Background(), 9999, model.OrderConfirmed, staff)
	assert.ErrorIs(t, err, ErrNotFound)

	// 非员工
	_, err = svc.UpdateStatus(context.Background(), order.ID, model.OrderConfirmed, &model.Staff{IsStaff: false})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.UpdateStatus(context.Background(), order.ID, model.OrderConfirmed, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, testLogger(), nil)

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, testLogger(), nil)
	p := seedProduct(t, db, "Milk Tea", 25000)

	var ids []uint
	for i := 0; i < 3; i++ {
		order, err := svc.Create(context.Background(), &CreateOrderInput{
			CustomerName: "A", CustomerPhone: "1", CustomerAddress: "x",
			Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		ids = append(ids, order.ID)
	}

	// created_at 精度可能不够区分，手动拉开
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range ids {
		require.NoError(t, db.Model(&model.Order{}).Where("id = ?", id).
			Update("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
	}

	orders, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, ids[2], orders[0].ID)
	assert.Equal(t, ids[0], orders[2].ID)
}

func TestOrderStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, testLogger(), nil)
	staff := testStaff()
	p := seedProduct(t, db, "Milk Tea", 25000)

	mk := func() *model.Order {
		order, err := svc.Create(context.Background(), &CreateOrderInput{
			CustomerName: "A", CustomerPhone: "1", CustomerAddress: "x",
			Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		return order
	}

	mk()
	o2 := mk()
	o3 := mk()
	o4 := mk()

	_, err := svc.UpdateStatus(context.Background(), o2.ID, model.OrderConfirmed, staff)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), o3.ID, model.OrderDelivered, staff)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), o4.ID, model.OrderCancelled, staff)
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.ConfirmedOrders)
	assert.Equal(t, int64(1), stats.DeliveredOrders)
}
