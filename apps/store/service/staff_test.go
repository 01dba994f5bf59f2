package service

import (
	"context"
	"testing"

	"go-teashop/apps/store/model"
	"go-teashop/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestStaffLogin(t *testing.T) {
	jwt.SetSecret("test-secret")
	db := newTestDB(t)
	svc := NewStaffService(db, testLogger())

	require.NoError(t, svc.SeedAdmin(context.Background(), "admin", "admin123"))
	// 重复种子不报错也不重复建号
	require.NoError(t, svc.SeedAdmin(context.Background(), "admin", "admin123"))
	var cnt int64
	require.NoError(t, db.Model(&model.StaffUser{}).Count(&cnt).Error)
	assert.Equal(t, int64(1), cnt)

	token, u, err := svc.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, u.IsStaff)

	claims, err := jwt.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.True(t, claims.IsStaff)

	_, _, err = svc.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = svc.Login(context.Background(), "nobody", "admin123")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = svc.Login(context.Background(), "", "")
	assert.True(t, IsValidation(err))
}

func TestStaffLoginRejectsNonStaff(t *testing.T) {
	jwt.SetSecret("test-secret")
	db := newTestDB(t)
	svc := NewStaffService(db, testLogger())

	hashed, err := bcrypt.GenerateFromPassword([]byte("pass123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.StaffUser{
		Username: "customer", Password: string(hashed), IsStaff: false,
	}).Error)

	// 密码对也不行
	_, _, err = svc.Login(context.Background(), "customer", "pass123")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
