package service

import (
	"errors"
	"fmt"
)

// 业务错误统一在这里定义，handler 层负责翻译成 HTTP 状态码
var (
	// ErrNotFound 目标实体不存在
	ErrNotFound = errors.New("not found")
	// ErrConflict 操作违反引用约束，比如删除还有商品的分类
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized 调用者不是员工，必须在任何写入发生之前返回
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError 输入不合法，带给前端看的提示
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalidf 构造 ValidationError
func Invalidf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation 判断是否校验错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
