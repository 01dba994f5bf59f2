package logger

import (
	"go.uber.org/zap"
)

// Init 初始化全局 SugaredLogger
// dev 模式下彩色输出，生产输出 JSON
func Init(dev bool) (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if dev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l.Sugar(), nil
}
