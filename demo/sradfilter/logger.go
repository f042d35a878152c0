// logger.go provides logging utilities for the SRAD filter demo.

package main

import (
	"context"

	"github.com/facebookincubator/go-belt/pkg/runtime"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/xaionaro-go/imagepipeline/logger"
	"github.com/xaionaro-go/observability"
)

func withLogger(ctx context.Context, loggerLevel logger.Level) context.Context {
	runtime.DefaultCallerPCFilter = observability.CallerPCFilter(runtime.DefaultCallerPCFilter)
	l := logrus.Default().WithLevel(loggerLevel)
	ctx = logger.CtxWithLogger(ctx, l)
	logger.SetDefault(func() logger.Logger {
		return l
	})
	return ctx
}
