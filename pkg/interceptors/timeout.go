// Package interceptors — серверные gRPC-интерсепторы архиватора.
package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// WithTimeout возвращает unary-интерсептор, который навешивает таймаут на
// контекст запроса, если у него нет своего дедлайна.
//
// Таймаут берётся из perMethod по FullMethod, иначе используется def.
// Таймаут <= 0 означает «без таймаута». Существующий дедлайн клиента не
// переопределяется.
func WithTimeout(def time.Duration, perMethod map[string]time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		d := def
		if v, ok := perMethod[info.FullMethod]; ok {
			d = v
		}

		if d <= 0 {
			return handler(ctx, req)
		}

		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}

		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		return handler(ctx, req)
	}
}
