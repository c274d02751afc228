package interceptors

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/dukestreet/JRAW/pkg/log"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Recover перехватывает панику в обработчике, пишет её в лог со стеком и
// отвечает клиенту codes.Internal без подробностей.
//
// Логгер берётся из контекста; если там только slog.Default(), используется base.
func Recover(base *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			l := log.From(ctx)
			if l == slog.Default() && base != nil {
				l = base
			}

			l.Error("grpc_panic_recovered",
				slog.String("op", "interceptors/Recover"),
				slog.String("method", info.FullMethod),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)

			resp, err = nil, status.Error(codes.Internal, "internal server error")
		}()

		return handler(ctx, req)
	}
}
