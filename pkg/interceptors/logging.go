package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukestreet/JRAW/pkg/log"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// RequestIDKey — ключ metadata с идентификатором запроса.
const RequestIDKey = "x-request-id"

// UnaryLoggingInterceptor кладёт в контекст логгер с request_id, методом и
// peer и после обработки пишет одну запись grpc_request_finished с кодом и
// длительностью. Ошибки сервера (Internal, Unknown, DataLoss, Unavailable)
// пишутся уровнем Error, остальное — Info.
//
// request_id берётся из metadata x-request-id, иначе генерируется UUID.
func UnaryLoggingInterceptor(base *slog.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = slog.Default()
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		l := base.With(
			slog.String("request_id", requestID(ctx)),
			slog.String("method", info.FullMethod),
			slog.String("peer", peerAddr(ctx)),
		)

		resp, err := handler(log.Into(ctx, l), req)

		code := status.Code(err)
		attrs := []any{
			slog.String("op", "interceptors/UnaryLoggingInterceptor"),
			slog.String("code", code.String()),
			slog.Duration("dur", time.Since(start)),
		}

		if isServerFault(code) {
			l.Error("grpc_request_finished", append(attrs, slog.String("err", err.Error()))...)
		} else {
			l.Info("grpc_request_finished", attrs...)
		}

		return resp, err
	}
}

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(RequestIDKey); len(v) > 0 && v[0] != "" {
			return v[0]
		}
	}

	return uuid.NewString()
}

func peerAddr(ctx context.Context) string {
	if p, ok := peer.FromContext(ctx); ok && p != nil && p.Addr != nil {
		return p.Addr.String()
	}

	return "-"
}

func isServerFault(code codes.Code) bool {
	switch code {
	case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
		return true
	default:
		return false
	}
}
