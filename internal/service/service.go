// service содержит бизнес-логику архиватора тредов.
package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/dukestreet/JRAW/internal/metrics"
	"github.com/dukestreet/JRAW/internal/storage"
	"github.com/dukestreet/JRAW/pkg/references"
)

var (
	// ErrNotFound — тред отсутствует в API или в архиве.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument — неверные входные параметры запроса к сервису.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrBadPayload — ответ API или сохранённый снимок не удалось разобрать.
	ErrBadPayload = errors.New("bad payload")
	// ErrUnavailable — API недоступен или ответил ошибкой.
	ErrUnavailable = errors.New("upstream unavailable")
	// ErrInternal — внутренняя ошибка (стораж/контекст/и т.д.).
	ErrInternal = errors.New("internal")
)

// Invalidator — клиент API с кэшем ответов. Архивирование сбрасывает
// закэшированное дерево, чтобы снимок отражал текущее состояние треда.
type Invalidator interface {
	Invalidate(ctx context.Context, path string, query url.Values) error
}

// DefaultCommentLimit — сколько комментариев запрашивать у API за один раз.
const DefaultCommentLimit = 500

// Archiver — архивирует деревья комментариев: снимок ответа API кладётся в
// объектное хранилище, плоское дерево узлов — в БД.
type Archiver struct {
	client    references.Client
	threads   storage.ThreadStorage
	snapshots storage.SnapshotStorage
	metrics   *metrics.Metrics

	commentLimit int
	now          func() time.Time
}

// Option настраивает Archiver.
type Option func(*Archiver)

// WithMetrics подключает метрики архивирования.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Archiver) { a.metrics = m }
}

// WithCommentLimit задаёт limit запроса комментариев; n <= 0 игнорируется.
func WithCommentLimit(n int) Option {
	return func(a *Archiver) {
		if n > 0 {
			a.commentLimit = n
		}
	}
}

// New создает новый экземпляр Archiver.
func New(client references.Client, threads storage.ThreadStorage, snapshots storage.SnapshotStorage, opts ...Option) *Archiver {
	a := &Archiver{
		client:       client,
		threads:      threads,
		snapshots:    snapshots,
		commentLimit: DefaultCommentLimit,
		now:          func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}
