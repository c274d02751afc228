package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dukestreet/JRAW/internal/models"
	"github.com/dukestreet/JRAW/internal/redditapi"
	"github.com/dukestreet/JRAW/internal/storage"
	"github.com/dukestreet/JRAW/pkg/databind"
	"github.com/dukestreet/JRAW/pkg/log"
	pkgmodels "github.com/dukestreet/JRAW/pkg/models"
	"github.com/dukestreet/JRAW/pkg/references"

	"github.com/google/uuid"
)

// ArchiveThread загружает дерево комментариев поста submissionID (id с
// префиксом t3_ или без), сохраняет исходный ответ API снимком и заменяет
// узлы треда в архиве узлами нового запуска.
func (a *Archiver) ArchiveThread(ctx context.Context, submissionID string) (res *models.ArchiveResult, err error) {
	const op = "service/archive/ArchiveThread"

	start := time.Now()
	defer func() { a.metrics.ObserveArchive(err, start) }()

	submissionID = strings.TrimSpace(submissionID)
	lg := log.From(ctx).With("op", op, "submission_id", submissionID)

	if !validThingID(strings.TrimPrefix(submissionID, pkgmodels.KindLink+"_")) {
		lg.Warn("invalid argument: submission id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	ref, err := references.Submission(a.client, submissionID)
	if err != nil {
		lg.Warn("invalid argument: submission reference", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	query := url.Values{"limit": []string{strconv.Itoa(a.commentLimit)}}
	if inv, ok := a.client.(Invalidator); ok {
		if err := inv.Invalidate(ctx, ref.CommentsPath(), query); err != nil {
			lg.Warn("cache_invalidate_failed", slog.String("err", err.Error()))
		}
	}

	tree, body, err := ref.CommentsRaw(ctx, query)
	if err != nil {
		return nil, a.upstreamError(lg, op, err)
	}

	linkID := ref.FullName()
	runID := uuid.New()

	key, err := a.snapshots.PutSnapshot(ctx, linkID, runID, body)
	if err != nil {
		lg.Error("put snapshot failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	res, err = a.store(ctx, linkID, runID, tree)
	if err != nil {
		lg.Error("replace thread failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	res.SnapshotKey = key

	a.metrics.AddNodes(models.NodeComment, res.Comments)
	a.metrics.AddNodes(models.NodeMore, res.Placeholders)

	lg.Info("archive_done",
		slog.String("run_id", runID.String()),
		slog.Int("comments", res.Comments),
		slog.Int("placeholders", res.Placeholders),
		slog.Duration("dur", time.Since(start)),
	)

	return res, nil
}

// RestoreThread заново разбирает снимок запуска runID и заменяет им узлы
// треда. К API не обращается. SnapshotKey в результате пустой.
func (a *Archiver) RestoreThread(ctx context.Context, linkID string, runID uuid.UUID) (*models.ArchiveResult, error) {
	const op = "service/archive/RestoreThread"

	linkID, ok := normalizeLinkID(linkID)
	lg := log.From(ctx).With("op", op, "link_id", linkID, "run_id", runID.String())

	if !ok || runID == uuid.Nil {
		lg.Warn("invalid argument: link id or run id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	body, err := a.snapshots.Snapshot(ctx, linkID, runID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("snapshot not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("read snapshot failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	tree, err := references.DecodeComments(body)
	if err != nil {
		a.metrics.ObserveDecodeError(err)
		lg.Error("decode snapshot failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, ErrBadPayload)
	}

	res, err := a.store(ctx, linkID, runID, tree)
	if err != nil {
		lg.Error("replace thread failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	lg.Info("restore_done", slog.Int("comments", res.Comments), slog.Int("placeholders", res.Placeholders))

	return res, nil
}

// ThreadComments возвращает узлы треда из архива в порядке обхода.
func (a *Archiver) ThreadComments(ctx context.Context, linkID string) ([]models.ThreadNode, error) {
	const op = "service/archive/ThreadComments"

	linkID, ok := normalizeLinkID(linkID)
	lg := log.From(ctx).With("op", op, "link_id", linkID)

	if !ok {
		lg.Warn("invalid argument: link id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	nodes, err := a.threads.ThreadNodes(ctx, linkID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("thread not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case errors.Is(err, storage.ErrInvalidArgument):
			lg.Warn("invalid argument (storage)")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		default:
			lg.Error("thread nodes failed", slog.String("err", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return nodes, nil
}

// store переводит дерево в узлы архива и записывает их.
func (a *Archiver) store(ctx context.Context, linkID string, runID uuid.UUID, tree databind.Listing[pkgmodels.NestedIdentifiable]) (*models.ArchiveResult, error) {
	now := a.now()
	nodes := flatten(tree, linkID, runID, now)

	if err := a.threads.ReplaceThread(ctx, linkID, runID, nodes); err != nil {
		return nil, err
	}

	res := &models.ArchiveResult{RunID: runID, LinkID: linkID, ArchivedAt: now}
	for _, n := range nodes {
		if n.Kind == models.NodeMore {
			res.Placeholders++
		} else {
			res.Comments++
		}
	}

	return res, nil
}

// upstreamError переводит ошибку загрузки треда в ошибку сервиса.
func (a *Archiver) upstreamError(lg *slog.Logger, op string, err error) error {
	var (
		de *databind.DecodeError
		se *redditapi.StatusError
	)

	switch {
	case errors.Is(err, redditapi.ErrNotFound):
		lg.Warn("submission not found")
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.As(err, &de):
		a.metrics.ObserveDecodeError(err)
		lg.Error("decode comments failed", slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, ErrBadPayload)
	case errors.As(err, &se), errors.Is(err, redditapi.ErrBodyTooLarge):
		lg.Error("upstream failed", slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		lg.Warn("fetch interrupted", slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	default:
		lg.Error("fetch comments failed", slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	}
}

// flatten раскладывает дерево в узлы архива в порядке обхода в глубину.
//
// ID узла уникален в пределах треда: у заглушек more локальный id не
// уникален (продолжения ветки все имеют id "_"), поэтому он дополняется
// fullname родителя; совпавший ключ получает суффикс с позицией.
func flatten(tree databind.Listing[pkgmodels.NestedIdentifiable], linkID string, runID uuid.UUID, now time.Time) []models.ThreadNode {
	var nodes []models.ThreadNode
	seen := make(map[string]struct{})

	pkgmodels.Walk(tree, func(n pkgmodels.NestedIdentifiable, depth int) bool {
		node := models.ThreadNode{
			ID:         nodeKey(n),
			LinkID:     linkID,
			ParentID:   n.ParentFullName(),
			Depth:      depth,
			Position:   len(nodes),
			RunID:      runID,
			ArchivedAt: now,
		}

		switch v := n.(type) {
		case *pkgmodels.Comment:
			node.Kind = models.NodeComment
			node.Author = v.Author()
			node.Body = v.Body()
			node.Score = v.Score()
			node.CreatedAt = v.Created()
			if d := v.Distinguished(); d != pkgmodels.DistinguishedNone {
				node.Distinguished = d.String()
			}
			if edited, ok := v.Edited(); ok {
				node.EditedAt = &edited
			}
		case *pkgmodels.MoreChildren:
			node.Kind = models.NodeMore
			node.MoreChildren = v.ChildrenIDs()
			node.MoreCount = v.Count()
		default:
			node.Kind = n.Kind()
		}

		if _, dup := seen[node.ID]; dup {
			node.ID += "#" + strconv.Itoa(node.Position)
		}
		seen[node.ID] = struct{}{}

		nodes = append(nodes, node)

		return true
	})

	return nodes
}

// nodeKey — ключ узла в архиве: fullname комментария или родитель/id заглушки.
func nodeKey(n pkgmodels.NestedIdentifiable) string {
	if _, ok := n.(*pkgmodels.MoreChildren); ok {
		return n.ParentFullName() + "/" + n.UniqueID()
	}

	return n.UniqueID()
}

// normalizeLinkID добавляет префикс t3_ и проверяет id.
func normalizeLinkID(linkID string) (string, bool) {
	id := strings.TrimPrefix(strings.TrimSpace(linkID), pkgmodels.KindLink+"_")

	return databind.FullName(pkgmodels.KindLink, id), validThingID(id)
}

// validThingID — id в base36, как их выдаёт API.
func validThingID(id string) bool {
	if id == "" || len(id) > 16 {
		return false
	}

	for _, r := range id {
		if (r < '0' || r > '9') && (r < 'a' || r > 'z') {
			return false
		}
	}

	return true
}
