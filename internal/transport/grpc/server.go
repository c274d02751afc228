// Реализация gRPC-эндпоинтов архиватора по контракту jraw.archiver.v1.
//
// Маппинг ошибок сервиса в коды gRPC:
//
//	ErrInvalidArgument -> codes.InvalidArgument
//	ErrNotFound        -> codes.NotFound
//	ErrBadPayload      -> codes.DataLoss
//	ErrUnavailable     -> codes.Unavailable
//	прочее             -> codes.Internal
package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dukestreet/JRAW/internal/models"
	"github.com/dukestreet/JRAW/internal/service"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ArchiverServer — gRPC-сервер архиватора.
type ArchiverServer struct {
	service *service.Archiver
}

var _ ArchiverServiceServer = (*ArchiverServer)(nil)

func NewArchiverServer(svc *service.Archiver) *ArchiverServer {
	return &ArchiverServer{service: svc}
}

// ArchiveThread — архивирует тред поста; value — id поста (t3_ необязателен).
func (s *ArchiverServer) ArchiveThread(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	const op = "transport/grpc/archiver/ArchiveThread"

	id := strings.TrimSpace(req.GetValue())
	if id == "" {
		return nil, status.Errorf(codes.InvalidArgument, "%s: empty submission id", op)
	}

	res, err := s.service.ArchiveThread(ctx, id)
	if err != nil {
		return nil, toStatus(op, err)
	}

	return structOf(op, resultFields(res))
}

// ThreadComments — узлы треда из архива в порядке обхода.
func (s *ArchiverServer) ThreadComments(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	const op = "transport/grpc/archiver/ThreadComments"

	id := strings.TrimSpace(req.GetValue())
	if id == "" {
		return nil, status.Errorf(codes.InvalidArgument, "%s: empty link id", op)
	}

	nodes, err := s.service.ThreadComments(ctx, id)
	if err != nil {
		return nil, toStatus(op, err)
	}

	items := make([]any, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, nodeFields(n))
	}

	linkID := id
	if len(nodes) > 0 {
		linkID = nodes[0].LinkID
	}

	return structOf(op, map[string]any{"link_id": linkID, "nodes": items})
}

// RestoreThread — восстанавливает тред из снимка; ожидает поля link_id и run_id.
func (s *ArchiverServer) RestoreThread(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "transport/grpc/archiver/RestoreThread"

	fields := req.GetFields()
	linkID := strings.TrimSpace(fields["link_id"].GetStringValue())
	if linkID == "" {
		return nil, status.Errorf(codes.InvalidArgument, "%s: empty link_id", op)
	}

	runID, err := uuid.Parse(strings.TrimSpace(fields["run_id"].GetStringValue()))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%s: invalid run_id: %v", op, err)
	}

	res, err := s.service.RestoreThread(ctx, linkID, runID)
	if err != nil {
		return nil, toStatus(op, err)
	}

	return structOf(op, resultFields(res))
}

func toStatus(op string, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return status.Errorf(codes.InvalidArgument, "%s: %v", op, err)
	case errors.Is(err, service.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s: %v", op, err)
	case errors.Is(err, service.ErrBadPayload):
		return status.Errorf(codes.DataLoss, "%s: %v", op, err)
	case errors.Is(err, service.ErrUnavailable):
		return status.Errorf(codes.Unavailable, "%s: %v", op, err)
	default:
		return status.Errorf(codes.Internal, "internal server error")
	}
}

func structOf(op string, m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "%s: encode response: %v", op, err)
	}

	return out, nil
}

func resultFields(r *models.ArchiveResult) map[string]any {
	return map[string]any{
		"run_id":       r.RunID.String(),
		"link_id":      r.LinkID,
		"comments":     r.Comments,
		"placeholders": r.Placeholders,
		"snapshot_key": r.SnapshotKey,
		"archived_at":  r.ArchivedAt.UTC().Format(time.RFC3339),
	}
}

// nodeFields — узел архива в виде, пригодном для structpb (списки только []any).
func nodeFields(n models.ThreadNode) map[string]any {
	m := map[string]any{
		"id":          n.ID,
		"kind":        n.Kind,
		"parent_id":   n.ParentID,
		"depth":       n.Depth,
		"position":    n.Position,
		"run_id":      n.RunID.String(),
		"archived_at": n.ArchivedAt.UTC().Format(time.RFC3339),
	}

	if n.Kind == models.NodeMore {
		children := make([]any, 0, len(n.MoreChildren))
		for _, id := range n.MoreChildren {
			children = append(children, id)
		}
		m["children"] = children
		m["count"] = n.MoreCount

		return m
	}

	m["author"] = n.Author
	m["body"] = n.Body
	m["score"] = n.Score
	m["created_at"] = n.CreatedAt.UTC().Format(time.RFC3339)
	if n.Distinguished != "" {
		m["distinguished"] = n.Distinguished
	}
	if n.EditedAt != nil {
		m["edited_at"] = n.EditedAt.UTC().Format(time.RFC3339)
	}

	return m
}
