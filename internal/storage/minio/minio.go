// Package minio реализует storage.SnapshotStorage на MinIO/S3: сырые ответы
// API хранятся как объекты snapshots/<link_id>/<run_id>.json.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/dukestreet/JRAW/internal/config"
	"github.com/dukestreet/JRAW/internal/storage"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const contentType = "application/json"

// SnapshotStorage — адаптер MinIO для снимков ответов.
type SnapshotStorage struct {
	bucket string
	client *mclient.Client
}

var _ storage.SnapshotStorage = (*SnapshotStorage)(nil)

// New создаёт клиент MinIO.
// Схема в endpoint определяет Secure (иначе берётся cfg.UseSSL), бакет
// обязан существовать.
func New(ctx context.Context, cfg config.S3Config) (*SnapshotStorage, error) {
	const op = "storage/minio/New"

	endpoint := cfg.Endpoint
	secure := cfg.UseSSL

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" && u.Host != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.RootUser, cfg.RootPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.Bucket)
	}

	return &SnapshotStorage{bucket: cfg.Bucket, client: client}, nil
}

// SnapshotKey строит ключ объекта снимка.
func SnapshotKey(linkID string, runID uuid.UUID) string {
	return path.Join("snapshots", linkID, runID.String()+".json")
}

// PutSnapshot сохраняет тело ответа как JSON-объект.
func (s *SnapshotStorage) PutSnapshot(ctx context.Context, linkID string, runID uuid.UUID, body []byte) (string, error) {
	const op = "storage/minio/PutSnapshot"

	if !validKey(linkID, runID) {
		return "", fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	key := SnapshotKey(linkID, runID)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), mclient.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"link-id": linkID,
			"run-id":  runID.String(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return key, nil
}

// Snapshot читает снимок запуска runID треда linkID.
func (s *SnapshotStorage) Snapshot(ctx context.Context, linkID string, runID uuid.UUID) ([]byte, error) {
	const op = "storage/minio/Snapshot"

	if !validKey(linkID, runID) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, SnapshotKey(linkID, runID), mclient.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return body, nil
}

func validKey(linkID string, runID uuid.UUID) bool {
	return linkID != "" && !strings.ContainsAny(linkID, "/\\") && linkID != ".." && runID != uuid.Nil
}

func mapErr(err error) error {
	resp := mclient.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return storage.ErrNotFound
	}

	return err
}
