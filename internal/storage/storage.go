// Package storage описывает хранилища архиватора.
package storage

import (
	"context"
	"errors"

	"github.com/dukestreet/JRAW/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument — некорректные входные данные для хранилища.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ThreadStorage хранит узлы деревьев комментариев.
//
//go:generate mockgen -source=storage.go -destination=../../mocks/storage.go -package=mocks
type ThreadStorage interface {
	// ReplaceThread заменяет дерево треда linkID:
	// upsert всех nodes с runID, затем удаление узлов прошлых запусков.
	// Пустой linkID или узел с другим LinkID — ErrInvalidArgument.
	ReplaceThread(ctx context.Context, linkID string, runID uuid.UUID, nodes []models.ThreadNode) error

	// ThreadNodes возвращает узлы треда в порядке Position.
	// Если тред не архивировался — ErrNotFound.
	ThreadNodes(ctx context.Context, linkID string) ([]models.ThreadNode, error)

	// Close закрывает соединения хранилища.
	Close(ctx context.Context) error
}

// SnapshotStorage хранит сырые ответы API, из которых было построено дерево.
type SnapshotStorage interface {
	// PutSnapshot сохраняет body и возвращает ключ объекта.
	PutSnapshot(ctx context.Context, linkID string, runID uuid.UUID, body []byte) (string, error)

	// Snapshot возвращает ответ, сохранённый запуском runID для треда linkID.
	// Если снимка нет — ErrNotFound.
	Snapshot(ctx context.Context, linkID string, runID uuid.UUID) ([]byte, error)
}
