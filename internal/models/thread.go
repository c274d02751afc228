// Package models содержит доменные сущности архиватора.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Виды узлов дерева в архиве.
const (
	NodeComment = "t1"
	NodeMore    = "more"
)

// ThreadNode — один узел дерева комментариев в архиве: комментарий или
// заглушка more.
//
// Важно:
//   - ID — fullname комментария или "<fullname родителя>/<id>" заглушки;
//   - пара (LinkID, ID) уникальна;
//   - Position — номер узла в обходе в глубину в порядке сервера, по нему
//     дерево восстанавливается без сортировки по времени;
//   - поля комментария у заглушки пустые, поля заглушки у комментария пустые.
type ThreadNode struct {
	ID       string
	Kind     string
	LinkID   string
	ParentID string
	Depth    int
	Position int

	Author        string
	Body          string
	Score         int
	Distinguished string
	CreatedAt     time.Time
	EditedAt      *time.Time

	MoreChildren []string
	MoreCount    int

	RunID      uuid.UUID
	ArchivedAt time.Time
}

// ArchiveResult — итог одного архивирования треда.
type ArchiveResult struct {
	RunID        uuid.UUID
	LinkID       string
	Comments     int
	Placeholders int
	SnapshotKey  string
	ArchivedAt   time.Time
}
