package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/dukestreet/JRAW/internal/models"
	"github.com/dukestreet/JRAW/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// nodeDoc — документ узла в коллекции thread_nodes.
type nodeDoc struct {
	LinkID   string `bson:"link_id"`
	NodeID   string `bson:"node_id"`
	Kind     string `bson:"kind"`
	ParentID string `bson:"parent_id"`
	Depth    int    `bson:"depth"`
	Position int    `bson:"position"`

	Author        string     `bson:"author,omitempty"`
	Body          string     `bson:"body,omitempty"`
	Score         int        `bson:"score"`
	Distinguished string     `bson:"distinguished,omitempty"`
	CreatedAt     time.Time  `bson:"created_at,omitempty"`
	EditedAt      *time.Time `bson:"edited_at,omitempty"`

	MoreChildren []string `bson:"more_children,omitempty"`
	MoreCount    int      `bson:"more_count,omitempty"`

	RunID      string    `bson:"run_id"`
	ArchivedAt time.Time `bson:"archived_at"`
}

// MongoDB DateTime хранит миллисекунды.
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

func toDoc(n models.ThreadNode) nodeDoc {
	d := nodeDoc{
		LinkID:        n.LinkID,
		NodeID:        n.ID,
		Kind:          n.Kind,
		ParentID:      n.ParentID,
		Depth:         n.Depth,
		Position:      n.Position,
		Author:        n.Author,
		Body:          n.Body,
		Score:         n.Score,
		Distinguished: n.Distinguished,
		MoreChildren:  n.MoreChildren,
		MoreCount:     n.MoreCount,
		RunID:         n.RunID.String(),
		ArchivedAt:    toMS(n.ArchivedAt),
	}

	if !n.CreatedAt.IsZero() {
		d.CreatedAt = toMS(n.CreatedAt)
	}

	if n.EditedAt != nil {
		e := toMS(*n.EditedAt)
		d.EditedAt = &e
	}

	return d
}

func fromDoc(d nodeDoc) (models.ThreadNode, error) {
	runID, err := uuid.Parse(d.RunID)
	if err != nil {
		return models.ThreadNode{}, fmt.Errorf("node %s/%s: run_id: %w", d.LinkID, d.NodeID, err)
	}

	n := models.ThreadNode{
		ID:            d.NodeID,
		Kind:          d.Kind,
		LinkID:        d.LinkID,
		ParentID:      d.ParentID,
		Depth:         d.Depth,
		Position:      d.Position,
		Author:        d.Author,
		Body:          d.Body,
		Score:         d.Score,
		Distinguished: d.Distinguished,
		MoreChildren:  d.MoreChildren,
		MoreCount:     d.MoreCount,
		RunID:         runID,
		ArchivedAt:    d.ArchivedAt.UTC(),
	}

	if !d.CreatedAt.IsZero() {
		n.CreatedAt = d.CreatedAt.UTC()
	}

	if d.EditedAt != nil {
		e := d.EditedAt.UTC()
		n.EditedAt = &e
	}

	return n, nil
}

// ReplaceThread записывает узлы одним unordered BulkWrite (upsert по
// link_id + node_id), затем удаляет узлы треда, оставшиеся от прошлых запусков.
func (m *Mongo) ReplaceThread(ctx context.Context, linkID string, runID uuid.UUID, nodes []models.ThreadNode) error {
	const op = "storage/mongo/ReplaceThread"

	if linkID == "" || runID == uuid.Nil {
		return fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	writes := make([]mongodriver.WriteModel, 0, len(nodes))
	for _, n := range nodes {
		if n.LinkID != linkID || n.RunID != runID || n.ID == "" {
			return fmt.Errorf("%s: node %q: %w", op, n.ID, storage.ErrInvalidArgument)
		}

		writes = append(writes, mongodriver.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "link_id", Value: linkID}, {Key: "node_id", Value: n.ID}}).
			SetReplacement(toDoc(n)).
			SetUpsert(true))
	}

	if len(writes) > 0 {
		if _, err := m.nodes.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
			return fmt.Errorf("%s: bulk write: %w", op, err)
		}
	}

	_, err := m.nodes.DeleteMany(ctx, bson.D{
		{Key: "link_id", Value: linkID},
		{Key: "run_id", Value: bson.D{{Key: "$ne", Value: runID.String()}}},
	})
	if err != nil {
		return fmt.Errorf("%s: delete stale: %w", op, err)
	}

	return nil
}

// ThreadNodes возвращает узлы треда в порядке обхода.
func (m *Mongo) ThreadNodes(ctx context.Context, linkID string) ([]models.ThreadNode, error) {
	const op = "storage/mongo/ThreadNodes"

	if linkID == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	cur, err := m.nodes.Find(ctx,
		bson.D{{Key: "link_id", Value: linkID}},
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var out []models.ThreadNode
	for cur.Next(ctx) {
		var d nodeDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		n, err := fromDoc(d)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		out = append(out, n)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %s: %w", op, linkID, storage.ErrNotFound)
	}

	return out, nil
}
