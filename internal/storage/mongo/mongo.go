// Package mongo реализует storage.ThreadStorage на MongoDB.
package mongo

import (
	"context"
	"fmt"

	"github.com/dukestreet/JRAW/internal/config"
	"github.com/dukestreet/JRAW/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	nodesCollection = "thread_nodes"
	defaultDBName   = "jraw"
)

// Mongo — тонкий адаптер для подключения и коллекций MongoDB.
type Mongo struct {
	client *mongodriver.Client
	db     *mongodriver.Database
	nodes  *mongodriver.Collection
}

var _ storage.ThreadStorage = (*Mongo)(nil)

// New подключается к MongoDB, проверяет соединение и создаёт индексы.
func New(ctx context.Context, cfg config.DBConfig) (*Mongo, error) {
	const op = "storage/mongo/New"

	if cfg.URL == "" {
		return nil, fmt.Errorf("%s: empty db url", op)
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("%s: connect: %w", op, err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	name := cfg.Database
	if name == "" {
		name = defaultDBName
	}

	db := cli.Database(name)

	m := &Mongo{
		client: cli,
		db:     db,
		nodes:  db.Collection(nodesCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return m, nil
}

// Close отключает клиента.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes создаёт индексы коллекции узлов:
//   - уникальность узла внутри треда: link_id + node_id;
//   - чтение треда в порядке обхода: link_id + position;
//   - чистка узлов прошлых запусков: link_id + run_id.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	models := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "link_id", Value: 1}, {Key: "node_id", Value: 1}},
			Options: options.Index().SetName("link_node_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "link_id", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index().SetName("link_position"),
		},
		{
			Keys:    bson.D{{Key: "link_id", Value: 1}, {Key: "run_id", Value: 1}},
			Options: options.Index().SetName("link_run"),
		},
	}

	if _, err := m.nodes.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	return nil
}
