package references

import (
	"context"
	"fmt"

	"github.com/dukestreet/JRAW/pkg/databind"
	"github.com/dukestreet/JRAW/pkg/models"
)

// CommentReference — ссылка на комментарий по его fullname.
type CommentReference struct {
	client   Client
	fullName string
}

// Comment привязывает разобранный комментарий к клиенту.
func Comment(c *models.Comment, client Client) (*CommentReference, error) {
	if c == nil {
		return nil, ErrEmptyIdentity
	}

	return CommentByID(client, c.ID())
}

// CommentByID строит ссылку по id комментария (с префиксом t1_ или без).
func CommentByID(client Client, id string) (*CommentReference, error) {
	id = stripKind(id, models.KindComment)
	if err := checkBinding(client, id); err != nil {
		return nil, err
	}

	return &CommentReference{client: client, fullName: databind.FullName(models.KindComment, id)}, nil
}

// FullName возвращает fullname комментария, на который указывает ссылка.
func (r *CommentReference) FullName() string { return r.fullName }

// Data запрашивает актуальное состояние комментария через /api/info.
func (r *CommentReference) Data(ctx context.Context) (*models.Comment, error) {
	const op = "references/comment/Data"

	body, err := fetch(ctx, r.client, op, "/api/info", fullNameQuery(r.fullName))
	if err != nil {
		return nil, err
	}

	l, err := models.DecodeListing[*models.Comment](body, databind.CapFullName)
	if err != nil {
		return nil, decodeError(op, err)
	}

	c, err := single(l)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, r.fullName, err)
	}

	return c, nil
}
