package references

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/dukestreet/JRAW/pkg/databind"
	"github.com/dukestreet/JRAW/pkg/models"
)

// SubmissionReference — ссылка на пост.
type SubmissionReference struct {
	client Client
	id     string
}

// Submission строит ссылку на пост по id (с префиксом t3_ или без).
func Submission(client Client, id string) (*SubmissionReference, error) {
	id = stripKind(id, models.KindLink)
	if err := checkBinding(client, id); err != nil {
		return nil, err
	}

	return &SubmissionReference{client: client, id: id}, nil
}

// ID возвращает id поста без префикса.
func (r *SubmissionReference) ID() string { return r.id }

// FullName возвращает fullname поста.
func (r *SubmissionReference) FullName() string { return databind.FullName(models.KindLink, r.id) }

// CommentsPath — путь API дерева комментариев поста.
func (r *SubmissionReference) CommentsPath() string { return "/comments/" + url.PathEscape(r.id) }

// Comments загружает дерево комментариев поста.
func (r *SubmissionReference) Comments(ctx context.Context, query url.Values) (databind.Listing[models.NestedIdentifiable], error) {
	tree, _, err := r.CommentsRaw(ctx, query)

	return tree, err
}

// CommentsRaw загружает дерево комментариев и возвращает вместе с ним
// исходное тело ответа.
//
// /comments/{id} отвечает массивом из двух листингов: первый содержит сам
// пост, второй — комментарии верхнего уровня.
func (r *SubmissionReference) CommentsRaw(ctx context.Context, query url.Values) (databind.Listing[models.NestedIdentifiable], []byte, error) {
	const op = "references/submission/CommentsRaw"

	var empty databind.Listing[models.NestedIdentifiable]

	body, err := fetch(ctx, r.client, op, r.CommentsPath(), query)
	if err != nil {
		return empty, nil, err
	}

	tree, err := DecodeComments(body)
	if err != nil {
		return empty, nil, fmt.Errorf("%s: %w", op, err)
	}

	return tree, body, nil
}

// DecodeComments разбирает тело ответа /comments/{id}, например ранее
// сохранённое CommentsRaw.
func DecodeComments(body []byte) (databind.Listing[models.NestedIdentifiable], error) {
	const op = "references/submission/DecodeComments"

	var empty databind.Listing[models.NestedIdentifiable]

	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		return empty, decodeError(op, databind.Malformed(body, err))
	}

	if len(parts) != 2 {
		return empty, decodeError(op, databind.Malformed(body, fmt.Errorf("expected 2 listings, got %d", len(parts))))
	}

	tree, err := models.DecodeCommentTree(parts[1])
	if err != nil {
		return empty, decodeError(op, err)
	}

	return tree, nil
}
