package references

import (
	"context"
	"net/url"

	"github.com/dukestreet/JRAW/pkg/databind"
	"github.com/dukestreet/JRAW/pkg/models"
)

// LiveThreadReference — ссылка на live-тред.
type LiveThreadReference struct {
	client Client
	id     string
}

// LiveThread привязывает разобранный live-тред к клиенту.
func LiveThread(t *models.LiveThread, client Client) (*LiveThreadReference, error) {
	if t == nil {
		return nil, ErrEmptyIdentity
	}

	return LiveThreadByID(client, t.ID())
}

// LiveThreadByID строит ссылку по id live-треда.
func LiveThreadByID(client Client, id string) (*LiveThreadReference, error) {
	if err := checkBinding(client, id); err != nil {
		return nil, err
	}

	return &LiveThreadReference{client: client, id: id}, nil
}

// ID возвращает id live-треда.
func (r *LiveThreadReference) ID() string { return r.id }

// About запрашивает описание live-треда.
func (r *LiveThreadReference) About(ctx context.Context) (*models.LiveThread, error) {
	const op = "references/live/About"

	body, err := fetch(ctx, r.client, op, "/live/"+url.PathEscape(r.id)+"/about", nil)
	if err != nil {
		return nil, err
	}

	t, err := models.Decode[*models.LiveThread](body)
	if err != nil {
		return nil, decodeError(op, err)
	}

	return t, nil
}

// Updates запрашивает одну страницу обновлений live-треда. query передаётся
// как есть (limit, after, before).
func (r *LiveThreadReference) Updates(ctx context.Context, query url.Values) (databind.Listing[*models.LiveUpdate], error) {
	const op = "references/live/Updates"

	body, err := fetch(ctx, r.client, op, "/live/"+url.PathEscape(r.id), query)
	if err != nil {
		return databind.Listing[*models.LiveUpdate]{}, err
	}

	l, err := models.DecodeListing[*models.LiveUpdate](body, databind.CapFullName)
	if err != nil {
		return databind.Listing[*models.LiveUpdate]{}, decodeError(op, err)
	}

	return l, nil
}
