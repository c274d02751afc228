package references

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dukestreet/JRAW/pkg/databind"
	"github.com/dukestreet/JRAW/pkg/models"
)

// UserReference — ссылка на пользователя по имени. Ссылка на текущего
// пользователя (Me) имени не несёт и ходит в эндпоинты /api/v1/me.
type UserReference struct {
	client Client
	name   string
	self   bool
}

// Account привязывает разобранный аккаунт к клиенту.
func Account(a *models.Account, client Client) (*UserReference, error) {
	if a == nil {
		return nil, ErrEmptyIdentity
	}

	return User(client, a.Name())
}

// User строит ссылку на пользователя по имени.
func User(client Client, name string) (*UserReference, error) {
	if err := checkBinding(client, name); err != nil {
		return nil, err
	}

	return &UserReference{client: client, name: name}, nil
}

// Me строит ссылку на пользователя, от имени которого работает клиент.
func Me(client Client) (*UserReference, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	return &UserReference{client: client, self: true}, nil
}

// Name возвращает имя пользователя. Для Me имя пустое.
func (r *UserReference) Name() string { return r.name }

// IsSelf сообщает, указывает ли ссылка на текущего пользователя.
func (r *UserReference) IsSelf() bool { return r.self }

// About запрашивает аккаунт пользователя.
func (r *UserReference) About(ctx context.Context) (*models.Account, error) {
	const op = "references/user/About"

	path := "/api/v1/me"
	if !r.self {
		path = "/user/" + url.PathEscape(r.name) + "/about"
	}

	body, err := fetch(ctx, r.client, op, path, nil)
	if err != nil {
		return nil, err
	}

	if r.self {
		// /api/v1/me отдаёт data аккаунта без конверта.
		body, err = databind.EncodeEnvelope(models.KindAccount, body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	a, err := models.Decode[*models.Account](body)
	if err != nil {
		return nil, decodeError(op, err)
	}

	return a, nil
}

// Trophies запрашивает трофеи пользователя.
func (r *UserReference) Trophies(ctx context.Context) ([]*models.Trophy, error) {
	const op = "references/user/Trophies"

	path := "/api/v1/me/trophies"
	if !r.self {
		path = "/api/v1/user/" + url.PathEscape(r.name) + "/trophies"
	}

	body, err := fetch(ctx, r.client, op, path, nil)
	if err != nil {
		return nil, err
	}

	l, err := models.Decode[*models.TrophyList](body)
	if err != nil {
		return nil, decodeError(op, err)
	}

	return l.Trophies(), nil
}

// Karma запрашивает разбивку кармы по сабреддитам. Доступно только для Me.
func (r *UserReference) Karma(ctx context.Context) ([]models.KarmaBySubreddit, error) {
	const op = "references/user/Karma"

	if !r.self {
		return nil, fmt.Errorf("%s: %w", op, ErrNotSelf)
	}

	body, err := fetch(ctx, r.client, op, "/api/v1/me/karma", nil)
	if err != nil {
		return nil, err
	}

	l, err := models.Decode[*models.KarmaList](body)
	if err != nil {
		return nil, decodeError(op, err)
	}

	return l.Items(), nil
}

// Multi строит ссылку на мультиреддит этого пользователя. У Me имени нет,
// поэтому для него возвращается ErrEmptyIdentity.
func (r *UserReference) Multi(name string) (*MultiredditReference, error) {
	return MultiredditByName(r.client, r.name, name)
}
