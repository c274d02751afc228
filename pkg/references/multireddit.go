package references

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dukestreet/JRAW/pkg/models"
)

// MultiredditReference — ссылка на мультиреддит пользователя.
type MultiredditReference struct {
	client Client
	user   string
	name   string
}

// Multireddit привязывает разобранный мультиреддит к клиенту по его пути.
func Multireddit(m *models.Multireddit, client Client) (*MultiredditReference, error) {
	if m == nil || m.Path() == "" {
		return nil, ErrEmptyIdentity
	}

	user, name, err := m.Owner()
	if err != nil {
		return nil, fmt.Errorf("references/multireddit/Multireddit: %w", err)
	}

	return MultiredditByName(client, user, name)
}

// MultiredditByName строит ссылку по владельцу и имени мультиреддита.
func MultiredditByName(client Client, user, name string) (*MultiredditReference, error) {
	if err := checkBinding(client, user); err != nil {
		return nil, err
	}

	if name == "" {
		return nil, ErrEmptyIdentity
	}

	return &MultiredditReference{client: client, user: user, name: name}, nil
}

// Path возвращает путь мультиреддита вида /user/{user}/m/{name}.
func (r *MultiredditReference) Path() string {
	return "/user/" + r.user + "/m/" + r.name
}

// About запрашивает описание мультиреддита.
func (r *MultiredditReference) About(ctx context.Context) (*models.Multireddit, error) {
	const op = "references/multireddit/About"

	path := "/api/multi/user/" + url.PathEscape(r.user) + "/m/" + url.PathEscape(r.name)

	body, err := fetch(ctx, r.client, op, path, nil)
	if err != nil {
		return nil, err
	}

	m, err := models.Decode[*models.Multireddit](body)
	if err != nil {
		return nil, decodeError(op, err)
	}

	return m, nil
}
