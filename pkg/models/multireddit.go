package models

import (
	"errors"
	"strings"
	"time"

	"github.com/dukestreet/JRAW/pkg/databind"
)

// ErrInvalidMultiPath — путь мультиреддита не вида /user/{user}/m/{name}.
var ErrInvalidMultiPath = errors.New("invalid multireddit path")

type subredditElement struct {
	name string
}

var subredditElementMapping = databind.NewMapping("SubredditElement",
	databind.Required("name", databind.String, func(s *subredditElement) *string { return &s.name }),
)

// Multireddit — мультиреддит (kind LabeledMulti). Идентифицируется путём.
type Multireddit struct {
	editable        bool
	copiedFrom      *string
	created         time.Time
	codeName        *string
	description     string
	displayName     string
	iconName        *string
	keyColor        *string
	iconURL         *string
	path            string
	subreddits      []subredditElement
	visibility      MultiredditVisibility
	weightingScheme *string
	favorited       *bool
}

var multiMapping = databind.NewMapping("Multireddit",
	databind.Optional("can_edit", databind.Bool, func(m *Multireddit) *bool { return &m.editable }),
	databind.Optional("copied_from", databind.Nullable(databind.String), func(m *Multireddit) **string { return &m.copiedFrom }),
	databind.Required("created_utc", databind.UnixTime, func(m *Multireddit) *time.Time { return &m.created }),
	databind.Optional("name", databind.Nullable(databind.String), func(m *Multireddit) **string { return &m.codeName }),
	databind.Optional("description_md", databind.String, func(m *Multireddit) *string { return &m.description }),
	databind.Required("display_name", databind.String, func(m *Multireddit) *string { return &m.displayName }),
	databind.Optional("icon_name", databind.Nullable(databind.String), func(m *Multireddit) **string { return &m.iconName }),
	databind.Optional("key_color", databind.Nullable(databind.String), func(m *Multireddit) **string { return &m.keyColor }),
	databind.Optional("icon_url", databind.Nullable(databind.String), func(m *Multireddit) **string { return &m.iconURL }),
	databind.Required("path", databind.String, func(m *Multireddit) *string { return &m.path }),
	databind.Required("subreddits", databind.SliceOf(subredditElementMapping.Codec()), func(m *Multireddit) *[]subredditElement { return &m.subreddits }),
	databind.Required("visibility", visibilityCodec, func(m *Multireddit) *MultiredditVisibility { return &m.visibility }),
	databind.Optional("weighting_scheme", databind.Nullable(databind.String), func(m *Multireddit) **string { return &m.weightingScheme }),
	databind.Optional("user_has_favorited", databind.Nullable(databind.Bool), func(m *Multireddit) **bool { return &m.favorited }),
)

func (m *Multireddit) Kind() string { return KindMulti }

// UniqueID — путь мультиреддита, fullname у него нет.
func (m *Multireddit) UniqueID() string { return m.path }

func (m *Multireddit) Capabilities() databind.Capability {
	return databind.CapCreated | databind.CapReferenceable
}

func (m *Multireddit) IsEditable() bool                  { return m.editable }
func (m *Multireddit) Created() time.Time                { return m.created }
func (m *Multireddit) Description() string               { return m.description }
func (m *Multireddit) DisplayName() string               { return m.displayName }
func (m *Multireddit) Path() string                      { return m.path }
func (m *Multireddit) Visibility() MultiredditVisibility { return m.visibility }
func (m *Multireddit) CopiedFrom() (string, bool)        { return derefString(m.copiedFrom) }
func (m *Multireddit) CodeName() (string, bool)          { return derefString(m.codeName) }
func (m *Multireddit) IconName() (string, bool)          { return derefString(m.iconName) }
func (m *Multireddit) KeyColor() (string, bool)          { return derefString(m.keyColor) }
func (m *Multireddit) IconURL() (string, bool)           { return derefString(m.iconURL) }
func (m *Multireddit) WeightingScheme() (string, bool)   { return derefString(m.weightingScheme) }

// HasUserFavorited — ok=false, если запрос был анонимным.
func (m *Multireddit) HasUserFavorited() (favorited, ok bool) {
	if m.favorited == nil {
		return false, false
	}

	return *m.favorited, true
}

// Subreddits возвращает имена сабреддитов в порядке сервера.
func (m *Multireddit) Subreddits() []string {
	out := make([]string, 0, len(m.subreddits))
	for _, s := range m.subreddits {
		out = append(out, s.name)
	}

	return out
}

// Owner разбирает путь /user/{user}/m/{name} на владельца и имя.
func (m *Multireddit) Owner() (user, name string, err error) {
	return ParseMultiPath(m.path)
}

// ParseMultiPath разбирает путь мультиреддита вида /user/{user}/m/{name}.
func ParseMultiPath(path string) (user, name string, err error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 || parts[0] != "user" || parts[2] != "m" || parts[1] == "" || parts[3] == "" {
		return "", "", ErrInvalidMultiPath
	}

	return parts[1], parts[3], nil
}
