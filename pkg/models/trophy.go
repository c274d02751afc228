package models

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/dukestreet/JRAW/pkg/databind"
)

// Trophy — награда пользователя (kind t6).
type Trophy struct {
	id          *string
	awardID     *string
	name        string
	description *string
	icon70      string
	icon40      string
	url         *string
	granted     *time.Time
}

var trophyMapping = databind.NewMapping("Trophy",
	databind.Optional("id", databind.Nullable(databind.String), func(t *Trophy) **string { return &t.id }),
	databind.Optional("award_id", databind.Nullable(databind.String), func(t *Trophy) **string { return &t.awardID }),
	databind.Required("name", databind.String, func(t *Trophy) *string { return &t.name }),
	databind.Optional("description", databind.Nullable(databind.String), func(t *Trophy) **string { return &t.description }),
	databind.Optional("icon_70", databind.String, func(t *Trophy) *string { return &t.icon70 }),
	databind.Optional("icon_40", databind.String, func(t *Trophy) *string { return &t.icon40 }),
	databind.Optional("url", databind.Nullable(databind.String), func(t *Trophy) **string { return &t.url }),
	databind.Optional("granted_at", databind.Nullable(databind.UnixTime), func(t *Trophy) **time.Time { return &t.granted }),
)

func (t *Trophy) Kind() string { return KindTrophy }

// UniqueID — id награды, для наград без id — award_id, иначе имя.
func (t *Trophy) UniqueID() string {
	switch {
	case t.id != nil && *t.id != "":
		return *t.id
	case t.awardID != nil && *t.awardID != "":
		return *t.awardID
	default:
		return t.name
	}
}

func (t *Trophy) Capabilities() databind.Capability { return 0 }

func (t *Trophy) Name() string                { return t.name }
func (t *Trophy) Description() (string, bool) { return derefString(t.description) }
func (t *Trophy) Icon70() string              { return t.icon70 }
func (t *Trophy) Icon40() string              { return t.icon40 }
func (t *Trophy) URL() (string, bool)         { return derefString(t.url) }
func (t *Trophy) AwardID() (string, bool)     { return derefString(t.awardID) }

// GrantedAt — время вручения, если API его сообщает.
func (t *Trophy) GrantedAt() (time.Time, bool) {
	if t.granted == nil {
		return time.Time{}, false
	}

	return *t.granted, true
}

// TrophyList — список наград пользователя (kind TrophyList).
// Агрегат без собственной идентичности: UniqueID пуст.
type TrophyList struct {
	trophies []*Trophy
}

func (l *TrophyList) Kind() string                      { return KindTrophyList }
func (l *TrophyList) UniqueID() string                  { return "" }
func (l *TrophyList) Capabilities() databind.Capability { return 0 }

// Trophies возвращает награды в порядке сервера.
func (l *TrophyList) Trophies() []*Trophy { return slices.Clone(l.trophies) }

func trophyListMapping(r *databind.Registry) *databind.Mapping[TrophyList] {
	return databind.NewMapping("TrophyList",
		databind.Required("trophies", databind.SliceOf(databind.Enveloped[*Trophy](r)), func(l *TrophyList) *[]*Trophy { return &l.trophies }),
	)
}

// KarmaBySubreddit — карма пользователя в одном сабреддите.
type KarmaBySubreddit struct {
	Subreddit    string
	CommentKarma int
	LinkKarma    int
}

var karmaMapping = databind.NewMapping("KarmaBySubreddit",
	databind.Optional("sr", databind.String, func(k *KarmaBySubreddit) *string { return &k.Subreddit }),
	databind.Required("comment_karma", databind.Int, func(k *KarmaBySubreddit) *int { return &k.CommentKarma }),
	databind.Required("link_karma", databind.Int, func(k *KarmaBySubreddit) *int { return &k.LinkKarma }),
)

// KarmaList — разбивка кармы по сабреддитам (kind KarmaList). data на проводе —
// массив, а не объект.
type KarmaList struct {
	items []KarmaBySubreddit
}

func (l *KarmaList) Kind() string                      { return KindKarmaList }
func (l *KarmaList) UniqueID() string                  { return "" }
func (l *KarmaList) Capabilities() databind.Capability { return 0 }

// Items возвращает копию разбивки в порядке сервера.
func (l *KarmaList) Items() []KarmaBySubreddit { return slices.Clone(l.items) }

var karmaItemsCodec = databind.SliceOf(karmaMapping.Codec())

func decodeKarmaList(data json.RawMessage) (*KarmaList, error) {
	items, err := karmaItemsCodec.Decode(data)
	if err != nil {
		return nil, err
	}

	return &KarmaList{items: items}, nil
}

func encodeKarmaList(l *KarmaList) (json.RawMessage, error) {
	if l.items == nil {
		return json.RawMessage("[]"), nil
	}

	return karmaItemsCodec.Encode(l.items)
}
