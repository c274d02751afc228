package models

import (
	"time"

	"github.com/dukestreet/JRAW/pkg/databind"
)

// LiveThread — live-тред (kind LiveUpdateEvent).
type LiveThread struct {
	id                string
	fullName          string
	created           time.Time
	title             string
	description       string
	resources         string
	state             string
	nsfw              bool
	viewerCount       *int
	viewerCountFuzzed *bool
	websocketURL      *string
}

var liveThreadMapping = databind.NewMapping("LiveThread",
	databind.Required("id", databind.String, func(l *LiveThread) *string { return &l.id }),
	databind.Required("name", databind.String, func(l *LiveThread) *string { return &l.fullName }),
	databind.Required("created_utc", databind.UnixTime, func(l *LiveThread) *time.Time { return &l.created }),
	databind.Required("title", databind.String, func(l *LiveThread) *string { return &l.title }),
	databind.Optional("description", databind.String, func(l *LiveThread) *string { return &l.description }),
	databind.Optional("resources", databind.String, func(l *LiveThread) *string { return &l.resources }),
	databind.Required("state", databind.String, func(l *LiveThread) *string { return &l.state }),
	databind.Optional("nsfw", databind.Bool, func(l *LiveThread) *bool { return &l.nsfw }),
	databind.Optional("viewer_count", databind.Nullable(databind.NonNegativeInt), func(l *LiveThread) **int { return &l.viewerCount }),
	databind.Optional("viewer_count_fuzzed", databind.Nullable(databind.Bool), func(l *LiveThread) **bool { return &l.viewerCountFuzzed }),
	databind.Optional("websocket_url", databind.Nullable(databind.String), func(l *LiveThread) **string { return &l.websocketURL }),
)

func (l *LiveThread) Kind() string     { return KindLiveThread }
func (l *LiveThread) ID() string       { return l.id }
func (l *LiveThread) FullName() string { return l.fullName }
func (l *LiveThread) UniqueID() string { return l.fullName }

func (l *LiveThread) Capabilities() databind.Capability {
	return databind.CapFullName | databind.CapCreated | databind.CapReferenceable
}

func (l *LiveThread) Created() time.Time  { return l.created }
func (l *LiveThread) Title() string       { return l.title }
func (l *LiveThread) Description() string { return l.description }
func (l *LiveThread) Resources() string   { return l.resources }
func (l *LiveThread) State() string       { return l.state }
func (l *LiveThread) IsNSFW() bool        { return l.nsfw }

// ViewerCount — число зрителей; ok=false, если API его скрывает.
func (l *LiveThread) ViewerCount() (int, bool) {
	if l.viewerCount == nil {
		return 0, false
	}

	return *l.viewerCount, true
}

// IsViewerCountFuzzed сообщает, что число зрителей приблизительное.
func (l *LiveThread) IsViewerCountFuzzed() bool {
	return l.viewerCountFuzzed != nil && *l.viewerCountFuzzed
}

// WebsocketURL возвращает адрес потока обновлений, если тред ещё идёт.
func (l *LiveThread) WebsocketURL() (string, bool) { return derefString(l.websocketURL) }

// Embed — встроенный в обновление ресурс.
type Embed struct {
	URL    string
	Width  *int
	Height *int
}

var embedMapping = databind.NewMapping("Embed",
	databind.Required("url", databind.String, func(e *Embed) *string { return &e.URL }),
	databind.Optional("width", databind.Nullable(databind.Int), func(e *Embed) **int { return &e.Width }),
	databind.Optional("height", databind.Nullable(databind.Int), func(e *Embed) **int { return &e.Height }),
)

// LiveUpdate — одно обновление live-треда (kind LiveUpdate).
type LiveUpdate struct {
	id       string
	fullName string
	author   string
	body     string
	created  time.Time
	embeds   []Embed
	stricken bool
}

var liveUpdateMapping = databind.NewMapping("LiveUpdate",
	databind.Required("id", databind.String, func(u *LiveUpdate) *string { return &u.id }),
	databind.Required("name", databind.String, func(u *LiveUpdate) *string { return &u.fullName }),
	databind.Optional("author", databind.String, func(u *LiveUpdate) *string { return &u.author }),
	databind.Required("body", databind.String, func(u *LiveUpdate) *string { return &u.body }),
	databind.Required("created_utc", databind.UnixTime, func(u *LiveUpdate) *time.Time { return &u.created }),
	databind.Optional("embeds", databind.SliceOf(embedMapping.Codec()), func(u *LiveUpdate) *[]Embed { return &u.embeds }),
	databind.Optional("stricken", databind.Bool, func(u *LiveUpdate) *bool { return &u.stricken }),
)

func (u *LiveUpdate) Kind() string     { return KindLiveUpdate }
func (u *LiveUpdate) ID() string       { return u.id }
func (u *LiveUpdate) FullName() string { return u.fullName }
func (u *LiveUpdate) UniqueID() string { return u.fullName }

func (u *LiveUpdate) Capabilities() databind.Capability {
	return databind.CapFullName | databind.CapCreated
}

func (u *LiveUpdate) Author() string     { return u.author }
func (u *LiveUpdate) Body() string       { return u.body }
func (u *LiveUpdate) Created() time.Time { return u.created }
func (u *LiveUpdate) IsStricken() bool   { return u.stricken }

// Embeds возвращает копию встроенных ресурсов.
func (u *LiveUpdate) Embeds() []Embed {
	if u.embeds == nil {
		return nil
	}

	out := make([]Embed, 0, len(u.embeds))
	for _, e := range u.embeds {
		out = append(out, Embed{URL: e.URL, Width: clonePtr(e.Width), Height: clonePtr(e.Height)})
	}

	return out
}
