package models

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/dukestreet/JRAW/pkg/databind"
)

// Comment — комментарий (kind t1).
//
// replies — листинг NestedIdentifiable: вложенные комментарии и заглушки more
// в порядке сервера. Дерево собирается без рекурсии, см. tree.go.
type Comment struct {
	id            string
	fullName      string
	author        string
	flairText     *string
	flairRichText []RichTextSpan
	archived      bool
	gildable      bool
	gilded        int
	controversial bool
	created       time.Time
	distinguished DistinguishedStatus
	edited        *time.Time
	body          string
	bodyHTML      string
	parentID      string
	linkID        string
	linkTitle     *string
	linkURL       *string
	saved         bool
	score         int
	stickied      bool
	subreddit     string
	subredditID   string
	subredditType SubredditAccess
	scoreHidden   bool
	locked        bool
	collapsed     bool
	vote          VoteDirection
	permalink     string
	isSubmitter   bool
	mediaMetadata map[string]MediaMetadataItem
	replies       databind.Listing[NestedIdentifiable]

	// repliesRaw живёт только во время декодирования/кодирования дерева.
	repliesRaw json.RawMessage
}

// commentMapping разбирает комментарий «неглубоко»: replies остаётся сырым
// и заполняется отдельным проходом.
var commentMapping = databind.NewMapping("Comment",
	databind.Required("id", databind.String, func(c *Comment) *string { return &c.id }),
	databind.Required("name", databind.String, func(c *Comment) *string { return &c.fullName }),
	databind.Required("author", databind.String, func(c *Comment) *string { return &c.author }),
	databind.Optional("author_flair_text", databind.Nullable(databind.String), func(c *Comment) **string { return &c.flairText }),
	databind.Optional("author_flair_richtext", databind.SliceOf(richTextSpanMapping.Codec()), func(c *Comment) *[]RichTextSpan { return &c.flairRichText }),
	databind.Optional("archived", databind.Bool, func(c *Comment) *bool { return &c.archived }),
	databind.Optional("can_gild", databind.Bool, func(c *Comment) *bool { return &c.gildable }),
	databind.Optional("gilded", databind.NonNegativeInt, func(c *Comment) *int { return &c.gilded }),
	databind.Required("controversiality", controversialityCodec, func(c *Comment) *bool { return &c.controversial }),
	databind.Required("created_utc", databind.UnixTime, func(c *Comment) *time.Time { return &c.created }),
	databind.Optional("distinguished", distinguishedCodec, func(c *Comment) *DistinguishedStatus { return &c.distinguished }),
	databind.Optional("edited", editedCodec, func(c *Comment) **time.Time { return &c.edited }),
	databind.Required("body", databind.String, func(c *Comment) *string { return &c.body }),
	databind.Required("body_html", databind.String, func(c *Comment) *string { return &c.bodyHTML }),
	databind.Optional("replies", databind.Raw, func(c *Comment) *json.RawMessage { return &c.repliesRaw }),
	databind.Required("parent_id", databind.String, func(c *Comment) *string { return &c.parentID }),
	databind.Required("link_id", databind.String, func(c *Comment) *string { return &c.linkID }),
	databind.Optional("link_title", databind.Nullable(databind.String), func(c *Comment) **string { return &c.linkTitle }),
	databind.Optional("link_url", databind.Nullable(databind.String), func(c *Comment) **string { return &c.linkURL }),
	databind.Optional("saved", databind.Bool, func(c *Comment) *bool { return &c.saved }),
	databind.Required("score", databind.Int, func(c *Comment) *int { return &c.score }),
	databind.Optional("stickied", databind.Bool, func(c *Comment) *bool { return &c.stickied }),
	databind.Required("subreddit", databind.String, func(c *Comment) *string { return &c.subreddit }),
	databind.Required("subreddit_id", databind.String, func(c *Comment) *string { return &c.subredditID }),
	databind.Required("subreddit_type", accessCodec, func(c *Comment) *SubredditAccess { return &c.subredditType }),
	databind.Optional("score_hidden", databind.Bool, func(c *Comment) *bool { return &c.scoreHidden }),
	databind.Optional("locked", databind.Bool, func(c *Comment) *bool { return &c.locked }),
	databind.Optional("collapsed", databind.Bool, func(c *Comment) *bool { return &c.collapsed }),
	databind.Optional("likes", voteCodec, func(c *Comment) *VoteDirection { return &c.vote }),
	databind.Required("permalink", databind.String, func(c *Comment) *string { return &c.permalink }),
	databind.Optional("is_submitter", databind.Bool, func(c *Comment) *bool { return &c.isSubmitter }),
	databind.Optional("media_metadata", databind.MapOf(mediaItemMapping.Codec()), func(c *Comment) *map[string]MediaMetadataItem { return &c.mediaMetadata }),
)

func (c *Comment) Kind() string     { return KindComment }
func (c *Comment) ID() string       { return c.id }
func (c *Comment) FullName() string { return c.fullName }

// UniqueID всегда равен fullname.
func (c *Comment) UniqueID() string { return c.fullName }

func (c *Comment) Capabilities() databind.Capability {
	return databind.CapFullName | databind.CapCreated | databind.CapNested | databind.CapVotable |
		databind.CapDistinguishable | databind.CapPublicContribution | databind.CapReferenceable
}

func (c *Comment) ParentFullName() string { return c.parentID }

// Author — имя автора. Для удалённых аккаунтов API подставляет "[deleted]".
func (c *Comment) Author() string { return c.author }

// AuthorFlairText возвращает текст флэра автора, если он есть.
func (c *Comment) AuthorFlairText() (string, bool) { return derefString(c.flairText) }

// AuthorFlairRichText возвращает фрагменты rich-флэра в порядке отображения.
func (c *Comment) AuthorFlairRichText() []RichTextSpan { return slices.Clone(c.flairRichText) }

func (c *Comment) IsArchived() bool                   { return c.archived }
func (c *Comment) IsGildable() bool                   { return c.gildable }
func (c *Comment) Gilded() int                        { return c.gilded }
func (c *Comment) IsControversial() bool              { return c.controversial }
func (c *Comment) Created() time.Time                 { return c.created }
func (c *Comment) Distinguished() DistinguishedStatus { return c.distinguished }
func (c *Comment) Body() string                       { return c.body }
func (c *Comment) BodyHTML() string                   { return c.bodyHTML }
func (c *Comment) SubmissionFullName() string         { return c.linkID }
func (c *Comment) IsSaved() bool                      { return c.saved }
func (c *Comment) Score() int                         { return c.score }
func (c *Comment) IsStickied() bool                   { return c.stickied }
func (c *Comment) Subreddit() string                  { return c.subreddit }
func (c *Comment) SubredditFullName() string          { return c.subredditID }
func (c *Comment) SubredditType() SubredditAccess     { return c.subredditType }
func (c *Comment) IsScoreHidden() bool                { return c.scoreHidden }
func (c *Comment) IsLocked() bool                     { return c.locked }
func (c *Comment) IsCollapsed() bool                  { return c.collapsed }
func (c *Comment) Vote() VoteDirection                { return c.vote }
func (c *Comment) Permalink() string                  { return c.permalink }
func (c *Comment) IsSubmitter() bool                  { return c.isSubmitter }

// Controversiality — значение на проводе: 0 или 1.
func (c *Comment) Controversiality() int {
	if c.controversial {
		return 1
	}

	return 0
}

// Edited возвращает время последней правки; ok=false, если комментарий не редактировался.
func (c *Comment) Edited() (time.Time, bool) {
	if c.edited == nil {
		return time.Time{}, false
	}

	return *c.edited, true
}

// SubmissionTitle присутствует, только если комментарий показан вне своего треда.
func (c *Comment) SubmissionTitle() (string, bool) { return derefString(c.linkTitle) }

// SubmissionURL присутствует, только если комментарий показан вне своего треда.
func (c *Comment) SubmissionURL() (string, bool) { return derefString(c.linkURL) }

// MediaMetadata возвращает копию отображения media id -> медиа (nil, если нет).
func (c *Comment) MediaMetadata() map[string]MediaMetadataItem { return cloneMedia(c.mediaMetadata) }

// MediaIDs возвращает отсортированные id встроенных медиа.
func (c *Comment) MediaIDs() []string { return keys(c.mediaMetadata) }

// Replies возвращает ответы: комментарии и заглушки more в порядке сервера.
func (c *Comment) Replies() databind.Listing[NestedIdentifiable] { return c.replies }

func derefString(p *string) (string, bool) {
	if p == nil {
		return "", false
	}

	return *p, true
}
