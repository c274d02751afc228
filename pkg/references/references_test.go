package references

// Тесты ссылок (pkg/references).
//
//  Проверяем:
//  - binders: чистые функции, ошибка только при пустой идентичности или без клиента;
//  - пути и query, которые ссылки передают клиенту;
//  - разбор ответов и проброс ошибок транспорта и декодирования.
//
// Подготовка окружения:
//   mockgen -source=./pkg/references/references.go -destination=./mocks/client.go -package=mocks
//   go test ./pkg/references -v -race -count=1

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/dukestreet/JRAW/mocks"
	"github.com/dukestreet/JRAW/pkg/databind"
	"github.com/dukestreet/JRAW/pkg/models"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

const commentJSON = `{"kind": "t1", "data": {
	"id": "c1", "name": "t1_c1", "author": "spez", "controversiality": 0,
	"created_utc": 1609459200, "body": "hi", "body_html": "&lt;p&gt;hi&lt;/p&gt;",
	"parent_id": "t3_post", "link_id": "t3_post", "score": 3, "subreddit": "golang",
	"subreddit_id": "t5_2rc7j", "subreddit_type": "public",
	"permalink": "/r/golang/comments/post/_/c1/", "replies": ""}}`

func listingOf(children ...string) []byte {
	out := `{"kind": "Listing", "data": {"children": [`
	for i, c := range children {
		if i > 0 {
			out += ", "
		}
		out += c
	}

	return []byte(out + `], "before": null, "after": null, "modhash": ""}}`)
}

func newClient(t *testing.T) *mocks.MockClient {
	t.Helper()
	ctrl := gomock.NewController(t)

	return mocks.NewMockClient(ctrl)
}

func TestBinders_EmptyIdentity(t *testing.T) {
	t.Parallel()

	mc := newClient(t)

	_, err := CommentByID(mc, "")
	require.ErrorIs(t, err, ErrEmptyIdentity)

	_, err = CommentByID(mc, "t1_")
	require.ErrorIs(t, err, ErrEmptyIdentity)

	_, err = Comment(nil, mc)
	require.ErrorIs(t, err, ErrEmptyIdentity)

	_, err = User(mc, "")
	require.ErrorIs(t, err, ErrEmptyIdentity)

	_, err = Account(nil, mc)
	require.ErrorIs(t, err, ErrEmptyIdentity)

	_, err = LiveThreadByID(mc, "")
	require.ErrorIs(t, err, ErrEmptyIdentity)

	_, err = MultiredditByName(mc, "spez", "")
	require.ErrorIs(t, err, ErrEmptyIdentity)

	_, err = Submission(mc, "t3_")
	require.ErrorIs(t, err, ErrEmptyIdentity)

	_, err = User(nil, "spez")
	require.ErrorIs(t, err, ErrNilClient)

	_, err = Me(nil)
	require.ErrorIs(t, err, ErrNilClient)
}

// Binder не ходит в сеть и каждый раз возвращает новую ссылку.
func TestBinders_PureAndFresh(t *testing.T) {
	t.Parallel()

	mc := newClient(t) // EXPECT не задан: любой вызов Get уронит тест

	c, err := models.Decode[*models.Comment]([]byte(commentJSON))
	require.NoError(t, err)

	a, err := Comment(c, mc)
	require.NoError(t, err)
	b, err := Comment(c, mc)
	require.NoError(t, err)

	require.NotSame(t, a, b)
	require.Equal(t, "t1_c1", a.FullName())
	require.Equal(t, a.FullName(), b.FullName())

	s, err := Submission(mc, "t3_post")
	require.NoError(t, err)
	require.Equal(t, "post", s.ID())
	require.Equal(t, "t3_post", s.FullName())
}

func TestCommentReference_Data(t *testing.T) {
	t.Parallel()

	mc := newClient(t)
	ref, err := CommentByID(mc, "c1")
	require.NoError(t, err)

	mc.EXPECT().
		Get(gomock.Any(), "/api/info", url.Values{"id": []string{"t1_c1"}}).
		Return(listingOf(commentJSON), nil)

	c, err := ref.Data(context.Background())
	require.NoError(t, err)
	require.Equal(t, "hi", c.Body())
	require.Equal(t, "t1_c1", c.FullName())
}

func TestCommentReference_Data_NotFound(t *testing.T) {
	t.Parallel()

	mc := newClient(t)
	ref, err := CommentByID(mc, "t1_gone")
	require.NoError(t, err)

	mc.EXPECT().
		Get(gomock.Any(), "/api/info", gomock.Any()).
		Return(listingOf(), nil)

	_, err = ref.Data(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCommentReference_Data_TransportError(t *testing.T) {
	t.Parallel()

	mc := newClient(t)
	ref, err := CommentByID(mc, "c1")
	require.NoError(t, err)

	boom := errors.New("boom")
	mc.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)

	_, err = ref.Data(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestUserReference_About(t *testing.T) {
	t.Parallel()

	const account = `{"id": "1w72", "name": "spez", "comment_karma": 1, "link_karma": 2, "created_utc": 1118030400}`

	t.Run("by name", func(t *testing.T) {
		t.Parallel()

		mc := newClient(t)
		ref, err := User(mc, "spez")
		require.NoError(t, err)

		mc.EXPECT().
			Get(gomock.Any(), "/user/spez/about", gomock.Nil()).
			Return([]byte(`{"kind": "t2", "data": `+account+`}`), nil)

		a, err := ref.About(context.Background())
		require.NoError(t, err)
		require.Equal(t, "t2_1w72", a.FullName())
	})

	t.Run("me", func(t *testing.T) {
		t.Parallel()

		mc := newClient(t)
		ref, err := Me(mc)
		require.NoError(t, err)
		require.True(t, ref.IsSelf())

		mc.EXPECT().
			Get(gomock.Any(), "/api/v1/me", gomock.Nil()).
			Return([]byte(account), nil)

		a, err := ref.About(context.Background())
		require.NoError(t, err)
		require.Equal(t, "spez", a.Name())
	})

	t.Run("wrong kind", func(t *testing.T) {
		t.Parallel()

		mc := newClient(t)
		ref, err := User(mc, "spez")
		require.NoError(t, err)

		mc.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]byte(commentJSON), nil)

		_, err = ref.About(context.Background())
		require.ErrorIs(t, err, databind.ErrMalformedEnvelope)
	})
}

func TestUserReference_TrophiesAndKarma(t *testing.T) {
	t.Parallel()

	mc := newClient(t)
	ref, err := User(mc, "a b")
	require.NoError(t, err)

	mc.EXPECT().
		Get(gomock.Any(), "/api/v1/user/a%20b/trophies", gomock.Nil()).
		Return([]byte(`{"kind": "TrophyList", "data": {"trophies": [
			{"kind": "t6", "data": {"name": "Verified Email", "icon_70": "i70", "icon_40": "i40", "award_id": "o"}}
		]}}`), nil)

	trophies, err := ref.Trophies(context.Background())
	require.NoError(t, err)
	require.Len(t, trophies, 1)
	require.Equal(t, "Verified Email", trophies[0].Name())

	_, err = ref.Karma(context.Background())
	require.ErrorIs(t, err, ErrNotSelf)

	me, err := Me(mc)
	require.NoError(t, err)

	mc.EXPECT().
		Get(gomock.Any(), "/api/v1/me/karma", gomock.Nil()).
		Return([]byte(`{"kind": "KarmaList", "data": [{"sr": "golang", "comment_karma": 5, "link_karma": 7}]}`), nil)

	karma, err := me.Karma(context.Background())
	require.NoError(t, err)
	require.Equal(t, []models.KarmaBySubreddit{{Subreddit: "golang", CommentKarma: 5, LinkKarma: 7}}, karma)

	_, err = me.Multi("favs")
	require.ErrorIs(t, err, ErrEmptyIdentity)
}

func TestSubmissionReference_Comments(t *testing.T) {
	t.Parallel()

	more := `{"kind": "more", "data": {"id": "m1", "name": "t1_m1", "parent_id": "t3_post", "children": ["x", "y"], "count": 2, "depth": 0}}`

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		mc := newClient(t)
		ref, err := Submission(mc, "post")
		require.NoError(t, err)

		q := url.Values{"limit": []string{"50"}}
		body := "[" + string(listingOf()) + ", " + string(listingOf(commentJSON, more)) + "]"
		mc.EXPECT().Get(gomock.Any(), "/comments/post", q).Return([]byte(body), nil)

		tree, raw, err := ref.CommentsRaw(context.Background(), q)
		require.NoError(t, err)
		require.Equal(t, body, string(raw))
		require.Equal(t, 2, tree.Len())
		require.Equal(t, "t1_c1", tree.At(0).FullName())
		require.Equal(t, "m1", tree.At(1).UniqueID())
	})

	t.Run("not a pair", func(t *testing.T) {
		t.Parallel()

		mc := newClient(t)
		ref, err := Submission(mc, "post")
		require.NoError(t, err)

		mc.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(listingOf(), nil)

		_, err = ref.Comments(context.Background(), nil)
		require.ErrorIs(t, err, databind.ErrMalformedEnvelope)
	})
}

func TestDecodeComments(t *testing.T) {
	t.Parallel()

	body := "[" + string(listingOf()) + ", " + string(listingOf(commentJSON)) + "]"
	tree, err := DecodeComments([]byte(body))
	require.NoError(t, err)
	require.Equal(t, 1, tree.Len())
	require.Equal(t, "t1_c1", tree.At(0).FullName())

	_, err = DecodeComments([]byte("[" + string(listingOf()) + ", " + string(listingOf(`{"kind": "t9", "data": {}}`)) + "]"))
	require.ErrorIs(t, err, databind.ErrUnknownKind)

	_, err = DecodeComments([]byte(`[]`))
	require.ErrorIs(t, err, databind.ErrMalformedEnvelope)
}

func TestLiveThreadReference(t *testing.T) {
	t.Parallel()

	mc := newClient(t)
	ref, err := LiveThreadByID(mc, "ukraine")
	require.NoError(t, err)

	mc.EXPECT().
		Get(gomock.Any(), "/live/ukraine/about", gomock.Nil()).
		Return([]byte(`{"kind": "LiveUpdateEvent", "data": {"id": "ukraine", "name": "LiveUpdateEvent_ukraine",
			"created_utc": 1645660800, "title": "t", "state": "live"}}`), nil)

	lt, err := ref.About(context.Background())
	require.NoError(t, err)
	require.Equal(t, "t", lt.Title())

	update := `{"kind": "LiveUpdate", "data": {"id": "u1", "name": "LiveUpdate_u1", "body": "b", "created_utc": 1645660801}}`
	mc.EXPECT().
		Get(gomock.Any(), "/live/ukraine", url.Values{"limit": []string{"1"}}).
		Return(listingOf(update), nil)

	updates, err := ref.Updates(context.Background(), url.Values{"limit": []string{"1"}})
	require.NoError(t, err)
	require.Equal(t, 1, updates.Len())
	require.Equal(t, "b", updates.At(0).Body())
}

func TestMultiredditReference(t *testing.T) {
	t.Parallel()

	mc := newClient(t)
	user, err := User(mc, "spez")
	require.NoError(t, err)

	ref, err := user.Multi("favs")
	require.NoError(t, err)
	require.Equal(t, "/user/spez/m/favs", ref.Path())

	mc.EXPECT().
		Get(gomock.Any(), "/api/multi/user/spez/m/favs", gomock.Nil()).
		Return([]byte(`{"kind": "LabeledMulti", "data": {"can_edit": false, "created_utc": 1500000000,
			"name": "favs", "display_name": "Favs", "path": "/user/spez/m/favs",
			"subreddits": [{"name": "golang"}], "visibility": "public", "description_md": ""}}`), nil)

	m, err := ref.About(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"golang"}, m.Subreddits())

	again, err := Multireddit(m, mc)
	require.NoError(t, err)
	require.Equal(t, ref.Path(), again.Path())
}
