package models

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/dukestreet/JRAW/pkg/databind"
	"github.com/stretchr/testify/require"
)

// Тесты остальных моделей и хелперов реестра.

func TestAccount_Decode(t *testing.T) {
	t.Parallel()

	a, err := Decode[*Account](json.RawMessage(accountEnv(accountData)))
	require.NoError(t, err)

	require.Equal(t, "t2_1w72", a.FullName())
	require.Equal(t, a.FullName(), a.UniqueID())
	require.Equal(t, "spez", a.Name())
	require.Equal(t, 100, a.CommentKarma())
	require.Equal(t, 200, a.LinkKarma())
	require.Equal(t, int64(1118030400), a.Created().Unix())
	require.True(t, a.IsModerator())
	require.True(t, a.IsGoldMember())
	require.False(t, a.IsFriend())

	// has_verified_email отсутствует: «неизвестно», а не false.
	_, ok := a.HasVerifiedEmail()
	require.False(t, ok)

	p := a.Profile()
	require.NotNil(t, p)
	require.Equal(t, "ceo", *p.About)

	*p.About = "changed"
	require.Equal(t, "ceo", *a.Profile().About)
}

func TestAccount_VerifiedEmail(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		value    string
		verified bool
		known    bool
	}{
		{value: "true", verified: true, known: true},
		{value: "false", verified: false, known: true},
		{value: "null", verified: false, known: false},
	} {
		data := strings.Replace(accountData, `"is_friend"`, `"has_verified_email": `+tc.value+`, "is_friend"`, 1)

		a, err := Decode[*Account](json.RawMessage(accountEnv(data)))
		require.NoError(t, err)

		verified, known := a.HasVerifiedEmail()
		require.Equal(t, tc.verified, verified, tc.value)
		require.Equal(t, tc.known, known, tc.value)
	}
}

func TestAccount_Errors(t *testing.T) {
	t.Parallel()

	_, err := Decode[*Account](json.RawMessage(accountEnv(strings.Replace(accountData, `"comment_karma": 100`, `"comment_karma": -1`, 1))))
	require.ErrorIs(t, err, databind.ErrTypeMismatch)

	_, err = Decode[*Account](json.RawMessage(accountEnv(strings.Replace(accountData, `"name": "spez",`, ``, 1))))
	require.ErrorIs(t, err, databind.ErrMissingRequiredField)

	_, err = Decode[*Account](json.RawMessage(accountEnv(strings.Replace(accountData, `1118030400`, `"yesterday"`, 1))))
	require.ErrorIs(t, err, databind.ErrTypeMismatch)
}

func TestAccount_RoundTrip(t *testing.T) {
	t.Parallel()

	a, err := Decode[*Account](json.RawMessage(accountEnv(accountData)))
	require.NoError(t, err)

	out, err := Encode(a)
	require.NoError(t, err)

	b, err := Decode[*Account](out)
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.True(t, databind.SameThing(a, b))
}

func TestDecode_WrongKind(t *testing.T) {
	t.Parallel()

	_, err := Decode[*Comment](json.RawMessage(accountEnv(accountData)))
	require.ErrorIs(t, err, databind.ErrMalformedEnvelope)

	_, err = Decode[*Comment](json.RawMessage(`{"kind": "t99_doesnotexist", "data": {}}`))
	require.ErrorIs(t, err, databind.ErrUnknownKind)
}

func TestMoreChildren(t *testing.T) {
	t.Parallel()

	m, err := Decode[*MoreChildren](json.RawMessage(moreEnv("m1", "t1_root", "a", "b")))
	require.NoError(t, err)
	require.Equal(t, "m1", m.UniqueID())
	require.Equal(t, "t1_m1", m.FullName())
	require.Equal(t, "t1_root", m.ParentFullName())
	require.False(t, m.IsThreadContinuation())

	ids := m.ChildrenIDs()
	ids[0] = "zzz"
	require.Equal(t, []string{"a", "b"}, m.ChildrenIDs())

	cont, err := Decode[*MoreChildren](json.RawMessage(moreEnv("_", "t1_root")))
	require.NoError(t, err)
	require.True(t, cont.IsThreadContinuation())
}

func TestDecodeCommentTree_TopLevel(t *testing.T) {
	t.Parallel()

	raw := listingEnv(
		commentEnv("a", "t3_post", "a", listingEnv(commentEnv("a1", "t1_a", "a1", `""`), moreEnv("am", "t1_a", "a2"))),
		commentEnv("b", "t3_post", "b", `""`),
		moreEnv("top", "t3_post", "c", "d"),
	)

	tree, err := DecodeCommentTree(json.RawMessage(raw))
	require.NoError(t, err)
	require.Equal(t, 3, tree.Len())

	var visited []string
	var depths []int
	Walk(tree, func(n NestedIdentifiable, depth int) bool {
		visited = append(visited, n.UniqueID())
		depths = append(depths, depth)
		return true
	})
	require.Equal(t, []string{"t1_a", "t1_a1", "am", "t1_b", "top"}, visited)
	require.Equal(t, []int{0, 1, 1, 0, 0}, depths)

	flat := Flatten(tree)
	require.Len(t, flat, 5)

	var more []string
	for _, m := range MoreChildrenOf(tree) {
		more = append(more, m.ChildrenIDs()...)
	}
	require.Equal(t, []string{"a2", "c", "d"}, more)

	out, err := EncodeListing(tree)
	require.NoError(t, err)

	again, err := DecodeCommentTree(out)
	require.NoError(t, err)
	require.Equal(t, tree, again)
}

func TestWalk_Stop(t *testing.T) {
	t.Parallel()

	tree, err := DecodeCommentTree(json.RawMessage(listingEnv(
		commentEnv("a", "t3_post", "a", `""`),
		commentEnv("b", "t3_post", "b", `""`),
	)))
	require.NoError(t, err)

	n := 0
	Walk(tree, func(NestedIdentifiable, int) bool {
		n++
		return false
	})
	require.Equal(t, 1, n)
}

func TestDecodeListing_FlatCapability(t *testing.T) {
	t.Parallel()

	raw := listingEnv(commentEnv("a", "t3_post", "a", ""), commentEnv("b", "t3_post", "b", ""))

	l, err := DecodeListing[*Comment](json.RawMessage(raw), databind.CapFullName)
	require.NoError(t, err)
	require.Equal(t, 2, l.Len())

	// more не имеет fullname: в плоском листинге это нарушение контракта.
	raw = listingEnv(commentEnv("a", "t3_post", "a", ""), moreEnv("m", "t3_post", "x"))

	_, err = DecodeListing[databind.Identifiable](json.RawMessage(raw), databind.CapFullName)
	require.ErrorIs(t, err, databind.ErrTypeMismatch)
}

func TestTrophyList(t *testing.T) {
	t.Parallel()

	raw := `{"kind": "TrophyList", "data": {"trophies": [
		{"kind": "t6", "data": {"icon_70": "https://i/70.png", "icon_40": "https://i/40.png", "name": "Verified Email",
			"url": null, "award_id": "o", "id": null, "description": null, "granted_at": 1500000000}},
		{"kind": "t6", "data": {"name": "3-Year Club", "id": "1q2w", "award_id": "3"}}
	]}}`

	l, err := Decode[*TrophyList](json.RawMessage(raw))
	require.NoError(t, err)

	trophies := l.Trophies()
	require.Len(t, trophies, 2)
	require.Equal(t, "Verified Email", trophies[0].Name())
	require.Equal(t, "o", trophies[0].UniqueID())
	require.Equal(t, "1q2w", trophies[1].UniqueID())

	granted, ok := trophies[0].GrantedAt()
	require.True(t, ok)
	require.Equal(t, int64(1500000000), granted.Unix())

	_, ok = trophies[1].GrantedAt()
	require.False(t, ok)

	out, err := Encode(l)
	require.NoError(t, err)

	again, err := Decode[*TrophyList](out)
	require.NoError(t, err)
	require.Equal(t, l, again)
}

func TestTrophyList_WrongElementKind(t *testing.T) {
	t.Parallel()

	raw := `{"kind": "TrophyList", "data": {"trophies": [` + accountEnv(accountData) + `]}}`

	_, err := Decode[*TrophyList](json.RawMessage(raw))
	require.ErrorIs(t, err, databind.ErrTypeMismatch)

	var de *databind.DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "data.trophies[0]", de.Path)
}

func TestKarmaList(t *testing.T) {
	t.Parallel()

	raw := `{"kind": "KarmaList", "data": [
		{"sr": "golang", "comment_karma": 10, "link_karma": 2},
		{"sr": "rust", "comment_karma": -3, "link_karma": 0}
	]}`

	l, err := Decode[*KarmaList](json.RawMessage(raw))
	require.NoError(t, err)
	require.Equal(t, []KarmaBySubreddit{
		{Subreddit: "golang", CommentKarma: 10, LinkKarma: 2},
		{Subreddit: "rust", CommentKarma: -3, LinkKarma: 0},
	}, l.Items())

	out, err := Encode(l)
	require.NoError(t, err)

	again, err := Decode[*KarmaList](out)
	require.NoError(t, err)
	require.Equal(t, l.Items(), again.Items())
}

func TestLiveThread(t *testing.T) {
	t.Parallel()

	raw := `{"kind": "LiveUpdateEvent", "data": {"id": "ukqbk3mgy1db", "name": "LiveUpdateEvent_ukqbk3mgy1db",
		"created_utc": 1458000000, "title": "Live", "description": "desc", "resources": "", "state": "live",
		"nsfw": false, "viewer_count": 12, "viewer_count_fuzzed": true, "websocket_url": "wss://example/live"}}`

	l, err := Decode[*LiveThread](json.RawMessage(raw))
	require.NoError(t, err)
	require.Equal(t, "LiveUpdateEvent_ukqbk3mgy1db", l.UniqueID())
	require.Equal(t, "live", l.State())

	n, ok := l.ViewerCount()
	require.True(t, ok)
	require.Equal(t, 12, n)
	require.True(t, l.IsViewerCountFuzzed())

	ws, ok := l.WebsocketURL()
	require.True(t, ok)
	require.Equal(t, "wss://example/live", ws)
}

func TestLiveUpdateListing(t *testing.T) {
	t.Parallel()

	raw := `{"kind": "Listing", "data": {"children": [
		{"kind": "LiveUpdate", "data": {"id": "u1", "name": "LiveUpdate_u1", "author": "spez", "body": "first",
			"created_utc": 1458000001, "embeds": [{"url": "https://example.com", "width": 300, "height": null}], "stricken": false}},
		{"kind": "LiveUpdate", "data": {"id": "u2", "name": "LiveUpdate_u2", "body": "second", "created_utc": 1458000002, "stricken": true}}
	], "after": "LiveUpdate_u2", "before": null}}`

	l, err := DecodeListing[*LiveUpdate](json.RawMessage(raw), databind.CapFullName)
	require.NoError(t, err)
	require.Equal(t, 2, l.Len())
	require.Equal(t, "first", l.At(0).Body())
	require.True(t, l.At(1).IsStricken())

	embeds := l.At(0).Embeds()
	require.Len(t, embeds, 1)
	require.Equal(t, 300, *embeds[0].Width)
	require.Nil(t, embeds[0].Height)

	after, ok := l.After()
	require.True(t, ok)
	require.Equal(t, "LiveUpdate_u2", after)
}

func TestMultireddit(t *testing.T) {
	t.Parallel()

	raw := `{"kind": "LabeledMulti", "data": {"can_edit": true, "copied_from": null, "created_utc": 1500000000,
		"name": "gophers", "description_md": "go", "display_name": "Gophers", "icon_url": null,
		"path": "/user/spez/m/gophers/", "subreddits": [{"name": "golang"}, {"name": "programming"}],
		"visibility": "public", "weighting_scheme": "classic", "user_has_favorited": null}}`

	m, err := Decode[*Multireddit](json.RawMessage(raw))
	require.NoError(t, err)
	require.Equal(t, "/user/spez/m/gophers/", m.UniqueID())
	require.Equal(t, []string{"golang", "programming"}, m.Subreddits())
	require.Equal(t, VisibilityPublic, m.Visibility())

	user, name, err := m.Owner()
	require.NoError(t, err)
	require.Equal(t, "spez", user)
	require.Equal(t, "gophers", name)

	_, ok := m.HasUserFavorited()
	require.False(t, ok)

	_, err = Decode[*Multireddit](json.RawMessage(strings.Replace(raw, `"public"`, `"secret"`, 1)))
	require.ErrorIs(t, err, databind.ErrTypeMismatch)
}

func TestParseMultiPath(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"", "/r/golang", "/user//m/x", "/user/spez/m/", "/user/spez/x/gophers"} {
		_, _, err := ParseMultiPath(bad)
		require.ErrorIs(t, err, ErrInvalidMultiPath, bad)
	}
}

func TestRegistry_Kinds(t *testing.T) {
	t.Parallel()

	kinds := Registry().Kinds()
	for _, k := range []string{KindComment, KindAccount, KindMore, KindTrophy, KindTrophyList,
		KindKarmaList, KindLiveThread, KindLiveUpdate, KindMulti} {
		require.True(t, slices.Contains(kinds, k), k)
	}
	require.False(t, Registry().Has(KindListing))
}
