package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dukestreet/JRAW/pkg/databind"
	"github.com/stretchr/testify/require"
)

// Тесты модели комментария и дерева ответов.
//
//  Проверяем:
//  - разбор всех полей и инвариант fullname;
//  - трёхзначные/закрытые поля (likes, distinguished, edited, controversiality);
//  - смешанные ответы (t1 + more) и порядок;
//  - путь ошибки внутри дерева;
//  - кодирование обратно (round-trip);
//  - глубокие треды без рекурсии.

func mustComment(t *testing.T, raw string) *Comment {
	t.Helper()

	c, err := Decode[*Comment](json.RawMessage(raw))
	require.NoError(t, err)

	return c
}

func TestComment_Decode_Fields(t *testing.T) {
	t.Parallel()

	c := mustComment(t, commentEnv("abc", "t3_post", "hello", `""`))

	require.Equal(t, "t1", c.Kind())
	require.Equal(t, "abc", c.ID())
	require.Equal(t, "t1_abc", c.FullName())
	require.Equal(t, c.FullName(), c.UniqueID())
	require.Equal(t, "spez", c.Author())
	require.Equal(t, "hello", c.Body())
	require.Equal(t, "&lt;p&gt;hello&lt;/p&gt;", c.BodyHTML())
	require.Equal(t, "t3_post", c.ParentFullName())
	require.Equal(t, "t3_post", c.SubmissionFullName())
	require.Equal(t, "t5_2rc7j", c.SubredditFullName())
	require.Equal(t, AccessPublic, c.SubredditType())
	require.Equal(t, DistinguishedNone, c.Distinguished())
	require.Equal(t, VoteNone, c.Vote())
	require.Equal(t, 12, c.Score())
	require.True(t, c.IsGildable())
	require.Zero(t, c.Controversiality())
	require.True(t, c.Created().Equal(time.Date(2021, 1, 1, 0, 0, 0, 500_000_000, time.UTC)))
	require.True(t, c.Replies().IsEmpty())
	require.Nil(t, c.MediaMetadata())

	_, edited := c.Edited()
	require.False(t, edited)

	_, ok := c.AuthorFlairText()
	require.False(t, ok)

	_, ok = c.SubmissionTitle()
	require.False(t, ok)

	caps := c.Capabilities()
	require.True(t, caps.Has(databind.CapFullName|databind.CapNested|databind.CapVotable))
}

func TestComment_Decode_FullNameInvariant(t *testing.T) {
	t.Parallel()

	raw := strings.Replace(commentEnv("abc", "t3_post", "x", ""), `"name": "t1_abc"`, `"name": "t1_zzz"`, 1)

	_, err := Decode[*Comment](json.RawMessage(raw))
	require.ErrorIs(t, err, databind.ErrTypeMismatch)
}

func TestComment_Decode_MissingBody(t *testing.T) {
	t.Parallel()

	raw := strings.Replace(commentEnv("abc", "t3_post", "x", ""), `"body": "x", `, "", 1)

	_, err := Decode[*Comment](json.RawMessage(raw))
	require.ErrorIs(t, err, databind.ErrMissingRequiredField)

	var de *databind.DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "body", de.Attribute)
}

func TestComment_Decode_Controversiality(t *testing.T) {
	t.Parallel()

	base := commentEnv("abc", "t3_post", "x", "")

	c := mustComment(t, strings.Replace(base, `"controversiality": 0`, `"controversiality": 1`, 1))
	require.True(t, c.IsControversial())
	require.Equal(t, 1, c.Controversiality())

	_, err := Decode[*Comment](json.RawMessage(strings.Replace(base, `"controversiality": 0`, `"controversiality": 2`, 1)))
	require.ErrorIs(t, err, databind.ErrTypeMismatch)

	var de *databind.DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "controversiality", de.Attribute)
	require.Equal(t, "2", de.Value)
}

func TestComment_Decode_TriStateFields(t *testing.T) {
	t.Parallel()

	base := commentEnv("abc", "t3_post", "x", "")

	tests := []struct {
		name    string
		from    string
		to      string
		check   func(t *testing.T, c *Comment)
		wantErr error
	}{
		{
			name: "likes_true", from: `"likes": null`, to: `"likes": true`,
			check: func(t *testing.T, c *Comment) { require.Equal(t, VoteUp, c.Vote()) },
		},
		{
			name: "likes_false", from: `"likes": null`, to: `"likes": false`,
			check: func(t *testing.T, c *Comment) { require.Equal(t, VoteDown, c.Vote()) },
		},
		{
			name: "likes_absent", from: `"likes": null, `, to: ``,
			check: func(t *testing.T, c *Comment) { require.Equal(t, VoteNone, c.Vote()) },
		},
		{
			name: "distinguished_moderator", from: `"distinguished": null`, to: `"distinguished": "moderator"`,
			check: func(t *testing.T, c *Comment) { require.Equal(t, DistinguishedModerator, c.Distinguished()) },
		},
		{
			name: "distinguished_unknown", from: `"distinguished": null`, to: `"distinguished": "king"`,
			wantErr: databind.ErrTypeMismatch,
		},
		{
			name: "edited_null", from: `"edited": false`, to: `"edited": null`,
			check: func(t *testing.T, c *Comment) {
				_, ok := c.Edited()
				require.False(t, ok)
			},
		},
		{
			name: "edited_absent", from: `"edited": false, `, to: ``,
			check: func(t *testing.T, c *Comment) {
				_, ok := c.Edited()
				require.False(t, ok)
			},
		},
		{
			name: "edited_time", from: `"edited": false`, to: `"edited": 1609459300`,
			check: func(t *testing.T, c *Comment) {
				at, ok := c.Edited()
				require.True(t, ok)
				require.Equal(t, int64(1609459300), at.Unix())
			},
		},
		{
			name: "edited_true", from: `"edited": false`, to: `"edited": true`,
			wantErr: databind.ErrTypeMismatch,
		},
		{
			name: "subreddit_type_unknown", from: `"subreddit_type": "public"`, to: `"subreddit_type": "secret"`,
			wantErr: databind.ErrTypeMismatch,
		},
		{
			name: "flair_and_link", from: `"author_flair_text": null`,
			to: `"author_flair_text": "gopher", "author_flair_richtext": [{"e": "emoji", "a": ":go:", "u": "https://e/go.png"}, {"e": "text", "t": "gopher"}], "link_title": "Post", "link_url": "https://example.com"`,
			check: func(t *testing.T, c *Comment) {
				flair, ok := c.AuthorFlairText()
				require.True(t, ok)
				require.Equal(t, "gopher", flair)
				require.Equal(t, []RichTextSpan{
					{Type: "emoji", Emoji: ":go:", EmojiURL: "https://e/go.png"},
					{Type: "text", Text: "gopher"},
				}, c.AuthorFlairRichText())

				title, ok := c.SubmissionTitle()
				require.True(t, ok)
				require.Equal(t, "Post", title)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := strings.Replace(base, tt.from, tt.to, 1)
			require.NotEqual(t, base, raw)

			c, err := Decode[*Comment](json.RawMessage(raw))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestComment_MediaMetadata(t *testing.T) {
	t.Parallel()

	raw := strings.Replace(commentEnv("abc", "t3_post", "x", ""), `"is_submitter": false`,
		`"is_submitter": true, "media_metadata": {"img1": {"status": "valid", "e": "Image", "m": "image/png",
		"p": [{"y": 108, "x": 108, "u": "https://preview/1"}], "s": {"y": 512, "x": 512, "u": "https://full/1"}, "id": "img1"}}`, 1)

	c := mustComment(t, raw)
	require.True(t, c.IsSubmitter())
	require.Equal(t, []string{"img1"}, c.MediaIDs())

	media := c.MediaMetadata()
	item := media["img1"]
	require.Equal(t, "Image", item.Kind)
	require.Equal(t, "image/png", item.Mime)
	require.Len(t, item.Previews, 1)
	require.Equal(t, 108, item.Previews[0].Width)
	require.NotNil(t, item.Full)
	require.Equal(t, "https://full/1", item.Full.URL)

	// Копия не влияет на модель.
	item.Full.URL = "changed"
	media["img2"] = MediaMetadataItem{}
	require.Equal(t, "https://full/1", c.MediaMetadata()["img1"].Full.URL)
	require.Len(t, c.MediaMetadata(), 1)
}

func TestCommentTree_MixedChildren(t *testing.T) {
	t.Parallel()

	replies := listingEnv(
		commentEnv("c1", "t1_root", "first", `""`),
		moreEnv("m1", "t1_root", "c2", "c3"),
	)
	root := mustComment(t, commentEnv("root", "t3_post", "root", replies))

	got := root.Replies()
	require.Equal(t, 2, got.Len())

	first, ok := got.At(0).(*Comment)
	require.True(t, ok)
	require.Equal(t, "first", first.Body())
	require.Equal(t, "t1_root", first.ParentFullName())

	more, ok := got.At(1).(*MoreChildren)
	require.True(t, ok)
	require.Equal(t, []string{"c2", "c3"}, more.ChildrenIDs())
	require.Equal(t, "m1", more.UniqueID())
	require.Equal(t, 2, more.Count())
	require.False(t, more.IsThreadContinuation())

	mh, ok := got.Modhash()
	require.True(t, ok)
	require.Empty(t, mh)
}

func TestCommentTree_ErrorPath(t *testing.T) {
	t.Parallel()

	bad := strings.Replace(commentEnv("c2", "t1_c1", "x", ""), `"body": "x", `, "", 1)
	inner := listingEnv(bad)
	mid := listingEnv(commentEnv("c0", "t1_root", "ok", `""`), commentEnv("c1", "t1_root", "mid", inner))
	raw := commentEnv("root", "t3_post", "root", mid)

	_, err := Decode[*Comment](json.RawMessage(raw))
	require.ErrorIs(t, err, databind.ErrMissingRequiredField)

	var de *databind.DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "body", de.Attribute)
	require.Equal(t, "data.replies.data.children[1].data.replies.data.children[0].data", de.Path)
}

func TestCommentTree_UnknownKindInReplies(t *testing.T) {
	t.Parallel()

	replies := listingEnv(`{"kind": "t99_doesnotexist", "data": {}}`)

	_, err := Decode[*Comment](json.RawMessage(commentEnv("root", "t3_post", "root", replies)))
	require.ErrorIs(t, err, databind.ErrUnknownKind)
}

func TestCommentTree_NonNestedKindRejected(t *testing.T) {
	t.Parallel()

	replies := listingEnv(accountEnv(accountData))

	_, err := Decode[*Comment](json.RawMessage(commentEnv("root", "t3_post", "root", replies)))
	require.ErrorIs(t, err, databind.ErrTypeMismatch)
}

func TestCommentTree_RepliesNotListing(t *testing.T) {
	t.Parallel()

	_, err := Decode[*Comment](json.RawMessage(commentEnv("root", "t3_post", "root", moreEnv("m", "t1_root"))))
	require.ErrorIs(t, err, databind.ErrMalformedEnvelope)
}

func TestComment_RoundTrip(t *testing.T) {
	t.Parallel()

	replies := listingEnv(
		commentEnv("c1", "t1_root", "first", listingEnv(commentEnv("c11", "t1_c1", "deep", `""`))),
		moreEnv("m1", "t1_root", "c2"),
		commentEnv("c3", "t1_root", "third", `""`),
	)
	in := commentEnv("root", "t3_post", "root", replies)

	first := mustComment(t, in)

	out, err := Encode(first)
	require.NoError(t, err)

	second := mustComment(t, string(out))
	require.Equal(t, first, second)

	// Повторное кодирование стабильно.
	again, err := Encode(second)
	require.NoError(t, err)
	require.JSONEq(t, string(out), string(again))
}

func TestComment_EncodeEmptyRepliesAsEmptyString(t *testing.T) {
	t.Parallel()

	c := mustComment(t, commentEnv("abc", "t3_post", "x", ""))

	out, err := Encode(c)
	require.NoError(t, err)

	var env struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out, &env))
	require.JSONEq(t, `""`, string(env.Data["replies"]))
	require.JSONEq(t, `0`, string(env.Data["controversiality"]))
	_, hasEdited := env.Data["edited"]
	require.False(t, hasEdited)
}

// Глубокий тред разбирается и кодируется без переполнения стека.
func TestCommentTree_Deep(t *testing.T) {
	t.Parallel()

	const depth = 400

	replies := `""`
	for i := depth; i >= 1; i-- {
		id := "d" + strconv.Itoa(i)
		parent := "t1_d" + strconv.Itoa(i-1)
		replies = listingEnv(commentEnv(id, parent, "x", replies))
	}
	root := mustComment(t, commentEnv("d0", "t3_post", "root", replies))

	maxDepth := 0
	count := 0
	WalkComment(root, func(_ NestedIdentifiable, d int) bool {
		count++
		if d > maxDepth {
			maxDepth = d
		}
		return true
	})
	require.Equal(t, depth+1, count)
	require.Equal(t, depth, maxDepth)

	out, err := Encode(root)
	require.NoError(t, err)

	again := mustComment(t, string(out))
	require.Equal(t, root, again)
}
