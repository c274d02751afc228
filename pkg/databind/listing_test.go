package databind

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// Тесты контейнера листинга (listing.go).

func noteEnv(id string) string {
	return `{"kind": "n1", "data": {"id": "` + id + `", "name": "n1_` + id + `", "text": "` + id + `"}}`
}

func TestDecodeListing_PreservesOrder(t *testing.T) {
	t.Parallel()

	r := newTestRegistry()
	raw := `{"kind": "Listing", "data": {"children": [` +
		noteEnv("c") + `,` + noteEnv("a") + `,` + noteEnv("b") + `,` + noteEnv("a") +
		`], "before": null, "after": "n1_b", "modhash": "mh"}}`

	l, err := DecodeListing[*note](r, json.RawMessage(raw), CapFullName)
	require.NoError(t, err)
	require.Equal(t, 4, l.Len())

	var ids []string
	for _, n := range l.Children() {
		ids = append(ids, n.ID())
	}
	// Порядок сервера, без сортировки и без дедупликации.
	require.Equal(t, []string{"c", "a", "b", "a"}, ids)

	_, ok := l.Before()
	require.False(t, ok)

	after, ok := l.After()
	require.True(t, ok)
	require.Equal(t, "n1_b", after)

	mh, ok := l.Modhash()
	require.True(t, ok)
	require.Equal(t, "mh", mh)
}

func TestDecodeListing_ChildrenAreCopied(t *testing.T) {
	t.Parallel()

	r := newTestRegistry()
	raw := `{"kind": "Listing", "data": {"children": [` + noteEnv("a") + `]}}`

	l, err := DecodeListing[*note](r, json.RawMessage(raw), 0)
	require.NoError(t, err)

	children := l.Children()
	children[0] = nil
	require.NotNil(t, l.At(0))
}

func TestDecodeListing_WrongOuterKind(t *testing.T) {
	t.Parallel()

	r := newTestRegistry()

	_, err := DecodeListing[*note](r, json.RawMessage(noteEnv("a")), 0)
	require.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestDecodeListing_MissingChildren(t *testing.T) {
	t.Parallel()

	r := newTestRegistry()

	_, err := DecodeListing[*note](r, json.RawMessage(`{"kind": "Listing", "data": {"after": null}}`), 0)
	require.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestDecodeListing_CapabilityViolation(t *testing.T) {
	t.Parallel()

	r := newTestRegistry()
	raw := `{"kind": "Listing", "data": {"children": [` + noteEnv("a") + `, {"kind": "stub", "data": {"id": "x"}}]}}`

	// stub не обладает fullname: весь листинг отклоняется.
	_, err := DecodeListing[Thing](r, json.RawMessage(raw), CapFullName)
	require.ErrorIs(t, err, ErrTypeMismatch)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "data.children[1]", de.Path)

	// С возможностью nested проходят оба элемента.
	l, err := DecodeListing[Thing](r, json.RawMessage(raw), CapNested)
	require.NoError(t, err)
	require.Equal(t, 2, l.Len())
	require.Equal(t, "n1", l.At(0).Kind())
	require.Equal(t, "stub", l.At(1).Kind())
}

func TestDecodeListing_ElementTypeMismatch(t *testing.T) {
	t.Parallel()

	r := newTestRegistry()
	raw := `{"kind": "Listing", "data": {"children": [{"kind": "stub", "data": {"id": "x"}}]}}`

	_, err := DecodeListing[*note](r, json.RawMessage(raw), 0)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestDecodeListing_UnknownKindInside(t *testing.T) {
	t.Parallel()

	r := newTestRegistry()
	raw := `{"kind": "Listing", "data": {"children": [{"kind": "t99_doesnotexist", "data": {}}]}}`

	_, err := DecodeListing[Thing](r, json.RawMessage(raw), 0)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestEncodeListing_RoundTrip(t *testing.T) {
	t.Parallel()

	r := newTestRegistry()
	raw := `{"kind": "Listing", "data": {"children": [` + noteEnv("a") + `,` + noteEnv("b") +
		`], "after": "n1_b", "modhash": ""}}`

	l, err := DecodeListing[*note](r, json.RawMessage(raw), CapFullName)
	require.NoError(t, err)

	out, err := EncodeListing(r, l)
	require.NoError(t, err)

	again, err := DecodeListing[*note](r, out, CapFullName)
	require.NoError(t, err)
	require.Equal(t, l, again)

	// Пустая строка modhash отличается от отсутствующего.
	mh, ok := again.Modhash()
	require.True(t, ok)
	require.Empty(t, mh)
}

func TestEmptyListing(t *testing.T) {
	t.Parallel()

	l := Empty[*note]()
	require.True(t, l.IsEmpty())
	require.Zero(t, l.Len())

	out, err := EncodeListing(newTestRegistry(), l)
	require.NoError(t, err)
	require.JSONEq(t, `{"kind": "Listing", "data": {"children": []}}`, string(out))
}

func TestMapListing(t *testing.T) {
	t.Parallel()

	l := NewListing([]int{1, 2, 3}, "", "after")
	m := Map(l, func(n int) int { return n * 10 })

	require.Equal(t, []int{10, 20, 30}, m.Children())
	after, ok := m.After()
	require.True(t, ok)
	require.Equal(t, "after", after)
}
