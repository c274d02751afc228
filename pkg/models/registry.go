package models

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dukestreet/JRAW/pkg/databind"
)

// Registry возвращает реестр всех известных kind. Реестр строится один раз и
// сразу замораживается, дальше он только читается.
var Registry = sync.OnceValue(newRegistry)

func newRegistry() *databind.Registry {
	r := databind.NewRegistry()

	databind.RegisterFunc(r, KindComment,
		func(data json.RawMessage) (*Comment, error) { return decodeComment(r, data) },
		func(c *Comment) (json.RawMessage, error) { return encodeComment(r, c) },
	)
	databind.Register(r, KindAccount, accountMapping)
	databind.Register(r, KindMore, moreMapping)
	databind.Register(r, KindTrophy, trophyMapping)
	databind.Register(r, KindTrophyList, trophyListMapping(r))
	databind.RegisterFunc(r, KindKarmaList, decodeKarmaList, encodeKarmaList)
	databind.Register(r, KindLiveThread, liveThreadMapping)
	databind.Register(r, KindLiveUpdate, liveUpdateMapping)
	databind.Register(r, KindMulti, multiMapping)

	r.Freeze()

	return r
}

// Decode разбирает один конверт и проверяет, что он даёт модель типа T.
// Другой kind — ErrMalformedEnvelope: вызывающий ожидал конкретный ответ API.
func Decode[T databind.Thing](raw json.RawMessage) (T, error) {
	var zero T

	t, err := Registry().Dispatch(raw)
	if err != nil {
		return zero, err
	}

	out, ok := t.(T)
	if !ok {
		return zero, databind.Malformed(raw, fmt.Errorf("unexpected kind %q", t.Kind()))
	}

	return out, nil
}

// DecodeListing разбирает листинг, элементы которого обладают возможностями need.
func DecodeListing[T any](raw json.RawMessage, need databind.Capability) (databind.Listing[T], error) {
	return databind.DecodeListing[T](Registry(), raw, need)
}

// DecodeCommentTree разбирает листинг верхнего уровня треда: комментарии
// и заглушки more вместе с их поддеревьями.
func DecodeCommentTree(raw json.RawMessage) (databind.Listing[NestedIdentifiable], error) {
	return DecodeListing[NestedIdentifiable](raw, databind.CapNested)
}

// Encode кодирует модель обратно в конверт.
func Encode(t databind.Thing) (json.RawMessage, error) {
	return Registry().Encode(t)
}

// EncodeListing кодирует листинг обратно в конверт Listing.
func EncodeListing[T databind.Thing](l databind.Listing[T]) (json.RawMessage, error) {
	return databind.EncodeListing(Registry(), l)
}
