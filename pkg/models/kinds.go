// Package models содержит неизменяемые модели reddit API и реестр kind -> модель,
// которым пользуется databind при декодировании.
//
// Все модели только читаются: поля неэкспортируемые, аксессоры возвращают
// копии срезов и отображений. Модели можно разделять между горутинами.
package models

import "github.com/dukestreet/JRAW/pkg/databind"

// Теги kind на проводе.
const (
	KindComment    = "t1"
	KindAccount    = "t2"
	KindLink       = "t3"
	KindMessage    = "t4"
	KindSubreddit  = "t5"
	KindTrophy     = "t6"
	KindMore       = "more"
	KindListing    = databind.KindListing
	KindLiveThread = "LiveUpdateEvent"
	KindLiveUpdate = "LiveUpdate"
	KindMulti      = "LabeledMulti"
	KindTrophyList = "TrophyList"
	KindKarmaList  = "KarmaList"
)

// NestedIdentifiable — элемент дерева комментариев: комментарий или заглушка more.
type NestedIdentifiable interface {
	databind.Identifiable
	ParentFullName() string
}
