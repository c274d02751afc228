package models

import (
	"time"

	"github.com/dukestreet/JRAW/pkg/databind"
)

// Profile — профиль пользователя (поле subreddit у аккаунта).
type Profile struct {
	// DisplayName — заголовок профиля (title).
	DisplayName *string
	// About — публичное описание (public_description).
	About *string
}

var profileMapping = databind.NewMapping("Profile",
	databind.Optional("title", databind.Nullable(databind.String), func(p *Profile) **string { return &p.DisplayName }),
	databind.Optional("public_description", databind.Nullable(databind.String), func(p *Profile) **string { return &p.About }),
)

// Account — пользователь reddit (kind t2).
type Account struct {
	id               string
	name             string
	commentKarma     int
	linkKarma        int
	created          time.Time
	isFriend         bool
	isMod            bool
	isGold           bool
	hasSubscribed    bool
	hasVerifiedEmail *bool
	icon             string
	profile          *Profile
}

var accountMapping = databind.NewMapping("Account",
	databind.Required("id", databind.String, func(a *Account) *string { return &a.id }),
	databind.Required("name", databind.String, func(a *Account) *string { return &a.name }),
	databind.Required("comment_karma", databind.NonNegativeInt, func(a *Account) *int { return &a.commentKarma }),
	databind.Required("link_karma", databind.NonNegativeInt, func(a *Account) *int { return &a.linkKarma }),
	databind.Required("created_utc", databind.UnixTime, func(a *Account) *time.Time { return &a.created }),
	databind.Optional("is_friend", databind.Bool, func(a *Account) *bool { return &a.isFriend }),
	databind.Optional("is_mod", databind.Bool, func(a *Account) *bool { return &a.isMod }),
	databind.Optional("is_gold", databind.Bool, func(a *Account) *bool { return &a.isGold }),
	databind.Optional("has_subscribed", databind.Bool, func(a *Account) *bool { return &a.hasSubscribed }),
	databind.Optional("has_verified_email", databind.Nullable(databind.Bool), func(a *Account) **bool { return &a.hasVerifiedEmail }),
	databind.Optional("icon_img", databind.String, func(a *Account) *string { return &a.icon }),
	databind.Optional("subreddit", databind.Nullable(profileMapping.Codec()), func(a *Account) **Profile { return &a.profile }),
)

func (a *Account) Kind() string     { return KindAccount }
func (a *Account) ID() string       { return a.id }
func (a *Account) FullName() string { return databind.FullName(KindAccount, a.id) }

// UniqueID — fullname аккаунта.
func (a *Account) UniqueID() string { return a.FullName() }

func (a *Account) Capabilities() databind.Capability {
	return databind.CapFullName | databind.CapCreated | databind.CapReferenceable
}

func (a *Account) Name() string        { return a.name }
func (a *Account) CommentKarma() int   { return a.commentKarma }
func (a *Account) LinkKarma() int      { return a.linkKarma }
func (a *Account) Created() time.Time  { return a.created }
func (a *Account) IsFriend() bool      { return a.isFriend }
func (a *Account) IsModerator() bool   { return a.isMod }
func (a *Account) IsGoldMember() bool  { return a.isGold }
func (a *Account) HasSubscribed() bool { return a.hasSubscribed }
func (a *Account) Icon() string        { return a.icon }

// HasVerifiedEmail — трёхзначный признак: ok=false, если API не сообщил значение.
func (a *Account) HasVerifiedEmail() (verified, ok bool) {
	if a.hasVerifiedEmail == nil {
		return false, false
	}

	return *a.hasVerifiedEmail, true
}

// Profile возвращает копию профиля или nil, если его нет.
func (a *Account) Profile() *Profile {
	if a.profile == nil {
		return nil
	}

	return &Profile{
		DisplayName: clonePtr(a.profile.DisplayName),
		About:       clonePtr(a.profile.About),
	}
}
