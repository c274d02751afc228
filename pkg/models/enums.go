package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dukestreet/JRAW/pkg/databind"
)

// DistinguishedStatus — выделение сущности модератором или администратором.
type DistinguishedStatus uint8

const (
	DistinguishedNone DistinguishedStatus = iota
	DistinguishedModerator
	DistinguishedAdmin
	DistinguishedSpecial
)

func (d DistinguishedStatus) String() string {
	switch d {
	case DistinguishedModerator:
		return "moderator"
	case DistinguishedAdmin:
		return "admin"
	case DistinguishedSpecial:
		return "special"
	default:
		return "none"
	}
}

// distinguished=null на проводе означает «не выделен».
var distinguishedCodec = databind.NullAs(databind.Enum("distinguished", map[string]DistinguishedStatus{
	"moderator": DistinguishedModerator,
	"admin":     DistinguishedAdmin,
	"special":   DistinguishedSpecial,
}), DistinguishedNone)

// SubredditAccess — тип доступа к сабреддиту.
type SubredditAccess uint8

const (
	AccessPublic SubredditAccess = iota + 1
	AccessPrivate
	AccessRestricted
	AccessGoldRestricted
	AccessArchived
	AccessEmployeesOnly
	AccessGoldOnly
	AccessUser
)

var accessWire = map[string]SubredditAccess{
	"public":          AccessPublic,
	"private":         AccessPrivate,
	"restricted":      AccessRestricted,
	"gold_restricted": AccessGoldRestricted,
	"archived":        AccessArchived,
	"employees_only":  AccessEmployeesOnly,
	"gold_only":       AccessGoldOnly,
	"user":            AccessUser,
}

var accessCodec = databind.Enum("subreddit_type", accessWire)

func (a SubredditAccess) String() string {
	for wire, v := range accessWire {
		if v == a {
			return wire
		}
	}

	return fmt.Sprintf("SubredditAccess(%d)", uint8(a))
}

// VoteDirection — голос текущего пользователя: true/false/null на проводе.
type VoteDirection int8

const (
	VoteDown VoteDirection = -1
	VoteNone VoteDirection = 0
	VoteUp   VoteDirection = 1
)

func (v VoteDirection) String() string {
	switch v {
	case VoteUp:
		return "up"
	case VoteDown:
		return "down"
	default:
		return "none"
	}
}

var voteCodec = databind.Codec[VoteDirection]{
	Name: "likes",
	Decode: func(raw json.RawMessage) (VoteDirection, error) {
		var b *bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return VoteNone, err
		}

		switch {
		case b == nil:
			return VoteNone, nil
		case *b:
			return VoteUp, nil
		default:
			return VoteDown, nil
		}
	},
	Encode: func(v VoteDirection) (json.RawMessage, error) {
		switch v {
		case VoteUp:
			return json.RawMessage("true"), nil
		case VoteDown:
			return json.RawMessage("false"), nil
		case VoteNone:
			return json.RawMessage("null"), nil
		default:
			return nil, fmt.Errorf("invalid vote direction %d", int8(v))
		}
	},
	Zero: func(v VoteDirection) bool { return v == VoteNone },
}

// MultiredditVisibility — видимость мультиреддита.
type MultiredditVisibility uint8

const (
	VisibilityPrivate MultiredditVisibility = iota + 1
	VisibilityPublic
	VisibilityHidden
)

var visibilityCodec = databind.Enum("visibility", map[string]MultiredditVisibility{
	"private": VisibilityPrivate,
	"public":  VisibilityPublic,
	"hidden":  VisibilityHidden,
})

// controversiality — целое 0/1, другие значения недопустимы.
var controversialityCodec = databind.Codec[bool]{
	Name: "controversiality",
	Decode: func(raw json.RawMessage) (bool, error) {
		n, err := databind.Int.Decode(raw)
		if err != nil {
			return false, err
		}

		switch n {
		case 0:
			return false, nil
		case 1:
			return true, nil
		default:
			return false, fmt.Errorf("controversiality must be 0 or 1, got %d", n)
		}
	},
	Encode: func(v bool) (json.RawMessage, error) {
		if v {
			return json.RawMessage("1"), nil
		}

		return json.RawMessage("0"), nil
	},
}

var errEditedTrue = errors.New("edited=true carries no timestamp")

// edited: false/null/отсутствие — «не редактировался», число — время правки.
var editedCodec = databind.Codec[*time.Time]{
	Name: "edited",
	Decode: func(raw json.RawMessage) (*time.Time, error) {
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			if b {
				return nil, errEditedTrue
			}
			return nil, nil
		}

		t, err := databind.UnixTime.Decode(raw)
		if err != nil {
			return nil, err
		}

		return &t, nil
	},
	Encode: func(t *time.Time) (json.RawMessage, error) {
		if t == nil {
			return json.RawMessage("false"), nil
		}

		return databind.UnixTime.Encode(*t)
	},
	Zero: func(t *time.Time) bool { return t == nil },
}
