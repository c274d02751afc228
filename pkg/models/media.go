package models

import (
	"maps"
	"slices"

	"github.com/dukestreet/JRAW/pkg/databind"
)

// RichTextSpan — фрагмент rich-флэра: текст или эмодзи.
type RichTextSpan struct {
	// Type — "text" или "emoji" (поле e).
	Type string
	// Emoji — текстовое представление эмодзи, например ":snoo:" (поле a).
	Emoji string
	// EmojiURL — картинка эмодзи (поле u).
	EmojiURL string
	// Text — текст фрагмента (поле t).
	Text string
}

var richTextSpanMapping = databind.NewMapping("RichTextSpan",
	databind.Optional("e", databind.String, func(s *RichTextSpan) *string { return &s.Type }),
	databind.Optional("a", databind.String, func(s *RichTextSpan) *string { return &s.Emoji }),
	databind.Optional("u", databind.String, func(s *RichTextSpan) *string { return &s.EmojiURL }),
	databind.Optional("t", databind.String, func(s *RichTextSpan) *string { return &s.Text }),
)

// MediaMetadataPreview — одно разрешение медиа из media_metadata.
type MediaMetadataPreview struct {
	Height int
	Width  int
	URL    string
	GIF    string
	MP4    string
}

var mediaPreviewMapping = databind.NewMapping("MediaMetadataPreview",
	databind.Optional("y", databind.Int, func(p *MediaMetadataPreview) *int { return &p.Height }),
	databind.Optional("x", databind.Int, func(p *MediaMetadataPreview) *int { return &p.Width }),
	databind.Optional("u", databind.String, func(p *MediaMetadataPreview) *string { return &p.URL }),
	databind.Optional("gif", databind.String, func(p *MediaMetadataPreview) *string { return &p.GIF }),
	databind.Optional("mp4", databind.String, func(p *MediaMetadataPreview) *string { return &p.MP4 }),
)

// MediaMetadataItem — медиа, встроенное в текст комментария или поста.
type MediaMetadataItem struct {
	ID       string
	Kind     string
	Mime     string
	Previews []MediaMetadataPreview
	Full     *MediaMetadataPreview
	DashURL  string
	// X, Y заполнены только для видео в галереях.
	X *int
	Y *int
}

var mediaItemMapping = databind.NewMapping("MediaMetadataItem",
	databind.Optional("id", databind.String, func(m *MediaMetadataItem) *string { return &m.ID }),
	databind.Optional("e", databind.String, func(m *MediaMetadataItem) *string { return &m.Kind }),
	databind.Optional("m", databind.String, func(m *MediaMetadataItem) *string { return &m.Mime }),
	databind.Optional("p", databind.SliceOf(mediaPreviewMapping.Codec()), func(m *MediaMetadataItem) *[]MediaMetadataPreview { return &m.Previews }),
	databind.Optional("s", databind.Nullable(mediaPreviewMapping.Codec()), func(m *MediaMetadataItem) **MediaMetadataPreview { return &m.Full }),
	databind.Optional("dashUrl", databind.String, func(m *MediaMetadataItem) *string { return &m.DashURL }),
	databind.Optional("x", databind.Nullable(databind.Int), func(m *MediaMetadataItem) **int { return &m.X }),
	databind.Optional("y", databind.Nullable(databind.Int), func(m *MediaMetadataItem) **int { return &m.Y }),
)

func (m MediaMetadataItem) clone() MediaMetadataItem {
	out := m
	out.Previews = slices.Clone(m.Previews)
	out.Full = clonePtr(m.Full)
	out.X = clonePtr(m.X)
	out.Y = clonePtr(m.Y)

	return out
}

func cloneMedia(in map[string]MediaMetadataItem) map[string]MediaMetadataItem {
	if in == nil {
		return nil
	}

	out := make(map[string]MediaMetadataItem, len(in))
	for k, v := range in {
		out[k] = v.clone()
	}

	return out
}

func clonePtr[V any](p *V) *V {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}

// keys возвращает ключи отображения в отсортированном виде.
func keys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
