package databind

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Listing — упорядоченная страница сущностей с курсорами пагинации.
//
// Порядок children совпадает с порядком на проводе. before/after/modhash
// могут отсутствовать, это отличается от пустой строки.
type Listing[T any] struct {
	children []T
	before   *string
	after    *string
	modhash  *string
}

// NewListing собирает листинг из готовых элементов. Пустые курсоры ("")
// трактуются как отсутствующие.
func NewListing[T any](children []T, before, after string) Listing[T] {
	l := Listing[T]{
		before: optString(before),
		after:  optString(after),
	}

	if len(children) > 0 {
		l.children = slices.Clone(children)
	}

	return l
}

// Assemble собирает листинг из уже разобранных элементов и курсоров страницы.
func Assemble[T any](children []T, page ListingPage) Listing[T] {
	l := Listing[T]{
		before:  cloneString(page.Before),
		after:   cloneString(page.After),
		modhash: cloneString(page.Modhash),
	}

	if len(children) > 0 {
		l.children = slices.Clone(children)
	}

	return l
}

// Page возвращает курсоры листинга вместе с уже закодированными элементами.
func (l Listing[T]) Page(children []json.RawMessage) ListingPage {
	return ListingPage{
		Children: children,
		Before:   cloneString(l.before),
		After:    cloneString(l.after),
		Modhash:  cloneString(l.modhash),
	}
}

// HasCursors сообщает, что у листинга есть хотя бы один курсор или modhash.
func (l Listing[T]) HasCursors() bool {
	return l.before != nil || l.after != nil || l.modhash != nil
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}

	s := *p

	return &s
}

// Empty возвращает пустой листинг без курсоров.
func Empty[T any]() Listing[T] {
	return Listing[T]{}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func deref(p *string) (string, bool) {
	if p == nil {
		return "", false
	}

	return *p, true
}

// Children возвращает копию элементов в исходном порядке.
func (l Listing[T]) Children() []T { return slices.Clone(l.children) }

// Len возвращает число элементов.
func (l Listing[T]) Len() int { return len(l.children) }

// At возвращает i-й элемент.
func (l Listing[T]) At(i int) T { return l.children[i] }

// Before возвращает курсор предыдущей страницы.
func (l Listing[T]) Before() (string, bool) { return deref(l.before) }

// After возвращает курсор следующей страницы.
func (l Listing[T]) After() (string, bool) { return deref(l.after) }

// Modhash возвращает modhash листинга.
func (l Listing[T]) Modhash() (string, bool) { return deref(l.modhash) }

// IsEmpty сообщает, что в листинге нет элементов.
func (l Listing[T]) IsEmpty() bool { return len(l.children) == 0 }

// Map преобразует элементы листинга, сохраняя курсоры.
func Map[T, U any](l Listing[T], fn func(T) U) Listing[U] {
	out := Listing[U]{
		before:  l.before,
		after:   l.after,
		modhash: l.modhash,
	}

	if l.children != nil {
		out.children = make([]U, 0, len(l.children))
		for _, c := range l.children {
			out.children = append(out.children, fn(c))
		}
	}

	return out
}

// ListingPage — сырой разбор data листинга: элементы ещё в конвертах.
type ListingPage struct {
	Children []json.RawMessage
	Before   *string
	After    *string
	Modhash  *string
}

var listingPage = NewMapping("Listing",
	Required("children", SliceOf(Raw), func(p *ListingPage) *[]json.RawMessage { return &p.Children }),
	Optional("before", Nullable(String), func(p *ListingPage) **string { return &p.Before }),
	Optional("after", Nullable(String), func(p *ListingPage) **string { return &p.After }),
	Optional("modhash", Nullable(String), func(p *ListingPage) **string { return &p.Modhash }),
)

// ParseListing разбирает конверт {kind:"Listing", data:{...}}, оставляя
// элементы нераспознанными. Используется там, где элементы нужно разбирать
// итеративно (дерево комментариев).
func ParseListing(raw json.RawMessage) (ListingPage, error) {
	data, err := ExpectEnvelope(raw, KindListing)
	if err != nil {
		return ListingPage{}, err
	}

	page, err := listingPage.Decode(data)
	if err != nil {
		return ListingPage{}, withPath(err, "data")
	}

	return page, nil
}

// DecodeListing разбирает листинг и диспетчеризует каждый элемент через r.
//
// Каждый элемент обязан обладать возможностями need и приводиться к T,
// иначе — ErrTypeMismatch с индексом элемента в пути.
func DecodeListing[T any](r *Registry, raw json.RawMessage, need Capability) (Listing[T], error) {
	page, err := ParseListing(raw)
	if err != nil {
		return Listing[T]{}, err
	}

	return DecodeListingPage[T](r, page, need)
}

// DecodeListingPage — DecodeListing для уже разобранной страницы.
func DecodeListingPage[T any](r *Registry, page ListingPage, need Capability) (Listing[T], error) {
	children := make([]T, 0, len(page.Children))
	for i, item := range page.Children {
		path := fmt.Sprintf("data.children[%d]", i)

		t, err := r.Dispatch(item)
		if err != nil {
			return Listing[T]{}, withPath(err, path)
		}

		v, err := asElement[T](t, need)
		if err != nil {
			return Listing[T]{}, withPath(err, path)
		}

		children = append(children, v)
	}

	return Assemble(children, page), nil
}

func asElement[T any](t Thing, need Capability) (T, error) {
	var zero T

	if !t.Capabilities().Has(need) {
		return zero, &DecodeError{
			Kind:      ErrTypeMismatch,
			Attribute: "kind",
			Value:     t.Kind(),
			Err:       fmt.Errorf("kind %q lacks capabilities %s", t.Kind(), need&^t.Capabilities()),
		}
	}

	v, ok := t.(T)
	if !ok {
		return zero, &DecodeError{
			Kind:      ErrTypeMismatch,
			Attribute: "kind",
			Value:     t.Kind(),
			Err:       fmt.Errorf("kind %q does not decode to %T", t.Kind(), zero),
		}
	}

	return v, nil
}

// EncodeListing кодирует листинг обратно в конверт {kind:"Listing", ...}.
// Каждый элемент кодируется через r.Encode.
func EncodeListing[T Thing](r *Registry, l Listing[T]) (json.RawMessage, error) {
	items := make([]json.RawMessage, 0, len(l.children))
	for i, c := range l.children {
		raw, err := r.Encode(c)
		if err != nil {
			return nil, fmt.Errorf("databind: encode listing child %d: %w", i, err)
		}
		items = append(items, raw)
	}

	return EncodeListingPage(l.Page(items))
}

// EncodeListingPage кодирует уже закодированные элементы в конверт листинга.
func EncodeListingPage(page ListingPage) (json.RawMessage, error) {
	if page.Children == nil {
		page.Children = []json.RawMessage{}
	}

	data, err := listingPage.Encode(&page)
	if err != nil {
		return nil, err
	}

	return EncodeEnvelope(KindListing, data)
}
