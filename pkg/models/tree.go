package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dukestreet/JRAW/pkg/databind"
)

// emptyReplies — так API передаёт отсутствие ответов: пустая строка вместо листинга.
var emptyReplies = json.RawMessage(`""`)

func isEmptyReplies(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)

	return len(raw) == 0 || bytes.Equal(raw, emptyReplies) || bytes.Equal(raw, []byte("null"))
}

// pending — комментарий, чьи replies ещё не разобраны.
type pending struct {
	comment *Comment
	// path — путь до data комментария относительно корня (для ошибок).
	path string
}

// decodeComment собирает комментарий вместе со всем поддеревом ответов.
//
// Каждый комментарий сначала разбирается «неглубоко» (replies остаётся сырым),
// затем его replies раскрываются через явный стек. Глубина дерева не
// ограничена и не расходует стек горутины. Элементы других kind (more и любые
// зарегистрированные позже) диспетчеризуются через r и обязаны быть
// NestedIdentifiable.
func decodeComment(r *databind.Registry, data json.RawMessage) (*Comment, error) {
	root, err := decodeShallowComment(data)
	if err != nil {
		return nil, err
	}

	stack := []pending{{comment: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := top.comment
		raw := c.repliesRaw
		c.repliesRaw = nil

		repliesPath := top.path + "replies"
		if isEmptyReplies(raw) {
			c.replies = databind.Empty[NestedIdentifiable]()
			continue
		}

		page, err := databind.ParseListing(raw)
		if err != nil {
			return nil, prefix(err, repliesPath)
		}

		children := make([]NestedIdentifiable, 0, len(page.Children))
		var nested []pending
		for i, item := range page.Children {
			itemPath := fmt.Sprintf("%s.data.children[%d]", repliesPath, i)

			env, err := databind.ParseEnvelope(item)
			if err != nil {
				return nil, prefix(err, itemPath)
			}

			if env.Kind == KindComment {
				child, err := decodeShallowComment(env.Data)
				if err != nil {
					return nil, prefix(err, itemPath+".data")
				}

				children = append(children, child)
				nested = append(nested, pending{comment: child, path: itemPath + ".data."})
				continue
			}

			t, err := r.DispatchData(env.Kind, env.Data)
			if err != nil {
				return nil, prefix(err, itemPath)
			}

			n, ok := t.(NestedIdentifiable)
			if !ok || !t.Capabilities().Has(databind.CapNested) {
				return nil, prefix(databind.Mismatch("kind", json.RawMessage(fmt.Sprintf("%q", env.Kind)),
					fmt.Errorf("kind %q cannot appear in a comment tree", env.Kind)), itemPath)
			}

			children = append(children, n)
		}

		c.replies = databind.Assemble(children, page)

		// В обратном порядке, чтобы первый ответ снимался со стека первым.
		for i := len(nested) - 1; i >= 0; i-- {
			stack = append(stack, nested[i])
		}
	}

	return root, nil
}

// decodeShallowComment разбирает поля комментария, кроме replies, и проверяет
// fullname.
func decodeShallowComment(data json.RawMessage) (*Comment, error) {
	c, err := commentMapping.Decode(data)
	if err != nil {
		return nil, err
	}

	if want := databind.FullName(KindComment, c.id); c.fullName != want {
		return nil, databind.Mismatch("name", json.RawMessage(fmt.Sprintf("%q", c.fullName)),
			fmt.Errorf("fullname must be %q", want))
	}

	return &c, nil
}

func prefix(err error, path string) error {
	var de *databind.DecodeError
	if !errors.As(err, &de) {
		return err
	}

	out := *de
	if out.Path == "" {
		out.Path = path
	} else {
		out.Path = path + "." + out.Path
	}

	return &out
}

// encodeComment — обратная к decodeComment операция, тоже без рекурсии.
//
// Комментарии поддерева выписываются в прямом порядке обхода; при проходе в
// обратном порядке все потомки комментария уже закодированы к моменту, когда
// очередь доходит до него самого.
func encodeComment(r *databind.Registry, root *Comment) (json.RawMessage, error) {
	order := []*Comment{root}
	for i := 0; i < len(order); i++ {
		for _, child := range order[i].replies.Children() {
			if c, ok := child.(*Comment); ok {
				order = append(order, c)
			}
		}
	}

	encoded := make(map[*Comment]json.RawMessage, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		c := order[i]

		data, err := encodeShallowComment(r, c, encoded)
		if err != nil {
			return nil, fmt.Errorf("encode comment %s: %w", c.fullName, err)
		}

		if c == root {
			return data, nil
		}

		env, err := databind.EncodeEnvelope(KindComment, data)
		if err != nil {
			return nil, err
		}
		encoded[c] = env
	}

	return nil, errors.New("encode comment: root not reached")
}

func encodeShallowComment(r *databind.Registry, c *Comment, encoded map[*Comment]json.RawMessage) (json.RawMessage, error) {
	out := *c
	out.repliesRaw = emptyReplies

	if !c.replies.IsEmpty() || c.replies.HasCursors() {
		items := make([]json.RawMessage, 0, c.replies.Len())
		for _, child := range c.replies.Children() {
			if cc, ok := child.(*Comment); ok {
				items = append(items, encoded[cc])
				continue
			}

			raw, err := r.Encode(child)
			if err != nil {
				return nil, err
			}
			items = append(items, raw)
		}

		listing, err := databind.EncodeListingPage(c.replies.Page(items))
		if err != nil {
			return nil, err
		}
		out.repliesRaw = listing
	}

	return commentMapping.Encode(&out)
}

// Visit — функция обхода: depth — глубина узла (0 для корней). Возврат false
// прекращает обход.
type Visit func(n NestedIdentifiable, depth int) bool

// Walk обходит дерево в глубину в порядке сервера (сначала узел, затем его
// ответы), без рекурсии.
func Walk(roots databind.Listing[NestedIdentifiable], visit Visit) {
	type frame struct {
		node  NestedIdentifiable
		depth int
	}

	children := roots.Children()
	stack := make([]frame, 0, len(children))
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: children[i]})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(f.node, f.depth) {
			return
		}

		c, ok := f.node.(*Comment)
		if !ok {
			continue
		}

		replies := c.replies.Children()
		for i := len(replies) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: replies[i], depth: f.depth + 1})
		}
	}
}

// WalkComment обходит комментарий и его поддерево.
func WalkComment(c *Comment, visit Visit) {
	Walk(databind.NewListing([]NestedIdentifiable{c}, "", ""), visit)
}

// Flatten возвращает все узлы дерева в порядке обхода Walk.
func Flatten(roots databind.Listing[NestedIdentifiable]) []NestedIdentifiable {
	var out []NestedIdentifiable
	Walk(roots, func(n NestedIdentifiable, _ int) bool {
		out = append(out, n)
		return true
	})

	return out
}

// MoreChildrenOf собирает все заглушки more дерева: это id, которые придётся
// догружать отдельными запросами.
func MoreChildrenOf(roots databind.Listing[NestedIdentifiable]) []*MoreChildren {
	var out []*MoreChildren
	Walk(roots, func(n NestedIdentifiable, _ int) bool {
		if m, ok := n.(*MoreChildren); ok {
			out = append(out, m)
		}
		return true
	})

	return out
}
