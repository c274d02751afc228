package databind

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
)

// KindListing — kind конверта листинга. Листинг не является Thing и не
// регистрируется в Registry.
const KindListing = "Listing"

type entry struct {
	decode func(data json.RawMessage) (Thing, error)
	encode func(t Thing) (json.RawMessage, error)
}

// Registry — отображение kind -> (тип, таблица полей).
//
// Реестр заполняется один раз до первого использования и после этого только
// читается: первый Dispatch/Encode (или явный Freeze) замораживает его,
// последующая регистрация — паника. Поэтому декодирование безопасно вызывать
// из любого числа горутин без синхронизации.
type Registry struct {
	kinds  map[string]entry
	frozen atomic.Bool
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]entry)}
}

// Register регистрирует таблицу m для kind. PT — указатель на модель, именно
// он возвращается из Dispatch.
func Register[T any, PT interface {
	*T
	Thing
}](r *Registry, kind string, m *Mapping[T]) {
	RegisterFunc(r, kind,
		func(data json.RawMessage) (PT, error) {
			v, err := m.Decode(data)
			if err != nil {
				return nil, err
			}
			return PT(&v), nil
		},
		func(t PT) (json.RawMessage, error) {
			return m.Encode((*T)(t))
		},
	)
}

// RegisterFunc регистрирует произвольную пару decode/encode для kind.
// Нужна для типов, которые собираются в несколько проходов (дерево комментариев).
func RegisterFunc[PT Thing](r *Registry, kind string, decode func(json.RawMessage) (PT, error), encode func(PT) (json.RawMessage, error)) {
	switch {
	case r.frozen.Load():
		panic(fmt.Sprintf("databind: register %q after registry is in use", kind))
	case kind == "":
		panic("databind: register with empty kind")
	case kind == KindListing:
		panic("databind: Listing is not a Thing and cannot be registered")
	case decode == nil || encode == nil:
		panic(fmt.Sprintf("databind: register %q without decoder/encoder", kind))
	}

	if _, dup := r.kinds[kind]; dup {
		panic(fmt.Sprintf("databind: kind %q registered twice", kind))
	}

	r.kinds[kind] = entry{
		decode: func(data json.RawMessage) (Thing, error) {
			return decode(data)
		},
		encode: func(t Thing) (json.RawMessage, error) {
			pt, ok := t.(PT)
			if !ok {
				return nil, fmt.Errorf("databind: kind %q: unexpected model type %T", kind, t)
			}
			return encode(pt)
		},
	}
}

// Freeze запрещает дальнейшую регистрацию.
func (r *Registry) Freeze() {
	r.frozen.Store(true)
}

// markInUse замораживает реестр при первом использовании. Запись выполняется
// только один раз, дальше декодирование лишь читает флаг.
func (r *Registry) markInUse() {
	if !r.frozen.Load() {
		r.frozen.Store(true)
	}
}

// Has сообщает, зарегистрирован ли kind.
func (r *Registry) Has(kind string) bool {
	_, ok := r.kinds[kind]

	return ok
}

// Kinds возвращает отсортированный список зарегистрированных kind.
func (r *Registry) Kinds() []string {
	out := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		out = append(out, k)
	}
	slices.Sort(out)

	return out
}

// Envelope — конверт {kind, data}.
type Envelope struct {
	Kind string
	Data json.RawMessage
}

// ParseEnvelope разбирает конверт, не трогая data.
// Структурные ошибки (не объект, нет kind/data, kind не строка) — ErrMalformedEnvelope.
func ParseEnvelope(raw json.RawMessage) (Envelope, error) {
	var env struct {
		Kind *string         `json:"kind"`
		Data json.RawMessage `json:"data"`
	}

	if isNull(raw) {
		return Envelope{}, malformed("", raw, errors.New("expected envelope, got null"))
	}

	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, malformed("", raw, err)
	}

	if env.Kind == nil {
		return Envelope{}, malformed("kind", raw, errors.New("envelope has no kind"))
	}

	if len(env.Data) == 0 {
		return Envelope{}, malformed("data", raw, errors.New("envelope has no data"))
	}

	return Envelope{Kind: *env.Kind, Data: env.Data}, nil
}

// ExpectEnvelope разбирает конверт и проверяет его kind.
func ExpectEnvelope(raw json.RawMessage, kind string) (json.RawMessage, error) {
	env, err := ParseEnvelope(raw)
	if err != nil {
		return nil, err
	}

	if env.Kind != kind {
		return nil, malformed("kind", raw, fmt.Errorf("expected kind %q, got %q", kind, env.Kind))
	}

	return env.Data, nil
}

// EncodeEnvelope собирает конверт {kind, data}.
func EncodeEnvelope(kind string, data json.RawMessage) (json.RawMessage, error) {
	return json.Marshal(struct {
		Kind string          `json:"kind"`
		Data json.RawMessage `json:"data"`
	}{Kind: kind, Data: data})
}

// Dispatch разрешает конверт в конкретную модель.
//
// Алгоритм:
//  1. читается kind; не зарегистрирован -> ErrUnknownKind;
//  2. data декодируется таблицей полей этого kind;
//  3. для сущностей с CapFullName проверяется fullname == kind + "_" + id.
func (r *Registry) Dispatch(raw json.RawMessage) (Thing, error) {
	r.markInUse()

	env, err := ParseEnvelope(raw)
	if err != nil {
		return nil, err
	}

	return r.DispatchData(env.Kind, env.Data)
}

// DispatchData — Dispatch для уже разобранного конверта.
func (r *Registry) DispatchData(kind string, data json.RawMessage) (Thing, error) {
	r.markInUse()

	e, ok := r.kinds[kind]
	if !ok {
		return nil, &DecodeError{Kind: ErrUnknownKind, Attribute: "kind", Value: kind}
	}

	t, err := e.decode(data)
	if err != nil {
		return nil, withPath(err, "data")
	}

	if t.Kind() != kind {
		return nil, &DecodeError{
			Kind:      ErrTypeMismatch,
			Attribute: "kind",
			Value:     kind,
			Err:       fmt.Errorf("decoded model reports kind %q", t.Kind()),
		}
	}

	if t.Capabilities().Has(CapFullName) {
		id, ok := t.(Identifiable)
		if !ok {
			return nil, &DecodeError{Kind: ErrTypeMismatch, Attribute: "name", Value: kind,
				Err: errors.New("model declares fullname capability but has no identity")}
		}

		if want := FullName(kind, id.ID()); id.FullName() != want {
			return nil, &DecodeError{
				Kind:      ErrTypeMismatch,
				Path:      "data",
				Attribute: "name",
				Value:     id.FullName(),
				Err:       fmt.Errorf("fullname must be %q", want),
			}
		}
	}

	return t, nil
}

// Encode кодирует модель обратно в конверт, kind берётся из самой модели.
func (r *Registry) Encode(t Thing) (json.RawMessage, error) {
	r.markInUse()

	if t == nil {
		return nil, errors.New("databind: encode nil thing")
	}

	e, ok := r.kinds[t.Kind()]
	if !ok {
		return nil, fmt.Errorf("databind: encode: kind %q is not registered", t.Kind())
	}

	data, err := e.encode(t)
	if err != nil {
		return nil, err
	}

	return EncodeEnvelope(t.Kind(), data)
}

// Enveloped — кодек поля, содержащего конверт сущности типа T.
func Enveloped[T Thing](r *Registry) Codec[T] {
	return Codec[T]{
		Name: "enveloped",
		Decode: func(raw json.RawMessage) (T, error) {
			var zero T

			t, err := r.Dispatch(raw)
			if err != nil {
				return zero, err
			}

			out, ok := t.(T)
			if !ok {
				return zero, &DecodeError{Kind: ErrTypeMismatch, Attribute: "kind", Value: t.Kind(),
					Err: fmt.Errorf("kind %q does not decode to %T", t.Kind(), zero)}
			}

			return out, nil
		},
		Encode: func(v T) (json.RawMessage, error) {
			return r.Encode(v)
		},
	}
}
