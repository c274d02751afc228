package databind

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Policy — политика присутствия поля на проводе.
type Policy uint8

const (
	// PolicyRequired — отсутствие поля — ошибка ErrMissingRequiredField.
	PolicyRequired Policy = iota + 1
	// PolicyOptional — отсутствие поля (или null) — «пустое/неизвестное» состояние.
	PolicyOptional
)

func (p Policy) String() string {
	switch p {
	case PolicyRequired:
		return "required"
	case PolicyOptional:
		return "optional"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// Field — строка таблицы полей: имя на проводе, политика и преобразование
// в атрибут модели T. Создаётся через Required/Optional.
type Field[T any] struct {
	wire   string
	policy Policy
	decode func(dst *T, raw json.RawMessage) error
	encode func(src *T) (json.RawMessage, bool, error)
}

// Wire возвращает имя поля на проводе.
func (f Field[T]) Wire() string { return f.wire }

// Policy возвращает политику присутствия поля.
func (f Field[T]) Policy() Policy { return f.policy }

// Required объявляет обязательное поле wire, декодируемое кодеком c в атрибут,
// на который указывает attr.
func Required[T, V any](wire string, c Codec[V], attr func(*T) *V) Field[T] {
	return newField(wire, PolicyRequired, c, attr)
}

// Optional объявляет необязательное поле: отсутствие и null оставляют атрибут
// в нулевом состоянии; при кодировании нулевое значение опускается.
func Optional[T, V any](wire string, c Codec[V], attr func(*T) *V) Field[T] {
	return newField(wire, PolicyOptional, c, attr)
}

func newField[T, V any](wire string, policy Policy, c Codec[V], attr func(*T) *V) Field[T] {
	if c.Decode == nil || c.Encode == nil || attr == nil {
		return Field[T]{wire: wire, policy: policy}
	}

	return Field[T]{
		wire:   wire,
		policy: policy,
		decode: func(dst *T, raw json.RawMessage) error {
			v, err := c.Decode(raw)
			if err != nil {
				return err
			}
			*attr(dst) = v
			return nil
		},
		encode: func(src *T) (json.RawMessage, bool, error) {
			v := *attr(src)
			if policy == PolicyOptional && c.Zero != nil && c.Zero(v) {
				return nil, false, nil
			}

			raw, err := c.Encode(v)
			if err != nil {
				return nil, false, err
			}

			if policy == PolicyOptional && isNull(raw) {
				return nil, false, nil
			}

			return raw, true, nil
		},
	}
}

// Mapping — декларативная таблица полей сущности T.
//
// Инварианты (проверяются в NewMapping, а не во время декодирования):
//   - имя сущности непустое;
//   - у каждого поля непустое имя на проводе, оно уникально в таблице;
//   - у каждого поля есть кодек и аксессор атрибута.
type Mapping[T any] struct {
	name   string
	fields []Field[T]
	check  func(*T) error
}

// NewMapping строит таблицу полей и валидирует её. Некорректная таблица —
// ошибка программиста, поэтому паника при регистрации.
func NewMapping[T any](name string, fields ...Field[T]) *Mapping[T] {
	if name == "" {
		panic("databind: mapping without name")
	}

	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if f.wire == "" {
			panic(fmt.Sprintf("databind: mapping %s: field #%d has empty wire name", name, i))
		}

		if _, dup := seen[f.wire]; dup {
			panic(fmt.Sprintf("databind: mapping %s: duplicate wire name %q", name, f.wire))
		}
		seen[f.wire] = struct{}{}

		if f.decode == nil || f.encode == nil {
			panic(fmt.Sprintf("databind: mapping %s: field %q has no codec or accessor", name, f.wire))
		}
	}

	return &Mapping[T]{name: name, fields: append([]Field[T](nil), fields...)}
}

// WithCheck возвращает копию таблицы с проверкой целостности, выполняемой
// после разбора всех полей (например, согласованность fullname и id).
func (m *Mapping[T]) WithCheck(check func(*T) error) *Mapping[T] {
	out := *m
	out.check = check

	return &out
}

// Name возвращает имя сущности.
func (m *Mapping[T]) Name() string { return m.name }

// Fields возвращает копию таблицы полей.
func (m *Mapping[T]) Fields() []Field[T] {
	return append([]Field[T](nil), m.fields...)
}

// Decode разбирает объект JSON по таблице полей.
//
// Порядок:
//  1. для каждого поля ищется имя на проводе;
//  2. отсутствует и обязательно -> ErrMissingRequiredField;
//  3. отсутствует (или null) и необязательно -> нулевое состояние;
//  4. присутствует -> преобразование; сбой -> ErrTypeMismatch (или вид ошибки кодека);
//  5. неизвестные поля игнорируются.
//
// Значение возвращается только при полном успехе.
func (m *Mapping[T]) Decode(data json.RawMessage) (T, error) {
	var zero T

	if isNull(data) {
		return zero, mismatch(m.name, data, errors.New("expected object, got null"))
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return zero, mismatch(m.name, data, fmt.Errorf("expected object: %w", err))
	}

	var out T
	for _, f := range m.fields {
		raw, ok := obj[f.wire]
		if !ok || (f.policy == PolicyOptional && isNull(raw)) {
			if f.policy == PolicyRequired {
				return zero, missing(f.wire)
			}
			continue
		}

		if err := f.decode(&out, raw); err != nil {
			return zero, fieldError(err, f.wire, raw)
		}
	}

	if m.check != nil {
		if err := m.check(&out); err != nil {
			return zero, err
		}
	}

	return out, nil
}

// Encode — обратная к Decode операция: собирает объект JSON из атрибутов.
func (m *Mapping[T]) Encode(v *T) (json.RawMessage, error) {
	obj := make(map[string]json.RawMessage, len(m.fields))
	for _, f := range m.fields {
		raw, ok, err := f.encode(v)
		if err != nil {
			return nil, fmt.Errorf("databind: encode %s.%s: %w", m.name, f.wire, err)
		}

		if ok {
			obj[f.wire] = raw
		}
	}

	return json.Marshal(obj)
}

// Codec превращает таблицу в кодек вложенного объекта.
func (m *Mapping[T]) Codec() Codec[T] {
	return Codec[T]{
		Name:   m.name,
		Decode: m.Decode,
		Encode: func(v T) (json.RawMessage, error) { return m.Encode(&v) },
	}
}

// fieldError приписывает ошибку кодека полю wire.
func fieldError(err error, wire string, raw json.RawMessage) error {
	var de *DecodeError
	if !errors.As(err, &de) {
		return mismatch(wire, raw, err)
	}

	if de.Attribute == "" {
		out := *de
		out.Attribute = wire
		if out.Value == "" {
			out.Value = clip(raw)
		}
		return &out
	}

	return withPath(err, wire)
}
