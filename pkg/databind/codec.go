package databind

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Codec — двунаправленное преобразование значения атрибута между JSON и Go.
//
// Контракт:
//   - Decode получает «сырое» значение поля (никогда не отсутствующее);
//   - Encode — обратная операция: Encode(Decode(x)) эквивалентно x;
//   - Zero (опционально) сообщает, что значение соответствует «пустому»
//     состоянию, такое значение у Optional-поля при кодировании опускается.
type Codec[V any] struct {
	Name   string
	Decode func(raw json.RawMessage) (V, error)
	Encode func(v V) (json.RawMessage, error)
	Zero   func(v V) bool
}

var null = json.RawMessage("null")

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), null)
}

func marshal[V any](v V) (json.RawMessage, error) {
	return json.Marshal(v)
}

// String — строка JSON; null не допускается (для этого есть Nullable).
var String = Codec[string]{
	Name: "string",
	Decode: func(raw json.RawMessage) (string, error) {
		if isNull(raw) {
			return "", errors.New("expected string, got null")
		}

		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}

		return s, nil
	},
	Encode: marshal[string],
	Zero:   func(s string) bool { return s == "" },
}

// Bool — логическое значение JSON.
var Bool = Codec[bool]{
	Name: "bool",
	Decode: func(raw json.RawMessage) (bool, error) {
		if isNull(raw) {
			return false, errors.New("expected bool, got null")
		}

		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return false, err
		}

		return b, nil
	},
	Encode: marshal[bool],
	Zero:   func(b bool) bool { return !b },
}

// Int — целое число. Допускается запись вида 10.0 (API иногда отдаёт счётчики
// как float), дробные значения отклоняются.
var Int = Codec[int]{
	Name: "int",
	Decode: func(raw json.RawMessage) (int, error) {
		if isNull(raw) {
			return 0, errors.New("expected integer, got null")
		}

		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, err
		}

		if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			return int(i), nil
		}

		f, err := n.Float64()
		if err != nil {
			return 0, err
		}

		if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, fmt.Errorf("expected integer, got %s", n)
		}

		return int(f), nil
	},
	Encode: marshal[int],
	Zero:   func(n int) bool { return n == 0 },
}

// NonNegativeInt — целое число >= 0 (счётчики кармы и т.п.).
var NonNegativeInt = Codec[int]{
	Name: "non_negative_int",
	Decode: func(raw json.RawMessage) (int, error) {
		n, err := Int.Decode(raw)
		if err != nil {
			return 0, err
		}

		if n < 0 {
			return 0, fmt.Errorf("expected non-negative integer, got %d", n)
		}

		return n, nil
	},
	Encode: marshal[int],
	Zero:   Int.Zero,
}

// Raw сохраняет значение без разбора. Нужен для полей, которые разбираются
// отдельным проходом (например, replies у комментария).
var Raw = Codec[json.RawMessage]{
	Name: "raw",
	Decode: func(raw json.RawMessage) (json.RawMessage, error) {
		return append(json.RawMessage(nil), raw...), nil
	},
	Encode: func(v json.RawMessage) (json.RawMessage, error) {
		if len(v) == 0 {
			return null, nil
		}

		return v, nil
	},
	Zero: func(v json.RawMessage) bool { return len(v) == 0 || isNull(v) },
}

// Nullable превращает кодек V в кодек *V: null <-> nil.
// Так моделируются атрибуты с состоянием «неизвестно».
func Nullable[V any](c Codec[V]) Codec[*V] {
	return Codec[*V]{
		Name: "nullable " + c.Name,
		Decode: func(raw json.RawMessage) (*V, error) {
			if isNull(raw) {
				return nil, nil
			}

			v, err := c.Decode(raw)
			if err != nil {
				return nil, err
			}

			return &v, nil
		},
		Encode: func(v *V) (json.RawMessage, error) {
			if v == nil {
				return null, nil
			}

			return c.Encode(*v)
		},
		Zero: func(v *V) bool { return v == nil },
	}
}

// NullAs трактует null как значение zero (и кодирует zero обратно в null).
// Пример: distinguished=null означает «не выделен».
func NullAs[V comparable](c Codec[V], zero V) Codec[V] {
	return Codec[V]{
		Name: c.Name,
		Decode: func(raw json.RawMessage) (V, error) {
			if isNull(raw) {
				return zero, nil
			}

			return c.Decode(raw)
		},
		Encode: func(v V) (json.RawMessage, error) {
			if v == zero {
				return null, nil
			}

			return c.Encode(v)
		},
		Zero: func(v V) bool { return v == zero },
	}
}

// Enum — строковое перечисление с закрытым множеством значений.
// Значение вне множества — ошибка (на уровне поля превращается в ErrTypeMismatch).
func Enum[E comparable](name string, values map[string]E) Codec[E] {
	reverse := make(map[E]string, len(values))
	for wire, v := range values {
		if _, dup := reverse[v]; dup {
			panic(fmt.Sprintf("databind: enum %s: duplicate value for %q", name, wire))
		}
		reverse[v] = wire
	}

	return Codec[E]{
		Name: name,
		Decode: func(raw json.RawMessage) (E, error) {
			var zero E

			s, err := String.Decode(raw)
			if err != nil {
				return zero, err
			}

			v, ok := values[s]
			if !ok {
				return zero, fmt.Errorf("%q is not a valid %s", s, name)
			}

			return v, nil
		},
		Encode: func(v E) (json.RawMessage, error) {
			wire, ok := reverse[v]
			if !ok {
				return nil, fmt.Errorf("value %v is not a valid %s", v, name)
			}

			return json.Marshal(wire)
		},
	}
}

// SliceOf — массив JSON. null декодируется в nil, порядок элементов сохраняется.
func SliceOf[V any](c Codec[V]) Codec[[]V] {
	return Codec[[]V]{
		Name: "[]" + c.Name,
		Decode: func(raw json.RawMessage) ([]V, error) {
			if isNull(raw) {
				return nil, nil
			}

			var items []json.RawMessage
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, err
			}

			out := make([]V, 0, len(items))
			for i, item := range items {
				v, err := c.Decode(item)
				if err != nil {
					return nil, elementError(err, fmt.Sprintf("[%d]", i), item)
				}
				out = append(out, v)
			}

			return out, nil
		},
		Encode: func(vs []V) (json.RawMessage, error) {
			if vs == nil {
				return null, nil
			}

			items := make([]json.RawMessage, 0, len(vs))
			for _, v := range vs {
				raw, err := c.Encode(v)
				if err != nil {
					return nil, err
				}
				items = append(items, raw)
			}

			return json.Marshal(items)
		},
		Zero: func(vs []V) bool { return vs == nil },
	}
}

// MapOf — объект JSON с произвольными ключами. null декодируется в nil.
func MapOf[V any](c Codec[V]) Codec[map[string]V] {
	return Codec[map[string]V]{
		Name: "map[string]" + c.Name,
		Decode: func(raw json.RawMessage) (map[string]V, error) {
			if isNull(raw) {
				return nil, nil
			}

			var items map[string]json.RawMessage
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, err
			}

			out := make(map[string]V, len(items))
			for k, item := range items {
				v, err := c.Decode(item)
				if err != nil {
					return nil, elementError(err, k, item)
				}
				out[k] = v
			}

			return out, nil
		},
		Encode: func(vs map[string]V) (json.RawMessage, error) {
			if vs == nil {
				return null, nil
			}

			items := make(map[string]json.RawMessage, len(vs))
			for k, v := range vs {
				raw, err := c.Encode(v)
				if err != nil {
					return nil, err
				}
				items[k] = raw
			}

			return json.Marshal(items)
		},
		Zero: func(vs map[string]V) bool { return vs == nil },
	}
}

// elementError приводит ошибку элемента коллекции к *DecodeError с путём.
func elementError(err error, segment string, raw json.RawMessage) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return withPath(err, segment)
	}

	out := mismatch("", raw, err)
	out.Path = segment

	return out
}
