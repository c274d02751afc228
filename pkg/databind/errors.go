// databind реализует декодирование самоописывающего JSON reddit API
// (конверты {kind, data}, листинги, таблицы полей) в неизменяемые модели.
//
// Пакет не логирует, не ретраит и не проглатывает ошибки: любая ошибка
// декодирования возвращается вызывающему как *DecodeError.
package databind

import (
	"encoding/json"
	"errors"
	"strings"
)

var (
	// ErrUnknownKind — kind конверта не зарегистрирован в Registry.
	ErrUnknownKind = errors.New("unknown kind")
	// ErrMissingRequiredField — обязательное поле отсутствует во входном объекте.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrTypeMismatch — неверная форма/тип значения, значение вне закрытого
	// множества или элемент листинга без заявленных возможностей.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrMalformedEnvelope — внешний конверт структурно некорректен.
	ErrMalformedEnvelope = errors.New("malformed envelope")
	// ErrInvalidTimestamp — метка времени не является конечным числом.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// maxValueLen — сколько байт исходного значения сохраняется в ошибке.
const maxValueLen = 64

// DecodeError — типизированная ошибка декодирования.
//
// Особенности:
//   - Kind — одна из sentinel-ошибок пакета, проверяется через errors.Is;
//   - Path — путь до места ошибки во входном JSON (например, "data.replies.data.children[2].data");
//   - Attribute — имя поля на проводе (или kind для ErrUnknownKind);
//   - Value — усечённое исходное значение;
//   - Err — первопричина (ошибка encoding/json и т.п.), может быть nil.
type DecodeError struct {
	Kind      error
	Path      string
	Attribute string
	Value     string
	Err       error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("databind: ")
	b.WriteString(e.Kind.Error())

	if e.Attribute != "" {
		b.WriteString(" ")
		b.WriteString(e.Attribute)
	}

	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}

	if e.Value != "" {
		b.WriteString(" (value ")
		b.WriteString(e.Value)
		b.WriteString(")")
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap позволяет errors.Is/As видеть как вид ошибки, так и первопричину.
func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// Is сравнивает по виду ошибки, чтобы errors.Is(err, ErrTypeMismatch) работал
// и для ошибок, созданных вне пакета.
func (e *DecodeError) Is(target error) bool {
	return e.Kind == target
}

func missing(attr string) *DecodeError {
	return &DecodeError{Kind: ErrMissingRequiredField, Attribute: attr}
}

func mismatch(attr string, raw json.RawMessage, cause error) *DecodeError {
	return &DecodeError{Kind: ErrTypeMismatch, Attribute: attr, Value: clip(raw), Err: cause}
}

func malformed(path string, raw json.RawMessage, cause error) *DecodeError {
	return &DecodeError{Kind: ErrMalformedEnvelope, Path: path, Value: clip(raw), Err: cause}
}

// Mismatch создаёт ошибку ErrTypeMismatch для атрибута attr.
// Используется проверками моделей, выполняемыми после разбора полей.
func Mismatch(attr string, raw json.RawMessage, cause error) error {
	return mismatch(attr, raw, cause)
}

// Malformed создаёт ошибку ErrMalformedEnvelope для внешних обёрток,
// разбираемых вне пакета (например, массив ответов /comments).
func Malformed(raw json.RawMessage, cause error) error {
	return malformed("", raw, cause)
}

// withPath добавляет сегмент пути в начало пути ошибки.
// Ошибки, не являющиеся *DecodeError, превращаются в ErrTypeMismatch.
func withPath(err error, segment string) error {
	var de *DecodeError
	if !errors.As(err, &de) {
		return &DecodeError{Kind: ErrTypeMismatch, Path: segment, Err: err}
	}

	out := *de
	switch {
	case out.Path == "":
		out.Path = segment
	case strings.HasPrefix(out.Path, "["):
		out.Path = segment + out.Path
	default:
		out.Path = segment + "." + out.Path
	}

	return &out
}

func clip(raw json.RawMessage) string {
	s := string(raw)
	if len(s) > maxValueLen {
		return s[:maxValueLen] + "..."
	}

	return s
}
