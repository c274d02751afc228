package databind

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// maxUnixSeconds — граница, за которой секунды не помещаются в int64.
const maxUnixSeconds = 1 << 62

// DecodeUnixTime интерпретирует raw как секунды от эпохи (UTC), допускается
// дробная часть. Точность — микросекунды (сетка, которой пользуется API).
// Часовой пояс не применяется: результат всегда в UTC.
//
// Ошибки: ErrInvalidTimestamp, если raw — NaN/Inf или вне диапазона int64.
func DecodeUnixTime(raw float64) (time.Time, error) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) || math.Abs(raw) >= maxUnixSeconds {
		return time.Time{}, &DecodeError{
			Kind:  ErrInvalidTimestamp,
			Value: strconv.FormatFloat(raw, 'g', -1, 64),
		}
	}

	sec, frac := math.Modf(raw)
	usec := math.Round(frac * 1e6)

	return time.Unix(int64(sec), int64(usec)*int64(time.Microsecond)).UTC(), nil
}

// EncodeUnixTime — точная обратная функция к DecodeUnixTime для любых
// значений, которые она способна вернуть. Секунды и микросекунды складываются
// отдельно: UnixMicro переполняет int64 уже после ~9.2e12 секунд.
func EncodeUnixTime(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond()/1e3)/1e6
}

// UnixTime — кодек атрибута-метки времени (created_utc и т.п.).
var UnixTime = Codec[time.Time]{
	Name: "unix_time",
	Decode: func(raw json.RawMessage) (time.Time, error) {
		if isNull(raw) {
			return time.Time{}, fmt.Errorf("expected number of seconds, got null")
		}

		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return time.Time{}, fmt.Errorf("expected number of seconds: %w", err)
		}

		return DecodeUnixTime(f)
	},
	Encode: func(t time.Time) (json.RawMessage, error) {
		return json.Marshal(EncodeUnixTime(t))
	},
	Zero: func(t time.Time) bool { return t.IsZero() },
}
