// Package validate turns loosely typed input into domain values or
// field-level error sets. It has no side effects.
package validate

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/relvacode/iso8601"
	"github.com/shopspring/decimal"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/domain"
)

const (
	FieldEquipmentID = "equipment_id"
	FieldTimestamp   = "timestamp"
	FieldValue       = "value"
)

const (
	maxEquipmentIDLen = 255
	maxDigits         = 10
	decimalPlaces     = 2
)

const (
	msgRequired       = "This field is required."
	msgNull           = "This field may not be null."
	msgBlank          = "This field may not be blank."
	msgNotString      = "Not a valid string."
	msgInvalidNumber  = "A valid number is required."
	msgDatetimeFormat = "Datetime has wrong format. Use one of these formats instead: YYYY-MM-DDThh:mm[:ss[.uuuuuu]][+HH:MM|-HH:MM|Z]."
	msgDatetimeNaive  = "Datetime must include a timezone offset."
)

// FieldMapping pairs an external (wire) field name with its internal name.
type FieldMapping struct {
	Wire  string
	Field string
}

// ReadingFields is the wire mapping shared by the JSON body, the CSV
// header and MQTT payloads.
var ReadingFields = []FieldMapping{
	{Wire: "equipmentId", Field: FieldEquipmentID},
	{Wire: "timestamp", Field: FieldTimestamp},
	{Wire: "value", Field: FieldValue},
}

// Record is a reading keyed by internal field names. Values are whatever
// the decoder produced: string, json.Number, float64, nil, ...
type Record map[string]any

// FromWire renames wire keys to internal keys. Unknown keys are dropped,
// absent keys stay absent.
func FromWire(in map[string]any) Record {
	rec := make(Record, len(ReadingFields))
	for _, m := range ReadingFields {
		if v, ok := in[m.Wire]; ok {
			rec[m.Field] = v
		}
	}
	return rec
}

var tzSuffix = regexp.MustCompile(`(Z|[+-]\d{2}(:?\d{2})?)$`)

// Reading validates rec. On success the returned FieldErrors is nil.
func Reading(rec Record) (domain.Reading, domain.FieldErrors) {
	var out domain.Reading
	errs := domain.FieldErrors{}

	if v, ok := rec[FieldEquipmentID]; !ok {
		errs.Add(FieldEquipmentID, msgRequired)
	} else if id, msg := equipmentID(v); msg != "" {
		errs.Add(FieldEquipmentID, msg)
	} else {
		out.EquipmentID = id
	}

	if v, ok := rec[FieldTimestamp]; !ok {
		errs.Add(FieldTimestamp, msgRequired)
	} else if ts, msg := timestamp(v); msg != "" {
		errs.Add(FieldTimestamp, msg)
	} else {
		out.Timestamp = ts
	}

	if v, ok := rec[FieldValue]; !ok {
		errs.Add(FieldValue, msgRequired)
	} else if d, msg := value(v); msg != "" {
		errs.Add(FieldValue, msg)
	} else {
		out.Value = d
	}

	if len(errs) > 0 {
		return domain.Reading{}, errs
	}
	return out, nil
}

func equipmentID(v any) (string, string) {
	var s string
	switch x := v.(type) {
	case nil:
		return "", msgNull
	case string:
		s = x
	case json.Number:
		s = x.String()
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		s = strconv.Itoa(x)
	case int64:
		s = strconv.FormatInt(x, 10)
	default:
		return "", msgNotString
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", msgBlank
	}
	if utf8.RuneCountInString(s) > maxEquipmentIDLen {
		return "", "Ensure this field has no more than 255 characters."
	}
	return s, ""
}

// ParseTimestamp accepts YYYY-MM-DD[T ]hh:mm[:ss[.frac]] followed by Z or
// a ±HH[:MM] offset. The result is in UTC.
func ParseTimestamp(raw string) (time.Time, string) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	sep := strings.IndexByte(s, 'T')
	if sep < 0 {
		return time.Time{}, msgDatetimeFormat
	}
	t, err := iso8601.ParseString(s)
	if err != nil {
		return time.Time{}, msgDatetimeFormat
	}
	if !tzSuffix.MatchString(s[sep+1:]) {
		return time.Time{}, msgDatetimeNaive
	}
	return t.UTC(), ""
}

func timestamp(v any) (time.Time, string) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, msgNull
	case string:
		return ParseTimestamp(x)
	default:
		return time.Time{}, msgDatetimeFormat
	}
}

func value(v any) (decimal.Decimal, string) {
	var d decimal.Decimal
	switch x := v.(type) {
	case nil:
		return d, msgNull
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return d, msgInvalidNumber
		}
		d = decimal.NewFromFloat(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	case json.Number:
		parsed, err := decimal.NewFromString(x.String())
		if err != nil {
			return d, msgInvalidNumber
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return d, msgInvalidNumber
		}
		d = parsed
	default:
		return d, msgInvalidNumber
	}
	if msg := precision(d); msg != "" {
		return decimal.Decimal{}, msg
	}
	return d.Round(decimalPlaces), ""
}

// precision enforces NUMERIC(10,2). Trailing fractional zeros do not count.
func precision(d decimal.Decimal) string {
	abs := d.Abs()

	places := 0
	for places <= maxDigits && !abs.Equal(abs.Truncate(int32(places))) {
		places++
	}

	whole := 0
	if intPart := abs.Truncate(0); !intPart.IsZero() {
		whole = len(intPart.String())
	}

	switch {
	case whole+places > maxDigits:
		return "Ensure that there are no more than 10 digits in total."
	case places > decimalPlaces:
		return "Ensure that there are no more than 2 decimal places."
	case whole > maxDigits-decimalPlaces:
		return "Ensure that there are no more than 8 digits before the decimal point."
	}
	return ""
}
