// FILE: elklog/src/internal/format/json.go
package format

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"elklog/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/valyala/fastjson"
)

// Field names of the structured record, in wire order.
const (
	FieldTimestamp  = "timestamp"
	FieldLevel      = "level"
	FieldLoggerName = "logger_name"
	FieldMessage    = "message"
	FieldStatus     = "status"
	FieldFunction   = "function"
	FieldVariable   = "variable"
	FieldValue      = "value"
)

// JSONFormatter produces the canonical structured JSON line. Keys are
// always emitted in the same order and absent optional fields are null.
type JSONFormatter struct {
	arenas fastjson.ArenaPool
	logger *log.Logger
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(logger *log.Logger) *JSONFormatter {
	return &JSONFormatter{logger: logger}
}

// Format transforms a single LogRecord into a JSON line.
func (f *JSONFormatter) Format(rec core.LogRecord) ([]byte, error) {
	body, err := f.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return append(body, '\n'), nil
}

// Marshal returns the JSON object without the trailing newline, the
// body the remote sink posts.
func (f *JSONFormatter) Marshal(rec core.LogRecord) ([]byte, error) {
	a := f.arenas.Get()
	defer f.arenas.Put(a)

	o := a.NewObject()
	o.Set(FieldTimestamp, a.NewString(rec.Timestamp()))
	o.Set(FieldLevel, a.NewString(rec.Level.String()))
	o.Set(FieldLoggerName, a.NewString(rec.LoggerName))
	o.Set(FieldMessage, a.NewString(rec.Message))

	status, err := f.optional(a, FieldStatus, rec.Fields.Status)
	if err != nil {
		return nil, err
	}
	o.Set(FieldStatus, status)
	o.Set(FieldFunction, optionalString(a, rec.Fields.Function))
	o.Set(FieldVariable, optionalString(a, rec.Fields.Variable))

	value, err := f.optional(a, FieldValue, rec.Fields.Value)
	if err != nil {
		return nil, err
	}
	o.Set(FieldValue, value)

	// MarshalTo appends into a fresh slice, safe after the arena returns
	return o.MarshalTo(nil), nil
}

// Name returns the formatter's type name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// optional renders an optional field. Nil and the empty string are null,
// the same rule function and variable follow.
func (f *JSONFormatter) optional(a *fastjson.Arena, field string, v any) (*fastjson.Value, error) {
	if s, ok := v.(string); ok && s == "" {
		return a.NewNull(), nil
	}
	val, err := scalar(a, v)
	if err != nil {
		if f.logger != nil {
			f.logger.Debug("msg", "Rejected optional field value",
				"component", "json_formatter",
				"field", field,
				"error", err)
		}
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return val, nil
}

func optionalString(a *fastjson.Arena, s string) *fastjson.Value {
	if s == "" {
		return a.NewNull()
	}
	return a.NewString(s)
}

// scalar converts a caller-supplied value into a JSON scalar. Numbers stay
// numbers; anything that is not a scalar is rendered with its string form.
func scalar(a *fastjson.Arena, v any) (*fastjson.Value, error) {
	switch val := v.(type) {
	case nil:
		return a.NewNull(), nil
	case string:
		return a.NewString(val), nil
	case bool:
		if val {
			return a.NewTrue(), nil
		}
		return a.NewFalse(), nil
	case int:
		return a.NewNumberString(strconv.FormatInt(int64(val), 10)), nil
	case int8:
		return a.NewNumberString(strconv.FormatInt(int64(val), 10)), nil
	case int16:
		return a.NewNumberString(strconv.FormatInt(int64(val), 10)), nil
	case int32:
		return a.NewNumberString(strconv.FormatInt(int64(val), 10)), nil
	case int64:
		return a.NewNumberString(strconv.FormatInt(val, 10)), nil
	case uint:
		return a.NewNumberString(strconv.FormatUint(uint64(val), 10)), nil
	case uint8:
		return a.NewNumberString(strconv.FormatUint(uint64(val), 10)), nil
	case uint16:
		return a.NewNumberString(strconv.FormatUint(uint64(val), 10)), nil
	case uint32:
		return a.NewNumberString(strconv.FormatUint(uint64(val), 10)), nil
	case uint64:
		return a.NewNumberString(strconv.FormatUint(val, 10)), nil
	case float32:
		return float(a, float64(val)), nil
	case float64:
		return float(a, val), nil
	case json.Number:
		if _, err := val.Float64(); err != nil {
			return nil, fmt.Errorf("invalid number %q", val.String())
		}
		return a.NewNumberString(val.String()), nil
	case error:
		return a.NewString(val.Error()), nil
	case fmt.Stringer:
		return a.NewString(val.String()), nil
	default:
		return reflected(a, val), nil
	}
}

// reflected handles named scalar types such as `type Code int`.
func reflected(a *fastjson.Arena, v any) *fastjson.Value {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.NewNumberString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return a.NewNumberString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		return float(a, rv.Float())
	case reflect.Bool:
		if rv.Bool() {
			return a.NewTrue()
		}
		return a.NewFalse()
	case reflect.String:
		return a.NewString(rv.String())
	default:
		return a.NewString(fmt.Sprint(v))
	}
}

// float keeps NaN and infinities as strings, JSON has no literal for them.
func float(a *fastjson.Arena, f float64) *fastjson.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return a.NewString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return a.NewNumberFloat64(f)
}
