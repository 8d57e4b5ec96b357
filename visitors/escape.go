package visitors

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/bawdo/litequery/internal/quoting"
	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/sqlerr"
)

// EscapeValue renders value as a SQL literal. field, when not nil, supplies
// the type used for temporal values. Literals render as their raw text.
func (b *baseVisitor) EscapeValue(field *nodes.Field, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "NULL", nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case string:
		return b.quoteString(v), nil
	case []byte:
		return "X'" + strings.ToUpper(hex.EncodeToString(v)) + "'", nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case *big.Int:
		if v == nil {
			return "NULL", nil
		}
		return v.String(), nil
	case time.Time:
		if field != nil && field.Type.Temporal() {
			return strconv.FormatInt(v.UnixMilli(), 10), nil
		}
		return b.quoteString(v.Format(time.RFC3339Nano)), nil
	case *nodes.Literal:
		return v.Raw, nil
	case *nodes.FieldLiteral:
		return b.fieldLiteralID(v), nil
	case *nodes.DistinctLiteral:
		return "DISTINCT", nil
	case *nodes.Field:
		return b.fieldID(v), nil
	case driver.Valuer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "NULL", nil
		}
		dv, err := v.Value()
		if err != nil {
			return "", fmt.Errorf("escape: %w", err)
		}
		return b.EscapeValue(field, dv)
	}
	return "", sqlerr.TypeMismatch("Unsupported value type %T", value)
}

func formatFloat(f float64, bitSize int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", sqlerr.TypeMismatch("Non-finite number %v can not be stored", f)
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize), nil
}

// EscapeID quotes an identifier. Dotted names are quoted per part, so
// "test.derp" becomes "test"."derp". Literals pass through verbatim and
// fields render fully qualified. Any other shape is a TypeMismatch.
func (b *baseVisitor) EscapeID(id any) (string, error) {
	switch v := id.(type) {
	case *nodes.Literal:
		return v.Raw, nil
	case *nodes.FieldLiteral:
		return b.fieldLiteralID(v), nil
	case *nodes.Field:
		return b.fieldID(v), nil
	case string:
		return quoting.QualifiedName(v), nil
	}
	return "", sqlerr.TypeMismatch("Unsupported identifier type %T", id)
}

// sequence reports whether v is a slice or array operand and returns its
// elements. Byte slices are scalar blobs, not sequences.
func sequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil, []byte:
		return nil, false
	case []any:
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
