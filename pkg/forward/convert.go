package forward

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// Convert coerces a raw member value to the type expected at the call
// site. Scalar conversions go through spf13/cast; anything else must
// already be assignable. Failures are reported as TypeConversionError.
func Convert[T any](v any) (T, error) {
	var out T

	// Drivers commonly surface text columns as []byte.
	if b, ok := v.([]byte); ok {
		v = string(b)
	}

	var err error
	switch p := any(&out).(type) {
	case *string:
		*p, err = cast.ToStringE(v)
	case *int:
		*p, err = cast.ToIntE(v)
	case *int32:
		*p, err = cast.ToInt32E(v)
	case *int64:
		*p, err = cast.ToInt64E(v)
	case *float64:
		*p, err = cast.ToFloat64E(v)
	case *bool:
		*p, err = cast.ToBoolE(v)
	case *time.Time:
		*p, err = cast.ToTimeE(v)
	case *time.Duration:
		*p, err = cast.ToDurationE(v)
	case *[]string:
		*p, err = cast.ToStringSliceE(v)
	case *map[string]any:
		*p, err = cast.ToStringMapE(v)
	case *any:
		*p = v
	default:
		t, ok := v.(T)
		if !ok {
			return out, &TypeConversionError{Value: v, Want: fmt.Sprintf("%T", out)}
		}
		out = t
	}

	if err != nil {
		var zero T
		return zero, &TypeConversionError{Value: v, Want: fmt.Sprintf("%T", out), Cause: err}
	}
	return out, nil
}
