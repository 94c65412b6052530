// Package state turns an opaque switch state into the form body sent to a
// device endpoint.
package state

import (
	"fmt"
	"net/url"
	"strconv"
)

// Field is the form field a device reads its new state from.
const Field = "switcher"

// String returns the string form of a state value. No validation is done.
func String(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

func Form(v any) url.Values {
	form := url.Values{}
	form.Set(Field, String(v))
	return form
}
