package models

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
)

// Number is a float64 that decodes from either a JSON number or a numeric
// string ("4" and 4 are both accepted). null is not a number.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch raw.(type) {
	case nil, bool:
		return fmt.Errorf("invalid number %s", b)
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return fmt.Errorf("invalid number %s", b)
	}
	*n = Number(f)
	return nil
}
