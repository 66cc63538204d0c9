/*
Copyright 2026 The Tunebench Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tunables

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a tunable's assigned value: either a JSON number or a string,
// coerced losslessly between the two on demand. It is the Go analogue of
// a discriminated number-or-string, grounded on the numstr.NumberOrString
// pattern used for experiment parameter assignments.
type Value struct {
	isString bool
	num      json.Number
	str      string
}

// IntValue returns v as an int64 value.
func IntValue(v int64) Value { return Value{num: json.Number(strconv.FormatInt(v, 10))} }

// FloatValue returns v as a float64 value.
func FloatValue(v float64) Value {
	return Value{num: json.Number(strconv.FormatFloat(v, 'g', -1, 64))}
}

// StringValue returns v as a categorical value.
func StringValue(v string) Value { return Value{str: v, isString: true} }

// IsString reports whether the value is a categorical (string) value.
func (v Value) IsString() bool { return v.isString }

// String renders the value as a string regardless of its kind.
func (v Value) String() string {
	if v.isString {
		return v.str
	}
	return v.num.String()
}

// Float64 coerces the value to a float64. Returns an error if the value
// is a string that does not parse as a number.
func (v Value) Float64() (float64, error) {
	if v.isString {
		return strconv.ParseFloat(v.str, 64)
	}
	return v.num.Float64()
}

// Int64 coerces the value to an int64 without loss: a float value must
// compare equal to its truncation or an error is returned.
func (v Value) Int64() (int64, error) {
	if v.isString {
		return strconv.ParseInt(v.str, 10, 64)
	}
	if i, err := v.num.Int64(); err == nil {
		return i, nil
	}
	f, err := v.num.Float64()
	if err != nil {
		return 0, err
	}
	i := int64(f)
	if float64(i) != f {
		return 0, fmt.Errorf("value %s is not integral", v.num)
	}
	return i, nil
}

// Equal compares two values: both must be the same kind; strings compare
// exactly and numbers by numeric value, so 1 and 1.0 compare equal.
func (v Value) Equal(o Value) bool {
	if v.isString != o.isString {
		return false
	}
	if v.isString {
		return v.str == o.str
	}
	vf, verr := v.num.Float64()
	of, oerr := o.num.Float64()
	if verr != nil || oerr != nil {
		return v.num == o.num
	}
	return vf == of
}

// Less provides a total order over values of the same kind, used to make
// Tunable ordering total over (name, kind, value).
func (v Value) Less(o Value) bool {
	if v.isString != o.isString {
		return !v.isString // numeric sorts before categorical, arbitrarily but deterministically
	}
	if v.isString {
		return v.str < o.str
	}
	vf, _ := v.num.Float64()
	of, _ := o.num.Float64()
	return vf < of
}

// MarshalJSON writes the value using its native JSON representation.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isString {
		return json.Marshal(v.str)
	}
	if v.num == "" {
		return []byte("null"), nil
	}
	return json.Marshal(v.num)
}

// UnmarshalJSON reads the value from either a JSON string or number.
func (v *Value) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if b[0] == '"' {
		v.isString = true
		return json.Unmarshal(b, &v.str)
	}
	if string(b) == "null" {
		*v = Value{}
		return nil
	}
	return json.Unmarshal(b, &v.num)
}
