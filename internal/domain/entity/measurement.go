package entity

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Value is one measurement field: either a number (most garment fields) or
// free text (e.g. "loose fit"). Exactly one of the two is meaningful.
type Value struct {
	Num  *float64
	Text string
}

// NumberValue builds a numeric Value.
func NumberValue(n float64) Value { return Value{Num: &n} }

// TextValue builds a textual Value.
func TextValue(s string) Value { return Value{Text: s} }

// Blank reports whether the value carries no data.
func (v Value) Blank() bool {
	return v.Num == nil && strings.TrimSpace(v.Text) == ""
}

func (v Value) String() string {
	if v.Num != nil {
		return strconv.FormatFloat(*v.Num, 'f', -1, 64)
	}
	return v.Text
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.Num != nil {
		return json.Marshal(*v.Num)
	}
	return json.Marshal(v.Text)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		v.Num = &n
		v.Text = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Num = nil
		v.Text = s
		return nil
	}
	// Anything else (bool, object) is kept as raw text.
	v.Num = nil
	v.Text = string(data)
	return nil
}

// ValueSet maps measurement field labels to values. The set is schema-less on
// purpose: garment categories define their own field lists.
type ValueSet map[string]Value

// Empty reports whether every value in the set is blank.
func (s ValueSet) Empty() bool {
	for _, v := range s {
		if !v.Blank() {
			return false
		}
	}
	return true
}

// Equal compares two sets field by field.
func (s ValueSet) Equal(other ValueSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		ov, ok := other[k]
		if !ok {
			return false
		}
		if v.String() != ov.String() {
			return false
		}
	}
	return true
}

// Measurement is one recorded set of garment measurements for a customer in a
// category. A new row is written per change; rows are never updated in place.
type Measurement struct {
	ID         string
	AccountID  string
	CustomerID string
	CategoryID string
	Date       time.Time
	Values     ValueSet
	Remarks    string
	IsActive   bool
}
