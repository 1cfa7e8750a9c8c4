package entity

import (
	"bytes"
	"strconv"
	"strings"
)

// FlexFloat decodes a JSON number that upstreams sometimes send as a string.
// null, empty strings and unparsable text decode to 0.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	s := strings.Trim(string(b), `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// Float returns the plain value.
func (f FlexFloat) Float() float64 { return float64(f) }

// FlexString decodes a JSON string that may arrive as a number or null.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		unq, err := strconv.Unquote(string(b))
		if err != nil {
			*s = FlexString(strings.Trim(string(b), `"`))
			return nil
		}
		*s = FlexString(unq)
		return nil
	}
	*s = FlexString(b)
	return nil
}

func (s FlexString) String() string { return string(s) }

// FirstPositive returns the first strictly positive value.
func FirstPositive(vals ...FlexFloat) float64 {
	for _, v := range vals {
		if v > 0 {
			return float64(v)
		}
	}
	return 0
}
