package domain

import (
	"bytes"
	"strconv"
	"strings"
)

// FlexNumber is a float64 that tolerates the shapes mobile form state produces:
// a JSON number, a numeric string, an empty string, or null. Anything that is
// not a usable number decodes to zero — malformed input must never fail a
// scoring request.
type FlexNumber float64

// Float returns the value as a plain float64.
func (n FlexNumber) Float() float64 { return float64(n) }

// IsZero reports whether the field is absent or zero.
func (n FlexNumber) IsZero() bool { return float64(n) == 0 }

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	s := string(data)
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) >= 2 {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = FlexNumber(f)
	return nil
}

func (n FlexNumber) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(n), 'f', -1, 64)), nil
}
