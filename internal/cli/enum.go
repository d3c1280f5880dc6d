package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// EnumValue is a string flag restricted to a fixed set of values. An optional
// normalize func maps aliases onto the canonical spelling before the check.
type EnumValue struct {
	value     string
	allowed   []string
	normalize func(string) string
}

var _ pflag.Value = (*EnumValue)(nil)

// NewEnumValue returns an EnumValue with the given default. An empty default
// means the flag is unset.
func NewEnumValue(def string, allowed []string, normalize func(string) string) *EnumValue {
	return &EnumValue{value: def, allowed: allowed, normalize: normalize}
}

func (e *EnumValue) String() string { return e.value }

func (e *EnumValue) Set(s string) error {
	v := strings.TrimSpace(s)
	if e.normalize != nil {
		v = e.normalize(v)
	}
	for _, a := range e.allowed {
		if v == a {
			e.value = v
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(e.allowed, ", "))
}

func (e *EnumValue) Type() string { return "enum" }

// Allowed returns a copy of the accepted values.
func (e *EnumValue) Allowed() []string {
	out := make([]string, len(e.allowed))
	copy(out, e.allowed)
	return out
}
