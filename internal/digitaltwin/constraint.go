package digitaltwin

import (
	"fmt"
	"strconv"
	"time"
)

// Recognised constraint types for managed subscribe requests.
const (
	// ConstraintFrequencyMS is the minimum interval between updates, in milliseconds.
	ConstraintFrequencyMS = "frequency_ms"
)

// DefaultFrequency is used when no frequency is configured.
const DefaultFrequency = 10 * time.Second

// Constraint is a single named requirement on a managed subscription.
//
// Order among constraints is insignificant. Duplicate types are passed to the
// provider unchanged; no merge or precedence rule is applied here.
type Constraint struct {
	Type  string `cbor:"type" yaml:"type"`
	Value string `cbor:"value" yaml:"value"`
}

// String implements fmt.Stringer.
func (c Constraint) String() string {
	return fmt.Sprintf("%s=%s", c.Type, c.Value)
}

// FrequencyConstraint builds a frequency_ms constraint from an interval.
// Sub-millisecond precision is truncated.
func FrequencyConstraint(interval time.Duration) Constraint {
	return Constraint{
		Type:  ConstraintFrequencyMS,
		Value: strconv.FormatInt(interval.Milliseconds(), 10),
	}
}

// Constraints is an ordered list of constraints as sent on the wire.
type Constraints []Constraint

// Values returns every value recorded for the given type, in list order.
func (cs Constraints) Values(constraintType string) []string {
	var values []string
	for _, c := range cs {
		if c.Type == constraintType {
			values = append(values, c.Value)
		}
	}
	return values
}

// Frequency returns the first parseable frequency_ms constraint as a duration.
// The boolean is false when no such constraint is present.
func (cs Constraints) Frequency() (time.Duration, bool) {
	for _, v := range cs.Values(ConstraintFrequencyMS) {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil || ms < 0 {
			continue
		}
		return time.Duration(ms) * time.Millisecond, true
	}
	return 0, false
}
