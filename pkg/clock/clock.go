// Package clock implements the logical clock: a monotonically non-decreasing
// integer counter that orders documents within a chain. It carries no
// relation to wall-clock time and makes no security decisions based on it.
package clock

import (
	"encoding/json"
	"math"

	"github.com/nzcore-labs/nzcore/pkg/nzerr"
)

// Version is the serialization version tag written alongside the counter.
const Version = "1.0"

// Clock is a single integer counter with strict-increase semantics.
type Clock struct {
	current uint64
	frozen  bool
}

// New constructs a Clock starting at initial, which must be a positive
// integer.
func New(initial uint64) (*Clock, error) {
	if initial < 1 {
		return nil, nzerr.Wrap(nzerr.ErrLogicalTimeViolation, "initial logical time must be >= 1", "initial", initial)
	}
	return &Clock{current: initial}, nil
}

// Current returns the counter's present value.
func (c *Clock) Current() uint64 {
	return c.current
}

// Tick advances the counter by one and returns the new value. Fails if the
// clock is frozen or the counter would overflow.
func (c *Clock) Tick() (uint64, error) {
	if c.frozen {
		return 0, nzerr.Wrap(nzerr.ErrLogicalTimeViolation, "clock is frozen")
	}
	if c.current >= math.MaxUint64 {
		return 0, nzerr.Wrap(nzerr.ErrLogicalTimeViolation, "logical clock overflow")
	}
	c.current++
	return c.current, nil
}

// Sync sets the counter to newValue, which must be strictly greater than
// the current value.
func (c *Clock) Sync(newValue uint64) error {
	if newValue <= c.current {
		return nzerr.Wrap(nzerr.ErrLogicalTimeViolation, "sync value must exceed current value",
			"current", c.current, "requested", newValue)
	}
	c.current = newValue
	return nil
}

// Freeze blocks Tick until Unfreeze is called. Intended for audit or test
// use, not normal operation.
func (c *Clock) Freeze() {
	c.frozen = true
}

// Unfreeze lifts a prior Freeze.
func (c *Clock) Unfreeze() {
	c.frozen = false
}

// Frozen reports whether the clock is currently frozen.
func (c *Clock) Frozen() bool {
	return c.frozen
}

// snapshot is the serializable form of a Clock.
type snapshot struct {
	LogicalClock uint64 `json:"logical_clock"`
	Version      string `json:"version"`
}

// MarshalJSON serializes the clock as {logical_clock, version}.
func (c *Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshot{LogicalClock: c.current, Version: Version})
}

// UnmarshalJSON restores a clock from its {logical_clock, version} form.
// The frozen flag is not persisted: a restored clock always starts
// unfrozen.
func (c *Clock) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nzerr.Wrap(nzerr.ErrLogicalTimeViolation, "invalid clock serialization", "cause", err.Error())
	}
	c.current = s.LogicalClock
	c.frozen = false
	return nil
}

// ValidateOrder reports whether next strictly follows prev, as required
// between adjacent documents in a chain.
func ValidateOrder(prev, next uint64) bool {
	return next > prev
}

// Compare returns -1, 0, or 1 according to whether a is less than, equal
// to, or greater than b.
func Compare(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
