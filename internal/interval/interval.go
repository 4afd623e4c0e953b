// Package interval provides inclusive integer ranges and sorted sets of them.
// They describe token-index ranges in a stream and token-type sets on ATN
// transitions.
package interval

import "strconv"

// Interval is an inclusive range [Start, Stop].
type Interval struct {
	Start int
	Stop  int
}

// Invalid is the canonical empty interval.
var Invalid = Interval{Start: -1, Stop: -2}

// Of builds an interval from start to stop inclusive.
func Of(start, stop int) Interval {
	return Interval{Start: start, Stop: stop}
}

// Len returns the number of elements covered, 0 for an empty interval.
func (iv Interval) Len() int {
	if iv.Stop < iv.Start {
		return 0
	}
	return iv.Stop - iv.Start + 1
}

// Empty reports whether the interval covers nothing.
func (iv Interval) Empty() bool {
	return iv.Stop < iv.Start
}

// Contains reports whether v lies within the interval.
func (iv Interval) Contains(v int) bool {
	return v >= iv.Start && v <= iv.Stop
}

// Disjoint reports whether the two intervals share no element.
func (iv Interval) Disjoint(other Interval) bool {
	return iv.Stop < other.Start || other.Stop < iv.Start
}

// Adjacent reports whether other starts right after iv ends, or vice versa.
func (iv Interval) Adjacent(other Interval) bool {
	return iv.Start == other.Stop+1 || iv.Stop == other.Start-1
}

// Union returns the smallest interval covering both.
func (iv Interval) Union(other Interval) Interval {
	return Interval{Start: min(iv.Start, other.Start), Stop: max(iv.Stop, other.Stop)}
}

func (iv Interval) String() string {
	if iv.Start == iv.Stop {
		return strconv.Itoa(iv.Start)
	}
	return strconv.Itoa(iv.Start) + ".." + strconv.Itoa(iv.Stop)
}
