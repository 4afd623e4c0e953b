package interval

import (
	"slices"
	"strconv"
	"strings"
)

// Set is a sorted list of disjoint, non-adjacent intervals.
// The zero value is an empty, usable set.
type Set struct {
	intervals []Interval
	readOnly  bool
}

// NewSet creates a set containing the given values.
func NewSet(values ...int) *Set {
	s := &Set{}
	for _, v := range values {
		s.AddOne(v)
	}
	return s
}

// RangeSet creates a set covering [start, stop].
func RangeSet(start, stop int) *Set {
	s := &Set{}
	s.AddRange(start, stop)
	return s
}

// Freeze marks the set read-only; later mutations panic.
func (s *Set) Freeze() *Set {
	s.readOnly = true
	return s
}

// AddOne adds a single value.
func (s *Set) AddOne(v int) {
	s.AddRange(v, v)
}

// AddRange adds [start, stop]; empty ranges are ignored.
func (s *Set) AddRange(start, stop int) {
	s.addInterval(Interval{Start: start, Stop: stop})
}

func (s *Set) addInterval(add Interval) {
	if s.readOnly {
		panic("interval: set is read-only")
	}
	if add.Empty() {
		return
	}
	for i := 0; i < len(s.intervals); i++ {
		cur := s.intervals[i]
		if add.Stop < cur.Start-1 {
			s.intervals = slices.Insert(s.intervals, i, add)
			return
		}
		if !add.Disjoint(cur) || add.Adjacent(cur) {
			merged := add.Union(cur)
			s.intervals[i] = merged
			// fold any following intervals now overlapped or touched
			j := i + 1
			for j < len(s.intervals) {
				next := s.intervals[j]
				if merged.Disjoint(next) && !merged.Adjacent(next) {
					break
				}
				merged = merged.Union(next)
				j++
			}
			s.intervals[i] = merged
			s.intervals = slices.Delete(s.intervals, i+1, j)
			return
		}
	}
	s.intervals = append(s.intervals, add)
}

// AddSet adds every interval of other.
func (s *Set) AddSet(other *Set) {
	if other == nil {
		return
	}
	for _, iv := range other.intervals {
		s.addInterval(iv)
	}
}

// Remove deletes a single value, splitting an interval if needed.
func (s *Set) Remove(v int) {
	if s.readOnly {
		panic("interval: set is read-only")
	}
	for i, iv := range s.intervals {
		if v < iv.Start {
			return
		}
		if !iv.Contains(v) {
			continue
		}
		switch {
		case iv.Start == v && iv.Stop == v:
			s.intervals = slices.Delete(s.intervals, i, i+1)
		case iv.Start == v:
			s.intervals[i].Start++
		case iv.Stop == v:
			s.intervals[i].Stop--
		default:
			s.intervals[i].Stop = v - 1
			s.intervals = slices.Insert(s.intervals, i+1, Interval{Start: v + 1, Stop: iv.Stop})
		}
		return
	}
}

// Contains reports whether v is a member.
func (s *Set) Contains(v int) bool {
	if s == nil {
		return false
	}
	_, found := slices.BinarySearchFunc(s.intervals, v, func(iv Interval, target int) int {
		switch {
		case iv.Stop < target:
			return -1
		case iv.Start > target:
			return 1
		default:
			return 0
		}
	})
	return found
}

// Len returns the number of values in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, iv := range s.intervals {
		n += iv.Len()
	}
	return n
}

// IsEmpty reports whether the set has no members.
func (s *Set) IsEmpty() bool {
	return s == nil || len(s.intervals) == 0
}

// Intervals returns a copy of the set's intervals in ascending order.
func (s *Set) Intervals() []Interval {
	if s == nil {
		return nil
	}
	return slices.Clone(s.intervals)
}

// Min returns the smallest member, or false if the set is empty.
func (s *Set) Min() (int, bool) {
	if s.IsEmpty() {
		return 0, false
	}
	return s.intervals[0].Start, true
}

// Values lists every member in ascending order.
func (s *Set) Values() []int {
	if s == nil {
		return nil
	}
	out := make([]int, 0, s.Len())
	for _, iv := range s.intervals {
		for v := iv.Start; v <= iv.Stop; v++ {
			out = append(out, v)
		}
	}
	return out
}

// Complement returns the members of [lo, hi] not in s.
func (s *Set) Complement(lo, hi int) *Set {
	out := &Set{}
	next := lo
	if s != nil {
		for _, iv := range s.intervals {
			if iv.Stop < lo {
				continue
			}
			if iv.Start > hi {
				break
			}
			if iv.Start > next {
				out.AddRange(next, iv.Start-1)
			}
			next = iv.Stop + 1
		}
	}
	if next <= hi {
		out.AddRange(next, hi)
	}
	return out
}

// Equal reports whether both sets hold the same members.
func (s *Set) Equal(other *Set) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return s.IsEmpty() && other.IsEmpty()
	}
	return slices.Equal(s.intervals, other.intervals)
}

func (s *Set) String() string {
	return s.Format(nil)
}

// Format renders the set as {a, b..c}. When name is non-nil each single
// value is rendered through it instead of as a number.
func (s *Set) Format(name func(int) string) string {
	if s.IsEmpty() {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for _, iv := range s.intervals {
		for _, part := range formatInterval(iv, name) {
			if !first {
				sb.WriteString(", ")
			}
			first = false
			sb.WriteString(part)
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

func formatInterval(iv Interval, name func(int) string) []string {
	if name == nil {
		if iv.Start == iv.Stop {
			return []string{strconv.Itoa(iv.Start)}
		}
		return []string{strconv.Itoa(iv.Start) + ".." + strconv.Itoa(iv.Stop)}
	}
	parts := make([]string, 0, iv.Len())
	for v := iv.Start; v <= iv.Stop; v++ {
		parts = append(parts, name(v))
	}
	return parts
}
