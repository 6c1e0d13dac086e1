package parallel

import "fmt"

// Range is the half-open interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices in r.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Empty reports whether r holds no index.
func (r Range) Empty() bool { return r.End <= r.Start }

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Schedule selects how a loop's iterations are distributed.
type Schedule int

const (
	// ScheduleStatic gives each rank one precomputed contiguous partition.
	ScheduleStatic Schedule = iota
	// ScheduleDynamic lets ranks claim fixed-size chunks from a shared
	// cursor until the range is exhausted.
	ScheduleDynamic
)

func (s Schedule) String() string {
	switch s {
	case ScheduleStatic:
		return "static"
	case ScheduleDynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("Schedule(%d)", int(s))
	}
}

// Partition splits [start, end) into exactly parts contiguous ranges, in
// order. Each range holds total/parts indices and the first total%parts
// ranges hold one more. It returns nil when parts is not positive.
func Partition(start, end, parts int) []Range {
	if parts <= 0 {
		return nil
	}
	total := max(end-start, 0)
	base, extra := total/parts, total%parts

	out := make([]Range, parts)
	lo := start
	for i := range out {
		size := base
		if i < extra {
			size++
		}
		out[i] = Range{Start: lo, End: lo + size}
		lo += size
	}
	return out
}

// autoChunk picks a dynamic chunk size giving every rank about four chunks.
func autoChunk(total, threads int) int {
	return max(1, total/(threads*4))
}
