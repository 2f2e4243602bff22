package common

import "bytes"

// Policy selects which rows a dialect may leave out of the output.
type Policy struct {
	// SkipBlank drops rows that are entirely zero.
	SkipBlank bool
	// FeedBlank counts skipped blank rows so they can be sent as a single
	// "advance N rows" command. Only meaningful if SkipBlank is set.
	FeedBlank bool
	// SkipRepeat replaces a row identical to the previous one with the
	// dialect's repeat marker.
	SkipRepeat bool
}

// Disposition is what should happen to one row.
type Disposition int

const (
	// Emit means the row must be encoded and sent.
	Emit Disposition = iota
	// SkipBlankRow means the row is blank and produces no output.
	SkipBlankRow
	// RepeatPrevious means the row is identical to the previous row and only
	// the repeat marker should be sent.
	RepeatPrevious
)

func (d Disposition) String() string {
	switch d {
	case Emit:
		return "emit"
	case SkipBlankRow:
		return "skip-blank"
	case RepeatPrevious:
		return "repeat-previous"
	}
	return "unknown"
}

// ChangeDetector decides the disposition of each row of a page.
type ChangeDetector struct {
	Policy Policy
}

// Inspect returns the disposition of the current row in `rows`. The first row
// of a page never repeats because there's no valid history yet.
func (detector ChangeDetector) Inspect(rows *ScanlineBuffer) Disposition {
	current := rows.Current()

	if detector.Policy.SkipBlank && IsBlank(current) {
		return SkipBlankRow
	}

	if detector.Policy.SkipRepeat {
		previous, ok := rows.Previous()
		if ok && bytes.Equal(current, previous) {
			return RepeatPrevious
		}
	}
	return Emit
}

// IsBlank returns true if every byte of the row is zero.
func IsBlank(row []byte) bool {
	for _, b := range row {
		if b != 0 {
			return false
		}
	}
	return true
}
