package compression

// ByteRun represents a single run of a particular byte value.
type ByteRun struct {
	// Byte is the byte value for this run.
	Byte byte
	// RunLength gives the number of times the byte occurs in the run (not the
	// number of times it's repeated).
	//
	// A valid run will always have this be 1 or greater. A value less than 1
	// indicates the end of the input was reached.
	RunLength int
	// Offset is the index of the first byte of the run in the input.
	Offset int
}

// InvalidRLERun is returned by [RunLengthGrouper.NextRun] once the input is
// exhausted.
var InvalidRLERun = ByteRun{}

// RunLengthGrouper splits a byte slice into maximal runs of equal bytes.
type RunLengthGrouper struct {
	data     []byte
	position int
}

func NewRunLengthGrouper(data []byte) *RunLengthGrouper {
	return &RunLengthGrouper{data: data}
}

// NextRun returns a [ByteRun] for the next byte or run of byte values in the
// input. The second return value is false when there are no more runs.
func (grouper *RunLengthGrouper) NextRun() (ByteRun, bool) {
	if grouper.position >= len(grouper.data) {
		return InvalidRLERun, false
	}

	start := grouper.position
	firstByte := grouper.data[start]

	end := start + 1
	for end < len(grouper.data) && grouper.data[end] == firstByte {
		end++
	}
	grouper.position = end
	return ByteRun{Byte: firstByte, RunLength: end - start, Offset: start}, true
}
