package astrodb

// Buffer is the ordered in-process working set of records awaiting flush.
// Arrivals are merged greedily against the buffered records, so the buffer
// never holds two records the matcher considers the same object at the time
// of insertion.
type Buffer struct {
	records []Record
	merges  int64
}

// NewBuffer returns an empty buffer with capacity for size records.
func NewBuffer(size int) *Buffer {
	if size < 0 {
		size = 0
	}
	return &Buffer{records: make([]Record, 0, size)}
}

// Append inserts rec, merging it with the first buffered record within
// thresholdArcsec of it. The matched record is removed from its position and
// the merge survivor is appended at the end; without a match, rec itself is
// appended.
//
// This is a greedy, order-dependent policy: each insertion finds at most one
// merge partner, and chains of near matches collapse into clusters whose
// shape depends on arrival order. That behavior is load-bearing for
// compatibility with existing collections and must not be replaced with
// transitive clustering.
func (b *Buffer) Append(rec Record, thresholdArcsec float64) {
	for i, existing := range b.records {
		if Matches(rec, existing, thresholdArcsec) {
			rec = Merge(rec, existing)
			b.records = append(b.records[:i], b.records[i+1:]...)
			b.merges++
			break
		}
	}
	b.records = append(b.records, rec)
}

// Len returns the number of buffered records.
func (b *Buffer) Len() int { return len(b.records) }

// Merges returns how many in-buffer merges have occurred since the buffer was
// created or last drained.
func (b *Buffer) Merges() int64 { return b.merges }

// Drain removes and returns all buffered records in order, leaving the
// buffer empty and its merge count reset.
func (b *Buffer) Drain() []Record {
	out := b.records
	b.records = make([]Record, 0, cap(out))
	b.merges = 0
	return out
}
