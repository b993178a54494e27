package analysis

// Batches splits items into contiguous, non-overlapping slices of length
// <= size, covering the input exactly once in order. The last batch may
// be shorter. Slices share the input's backing array; no copying.
func Batches[T any](items []T, size int) [][]T {
	if size < 1 {
		size = 1
	}

	var batches [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}
