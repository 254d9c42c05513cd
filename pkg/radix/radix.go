// Package radix implements the paired radix sort used to bring raw edge
// streams into canonical adjacency order before compression. The primary
// array holds one logical record per adjacent pair of slots (source id,
// target id); two additional arrays carry per-record data at half the
// primary's length and stay index-aligned with their record throughout.
package radix

const (
	radixBits = 8
	radixSize = 1 << radixBits
	digitMask = radixSize - 1

	// HistogramSize is one bucket per digit value plus a guard slot so the
	// counting pass can write to digit+1 before the prefix-sum.
	HistogramSize = radixSize + 1
)

// NewHistogram allocates a histogram buffer for Sort. The buffer is at least
// HistogramSize long; a larger length is honored so one scratch allocation
// can serve both histogram and other bookkeeping.
func NewHistogram(length int) []int {
	if length < HistogramSize {
		length = HistogramSize
	}
	return make([]int, length)
}

// NewCopy allocates a scratch buffer of the same length as the input.
func NewCopy[T any](a []T) []T {
	return make([]T, len(a))
}

// Sort sorts the first length slots of data ascending by the first element of
// each adjacent pair, keeping additional1 and additional2 synchronized with
// their pair. dataCopy, additional1Copy, and additional2Copy are caller
// provided scratch buffers of the same lengths; histogram comes from
// NewHistogram. Keys must be non-negative.
//
// The sort runs 8-bit counting passes from least to most significant byte
// and is stable: ties keep their input order, which makes adjacency ordering
// reproducible across runs with identical logical input. A pass that sees no
// bits at or above the current digit stops early, so small keys never pay
// the full 8-pass cost. Zero length is a no-op.
func Sort[T any](
	data, dataCopy []int64,
	additional1, additional1Copy []int64,
	additional2, additional2Copy []T,
	histogram []int,
	length int,
) {
	if length <= 0 {
		return
	}

	src, dst := data, dataCopy
	srcA1, dstA1 := additional1, additional1Copy
	srcA2, dstA2 := additional2, additional2Copy
	swapped := false

	for shift := uint(0); shift < 64; shift += radixBits {
		hist := histogram[:HistogramSize]
		for i := range hist {
			hist[i] = 0
		}

		var remaining uint64
		for i := 0; i < length; i += 2 {
			key := uint64(src[i]) >> shift
			remaining |= key
			hist[(key&digitMask)+1]++
		}
		if remaining == 0 {
			// no bits at or above this digit, lower passes finished the sort
			break
		}
		lastPass := remaining>>radixBits == 0

		if remaining&digitMask == 0 {
			// current digit is zero everywhere, the pass would be an identity
			continue
		}

		for i := 1; i < HistogramSize; i++ {
			hist[i] += hist[i-1]
		}

		for i := 0; i < length; i += 2 {
			digit := (uint64(src[i]) >> shift) & digitMask
			p := hist[digit]
			hist[digit]++
			dst[2*p] = src[i]
			dst[2*p+1] = src[i+1]
			dstA1[p] = srcA1[i/2]
			dstA2[p] = srcA2[i/2]
		}

		src, dst = dst, src
		srcA1, dstA1 = dstA1, srcA1
		srcA2, dstA2 = dstA2, srcA2
		swapped = !swapped

		if lastPass {
			break
		}
	}

	if swapped {
		copy(data[:length], src[:length])
		copy(additional1[:length/2], srcA1[:length/2])
		copy(additional2[:length/2], srcA2[:length/2])
	}
}

// SortBySecondThenFirst performs one preliminary stable counting pass keyed
// on the second element of each pair, then delegates to Sort for the
// remaining digits of the first element. The result is ascending by first
// element with ties grouped by the second element's low byte, in input order
// beyond that. Used where target-grouped ordering is required before the
// source-major sort.
func SortBySecondThenFirst[T any](
	data, dataCopy []int64,
	additional1, additional1Copy []int64,
	additional2, additional2Copy []T,
	histogram []int,
	length int,
) {
	if length <= 0 {
		return
	}

	hist := histogram[:HistogramSize]
	for i := range hist {
		hist[i] = 0
	}
	for i := 0; i < length; i += 2 {
		hist[(uint64(data[i+1])&digitMask)+1]++
	}
	for i := 1; i < HistogramSize; i++ {
		hist[i] += hist[i-1]
	}
	for i := 0; i < length; i += 2 {
		digit := uint64(data[i+1]) & digitMask
		p := hist[digit]
		hist[digit]++
		dataCopy[2*p] = data[i]
		dataCopy[2*p+1] = data[i+1]
		additional1Copy[p] = additional1[i/2]
		additional2Copy[p] = additional2[i/2]
	}

	copy(data[:length], dataCopy[:length])
	copy(additional1[:length/2], additional1Copy[:length/2])
	copy(additional2[:length/2], additional2Copy[:length/2])

	Sort(data, dataCopy, additional1, additional1Copy, additional2, additional2Copy, histogram, length)
}
