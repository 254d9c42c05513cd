package adjacency

// Stats aggregates encoding statistics across built adjacency lists.
type Stats struct {
	Lists             int
	Edges             int64
	UncompressedBytes int64
	EncodedBytes      int64
	AverageRatio      float64
}

// CalculateStats computes statistics for the given lists.
func CalculateStats(lists []List) Stats {
	stats := Stats{Lists: len(lists)}

	totalRatio := 0.0
	for _, list := range lists {
		uncompressed := int64(list.Degree()) * 8
		encoded := int64(list.Bytes())
		stats.Edges += int64(list.Degree())
		stats.UncompressedBytes += uncompressed
		stats.EncodedBytes += encoded
		if encoded > 0 {
			totalRatio += float64(uncompressed) / float64(encoded)
		}
	}
	if stats.Lists > 0 {
		stats.AverageRatio = totalRatio / float64(stats.Lists)
	}
	return stats
}
