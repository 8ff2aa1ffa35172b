package partition

// selectPartition returns the index of the free partition that serves a
// request of the given size, or -1 if none qualifies. Ties are broken by
// table order.
func (a Algorithm) selectPartition(partitions []Partition, size uint64) int {
	switch a {
	case FirstFit:
		return firstFit(partitions, size)
	case BestFit:
		return bestFit(partitions, size)
	case WorstFit:
		return worstFit(partitions, size)
	default:
		panic("unknown algorithm " + string(a))
	}
}

func fits(p Partition, size uint64) bool {
	return p.IsFree() && p.Size >= size
}

func firstFit(partitions []Partition, size uint64) int {
	for i, p := range partitions {
		if fits(p, size) {
			return i
		}
	}

	return -1
}

func bestFit(partitions []Partition, size uint64) int {
	chosen := -1

	for i, p := range partitions {
		if !fits(p, size) {
			continue
		}

		if chosen < 0 || p.Size < partitions[chosen].Size {
			chosen = i
		}
	}

	return chosen
}

func worstFit(partitions []Partition, size uint64) int {
	chosen := -1

	for i, p := range partitions {
		if !fits(p, size) {
			continue
		}

		if chosen < 0 || p.Size > partitions[chosen].Size {
			chosen = i
		}
	}

	return chosen
}
