package voxelizer

import "sync"

func task[T any](workersCount int, data []T, fn func(data T)) {
	var wg sync.WaitGroup
	dataSize := len(data)
	if dataSize == 0 {
		return
	}
	workersCount = min(max(1, workersCount), dataSize)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}

// slab is a run of x columns [lo, hi) owned by a single worker. Cells of a
// slab are only ever written by that worker, so no synchronization is needed
// on the volume and the merge order of every cell stays the triangle order.
type slab struct {
	lo, hi int

	filled int
	events []Event
}

// splitSlabs cuts [0, width) into at most count contiguous slabs of nearly
// equal width, in increasing x order.
func splitSlabs(width, count int) []*slab {
	if width <= 0 {
		return nil
	}
	count = min(max(1, count), width)
	slabs := make([]*slab, 0, count)

	size := width / count
	extra := width % count
	lo := 0
	for i := 0; i < count; i++ {
		hi := lo + size
		if i < extra {
			hi++
		}
		slabs = append(slabs, &slab{lo: lo, hi: hi})
		lo = hi
	}
	return slabs
}
