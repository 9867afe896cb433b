package rayforce

import "sync"

// task splits data in contiguous chunks, one goroutine per chunk, and waits for all of them
func task[T any](workersCount int, data []T, fn func(data T)) {
	dataSize := len(data)
	if dataSize == 0 {
		return
	}
	workersCount = min(max(workersCount, 1), dataSize)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	var wg sync.WaitGroup
	for start := 0; start < dataSize; start += chunkSize {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(start, min(start+chunkSize, dataSize))
	}
	wg.Wait()
}
