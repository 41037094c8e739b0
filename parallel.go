package kselect

import "sync"

// sweepParallel evaluates numCandidates independent candidates across
// numWorkers goroutines. Each worker handles a contiguous range of candidate
// indices, so writes never overlap and no synchronization beyond the final
// join is needed.
//
// The outcome is identical to a sequential sweep: each candidate writes only
// its own slot, and when several candidates fail, the error for the lowest
// candidate index is returned, matching the one a sequential sweep would have
// stopped on.
func sweepParallel(numCandidates, numWorkers int, evaluate func(i int) error) error {
	if numWorkers > numCandidates {
		numWorkers = numCandidates
	}

	errs := make([]error, numCandidates)
	var wg sync.WaitGroup

	perWorker := (numCandidates + numWorkers - 1) / numWorkers
	for w := 0; w < numWorkers; w++ {
		start := w * perWorker
		end := start + perWorker
		if end > numCandidates {
			end = numCandidates
		}
		if start >= numCandidates {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				errs[i] = evaluate(i)
			}
		}(start, end)
	}

	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
