// Package parallel contains the bounded parallel loop and the order-independent
// parameter hasher used by training.
package parallel

import "runtime"
import "sync"

// Workers returns n if positive, otherwise the number of CPUs.
func Workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// ForEach executes a for loop with a limited number of concurrent goroutines.
// Each goroutine processes one integer, from 0 to length.
func ForEach(length, limit int, body func(i int)) {
	if limit <= 0 {
		limit = 1 // Default to 1 if limit is zero or negative
	}
	if length <= 0 {
		return // No iterations to perform
	}
	if limit == 1 || length == 1 {
		for i := 0; i < length; i++ {
			body(i)
		}
		return
	}

	sem := make(chan struct{}, limit) // Semaphore with buffer size 'limit'
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{} // Acquire semaphore
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }() // Release semaphore after function exits

			body(i)
		}(i)
	}

	wg.Wait() // Wait for all goroutines to finish
}

// Chunks splits [0, length) into at most n contiguous ranges of near-equal size.
// The split depends only on length and n.
func Chunks(length, n int) (o [][2]int) {
	if length <= 0 {
		return nil
	}
	if n <= 0 {
		n = 1
	}
	if n > length {
		n = length
	}
	base, extra := length/n, length%n
	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		o = append(o, [2]int{start, start + size})
		start += size
	}
	return
}
