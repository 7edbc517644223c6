package util

import (
	"golang.org/x/sync/errgroup"
)

// ConcurrentMapFuncWithError calls f for every input and returns the outputs in input order.
// concurrency == 0 runs sequentially and a negative value means no limit.
// The first error wins and no outputs are returned.
func ConcurrentMapFuncWithError[Tin any, Tout any](inputs []Tin, concurrency int, f func(int, Tin) (Tout, error)) ([]Tout, error) {
	eg := errgroup.Group{}
	if concurrency == 0 {
		eg.SetLimit(1)
	} else if concurrency > 0 {
		eg.SetLimit(concurrency)
	}

	// each goroutine owns exactly one slot
	outputs := make([]Tout, len(inputs))
	for i, in := range inputs {
		eg.Go(func() error {
			out, err := f(i, in)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}
