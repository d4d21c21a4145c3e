package util

import "runtime"

// GetOptimalPoolSize returns the pool size used for CPU-bound parallel work.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
//   - Minimum 4: some parallelism even on weak machines
//   - 2x cores: parsing goes through CGO, so extra goroutines keep cores
//     busy while one is blocked in a C call
//   - Maximum 32: caps memory on high-core machines
//
// Both the parser pools and the scan worker pool size themselves with this
// function; keeping them equal means a worker never waits for a parser.
func GetOptimalPoolSize() int {
	size := runtime.NumCPU() * 2

	if size < 4 {
		size = 4
	}
	if size > 32 {
		size = 32
	}

	return size
}

// GetOptimalPoolSizeWithOverride returns the pool size, honoring an explicit
// override when one is given (for testing and tuning).
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
