package pool

import "sync"

// stringSlicePool reuses []string backing arrays for the reader's string
// table (index -> decoded literal), which grows a []string incrementally as
// a stream is consumed.
var stringSlicePool = sync.Pool{
	New: func() any { return &[]string{} },
}

// GetStringSlice retrieves a []string from the pool, truncated to length 0
// with at least the given capacity. The caller must invoke the returned
// cleanup function (typically via defer) to return the backing array to the
// pool.
func GetStringSlice(capacity int) ([]string, func()) {
	ptr, _ := stringSlicePool.Get().(*[]string)
	slice := (*ptr)[:0]

	if cap(slice) < capacity {
		slice = make([]string, 0, capacity)
	}
	*ptr = slice

	return slice, func() { stringSlicePool.Put(ptr) }
}
