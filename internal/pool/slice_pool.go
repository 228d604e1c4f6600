package pool

import "sync"

// Slice pools for efficient reuse of typed slices.
// These pools help reduce allocations when transforming particle rows to
// the columnar frame layout; decoding allocates its columns directly.
var (
	float32SlicePool = sync.Pool{
		New: func() any { return &[]float32{} },
	}
	int32SlicePool = sync.Pool{
		New: func() any { return &[]int32{} },
	}
	uint8SlicePool = sync.Pool{
		New: func() any { return &[]uint8{} },
	}
	uint16SlicePool = sync.Pool{
		New: func() any { return &[]uint16{} },
	}
)

// GetFloat32Slice retrieves and resizes a float32 slice from the pool.
//
// The returned slice will have the exact length specified by the size parameter.
// If the pooled slice has insufficient capacity, a new slice will be allocated.
// The caller must call the returned cleanup function to return the slice to the pool.
//
// Parameters:
//   - size: The desired length of the slice
//
// Returns:
//   - []float32: A slice with length equal to size
//   - func(): Cleanup function that must be called (typically with defer) to return the slice to the pool
func GetFloat32Slice(size int) ([]float32, func()) {
	ptr, _ := float32SlicePool.Get().(*[]float32)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]float32, size)
		*ptr = slice
	} else {
		slice = slice[:size]
		*ptr = slice
	}

	return slice, func() { float32SlicePool.Put(ptr) }
}

// GetInt32Slice retrieves and resizes an int32 slice from the pool.
//
// Usage mirrors GetFloat32Slice.
func GetInt32Slice(size int) ([]int32, func()) {
	ptr, _ := int32SlicePool.Get().(*[]int32)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]int32, size)
		*ptr = slice
	} else {
		slice = slice[:size]
		*ptr = slice
	}

	return slice, func() { int32SlicePool.Put(ptr) }
}

// GetUint8Slice retrieves and resizes a uint8 slice from the pool.
//
// Usage mirrors GetFloat32Slice.
func GetUint8Slice(size int) ([]uint8, func()) {
	ptr, _ := uint8SlicePool.Get().(*[]uint8)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]uint8, size)
		*ptr = slice
	} else {
		slice = slice[:size]
		*ptr = slice
	}

	return slice, func() { uint8SlicePool.Put(ptr) }
}

// GetUint16Slice retrieves and resizes a uint16 slice from the pool.
//
// Usage mirrors GetFloat32Slice.
func GetUint16Slice(size int) ([]uint16, func()) {
	ptr, _ := uint16SlicePool.Get().(*[]uint16)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]uint16, size)
		*ptr = slice
	} else {
		slice = slice[:size]
		*ptr = slice
	}

	return slice, func() { uint16SlicePool.Put(ptr) }
}
