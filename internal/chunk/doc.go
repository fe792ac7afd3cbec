// Package chunk implements append-only chunked storage with stable element
// addresses.
//
// A Store is a list of independently allocated, fixed-length chunks. Growth
// appends a whole chunk and never copies or moves existing ones, so a pointer
// returned by At stays valid for as long as the Store holds the chunk. Only the
// outer slice of chunk headers is reallocated as it grows.
//
// Index arithmetic:
//
//	chunk  = index / size   (index >> shift when size is a power of two)
//	offset = index % size   (index & mask  when size is a power of two)
//
// Store is not safe for concurrent mutation. Concurrent readers are fine as
// long as no goroutine calls Grow or Reset at the same time.
package chunk
