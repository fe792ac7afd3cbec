// Package conv provides checked integer conversions for slot index and chunk
// size arithmetic.
//
// Slot indices are uint32 while Go sizes are int; these helpers make the
// narrowing explicit and return ErrOverflow instead of silently wrapping.
// Conversions that are provably safe (loop indices below a known bound) use
// plain casts.
package conv
