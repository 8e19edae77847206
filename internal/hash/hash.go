// Package hash provides the 64-bit hashing primitive content addressing
// needs. Built on the standard library's hash/maphash (see DESIGN.md for why
// no third-party hashing library is used here).
package hash

import (
	"encoding/binary"
	"hash/maphash"
)

// seed is initialised once at process startup and held fixed for the rest of
// the run, so two nodes built from identical fields within one compilation
// always collide on the same id. maphash.MakeSeed picks a fresh random seed
// each time, so ids are NOT stable across separate runs of the program — only
// within one.
var seed = maphash.MakeSeed()

// Builder accumulates bytes for one node's encoding and yields a stable
// 64-bit id. Not safe for concurrent use; callers construct one per node.
type Builder struct {
	h maphash.Hash
}

// New returns a Builder seeded with the process-wide fixed seed.
func New() *Builder {
	b := &Builder{}
	b.h.SetSeed(seed)
	return b
}

// WriteTag mixes in a discriminant byte identifying the node variant.
func (b *Builder) WriteTag(tag byte) *Builder {
	b.h.WriteByte(tag)
	return b
}

// WriteUint64 mixes in a 64-bit field (a child id, a literal, a position).
func (b *Builder) WriteUint64(v uint64) *Builder {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	b.h.Write(buf[:])
	return b
}

// WriteInt64 mixes in a signed 64-bit literal field.
func (b *Builder) WriteInt64(v int64) *Builder { return b.WriteUint64(uint64(v)) }

// WriteBool mixes in a boolean literal field.
func (b *Builder) WriteBool(v bool) *Builder {
	if v {
		return b.WriteTag(1)
	}
	return b.WriteTag(0)
}

// WriteString mixes in a name (function/variable identifier).
func (b *Builder) WriteString(s string) *Builder {
	b.h.WriteString(s)
	b.h.WriteByte(0) // length-separator so "ab","c" != "a","bc"
	return b
}

// Sum64 finalises the hash. Calling Sum64 does not prevent further writes,
// but callers should treat a Builder as single-use once read.
func (b *Builder) Sum64() uint64 { return b.h.Sum64() }

// Of is a convenience for hashing a single tag plus a list of uint64 child
// ids, the common shape for composite nodes (Op, Func).
func Of(tag byte, fields ...uint64) uint64 {
	b := New().WriteTag(tag)
	for _, f := range fields {
		b.WriteUint64(f)
	}
	return b.Sum64()
}

// Scoped combines an enclosing-function name with a local name, so that
// same-named locals in different functions do not alias.
func Scoped(funcName, localName string) uint64 {
	return New().WriteTag('S').WriteString(funcName).WriteString(localName).Sum64()
}

// Global hashes a name alone, for ExternalConstant ids and user-function
// ids.
func Global(name string) uint64 {
	return New().WriteTag('G').WriteString(name).Sum64()
}
