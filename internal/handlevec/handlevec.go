// Package handlevec implements the fixed-length per-register vector of
// handles the reaching-definitions analyzer stores three of per basic block
// (In, Out, Def) and shadows locally in the peephole passes.
//
// Register 0 is reserved: the analyzer's per-register loops in internal/opt
// start at index 1 and never visit index 0.
package handlevec

import "dataflow/internal/handle"

// HandleVec is a fixed-length array of handles addressed by virtual
// register number. It is a thin wrapper over a slice rather than a raw
// pointer-and-length pair, but keeps the New/Del lifecycle vocabulary so
// the passes that acquire and release scratch vectors read consistently.
type HandleVec struct {
	data []handle.Handle
}

// New allocates a HandleVec of the given length, every slot pre-filled with
// the Bottom sentinel (register 0 included, though the analyzer never reads
// or writes it).
func New(numRegs int) HandleVec {
	hv := HandleVec{data: make([]handle.Handle, numRegs)}
	hv.Fill(handle.Bottom)
	return hv
}

// Del releases hv's backing storage. Per-block reaching-def vectors are
// deallocated this way at the start of every analyzer invocation, and
// scratch vectors are deallocated this way on every exit from the pass that
// acquired them (§5's "scoped-acquire" requirement).
func (hv *HandleVec) Del() {
	hv.data = nil
}

// Len returns the vector's length.
func (hv HandleVec) Len() int { return len(hv.data) }

// Get returns the handle stored at register r.
func (hv HandleVec) Get(r int) handle.Handle { return hv.data[r] }

// Set stores h at register r.
func (hv HandleVec) Set(r int, h handle.Handle) { hv.data[r] = h }

// Fill overwrites every slot with h.
func (hv HandleVec) Fill(h handle.Handle) {
	for i := range hv.data {
		hv.data[i] = h
	}
}

// CopyFrom overwrites hv's contents with other's. Both vectors must have the
// same length.
func (hv HandleVec) CopyFrom(other HandleVec) {
	if len(hv.data) != len(other.data) {
		panic("handlevec: CopyFrom length mismatch")
	}
	copy(hv.data, other.data)
}

// Equal reports whether hv and other hold the same handles at every index.
func (hv HandleVec) Equal(other HandleVec) bool {
	if len(hv.data) != len(other.data) {
		return false
	}
	for i := range hv.data {
		if hv.data[i] != other.data[i] {
			return false
		}
	}
	return true
}
