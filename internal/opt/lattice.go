// Package opt implements the dataflow and local-optimization core: a
// reaching-definitions analyzer and the five peephole passes that consume
// it (constant propagation, constant folding with edge pruning, load/store/
// LEA simplification, register-copy forwarding, move-with-source-def
// merging). One file per pass, each exposing a single verb-named entry
// point rather than a Name()/Apply()/Description() interface, since these
// passes are called directly by the CLI pipeline rather than registered
// into a dynamic list.
package opt

import "dataflow/internal/handle"

// meet combines two reaching-definition lattice values reached along
// different paths into a confluence block. The three-point flat lattice is
// bottom (no def reaches here yet) < any concrete def < top (two or more
// conflicting defs reach here). top is the confluence block's own handle,
// not the package-global handle.Top sentinel: §4.1 encodes "conflicting
// defs reach this block" the same way as "this block has no resolved
// live-in yet", both as the block's own handle, since every consumer of a
// reaching-def tag treats "not a unique INS handle" as one outcome anyway.
// A single shared top constant would still distinguish the two cases from
// every other block's perspective, which is exactly the signal
// finalization must not lose.
//
// meet returns the combined value and whether it differs from h1 (the
// accumulator), so callers can track whether an in-place update actually
// changed anything — the exact signature HandleVecCombineWith uses to drive
// the fixpoint worklist.
func meet(h1, h2, top handle.Handle) (result handle.Handle, changed bool) {
	if h1 == top {
		return h1, false
	}
	if h2.IsBottom() || h1 == h2 {
		return h1, false
	}
	if h1.IsBottom() {
		return h2, true
	}
	return top, true
}

// meetInto applies meet to every register of acc against in, mutating acc
// in place and reporting whether any slot changed. This is
// HandleVecCombineWith: combine out[pred] into in[succ] while propagating a
// predecessor's Out vector to a successor's In vector. top is the
// successor block's own handle, used as the per-block top sentinel for
// every register meet performs here.
func meetInto(acc, in handleVecLike, top handle.Handle) bool {
	changed := false
	for r := 1; r < acc.Len(); r++ {
		v, ch := meet(acc.Get(r), in.Get(r), top)
		if ch {
			acc.Set(r, v)
			changed = true
		}
	}
	return changed
}

// transfer computes a block's Out vector from its Def and In vectors: a
// register with a local def anywhere in the block takes that def (killing
// whatever reached the block's entry); otherwise the block's In value
// passes through unchanged. This is HandleVecUpdateWith.
func transfer(def, in, out handleVecLike) bool {
	changed := false
	for r := 1; r < out.Len(); r++ {
		h := def.Get(r)
		if h.IsBottom() {
			h = in.Get(r)
		}
		if h != out.Get(r) {
			out.Set(r, h)
			changed = true
		}
	}
	return changed
}

// handleVecLike is the subset of handlevec.HandleVec's API the lattice
// operations need, kept as an interface so lattice.go has no import on the
// concrete vector type and can be unit-tested against a bare slice.
type handleVecLike interface {
	Len() int
	Get(r int) handle.Handle
	Set(r int, h handle.Handle)
}
