// SPDX-License-Identifier: MIT

// Package solver - factorization-cache keying and the preallocated
// singleton fast path.
//
// The workspace cache is a map keyed by (algorithm kind, structural
// category). Concrete slot types are owned by their backends (each Kind has
// its own cache shape: dense factorization objects, sparse symbolic state,
// or nothing at all for the iterative family); keying by kind makes the map
// an explicit tagged union over all of them, so a change in the resolved
// default algorithm touches exactly one entry and never reallocates the
// rest.
//
// Invariant: a slot is reusable only while the operand's structural
// category and (for sparse backends) its nonzero pattern match what the
// slot was built against. Value changes never invalidate a slot; structure
// does.

package solver

import (
	"sync"

	"github.com/katalvlaran/linsolve/operand"
)

// cacheKey identifies one slot: the algorithm variant identity plus the
// structural category it was specialized for.
type cacheKey struct {
	kind Kind
	cat  operand.Category
}

// ---------- Preallocated singleton fast path ----------
//
// The hot common case: a double-precision dense or sparse matrix under
// default configuration: gets a process-wide preallocated cache shell on
// its very first miss, instead of an allocation. Purely a performance
// optimization: the claimed shell is indistinguishable from a freshly
// allocated one, and each shell is handed out at most once (single-writer
// discipline under the mutex; after the claim the owning workspace is the
// only writer).

var (
	preallocMu     sync.Mutex
	preallocDense  = &denseLUCache{}
	preallocSparse = &sparseLUCache{}
)

// claimPreallocDense hands out the process-wide dense LU shell once.
func claimPreallocDense() *denseLUCache {
	preallocMu.Lock()
	defer preallocMu.Unlock()
	c := preallocDense
	preallocDense = nil
	return c
}

// claimPreallocSparse hands out the process-wide sparse LU shell once.
func claimPreallocSparse() *sparseLUCache {
	preallocMu.Lock()
	defer preallocMu.Unlock()
	c := preallocSparse
	preallocSparse = nil
	return c
}

// isDefaultConfig reports whether alg matches the backend's default
// configuration: the eligibility test for the singleton fast path.
func isDefaultConfig(alg Algorithm) bool {
	bk, ok := lookupBackend(alg.kind)
	if !ok {
		return false
	}
	return alg == defaultAlgorithmFor(alg.kind, bk.Traits())
}
