package carrier

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Pool is the set of carriers still free to take a job during one run.
// It is created from the distinct carrier ids of the run's input, only ever
// shrinks, and is discarded when the run ends. A Pool must not be shared
// between runs or goroutines.
type Pool struct {
	free map[kernel.CarrierID]struct{}
}

// NewPool builds a pool holding each distinct id once.
func NewPool(ids []kernel.CarrierID) *Pool {
	free := make(map[kernel.CarrierID]struct{}, len(ids))
	for _, id := range ids {
		free[id] = struct{}{}
	}
	return &Pool{free: free}
}

// Contains reports whether id can still be assigned.
func (p *Pool) Contains(id kernel.CarrierID) bool {
	_, ok := p.free[id]
	return ok
}

// Remove takes id out of the pool for the rest of the run.
// Removing a carrier that is not in the pool is an error: it would mean the
// same carrier was picked twice.
func (p *Pool) Remove(id kernel.CarrierID) error {
	if !p.Contains(id) {
		return errs.NewObjectNotFoundError("carrier", id.String())
	}
	delete(p.free, id)
	return nil
}

// Len is the number of carriers still free.
func (p *Pool) Len() int {
	return len(p.free)
}
