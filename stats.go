package syncbase

import (
	"sync/atomic"
)

// Stats is a read-only snapshot of hub statistics.
// Use Hub.Stats() to obtain a snapshot that can be exported
// to any monitoring system (Prometheus, OpenTelemetry, StatsD, etc.).
type Stats struct {
	Created        int64 // Backend objects created, including race losers
	Destroyed      int64 // Backend objects destroyed
	InitRacesLost  int64 // Redundant objects discarded after a lost init race
	EmergencyInits int64 // Lazy inits triggered by locking an uninitialized handle
	Locks          int64 // Lock acquisitions
	Unlocks        int64 // Unlocks
}

// stats uses atomic counters for thread-safe statistics collection.
type stats struct {
	creates     atomic.Int64
	destroys    atomic.Int64
	raceslost   atomic.Int64
	emergencies atomic.Int64
	locks       atomic.Int64
	unlocks     atomic.Int64
}

// snapshot returns a read-only copy of current statistics.
func (c *stats) snapshot() Stats {
	return Stats{
		Created:        c.creates.Load(),
		Destroyed:      c.destroys.Load(),
		InitRacesLost:  c.raceslost.Load(),
		EmergencyInits: c.emergencies.Load(),
		Locks:          c.locks.Load(),
		Unlocks:        c.unlocks.Load(),
	}
}

func (c *stats) created()   { c.creates.Add(1) }
func (c *stats) destroyed() { c.destroys.Add(1) }
func (c *stats) raceLost()  { c.raceslost.Add(1) }
func (c *stats) emergency() { c.emergencies.Add(1) }
func (c *stats) locked()    { c.locks.Add(1) }
func (c *stats) unlocked()  { c.unlocks.Add(1) }
