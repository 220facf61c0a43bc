package sim

import (
	"math/rand"
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/systems"
)

// parallelThreshold is the minimum agent count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// chunkSize is the fixed number of agents per work chunk. Each chunk draws
// from its own RNG, so results do not depend on the worker count.
const chunkSize = 1024

// agentSnapshot captures one agent's components. Compute updates it in place.
type agentSnapshot struct {
	Entity ecs.Entity
	Pos    components.Position
	Rot    components.Rotation
	Vit    components.Vitals
}

// workChunk represents a range of agents for a worker to process.
type workChunk struct {
	start, end int
	rng        *rand.Rand
}

// tickInput is the read-only state shared by all chunks of one tick.
type tickInput struct {
	field       *systems.Field
	foods       []systems.FoodSource
	params      systems.AgentParams
	convergence float32
}

// parallelState holds resources for parallel agent computation.
type parallelState struct {
	snapshots  []agentSnapshot
	outcomes   []systems.Outcome
	rngs       []*rand.Rand // one per chunk, reseeded every tick
	numWorkers int
	input      tickInput

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(workers int) *parallelState {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &parallelState{
		numWorkers: workers,
		snapshots:  make([]agentSnapshot, 0, 512),
		outcomes:   make([]systems.Outcome, 0, 512),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.computeChunk(chunk)
			p.doneChan <- struct{}{}
		}
	}
}

// computeChunk updates a range of snapshots. The field is only read here.
func (p *parallelState) computeChunk(chunk workChunk) {
	in := &p.input
	for i := chunk.start; i < chunk.end; i++ {
		snap := &p.snapshots[i]
		p.outcomes[i] = systems.UpdateAgent(
			in.field, in.foods,
			&snap.Pos, &snap.Rot, &snap.Vit,
			in.convergence, &in.params, chunk.rng,
		)
	}
}

// chunkRNG returns the RNG for chunk i, reseeded from the master RNG.
func (p *parallelState) chunkRNG(i int, master *rand.Rand) *rand.Rand {
	seed := master.Int63()
	if i < len(p.rngs) {
		p.rngs[i].Seed(seed)
		return p.rngs[i]
	}
	r := rand.New(rand.NewSource(seed))
	p.rngs = append(p.rngs, r)
	return r
}

// updateAgents snapshots every agent and computes its update.
// Deposits are applied afterwards by applyIntents, so every agent senses the
// trail as it stood at the start of the tick.
func (s *Simulation) updateAgents(convergence float32) {
	p := s.parallel

	// Phase A: Build snapshots (single-threaded)
	p.snapshots = p.snapshots[:0]
	query := s.agentFilter.Query()
	for query.Next() {
		pos, rot, vit := query.Get()
		p.snapshots = append(p.snapshots, agentSnapshot{
			Entity: query.Entity(),
			Pos:    *pos,
			Rot:    *rot,
			Vit:    *vit,
		})
	}

	n := len(p.snapshots)
	if cap(p.outcomes) < n {
		p.outcomes = make([]systems.Outcome, n)
	}
	p.outcomes = p.outcomes[:n]
	if n == 0 {
		return
	}

	p.input = tickInput{
		field:       s.field,
		foods:       s.foods,
		params:      s.params,
		convergence: convergence,
	}

	// Phase B: Compute - chunks are identical either way, only the executor differs
	numChunks := (n + chunkSize - 1) / chunkSize
	chunks := make([]workChunk, numChunks)
	for c := range chunks {
		end := (c + 1) * chunkSize
		if end > n {
			end = n
		}
		chunks[c] = workChunk{start: c * chunkSize, end: end, rng: p.chunkRNG(c, s.rng)}
	}

	if n < parallelThreshold || numChunks == 1 || p.numWorkers == 1 {
		for _, chunk := range chunks {
			p.computeChunk(chunk)
		}
		return
	}
	s.computeParallel(chunks)
}

// computeParallel dispatches chunks to the worker pool and waits for them.
func (s *Simulation) computeParallel(chunks []workChunk) {
	p := s.parallel
	if !p.running {
		p.startWorkers()
	}

	// Feed the pool from a goroutine so a full workChan never blocks collection
	go func() {
		for _, chunk := range chunks {
			p.workChan <- chunk
		}
	}()

	for range chunks {
		<-p.doneChan
	}
}

// applyIntents writes computed components back and applies deposits in
// agent order. Single-threaded, preserves determinism.
func (s *Simulation) applyIntents() {
	p := s.parallel
	for i := range p.snapshots {
		snap := &p.snapshots[i]
		out := &p.outcomes[i]

		pos := s.posMap.Get(snap.Entity)
		rot := s.rotMap.Get(snap.Entity)
		vit := s.vitMap.Get(snap.Entity)
		if pos == nil || rot == nil || vit == nil {
			continue
		}
		*pos = snap.Pos
		*rot = snap.Rot
		*vit = snap.Vit

		s.field.Deposit(out.DepositIdx, out.Deposit)
		s.collector.RecordOutcome(out.Mode, out.Bounced, out.RewardAfter > out.RewardBefore, out.Deposit)
	}
}
