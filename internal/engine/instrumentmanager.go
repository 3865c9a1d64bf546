package engine

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"
)

// instrumentChanSize bounds how far a fast CSV reader can get ahead of a
// slow instrument's goroutine before Submit blocks. Mirrors the teacher's
// WorkerPool TASK_CHAN_SIZE (internal/worker.go).
const instrumentChanSize = 100

// InstrumentManager fans OrderAction tuples out across one goroutine per
// instrument, matching spec.md §4.7: actions for the same instrument are
// strictly serialized (book mutation is never safe to parallelize), while
// unrelated instruments proceed concurrently. Where the teacher's
// server.Server ran a fixed-size WorkerPool pulling arbitrary connections
// off one shared channel (internal/worker.go, internal/server.go), a
// matching engine's unit of serialization is the instrument, not an
// anonymous worker slot — so this type grows one dedicated goroutine per
// instrument on first sight of it instead of pulling from a shared pool.
// Both are supervised the same way: a single gopkg.in/tomb.v2 Tomb owns
// every goroutine and gives Wait/Kill a single point of control.
type InstrumentManager struct {
	t   tomb.Tomb
	log zerolog.Logger

	mu       sync.Mutex
	engines  map[string]*Engine
	channels map[string]chan OrderAction
	seq      uint64
	started  bool

	errMu sync.Mutex
	errs  []error
}

// NewInstrumentManager constructs an empty manager. Engines are created
// lazily, one per distinct instrument seen by Submit.
func NewInstrumentManager(log zerolog.Logger) *InstrumentManager {
	return &InstrumentManager{
		log:      log,
		engines:  make(map[string]*Engine),
		channels: make(map[string]chan OrderAction),
	}
}

// Submit stamps action with the next submission sequence number and
// enqueues it on its instrument's goroutine, starting that goroutine the
// first time the instrument is seen. Submit itself never blocks on
// matching work completing — only on the instrument's channel having
// room — so a slow instrument never stalls ingestion of unrelated ones.
//
// Submit is called from a single goroutine (the CSV reader
// driving it); cross-instrument concurrency happens downstream of Submit,
// not around it. The sequence is one manager-wide counter, incremented
// under the manager's mutex.
func (m *InstrumentManager) Submit(action OrderAction) {
	m.mu.Lock()
	m.seq++
	action.sequence = m.seq

	ch, ok := m.channels[action.Instrument]
	if !ok {
		e := New(action.Instrument, m.log)
		m.engines[action.Instrument] = e
		ch = make(chan OrderAction, instrumentChanSize)
		m.channels[action.Instrument] = ch
		m.started = true
		m.t.Go(func() error {
			return m.runInstrument(e, ch)
		})
	}
	m.mu.Unlock()

	ch <- action
}

// runInstrument drains one instrument's channel until it is closed or the
// tomb starts dying, recording any dispatch error for later retrieval via
// Errors. Mirrors the teacher's worker loop shape (internal/worker.go's
// pool.worker): select on Dying() alongside the work channel.
func (m *InstrumentManager) runInstrument(e *Engine, ch chan OrderAction) error {
	for {
		select {
		case <-m.t.Dying():
			return nil
		case action, ok := <-ch:
			if !ok {
				return nil
			}
			if err := e.Process(action); err != nil {
				m.recordErr(err)
			}
		}
	}
}

func (m *InstrumentManager) recordErr(err error) {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	m.errs = append(m.errs, err)
}

// Errors returns every error recorded while dispatching submitted actions,
// in the order each offending action's processing finished (not
// necessarily submission order, since instruments run concurrently).
func (m *InstrumentManager) Errors() []error {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	out := make([]error, len(m.errs))
	copy(out, m.errs)
	return out
}

// Wait closes every instrument channel and blocks until all instrument
// goroutines have drained their backlog and exited. Call it once ingestion
// is complete and before reading AllEvents. Safe to call even if Submit was
// never called (gopkg.in/tomb.v2's Tomb otherwise has nothing to mark it
// dead and would block forever).
func (m *InstrumentManager) Wait() error {
	m.mu.Lock()
	for _, ch := range m.channels {
		close(ch)
	}
	started := m.started
	m.mu.Unlock()

	if !started {
		return nil
	}
	return m.t.Wait()
}

// AllEvents merges every instrument's event log into one timeline ordered
// by ActionTimestamp, breaking ties by submission sequence — the
// resolution spec.md §9's Open Question 1 leaves to the implementer.
// Must only be called after Wait returns.
func (m *InstrumentManager) AllEvents() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, e := range m.engines {
		total += len(e.Events())
	}
	all := make([]Event, 0, total)
	for _, e := range m.engines {
		all = append(all, e.Events()...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].ActionTimestamp != all[j].ActionTimestamp {
			return all[i].ActionTimestamp < all[j].ActionTimestamp
		}
		return all[i].sequence < all[j].sequence
	})
	return all
}

// Engine returns the per-instrument Engine, creating none — it is present
// only if Submit has already seen that instrument. Used by tests and by
// PruneTerminal-style maintenance hooks.
func (m *InstrumentManager) Engine(instrument string) (*Engine, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.engines[instrument]
	return e, ok
}

// Instruments lists every instrument the manager has started an engine
// for, in no particular order.
func (m *InstrumentManager) Instruments() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.engines))
	for k := range m.engines {
		out = append(out, k)
	}
	return out
}
