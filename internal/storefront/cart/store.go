package cart

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/storefront-core/server/internal/storefront/model"
	logx "github.com/storefront-core/server/pkg/logger"
)

// Listener receives a snapshot after every mutation that changed the cart.
type Listener func(model.CartSnapshot)

// Store owns the cart lines for one session. Lines keep insertion order.
type Store struct {
	mu        sync.RWMutex
	lines     []model.CartLine
	index     map[int]int // product id -> position in lines
	listeners map[int]Listener
	nextSub   int
}

func NewStore() *Store {
	return &Store{
		index:     make(map[int]int),
		listeners: make(map[int]Listener),
	}
}

// Add merges quantity into the existing line for p.ID or appends a new line.
// Quantities below 1 are ignored.
func (s *Store) Add(p model.Product, quantity int) {
	if quantity < 1 {
		logx.Debug().Int("product_id", p.ID).Int("quantity", quantity).Msg("ignoring non-positive add quantity")
		return
	}

	s.mu.Lock()
	if i, ok := s.index[p.ID]; ok {
		s.lines[i].Quantity += quantity
	} else {
		s.index[p.ID] = len(s.lines)
		s.lines = append(s.lines, model.NewCartLine(p, quantity))
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Remove deletes the line for id. Missing ids are a no-op.
func (s *Store) Remove(id int) {
	s.mu.Lock()
	if !s.removeLocked(id) {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// ChangeQuantity adds delta to the line for id. A result of zero or less removes the line.
func (s *Store) ChangeQuantity(id, delta int) {
	if delta == 0 {
		return
	}

	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	if next := s.lines[i].Quantity + delta; next <= 0 {
		s.removeLocked(id)
	} else {
		s.lines[i].Quantity = next
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Store) Clear() {
	s.mu.Lock()
	if len(s.lines) == 0 {
		s.mu.Unlock()
		return
	}
	s.lines = nil
	s.index = make(map[int]int)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Deduct subtracts the quantities in ordered from the matching lines and drops
// lines that reach zero. Lines added or grown after ordered was taken survive.
func (s *Store) Deduct(ordered []model.CartLine) {
	s.mu.Lock()
	changed := false
	for _, o := range ordered {
		i, ok := s.index[o.ID]
		if !ok || o.Quantity <= 0 {
			continue
		}
		changed = true
		if next := s.lines[i].Quantity - o.Quantity; next <= 0 {
			s.removeLocked(o.ID)
		} else {
			s.lines[i].Quantity = next
		}
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// ItemCount is the sum of all line quantities.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemCountLocked()
}

func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subtotalLocked()
}

func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines) == 0
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []model.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLinesLocked()
}

func (s *Store) Line(id int) (model.CartLine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.CartLine{}, false
	}
	return s.lines[i], true
}

func (s *Store) Snapshot() model.CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn and returns a func that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) removeLocked(id int) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.lines); j++ {
		s.index[s.lines[j].ID] = j
	}
	return true
}

func (s *Store) itemCountLocked() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) subtotalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

func (s *Store) copyLinesLocked() []model.CartLine {
	out := make([]model.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) snapshotLocked() model.CartSnapshot {
	return model.CartSnapshot{
		Lines:     s.copyLinesLocked(),
		ItemCount: s.itemCountLocked(),
		Subtotal:  s.subtotalLocked(),
	}
}

// notify runs outside the lock so listeners may read the store.
func (s *Store) notify(snap model.CartSnapshot) {
	s.mu.RLock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(snap)
	}
}
