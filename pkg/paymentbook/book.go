// Package paymentbook keeps the editable list of payments applied to a loan.
package paymentbook

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/iwvelando/loan-ledger/pkg/events"
)

// Book is a concurrency-safe collection of payments keyed by ID.
type Book struct {
	mu       sync.RWMutex
	payments []events.PaymentSpec
}

// New returns a book seeded with payments. Entries without an ID get one.
func New(payments ...events.PaymentSpec) *Book {
	b := &Book{}
	for _, p := range payments {
		b.Add(p)
	}
	return b
}

// Add stores p and returns the stored copy. A fresh UUID is assigned when
// p has no ID or its ID is already taken.
func (b *Book) Add(p events.PaymentSpec) events.PaymentSpec {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.ID == "" || b.indexLocked(p.ID) >= 0 {
		p.ID = uuid.NewString()
	}
	b.payments = append(b.payments, p)
	return p
}

// Remove deletes the payment with the given ID and reports whether it existed.
func (b *Book) Remove(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexLocked(id)
	if i < 0 {
		return false
	}
	b.payments = slices.Delete(b.payments, i, i+1)
	return true
}

// Get returns the payment with the given ID.
func (b *Book) Get(id string) (events.PaymentSpec, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i := b.indexLocked(id)
	if i < 0 {
		return events.PaymentSpec{}, false
	}
	return b.payments[i], true
}

// List returns the payments sorted by date; payments on the same date keep
// the order they were added in.
func (b *Book) List() []events.PaymentSpec {
	list := b.Snapshot()
	SortByDate(list)
	return list
}

// SortByDate orders payments by date in place, keeping the relative order
// of payments on the same date.
func SortByDate(payments []events.PaymentSpec) {
	slices.SortStableFunc(payments, func(x, y events.PaymentSpec) int {
		return x.Date.Compare(y.Date)
	})
}

// Snapshot returns a copy of the payments in insertion order. The copy is
// safe to hand to a simulation while the book keeps changing.
func (b *Book) Snapshot() []events.PaymentSpec {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.payments)
}

// Len returns the number of payments.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.payments)
}

func (b *Book) indexLocked(id string) int {
	return slices.IndexFunc(b.payments, func(p events.PaymentSpec) bool {
		return p.ID == id
	})
}
