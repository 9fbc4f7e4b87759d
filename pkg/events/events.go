// Package events generates the dated compounding and payment events that
// drive a loan simulation.
package events

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/datetime"
)

// Kind distinguishes interest compounding from payments.
type Kind int

const (
	Interest Kind = iota
	Payment
)

func (k Kind) String() string {
	switch k {
	case Interest:
		return "interest"
	case Payment:
		return "payment"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// PaymentKind tells a single payment apart from a recurring series.
type PaymentKind int

const (
	OneTime PaymentKind = iota
	Recurring
)

func (k PaymentKind) String() string {
	switch k {
	case OneTime:
		return "onetime"
	case Recurring:
		return "recurring"
	default:
		return fmt.Sprintf("PaymentKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k PaymentKind) MarshalText() ([]byte, error) {
	if k != OneTime && k != Recurring {
		return nil, fmt.Errorf("unknown payment kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PaymentKind) UnmarshalText(text []byte) error {
	parsed, err := ParsePaymentKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParsePaymentKind parses "onetime" or "recurring"; "one-time" and
// "one_time" are accepted too.
func ParsePaymentKind(value string) (PaymentKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "onetime", "one-time", "one_time", "once":
		return OneTime, nil
	case "recurring":
		return Recurring, nil
	default:
		return OneTime, fmt.Errorf("unknown payment type %q, expected onetime or recurring", value)
	}
}

// PaymentSpec describes a payment supplied by the caller. Date is the
// payment date for OneTime and the first occurrence for Recurring; Frequency
// is only read for Recurring.
type PaymentSpec struct {
	ID        string             `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string             `json:"name,omitempty" yaml:"name,omitempty"`
	Kind      PaymentKind        `json:"type" yaml:"type"`
	Amount    float64            `json:"amount" yaml:"amount"`
	Date      time.Time          `json:"date" yaml:"date"`
	Frequency datetime.Frequency `json:"frequency" yaml:"frequency"`
}

// Label returns a short human-readable name for the payment.
func (p PaymentSpec) Label() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Kind == Recurring {
		return "Recurring Payment"
	}
	return "One-time Payment"
}

// Event is a single dated step of the simulation. Amount is only set for
// payments.
type Event struct {
	Date   time.Time
	Kind   Kind
	Amount float64
	Source string
}

// Window is the inclusive range of instants a simulation covers.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Empty reports whether the window starts after it ends.
func (w Window) Empty() bool {
	return w.Start.After(w.End)
}

// Compounding yields one interest event per period, starting one full
// period after the window start so no interest accrues on day zero. It stops
// at the first date past the window end.
func Compounding(w Window, freq datetime.Frequency) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for date := datetime.Advance(w.Start, freq); !date.After(w.End); date = datetime.Advance(date, freq) {
			if !yield(Event{Date: date, Kind: Interest, Source: "compounding"}) {
				return
			}
		}
	}
}

// Series expands one PaymentSpec into payment events inside a window. A
// recurring series takes at most maxSteps steps, counting the ones it makes
// before the window start; anything past that is dropped.
type Series struct {
	spec      PaymentSpec
	window    Window
	maxSteps  int
	truncated bool
}

// NewSeries builds a Series. maxSteps <= 0 selects
// constants.DefaultMaxRecurringOccurrences.
func NewSeries(spec PaymentSpec, w Window, maxSteps int) *Series {
	if maxSteps <= 0 {
		maxSteps = constants.DefaultMaxRecurringOccurrences
	}
	return &Series{spec: spec, window: w, maxSteps: maxSteps}
}

// All returns the lazy sequence of payment events.
func (s *Series) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		s.truncated = false
		date := s.spec.Date
		for steps := 0; !date.After(s.window.End); steps++ {
			if steps >= s.maxSteps {
				s.truncated = true
				return
			}
			if !date.Before(s.window.Start) {
				if !yield(Event{Date: date, Kind: Payment, Amount: s.spec.Amount, Source: s.spec.Label()}) {
					return
				}
			}
			if s.spec.Kind != Recurring {
				return
			}
			date = datetime.Advance(date, s.spec.Frequency)
		}
	}
}

// Truncated reports whether the last iteration of All hit the step cap.
func (s *Series) Truncated() bool {
	return s.truncated
}

// Timeline is the unordered output of Generate.
type Timeline struct {
	Events []Event
	// Truncated lists the labels of recurring payments cut by the step cap.
	Truncated []string
}

// Generate collects every compounding and payment event in the window. An
// empty window produces an empty timeline.
func Generate(w Window, interestFreq datetime.Frequency, payments []PaymentSpec, maxSteps int) Timeline {
	var tl Timeline
	if w.Empty() {
		return tl
	}

	for event := range Compounding(w, interestFreq) {
		tl.Events = append(tl.Events, event)
	}

	for _, spec := range payments {
		series := NewSeries(spec, w, maxSteps)
		for event := range series.All() {
			tl.Events = append(tl.Events, event)
		}
		if series.Truncated() {
			tl.Truncated = append(tl.Truncated, spec.Label())
		}
	}

	return tl
}
