package order

import (
	"fmt"

	"catering/internal/pkg/errs"
)

// Status is the canonical order status every provider vocabulary maps onto.
//
// Progression:
//
//	NotStarted ──> Cooking ──> Cooked ──> DeliveryLookup ──> Delivery ──> Delivered
//	     │                       ▲
//	     └───────────────────────┘
//	 (a sub-order may report Cooked without ever reporting Cooking)
//
// The same type describes both the aggregate order status and each
// restaurant sub-order status held in the tracking record.
type Status int

const (
	// Unknown is the zero value and never a valid status.
	Unknown Status = iota
	NotStarted
	Cooking
	Cooked
	DeliveryLookup
	Delivery
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		NotStarted:     "NOT_STARTED",
		Cooking:        "COOKING",
		Cooked:         "COOKED",
		DeliveryLookup: "DELIVERY_LOOKUP",
		Delivery:       "DELIVERY",
		Delivered:      "DELIVERED",
	}
}

// transitionSources lists, per target status, the statuses the aggregate may
// move from. Targets missing here cannot be reached by a transition.
func transitionSources() map[Status][]Status {
	return map[Status][]Status{
		Cooking:        {NotStarted},
		Cooked:         {NotStarted, Cooking},
		DeliveryLookup: {Cooked},
		Delivery:       {DeliveryLookup},
		Delivered:      {Delivery},
	}
}

// ParseStatus converts a status name such as "COOKED" into a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate returns an error for Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer. Invalid values render as "UNKNOWN".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// MarshalText encodes the status by name so cached and persisted records stay readable.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// TransitionSources returns the statuses from which an order may move to target.
// The result is empty for unreachable targets.
func TransitionSources(target Status) []Status {
	sources := transitionSources()[target]
	out := make([]Status, len(sources))
	copy(out, sources)
	return out
}

// CanTransitionTo reports whether s -> target is an allowed transition.
func (s Status) CanTransitionTo(target Status) bool {
	for _, from := range transitionSources()[target] {
		if from == s {
			return true
		}
	}
	return false
}

// Rank orders statuses along the progression. Unknown ranks lowest.
func (s Status) Rank() int {
	if s.Validate() != nil {
		return 0
	}
	return int(s)
}
