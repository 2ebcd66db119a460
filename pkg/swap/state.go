// Package swap holds the user's swap form state. All mutation goes through
// Store methods, which are serialized.
package swap

import "sync"

// Field is a side of the swap form
type Field string

const (
	FieldInput  Field = "INPUT"
	FieldOutput Field = "OUTPUT"
)

func (f Field) other() Field {
	if f == FieldInput {
		return FieldOutput
	}
	return FieldInput
}

// State is the swap form. Currency IDs are "ETH" for the native currency or a token address.
type State struct {
	InputCurrencyID  string `json:"input_currency_id,omitempty"`
	OutputCurrencyID string `json:"output_currency_id,omitempty"`
	IndependentField Field  `json:"independent_field"`
	TypedValue       string `json:"typed_value"`
	Recipient        string `json:"recipient,omitempty"`
}

func (s State) currency(f Field) string {
	if f == FieldInput {
		return s.InputCurrencyID
	}
	return s.OutputCurrencyID
}

func (s *State) setCurrency(f Field, id string) {
	if f == FieldInput {
		s.InputCurrencyID = id
	} else {
		s.OutputCurrencyID = id
	}
}

// Store owns a State and applies updates one at a time
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []func(State)
}

// NewStore creates a store holding initial
func NewStore(initial State) *Store {
	if initial.IndependentField == "" {
		initial.IndependentField = FieldInput
	}
	return &Store{state: initial}
}

// State returns a copy of the current state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called with the new state after every update
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	next := s.state
	listeners := append([]func(State){}, s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
}

// SelectCurrency sets the currency of field. Selecting the currency already
// chosen on the other side swaps the two sides.
func (s *Store) SelectCurrency(field Field, currencyID string) {
	s.update(func(st *State) {
		other := field.other()
		if currencyID != "" && currencyID == st.currency(other) {
			st.IndependentField = st.IndependentField.other()
			st.setCurrency(other, st.currency(field))
		}
		st.setCurrency(field, currencyID)
	})
}

// SwitchCurrencies swaps input and output
func (s *Store) SwitchCurrencies() {
	s.update(func(st *State) {
		st.IndependentField = st.IndependentField.other()
		st.InputCurrencyID, st.OutputCurrencyID = st.OutputCurrencyID, st.InputCurrencyID
	})
}

// TypeInput records the amount typed into field, making it the fixed side
func (s *Store) TypeInput(field Field, typedValue string) {
	s.update(func(st *State) {
		st.IndependentField = field
		st.TypedValue = typedValue
	})
}

// SetRecipient sets the address receiving the output; empty means the sender
func (s *Store) SetRecipient(recipient string) {
	s.update(func(st *State) {
		st.Recipient = recipient
	})
}

// Replace overwrites the whole state
func (s *Store) Replace(next State) {
	s.update(func(st *State) {
		if next.IndependentField == "" {
			next.IndependentField = FieldInput
		}
		*st = next
	})
}
