package swap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usdcAddr = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"

func TestNewStoreDefaultsIndependentField(t *testing.T) {
	s := NewStore(State{})
	assert.Equal(t, FieldInput, s.State().IndependentField)
}

func TestSelectCurrency(t *testing.T) {
	s := NewStore(State{InputCurrencyID: "ETH"})
	s.SelectCurrency(FieldOutput, usdcAddr)

	st := s.State()
	assert.Equal(t, "ETH", st.InputCurrencyID)
	assert.Equal(t, usdcAddr, st.OutputCurrencyID)
	assert.Equal(t, FieldInput, st.IndependentField)
}

func TestSelectCurrencyOnOtherSideSwitches(t *testing.T) {
	s := NewStore(State{InputCurrencyID: "ETH", OutputCurrencyID: usdcAddr, TypedValue: "1"})
	s.SelectCurrency(FieldInput, usdcAddr)

	st := s.State()
	assert.Equal(t, usdcAddr, st.InputCurrencyID)
	assert.Equal(t, "ETH", st.OutputCurrencyID)
	assert.Equal(t, FieldOutput, st.IndependentField)
	assert.Equal(t, "1", st.TypedValue)
}

func TestSwitchCurrencies(t *testing.T) {
	s := NewStore(State{InputCurrencyID: "ETH", OutputCurrencyID: usdcAddr})
	s.SwitchCurrencies()

	st := s.State()
	assert.Equal(t, usdcAddr, st.InputCurrencyID)
	assert.Equal(t, "ETH", st.OutputCurrencyID)
	assert.Equal(t, FieldOutput, st.IndependentField)

	s.SwitchCurrencies()
	assert.Equal(t, FieldInput, s.State().IndependentField)
}

func TestTypeInputAndRecipient(t *testing.T) {
	s := NewStore(State{})
	s.TypeInput(FieldOutput, "100")
	s.SetRecipient("0x000000000000000000000000000000000000dEaD")

	st := s.State()
	assert.Equal(t, FieldOutput, st.IndependentField)
	assert.Equal(t, "100", st.TypedValue)
	assert.Equal(t, "0x000000000000000000000000000000000000dEaD", st.Recipient)
}

func TestReplace(t *testing.T) {
	s := NewStore(State{InputCurrencyID: "ETH", TypedValue: "2"})
	s.Replace(State{OutputCurrencyID: usdcAddr})

	st := s.State()
	assert.Empty(t, st.InputCurrencyID)
	assert.Empty(t, st.TypedValue)
	assert.Equal(t, usdcAddr, st.OutputCurrencyID)
	assert.Equal(t, FieldInput, st.IndependentField)
}

func TestSubscribeSeesEveryUpdate(t *testing.T) {
	s := NewStore(State{})

	var mu sync.Mutex
	var seen []string
	s.Subscribe(func(st State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, st.TypedValue)
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.TypeInput(FieldInput, "1")
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 20)
	assert.Equal(t, "1", s.State().TypedValue)
}
