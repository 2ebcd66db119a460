package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func sampleArgs() QueryArgs {
	return QueryArgs{
		ChainID:          1,
		FromAddress:      "0x000000000000000000000000000000000000dEaD",
		SellTokenAddress: "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee",
		BuyTokenAddress:  "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		SellTokenAmount:  strPtr("1000000000000000000"),
		Slippage:         "0.005",
	}
}

func newTestClient(url string, opts ...Option) *ValidatorClient {
	opts = append([]Option{WithInitialBackoff(time.Millisecond)}, opts...)
	return NewValidatorClient(url, opts...)
}

func TestGetQuoteBuildsPathAndQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/1/getQuote", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee", q.Get("sellTokenAddress"))
		assert.Equal(t, "1000000000000000000", q.Get("sellTokenAmount"))
		assert.Equal(t, "0.005", q.Get("slippage"))
		assert.Equal(t, "false", q.Get("skipValidation"))
		// null arguments are skipped entirely
		for _, key := range []string{"buyTokenAmount", "recipient", "affiliate", "affiliateFee", "signaturePermitData"} {
			_, present := q[key]
			assert.False(t, present, key)
		}
		_, _ = w.Write([]byte(`{"sellAmount":"1000000000000000000","buyAmount":2500000000,"estimatedGas":"150000","tx":{"to":"0x1111111254fb6c44bAC0beD2854e76F90643097d","data":"0xabcdef","value":"1000000000000000000"}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL + "/v1.0/")
	resp, err := c.GetQuote(context.Background(), sampleArgs())
	require.NoError(t, err)

	assert.Equal(t, "1000000000000000000", resp.SellAmount.String())
	assert.Equal(t, "2500000000", resp.BuyAmount.String())
	assert.Equal(t, "150000", resp.EstimatedGas.String())
	require.NotNil(t, resp.Tx)
	assert.Equal(t, "0xabcdef", resp.Tx.Data)
}

func TestGetGaslessQuoteEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/137/getGaslessQuote", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sellAmount":          "10",
			"buyAmount":           "20",
			"paymentTokenAddress": "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee",
			"paymentFees":         "5",
		})
	}))
	defer server.Close()

	args := sampleArgs()
	args.ChainID = 137
	resp, err := newTestClient(server.URL).GetGaslessQuote(context.Background(), args)
	require.NoError(t, err)
	assert.Equal(t, "5", resp.PaymentFees.String())
	assert.Equal(t, "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee", resp.PaymentTokenAddress)
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"sellAmount":"1","buyAmount":"2"}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).GetQuote(context.Background(), sampleArgs())
	require.NoError(t, err)
	assert.Equal(t, "2", resp.BuyAmount.String())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, WithMaxRetries(3)).GetQuote(context.Background(), sampleArgs())
	require.Error(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"insufficient liquidity"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetQuote(context.Background(), sampleArgs())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Contains(t, err.Error(), "insufficient liquidity")
}

func TestFetchRetriesRateLimit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"sellAmount":"1","buyAmount":"2"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetQuote(context.Background(), sampleArgs())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestAPIErrorRetryable(t *testing.T) {
	cases := map[int]bool{
		http.StatusBadRequest:          false,
		http.StatusNotFound:            false,
		http.StatusUnprocessableEntity: false,
		http.StatusTooManyRequests:     true,
		http.StatusInternalServerError: true,
		http.StatusBadGateway:          true,
	}
	for code, want := range cases {
		assert.Equal(t, want, (&APIError{StatusCode: code}).Retryable(), code)
	}
}

func TestFetchRejectsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetQuote(context.Background(), sampleArgs())
	assert.ErrorContains(t, err, "failed to decode quote")
}

func TestQueryArgsKeyIgnoresPointerIdentity(t *testing.T) {
	a := sampleArgs()
	b := sampleArgs()
	assert.Equal(t, a.Key(), b.Key())

	b.BuyTokenAmount = strPtr("1")
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestFlexStringDecodesNullAndNumbers(t *testing.T) {
	var resp QuoteResponse
	require.NoError(t, json.Unmarshal([]byte(`{"sellAmount":null,"buyAmount":12345678901234567890123}`), &resp))
	assert.Equal(t, "", resp.SellAmount.String())
	assert.Equal(t, "12345678901234567890123", resp.BuyAmount.String())
}
