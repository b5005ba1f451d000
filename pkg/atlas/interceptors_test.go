package atlas

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInterceptorRejected = errors.New("rejected")

func TestInterceptorChain_Order(t *testing.T) {
	chain := NewInterceptorChain()

	var order []string

	chain.AddRequestInterceptor(func(ctx context.Context, req *Request) error {
		order = append(order, "first")

		return nil
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *Request) error {
		order = append(order, "second")

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &Request{Method: "GET", Path: "/2.0/repositories"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestInterceptorChain_RequestErrorStopsChain(t *testing.T) {
	chain := NewInterceptorChain()

	var reached bool

	chain.AddRequestInterceptor(func(ctx context.Context, req *Request) error {
		return errInterceptorRejected
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *Request) error {
		reached = true

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &Request{})
	assert.ErrorIs(t, err, errInterceptorRejected)
	assert.False(t, reached)
}

func TestHeaderInterceptor(t *testing.T) {
	interceptor := HeaderInterceptor(map[string]string{"X-Custom": "value"})

	req := &Request{Method: "GET", Path: "/rest/servicedeskapi/info"}
	require.NoError(t, interceptor(context.Background(), req))

	assert.Equal(t, "value", req.Headers.Get("X-Custom"))
}

func TestMetricsInterceptors(t *testing.T) {
	collector := NewMetricsCollector()
	record := MetricsRequestInterceptor()
	observe := MetricsResponseInterceptor(collector)

	ctx := context.Background()

	req := &Request{Method: "GET", Path: "/rest/servicedeskapi/info"}
	require.NoError(t, record(ctx, req))
	require.NoError(t, observe(ctx, req, &Response{StatusCode: http.StatusOK}))

	failed := &Request{Method: "GET", Path: "/rest/servicedeskapi/info"}
	require.NoError(t, record(ctx, failed))
	require.NoError(t, observe(ctx, failed, &Response{StatusCode: http.StatusInternalServerError}))

	metrics := collector.GetMetrics("GET /rest/servicedeskapi/info")
	assert.Equal(t, int64(2), metrics.Requests)
	assert.Equal(t, int64(1), metrics.Errors)
	assert.False(t, metrics.LastRequest.IsZero())

	// Unknown endpoints report zeroes rather than nil.
	empty := collector.GetMetrics("GET /nowhere")
	assert.Equal(t, int64(0), empty.Requests)
}
