package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
)

type ping struct {
	ID int `json:"id"`
}

func TestGetJSON_ThrottledPastDeadlineIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	t.Cleanup(srv.Close)

	client := NewHTTPClient(ClientOptions{
		Provider:          "test",
		BaseURL:           srv.URL,
		Timeout:           50 * time.Millisecond,
		RequestsPerSecond: 0.01,
		Burst:             1,
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	var out ping
	require.NoError(t, client.GetJSON(context.Background(), "/ping", nil, &out))
	assert.Equal(t, 1, out.ID)

	start := time.Now()
	err := client.GetJSON(context.Background(), "/ping", nil, &out)
	assert.Equal(t, domainerrors.CodeUpstreamTimeout, domainerrors.CodeOf(err))
	assert.Less(t, time.Since(start), time.Second)
}

func TestGetJSON_CanceledWaitIsUpstream(t *testing.T) {
	client := NewHTTPClient(ClientOptions{
		Provider:          "test",
		BaseURL:           "http://127.0.0.1:1",
		RequestsPerSecond: 0.01,
		Burst:             1,
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out ping
	err := client.GetJSON(ctx, "/ping", nil, &out)
	assert.Equal(t, domainerrors.CodeUpstream, domainerrors.CodeOf(err))
}
