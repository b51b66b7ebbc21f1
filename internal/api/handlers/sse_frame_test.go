package handlers

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEvent_WritesFrame(t *testing.T) {
	h := NewSSEHandler(nil, 0)
	w := httptest.NewRecorder()

	require.NoError(t, h.sendEvent(context.Background(), w, "n-1", "notification", map[string]string{"title": "hi"}))
	assert.Equal(t, "id: n-1\nevent: notification\ndata: {\"title\":\"hi\"}\n\n", w.Body.String())
}

func TestSendEvent_MarshalFailureLogsToRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).With().Str("request_id", "req-7").Logger().WithContext(context.Background())

	h := NewSSEHandler(nil, 0)
	w := httptest.NewRecorder()

	require.NoError(t, h.sendEvent(ctx, w, "", "notification", map[string]interface{}{"bad": make(chan int)}))
	assert.Empty(t, w.Body.String())
	assert.Contains(t, buf.String(), `"request_id":"req-7"`)
	assert.Contains(t, buf.String(), "failed to marshal event data")
}
