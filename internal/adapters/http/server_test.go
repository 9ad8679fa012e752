package httpserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	t.Parallel()
	s, _, _ := buildServer(t)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/topics/orders/partitions/2/brokers?host=dev")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Contains(t, string(body), "offset_scout_bridge_requests_total")
	require.Contains(t, string(body), `op="brokers"`)
}

func TestRouter_RequestID(t *testing.T) {
	t.Parallel()
	s, _, _ := buildServer(t)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/api/topics/orders?host=dev")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/topics/missing?host=dev", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "client-42")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "client-42", resp.Header.Get("X-Request-Id"))
}

func TestWSBridge(t *testing.T) {
	t.Parallel()
	s, _, _ := buildServer(t)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"id":"a","host":"dev"}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"id":"b","host":"dev","topicName":"payments","partitionId":0}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"id":"c","host":"dev","topicName":"missing"}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))

	got := map[string]domain.Event{}
	for i := 0; i < 4; i++ {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var ev domain.Event
		require.NoError(t, conn.ReadJSON(&ev))
		got[ev.ID] = ev
	}

	require.Equal(t, domain.EventSuccess, got["a"].Type)
	require.Equal(t, domain.OpTopics, got["a"].Op)
	require.Equal(t, domain.EventSuccess, got["b"].Type)
	require.Equal(t, domain.OpPartition, got["b"].Op)
	require.Equal(t, domain.EventError, got["c"].Type)
	require.Equal(t, domain.KindNotFound, got["c"].Error.Kind)
	require.Equal(t, domain.EventError, got[""].Type)
	require.Equal(t, domain.KindInvalid, got[""].Error.Kind)
}
