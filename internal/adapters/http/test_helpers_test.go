package httpserver

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/OliveiraNt/offset-scout/internal/application"
	"github.com/OliveiraNt/offset-scout/internal/config"
	"github.com/OliveiraNt/offset-scout/internal/metrics"
	"github.com/OliveiraNt/offset-scout/internal/testutil"
	"github.com/OliveiraNt/offset-scout/internal/utils"
	"github.com/go-chi/chi/v5"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// buildServer builds a Server over a fake cluster with orders (3 partitions, 81 messages)
// and payments (1 partition, 27 messages).
func buildServer(t *testing.T) (*Server, *testutil.FakeConnFactory, *metrics.Registry) {
	t.Helper()
	f := testutil.NewFakeConnFactory()
	f.AddTopic("orders", 3, false)
	f.AddTopic("payments", 1, false)
	f.SetOffsets("orders", 0, 0, 27)
	f.SetOffsets("orders", 1, 5, 32)
	f.SetOffsets("orders", 2, 100, 127)
	f.SetOffsets("payments", 0, 10, 37)

	reg := metrics.NewRegistry(metrics.Options{})
	cfg := config.FileConfig{Timeouts: map[string]config.TimeoutPolicy{
		config.SiteTopicList: {InitialMs: 200, IncrementMs: 0, MaxTries: 1},
	}}
	svc := application.NewService(application.NewEngine(f, 0), cfg)
	return New(application.NewBridge(svc, reg), reg), f, reg
}

// chiCtxWithParams adds URL params to request context for handler funcs using chi.URLParam
func chiCtxWithParams(params map[string]string, req *http.Request) context.Context {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
}
