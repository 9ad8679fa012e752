package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/OliveiraNt/offset-scout/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) apiListTopics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.respond(w, r, domain.Request{
		Op:           domain.OpTopics,
		Host:         q.Get("host"),
		ShowInternal: q.Get("showInternal") == "true",
		Tolerant:     q.Get("tolerant") == "true",
	})
}

func (s *Server) apiGetTopic(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, domain.Request{
		Op:        domain.OpTopic,
		Host:      r.URL.Query().Get("host"),
		TopicName: chi.URLParam(r, "topicName"),
	})
}

func (s *Server) apiGetPartition(w http.ResponseWriter, r *http.Request) {
	s.partitionRequest(w, r, domain.OpPartition)
}

func (s *Server) apiGetPartitionBrokers(w http.ResponseWriter, r *http.Request) {
	s.partitionRequest(w, r, domain.OpPartitionBrokers)
}

func (s *Server) partitionRequest(w http.ResponseWriter, r *http.Request, op string) {
	raw := chi.URLParam(r, "partitionId")
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		utils.Logger.Warn("api bad partition id", "partitionId", raw, "err", err)
		writeError(w, domain.NewFault(fmt.Errorf("%w: partitionId %q is not an integer", domain.ErrInvalidRequest, raw)))
		return
	}
	partition := int32(id)

	s.respond(w, r, domain.Request{
		Op:          op,
		Host:        r.URL.Query().Get("host"),
		TopicName:   chi.URLParam(r, "topicName"),
		PartitionID: &partition,
	})
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, req domain.Request) {
	req.ID = middleware.GetReqID(r.Context())
	if req.ID != "" {
		w.Header().Set(middleware.RequestIDHeader, req.ID)
	}
	ev := s.bridge.Do(r.Context(), req)
	if ev.Error != nil {
		utils.Logger.Warn("api request failed", "id", req.ID, "op", ev.Op, "host", req.Host, "topic", req.TopicName, "kind", ev.Error.Kind, "err", ev.Error.Message)
		writeError(w, ev.Error)
		return
	}
	writeJSON(w, http.StatusOK, ev.Data)
}

// statusFor maps an error kind onto the HTTP status returned to API clients.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	case domain.KindConnection, domain.KindProtocol:
		return http.StatusBadGateway
	case domain.KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, f *domain.Fault) {
	writeJSON(w, statusFor(f.Kind), f)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Logger.Error("encode response failed", "err", err)
	}
}
