package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/couchcryptid/geo-distance-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const (
	maxDistanceBody = 1 << 16
	maxToolBody     = 1 << 16
)

type distanceRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type distanceResponse struct {
	Place1     string                `json:"place1"`
	Place2     string                `json:"place2"`
	Status     domain.ReportStatus   `json:"status"`
	DistanceKm *float64              `json:"distance_km,omitempty"`
	Failures   []domain.PlaceFailure `json:"failures,omitempty"`
	Message    string                `json:"message"`
}

// handleDistanceQuery serves GET /v1/distance?from=...&to=...
func (s *Server) handleDistanceQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.respondDistance(w, r, distanceRequest{From: q.Get("from"), To: q.Get("to")})
}

// handleDistanceJSON serves POST /v1/distance with a {"from","to"} body.
func (s *Server) handleDistanceJSON(w http.ResponseWriter, r *http.Request) {
	var req distanceRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDistanceBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	s.respondDistance(w, r, req)
}

func (s *Server) respondDistance(w http.ResponseWriter, r *http.Request, req distanceRequest) {
	if strings.TrimSpace(req.From) == "" || strings.TrimSpace(req.To) == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	report := s.distance.ComputeDistance(r.Context(), req.From, req.To)

	res := distanceResponse{
		Place1:   report.Place1,
		Place2:   report.Place2,
		Status:   report.Status,
		Failures: report.Failures,
		Message:  report.Text(),
	}
	if _, ok := report.Distance(); ok {
		km := report.RoundedKm()
		res.DistanceKm = &km
	}

	sharedobs.WriteJSON(w, statusForReport(report), res)
}

// statusForReport maps upstream trouble to 502 and unresolvable input to 422.
func statusForReport(r domain.DistanceReport) int {
	if r.Status == domain.StatusDone {
		return http.StatusOK
	}
	for _, f := range r.Failures {
		if f.Kind == domain.KindProviderError || f.Kind == domain.KindNetworkError {
			return http.StatusBadGateway
		}
	}
	return http.StatusUnprocessableEntity
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"tools": s.tools.Descriptors()})
}

// handleInvokeTool serves POST /v1/tools/{name}; the body is the tool's JSON arguments.
func (s *Server) handleInvokeTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxToolBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read body")
		return
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	out, found, err := s.tools.Invoke(r.Context(), name, string(body))
	if !found {
		writeError(w, http.StatusNotFound, "unknown tool")
		return
	}
	if err != nil {
		s.logger.Warn("tool invocation failed", "req_id", RequestID(r.Context()), "tool", name, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, map[string]json.RawMessage{"output": json.RawMessage(out)})
}
