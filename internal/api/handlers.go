package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/intent"
	"github.com/Mujtaba19938/FINDASH/internal/model"
)

const maxBodyBytes = 1 << 20

// Number accepts a JSON number or a numeric string.
type Number struct {
	Value float64
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return common.NewValidationError("invalid number %s", data)
	}
	n.Value = v
	n.Set = true
	return nil
}

type amountRequest struct {
	Amount Number `json:"amount"`
}

type percentRequest struct {
	Percent Number `json:"percent"`
}

type intentRequest struct {
	Query string `json:"query"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// metric adapts a single-metric engine call to a handler.
func (s *Server) metric(fn func(context.Context, string) (*model.MetricResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := fn(r.Context(), UserFrom(r.Context()))
		s.respond(w, r, result, err)
	}
}

func (s *Server) handleClassification(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.Classify(r.Context(), UserFrom(r.Context()))
	s.respond(w, r, result, err)
}

func (s *Server) handlePaymentPriority(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.PaymentPriority(r.Context(), UserFrom(r.Context()))
	s.respond(w, r, result, err)
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.Anomalies(r.Context(), UserFrom(r.Context()))
	s.respond(w, r, result, err)
}

func (s *Server) handleRiskScore(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.RiskScore(r.Context(), UserFrom(r.Context()))
	s.respond(w, r, result, err)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	months := analytics.DefaultForecastMonths
	if raw := strings.TrimSpace(r.URL.Query().Get("months")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respond(w, r, nil, fmt.Errorf("%w: months must be an integer", analytics.ErrInvalidMonths))
			return
		}
		months = n
	}

	result, err := s.engine.Forecast(r.Context(), UserFrom(r.Context()), months)
	s.respond(w, r, result, err)
}

func (s *Server) handleSimulatePurchase(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decode(r, &req); err != nil {
		s.respond(w, r, nil, err)
		return
	}
	if !req.Amount.Set {
		s.respond(w, r, nil, analytics.ErrInvalidAmount)
		return
	}

	result, err := s.engine.SimulatePurchase(r.Context(), UserFrom(r.Context()), req.Amount.Value)
	s.respond(w, r, result, err)
}

func (s *Server) handleSimulateIncome(w http.ResponseWriter, r *http.Request) {
	s.simulatePercent(w, r, s.engine.SimulateIncomeChange)
}

func (s *Server) handleSimulateExpense(w http.ResponseWriter, r *http.Request) {
	s.simulatePercent(w, r, s.engine.SimulateExpenseChange)
}

func (s *Server) simulatePercent(w http.ResponseWriter, r *http.Request, fn func(context.Context, string, float64) (*model.MetricResult, error)) {
	var req percentRequest
	if err := decode(r, &req); err != nil {
		s.respond(w, r, nil, err)
		return
	}
	if !req.Percent.Set {
		s.respond(w, r, nil, analytics.ErrInvalidPercent)
		return
	}

	result, err := fn(r.Context(), UserFrom(r.Context()), req.Percent.Value)
	s.respond(w, r, result, err)
}

func (s *Server) handleAdvisory(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.Summary(r.Context(), UserFrom(r.Context()))
	s.respond(w, r, result, err)
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if err := decode(r, &req); err != nil {
		s.respond(w, r, nil, err)
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		s.respond(w, r, nil, common.NewValidationError("Query is required"))
		return
	}

	result, err := s.router.Route(r.Context(), intent.Request{Query: query, UserID: UserFrom(r.Context())})
	s.respond(w, r, result, err)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, result any, err error) {
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			s.logger.Error("Request failed", "path", r.URL.Path, "error", err)
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return common.NewValidationError("request body is required")
		}
		if common.IsValidation(err) {
			return err
		}
		return common.NewValidationError("invalid request body: %v", err)
	}
	return nil
}
