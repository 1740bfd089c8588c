package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/pario-ai/premiumcalc/pkg/catalog"
	"github.com/pario-ai/premiumcalc/pkg/models"
	"github.com/pario-ai/premiumcalc/pkg/pricing"
)

const healthTimeFormat = "2006-01-02T15:04:05.000Z07:00"

type healthResponse struct {
	Status      string            `json:"status"`
	Timestamp   string            `json:"timestamp"`
	Environment healthEnvironment `json:"environment"`
}

type healthEnvironment struct {
	Codespace    string `json:"codespace"`
	Domain       string `json:"domain"`
	ClientOrigin string `json:"clientOrigin"`
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	env := s.cfg.Environment
	_ = writeJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Timestamp: s.now().Format(healthTimeFormat),
		Environment: healthEnvironment{
			Codespace:    orDefault(env.Codespace, "Not in Codespaces"),
			Domain:       orDefault(env.Domain, "No Codespaces domain"),
			ClientOrigin: orDefault(r.Header.Get("Origin"), "No origin header"),
		},
	})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, catalog.Models())
}

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, catalog.Plans())
}

var errTrailingData = errors.New("unexpected data after JSON value")

// decodeBody decodes exactly one JSON value into v. An empty body leaves v
// untouched.
func decodeBody(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	switch err := dec.Decode(&json.RawMessage{}); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return err
	default:
		return errTrailingData
	}
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	log := s.log.WithField("request_id", GetRequestID(r.Context()))

	if s.cfg.Server.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	}

	var in models.CalculationInput
	if err := decodeBody(r.Body, &in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		log.WithError(err).Debug("decode calculate body")
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	est, err := pricing.Estimate(in)
	if err != nil {
		kind := pricing.KindOf(err)
		s.metrics.ObserveError(kind.String())

		var perr *pricing.Error
		if kind.Validation() && errors.As(err, &perr) {
			writeError(w, http.StatusBadRequest, perr.Message)
			return
		}
		log.WithError(err).WithFields(logrus.Fields{
			"subscription": in.Subscription,
			"model":        in.Model,
		}).Error("calculation failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.metrics.ObserveEstimate(est)
	s.record(r, log, est)
	_ = writeJSON(w, http.StatusOK, est)
}

// record appends est to the history log. Failures are logged only.
func (s *Server) record(r *http.Request, log logrus.FieldLogger, est models.Estimate) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Log(r.Context(), models.NewHistoryRecord(est, models.SourceHTTP)); err != nil {
		s.metrics.ObserveHistoryError()
		log.WithError(err).Warn("record estimate")
	}
}
