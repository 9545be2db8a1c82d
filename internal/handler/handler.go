package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/cash-runway/internal/models"
	"github.com/Dan9191/cash-runway/internal/schedule"
	"github.com/Dan9191/cash-runway/internal/service"
)

// Service is the business layer used by the handlers
type Service interface {
	GenerateSchedule(ctx context.Context, def models.LoanDefinition, preview bool) (*service.ScheduleResult, error)
	LoanSchedule(ctx context.Context, loanID string) ([]models.PaymentScheduleEntry, error)
	MarkPaymentsPaid(ctx context.Context, loanID string, paymentNumbers []int) (int64, error)
	BuildForecast(ctx context.Context, req service.ForecastRequest) (*service.ForecastResult, error)
	CashPosition(ctx context.Context, scenarioID string, weeks int) (*models.CashPosition, error)
	ReferenceRate(ctx context.Context, index string) (decimal.Decimal, error)
}

var _ Service = (*service.Service)(nil)

type Handler struct {
	svc Service
	log *logrus.Logger
}

func NewHandler(svc Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Routes registers the API on r
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/loans/schedule", h.GenerateSchedule).Methods(http.MethodPost)
	r.HandleFunc("/loans/{loanID}/schedule", h.LoanSchedule).Methods(http.MethodGet)
	r.HandleFunc("/loans/{loanID}/payments/paid", h.MarkPaid).Methods(http.MethodPost)
	r.HandleFunc("/forecasts", h.BuildForecast).Methods(http.MethodPost)
	r.HandleFunc("/cash-position", h.CashPosition).Methods(http.MethodGet)
	r.HandleFunc("/reference-rate", h.ReferenceRate).Methods(http.MethodGet)
}

// GenerateSchedule handles loan schedule generation
func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var def models.LoanDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	preview, err := boolParam(r, "preview")
	if err != nil {
		http.Error(w, "Invalid preview flag", http.StatusBadRequest)
		return
	}

	result, err := h.svc.GenerateSchedule(r.Context(), def, preview)
	if err != nil {
		h.fail(w, err)
		return
	}
	status := http.StatusOK
	if result.Persisted {
		status = http.StatusCreated
	}
	h.writeJSON(w, status, result)
}

// LoanSchedule handles stored schedule lookup
func (h *Handler) LoanSchedule(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.LoanSchedule(r.Context(), mux.Vars(r)["loanID"])
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

type markPaidRequest struct {
	PaymentNumbers []int `json:"payment_numbers"`
}

// MarkPaid handles flagging scheduled payments as paid
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req markPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	changed, err := h.svc.MarkPaymentsPaid(r.Context(), mux.Vars(r)["loanID"], req.PaymentNumbers)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int64{"updated": changed})
}

// BuildForecast handles forecast runs
func (h *Handler) BuildForecast(w http.ResponseWriter, r *http.Request) {
	var req service.ForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	result, err := h.svc.BuildForecast(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	status := http.StatusOK
	if result.Persisted {
		status = http.StatusCreated
	}
	h.writeJSON(w, status, result)
}

// CashPosition handles the weekly cash position summary
func (h *Handler) CashPosition(w http.ResponseWriter, r *http.Request) {
	weeks := 0
	if raw := r.URL.Query().Get("weeks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid weeks", http.StatusBadRequest)
			return
		}
		weeks = n
	}
	position, err := h.svc.CashPosition(r.Context(), r.URL.Query().Get("scenario"), weeks)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, position)
}

// ReferenceRate handles the current reference rate lookup
func (h *Handler) ReferenceRate(w http.ResponseWriter, r *http.Request) {
	index := r.URL.Query().Get("index")
	if index == "" {
		index = "PRIME"
	}
	rate, err := h.svc.ReferenceRate(r.Context(), index)
	if err != nil {
		h.log.Errorf("Failed to get reference rate: %v", err)
		http.Error(w, "Failed to get reference rate", http.StatusBadGateway)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"index": index, "rate": rate})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrInvalidConfiguration), errors.Is(err, service.ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrLoanNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.log.Errorf("Request failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
