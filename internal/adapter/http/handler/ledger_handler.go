package handler

import (
	"net/http"

	"github.com/iho/walletd/internal/adapter/http/dto"
	"github.com/iho/walletd/internal/infrastructure/metrics"
	"github.com/iho/walletd/internal/usecase"
)

// LedgerHandler serves ledger-wide integrity checks.
type LedgerHandler struct {
	ledgerUC *usecase.LedgerUseCase
	metrics  *metrics.Metrics
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC *usecase.LedgerUseCase, m *metrics.Metrics) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, metrics: m}
}

// CheckConservation verifies that the sum of balances matches the total
// provisioned and that every balance is explained by the log.
func (h *LedgerHandler) CheckConservation(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConservation(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check conservation", err.Error())
		return
	}

	if h.metrics != nil {
		result := "conserved"
		if !report.Conserved {
			result = "drift"
		}
		h.metrics.ConservationChecks.WithLabelValues(result).Inc()
	}

	writeJSON(w, http.StatusOK, dto.ConservationFromReport(report))
}
