package handler

import (
	"net/http"
	"strconv"

	"content-fraud-detection/internal/core"
	"content-fraud-detection/internal/service"
	"content-fraud-detection/internal/utils"
)

// DecisionHandler serves the persisted decision log to the admin panel.
type DecisionHandler struct {
	service *service.CheckService
}

func NewDecisionHandler(svc *service.CheckService) *DecisionHandler {
	return &DecisionHandler{service: svc}
}

// List handles GET /api/decisions?page=&limit=&fraud_only=
func (h *DecisionHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	filter := core.DecisionFilter{
		FraudOnly: r.URL.Query().Get("fraud_only") == "true",
		Page:      page,
		Limit:     limit,
	}

	result, err := h.service.ListDecisions(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, "Failed to fetch decisions", http.StatusInternalServerError)
		return
	}
	utils.WriteSuccess(w, result, http.StatusOK)
}
