package handler

import (
	"context"
	"net/http"
	"time"

	"content-fraud-detection/internal/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

type SystemHandler struct {
	mongoClient *mongo.Client // nil when persistence is disabled
	started     time.Time
}

func NewSystemHandler(client *mongo.Client) *SystemHandler {
	return &SystemHandler{
		mongoClient: client,
		started:     time.Now(),
	}
}

// Status handles GET /api/status.
func (h *SystemHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"system": "operational",
		"db":     "disabled",
		"uptime": time.Since(h.started).Truncate(time.Second).String(),
		"time":   time.Now().Format(time.RFC3339),
	}

	if h.mongoClient != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.mongoClient.Ping(ctx, nil); err != nil {
			status["db"] = "disconnected"
		} else {
			status["db"] = "connected"
		}
	}

	utils.WriteSuccess(w, status, http.StatusOK)
}
