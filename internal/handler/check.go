package handler

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"

	"content-fraud-detection/internal/service"
	"content-fraud-detection/internal/utils"
	"content-fraud-detection/internal/utils/limiter"
)

// CheckHandler exposes the three content-check endpoints. Transport-level
// validation (content type, size, filename) lives here; everything past
// that is the pipeline's job and always produces a Decision.
type CheckHandler struct {
	service      *service.CheckService
	limiter      *limiter.RateLimiter
	maxFileBytes int64
}

func NewCheckHandler(svc *service.CheckService, rl *limiter.RateLimiter, maxFileBytes int64) *CheckHandler {
	return &CheckHandler{
		service:      svc,
		limiter:      rl,
		maxFileBytes: maxFileBytes,
	}
}

type textCheckRequest struct {
	Message        string `json:"message"`
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id"`
}

// CheckText handles POST /check/text.
func (h *CheckHandler) CheckText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ip := clientIP(r)
	if h.limiter.IsRateLimited(ip) {
		utils.WriteError(w, "Too many requests", http.StatusTooManyRequests)
		return
	}

	var req textCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	d := h.service.CheckText(r.Context(), req.Message, req.UserID, req.ConversationID, ip)
	utils.WriteJSON(w, d, http.StatusOK)
}

// CheckImage handles POST /check/image (multipart field "image").
func (h *CheckHandler) CheckImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ip := clientIP(r)
	if h.limiter.IsRateLimited(ip) {
		utils.WriteError(w, "Too many requests", http.StatusTooManyRequests)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.WriteError(w, "Missing image upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		utils.WriteError(w, "Not an image.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileBytes+1))
	if err != nil {
		utils.WriteError(w, "Failed to read upload", http.StatusBadRequest)
		return
	}
	if int64(len(data)) > h.maxFileBytes {
		utils.WriteError(w, "Image too large.", http.StatusRequestEntityTooLarge)
		return
	}

	d := h.service.CheckImage(r.Context(), data, ip)
	utils.WriteJSON(w, d, http.StatusOK)
}

// CheckFile handles POST /check/file (multipart field "file").
func (h *CheckHandler) CheckFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ip := clientIP(r)
	if h.limiter.IsRateLimited(ip) {
		utils.WriteError(w, "Too many requests", http.StatusTooManyRequests)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteError(w, "Missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		utils.WriteError(w, "Missing filename", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileBytes+1))
	if err != nil {
		utils.WriteError(w, "Failed to read upload", http.StatusBadRequest)
		return
	}
	if len(data) == 0 {
		utils.WriteError(w, "Empty file", http.StatusBadRequest)
		return
	}
	if int64(len(data)) > h.maxFileBytes {
		utils.WriteError(w, "File too large.", http.StatusRequestEntityTooLarge)
		return
	}

	d := h.service.CheckFile(r.Context(), header.Filename, data, ip)
	utils.WriteJSON(w, d, http.StatusOK)
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]bool{"ok": true}, http.StatusOK)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
