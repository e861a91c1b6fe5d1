package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/leakhound/pkg/domain/interfaces"
	"github.com/m-mizutani/leakhound/pkg/domain/model"
	"github.com/m-mizutani/leakhound/pkg/domain/types"
)

// WebhookHandler handles push webhooks from the source control service.
type WebhookHandler struct {
	secret        string
	remediationUC interfaces.RemediationUseCase
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(secret string, remediationUC interfaces.RemediationUseCase) *WebhookHandler {
	return &WebhookHandler{
		secret:        secret,
		remediationUC: remediationUC,
	}
}

// Handle processes webhook requests. The response tells the sender only
// whether the event was authenticated and evaluated; per-key remediation
// results surface through the alert channel, so a remediation failure still
// produces a 200 and never a redelivery.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Verify signature over the exact raw bytes
	signature := r.Header.Get("X-Hub-Signature-256")
	if !h.verifySignature(body, signature) {
		logger.Warn("Invalid webhook signature")
		writeError(ctx, w, goerr.New("invalid signature", goerr.T(types.ErrTagAuthFailed)), http.StatusUnauthorized)
		return
	}

	event, err := model.ParsePushEvent(body)
	if err != nil {
		logger.Error("Failed to parse webhook payload", "error", err)
		writeError(ctx, w, err, http.StatusBadRequest)
		return
	}
	event.ReceivedAt = time.Now()

	logger.Info("Webhook verified",
		"delivery_id", r.Header.Get("X-GitHub-Delivery"),
		"repository", event.Repository,
		"pusher", event.Pusher,
		"commits", len(event.Commits),
	)

	report, err := h.remediationUC.ProcessPush(ctx, event)
	if err != nil {
		logger.Error("Failed to process push event", "error", err)
		writeError(ctx, w, err, http.StatusInternalServerError)
		return
	}

	response := map[string]any{"status": "no_keys_detected"}
	if n := len(report.Results); n > 0 {
		response = map[string]any{
			"status":        "processed",
			"keys_detected": n,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("Failed to encode success response", "error", err)
	}
}

// verifySignature checks the HMAC-SHA256 signature of the payload. A
// missing signature or an unconfigured secret fails verification; there is
// no skip path.
func (h *WebhookHandler) verifySignature(payload []byte, signature string) bool {
	if signature == "" || h.secret == "" {
		return false
	}

	signature = strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(payload)
	expectedMAC := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expectedMAC))
}
