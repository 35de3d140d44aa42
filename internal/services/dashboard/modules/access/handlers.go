package access

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/lumendist/partnerhub/internal/platform/requestctx"
	accessdomain "github.com/lumendist/partnerhub/internal/services/access/domain"
	"github.com/lumendist/partnerhub/internal/services/dashboard/platform/httpx"
)

type handlers struct {
	checker Checker
	logger  zerolog.Logger
}

func newHandlers(checker Checker, logger zerolog.Logger) handlers {
	return handlers{checker: checker, logger: logger}
}

type checkResponse struct {
	ContentKey string `json:"content_key"`
	Unlocked   bool   `json:"unlocked"`
	Reason     string `json:"reason,omitempty"`
}

func (h handlers) handleCheck(w http.ResponseWriter, r *http.Request) {
	if h.checker == nil {
		httpx.WriteError(w, http.StatusServiceUnavailable, "access_unavailable")
		return
	}
	contentKey := r.PathValue("contentKey")
	partnerID := requestctx.PartnerIDFromContext(r.Context())

	decision, err := h.checker.CheckContent(r.Context(), contentKey, partnerID)
	if err != nil {
		var malformed *accessdomain.MalformedGateError
		switch {
		case errors.As(err, &malformed):
			// A misconfigured gate denies access loudly instead of failing the
			// page; the caller renders the content locked.
			h.logger.Warn().Str("content_key", malformed.ContentKey).Msg("malformed content gate")
			httpx.WriteJSON(w, http.StatusUnprocessableEntity, checkResponse{
				ContentKey: contentKey,
				Unlocked:   false,
				Reason:     "malformed_gate",
			})
		case errors.Is(err, accessdomain.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found")
		case errors.Is(err, accessdomain.ErrContentKeyRequired), errors.Is(err, accessdomain.ErrPartnerIDRequired):
			httpx.WriteError(w, http.StatusBadRequest, "bad_request")
		default:
			h.logger.Error().Err(err).Str("content_key", contentKey).Msg("access check failed")
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, checkResponse{
		ContentKey: contentKey,
		Unlocked:   decision.Unlocked,
		Reason:     string(decision.Reason),
	})
}
