package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/token"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/qr"
)

// maxPayloadBytes bounds the scan request body; real payloads are well under
// a kilobyte.
const maxPayloadBytes = 4 << 10

type TokenHandler interface {
	Issue(w http.ResponseWriter, r *http.Request)
	Revoke(w http.ResponseWriter, r *http.Request)
	QRImage(w http.ResponseWriter, r *http.Request)
	Redeem(w http.ResponseWriter, r *http.Request)
}

type tokenHandlerImpl struct {
	tokenService token.TokenService
}

func NewTokenHandler(tokenService token.TokenService) TokenHandler {
	return &tokenHandlerImpl{
		tokenService: tokenService,
	}
}

// Issue implements TokenHandler.
func (h *tokenHandlerImpl) Issue(w http.ResponseWriter, r *http.Request) {
	var req token.IssueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EventID = chi.URLParam(r, "eventID")

	result, err := h.tokenService.Issue(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Scan token issued", result)
}

// Revoke implements TokenHandler.
func (h *tokenHandlerImpl) Revoke(w http.ResponseWriter, r *http.Request) {
	value := chi.URLParam(r, "token")

	if err := h.tokenService.Revoke(r.Context(), value); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Scan token revoked", nil)
}

// QRImage implements TokenHandler. Renders the token payload as a PNG.
func (h *tokenHandlerImpl) QRImage(w http.ResponseWriter, r *http.Request) {
	value := chi.URLParam(r, "token")

	payload, err := h.tokenService.PayloadFor(r.Context(), value)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	png, err := qr.EncodePayload(payload)
	if err != nil {
		slog.Error("failed to encode QR image", "error", err)
		response.InternalServerError(w, "Failed to render QR image")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		slog.Error("failed to write QR image", "error", err)
	}
}

// Redeem implements TokenHandler. The request body is the scanned payload
// submitted verbatim; the scanning identity comes from the access token.
func (h *tokenHandlerImpl) Redeem(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "Missing employee identity")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		response.BadRequest(w, "Failed to read scan payload", nil)
		return
	}

	result, err := h.tokenService.Redeem(r.Context(), payload, employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
