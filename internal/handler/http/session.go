package http

import (
	"net/http"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
)

type SessionHandler interface {
	GetMy(w http.ResponseWriter, r *http.Request)
}

type sessionHandlerImpl struct {
	sessionService session.SessionService
}

func NewSessionHandler(sessionService session.SessionService) SessionHandler {
	return &sessionHandlerImpl{
		sessionService: sessionService,
	}
}

// GetMy implements SessionHandler.
func (h *sessionHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "Missing employee identity")
		return
	}

	limit, offset := paginationParams(r)

	result, err := h.sessionService.GetMySessions(r.Context(), employeeID, limit, offset)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Sessions, &response.Meta{
		Limit:      limit,
		Offset:     offset,
		TotalItems: result.TotalItems,
	})
}
