package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"yamdb/internal/data/entity"
	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

// actorFromRequest builds the caller identity set by the Authenticate middleware.
func actorFromRequest(r *http.Request) usecase.Actor {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return usecase.Anonymous()
	}
	role, _ := utils.GetRoleFromContext(r.Context())
	return usecase.Actor{UserID: userID, Role: entity.UserRole(role)}
}

// decodeJSON reads the body into dst. An empty body decodes to the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	utils.ResponseBadRequest(w, "Invalid request body", nil)
	return false
}

func parsePagination(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), request.DefaultPerPage),
	}
}

// methodGuard answers routes whose verb the resource does not expose.
func methodGuard(resource usecase.Resource, action usecase.Action, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := usecase.DecisionError(usecase.Authorize(actorFromRequest(r), resource, action, false))
		if err == nil {
			// Every guarded pair is unsupported, so this is unreachable in practice.
			utils.ResponseMethodNotAllowed(w, "Method not allowed")
			return
		}
		handleServiceError(w, log, err, string(action)+" "+string(resource))
	}
}

// handleServiceError maps domain error kinds onto HTTP status codes.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	e, ok := usecase.AsError(err)
	if !ok {
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	log.Warn(operation+" failed",
		zap.String("kind", e.Kind.String()),
		zap.String("message", e.Message),
		zap.String("operation", operation))

	var fields any
	if len(e.Fields) > 0 {
		fields = e.Fields
	}

	switch e.Kind {
	case usecase.KindValidation, usecase.KindAuthenticationFailed:
		utils.ResponseBadRequest(w, e.Message, fields)
	case usecase.KindNotFound:
		utils.ResponseNotFound(w, e.Message)
	case usecase.KindForbidden:
		utils.ResponseForbidden(w, e.Message)
	case usecase.KindMethodNotAllowed:
		utils.ResponseMethodNotAllowed(w, e.Message)
	case usecase.KindUnauthenticated:
		utils.ResponseUnauthorized(w, e.Message)
	default:
		utils.ResponseInternalError(w, "Internal server error")
	}
}
