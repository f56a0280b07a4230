package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/redact"
)

// getPathID extracts a non-empty path parameter.
func getPathID(r *http.Request, paramName string) (string, error) {
	id := chi.URLParam(r, paramName)
	if id == "" {
		return "", domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}
	return id, nil
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes
// a 400 response and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, log *slog.Logger) bool {
	if err := shared.DecodeJSON(r, dst); err != nil {
		log.Debug("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}

	if err := shared.ValidateRequest(dst); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation failed", err,
			shared.WithDetails(shared.ValidationMessages(err)))
		return false
	}
	return true
}

// respondWithServiceError maps a service error onto a response. notFound
// replaces the message for 404s and failure replaces it for 500s.
func respondWithServiceError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
	notFound string,
	failure string,
) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	var opts []shared.ResponseOption
	switch status {
	case http.StatusBadRequest:
		opts = append(opts, shared.WithDetails(ValidationDetails(err)))
	case http.StatusNotFound:
		if notFound != "" {
			message = notFound
		}
	case http.StatusInternalServerError:
		if failure != "" {
			message = failure
		}
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
