package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/services"
	"github.com/GiftHanong/taxihub/utils"
)

// HandleServiceError translates a service-layer error into the matching HTTP
// response. Unclassified errors are logged and reported as a generic 500 so
// internals never leak to the client.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	var writeErr error
	switch {
	case services.IsNotFoundError(err):
		writeErr = utils.WriteNotFound(w, err.Error())
	case services.IsValidationError(err):
		writeErr = utils.WriteBadRequest(w, err.Error(), services.GetErrorDetails(err))
	case services.IsUnauthorizedError(err):
		writeErr = utils.WriteUnauthorized(w, err.Error())
	case services.IsForbiddenError(err):
		writeErr = utils.WriteForbidden(w, err.Error())
	case services.IsConflictError(err):
		writeErr = utils.WriteConflict(w, err.Error(), services.GetErrorDetails(err))
	default:
		logger.Error("unhandled service error",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
		writeErr = utils.WriteInternalServerError(w, "An internal error occurred")
	}

	if writeErr != nil {
		logger.Error("failed to write error response", zap.Error(writeErr))
	}
}

// HandleValidationError reports request decode/validation failures as 400s,
// attaching per-field details when the error carries them.
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	message := err.Error()
	var details map[string]interface{}

	if fields := utils.GetValidationFields(err); fields != nil {
		message = "Validation failed"
		details = make(map[string]interface{}, len(fields))
		for field, msg := range fields {
			details[field] = msg
		}
	}

	if writeErr := utils.WriteBadRequest(w, message, details); writeErr != nil {
		logger.Error("failed to write validation response", zap.Error(writeErr))
	}
}
