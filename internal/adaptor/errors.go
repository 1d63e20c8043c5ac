package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindAccessDenied:
		return http.StatusForbidden
	case apperror.KindConflict, apperror.KindSlotUnavailable, apperror.KindInactive, apperror.KindNoPractitioner:
		return http.StatusConflict
	case apperror.KindInvalidTransition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError writes the response for a failed service call. Business
// rejections are logged at warn, everything else at error with a generic body.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	kind := apperror.KindOf(err)
	status := statusFor(kind)

	if status == http.StatusInternalServerError {
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	log.Warn(operation+" rejected",
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("kind", string(kind)))
	utils.ResponseJSON(w, status, false, err.Error(), nil, map[string]string{"kind": string(kind)})
}

// actorFromContext reads the caller set by the session middleware.
func actorFromContext(r *http.Request) (usecase.Actor, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return usecase.Actor{}, false
	}
	role, _ := utils.GetRoleFromContext(r.Context())
	return usecase.Actor{ID: userID, Role: entity.Role(role)}, true
}

// decodeJSON reads a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}
