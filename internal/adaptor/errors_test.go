package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperror.Validation("bad window"), http.StatusBadRequest, "bad window"},
		{"not found", apperror.NotFound("booking missing"), http.StatusNotFound, "booking missing"},
		{"access", apperror.AccessDenied("not yours"), http.StatusForbidden, "not yours"},
		{"slot", apperror.New(apperror.KindSlotUnavailable, "slot taken"), http.StatusConflict, "slot taken"},
		{"inactive", apperror.New(apperror.KindInactive, "closed"), http.StatusConflict, "closed"},
		{"no practitioner", apperror.New(apperror.KindNoPractitioner, "nobody"), http.StatusConflict, "nobody"},
		{"transition", apperror.New(apperror.KindInvalidTransition, "already done"), http.StatusUnprocessableEntity, "already done"},
		{"storage", apperror.Storage(errors.New("dial tcp"), "find booking"), http.StatusInternalServerError, "Internal server error"},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(zap.NewNop(), rec, tt.err, "test")

			assert.Equal(t, tt.status, rec.Code)
			var body utils.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Status)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestActorFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := actorFromContext(req)
	assert.False(t, ok)

	id := uuid.New()
	req = req.WithContext(utils.SetUserContext(req.Context(), id, "practitioner"))
	actor, ok := actorFromContext(req)
	require.True(t, ok)
	assert.Equal(t, id, actor.ID)
	assert.Equal(t, "practitioner", string(actor.Role))
}
