package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/memory"
	"clinic-booking/internal/notify"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	router http.Handler
	store  *memory.Store
	tokens map[entity.Role]string
	users  map[entity.Role]uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	config := &utils.Config{
		App:        utils.AppConfig{Name: "clinic-booking", CORSOrigins: []string{"*"}},
		RateLimit:  utils.RateLimitConfig{RPS: 100, Burst: 100},
		Scheduling: utils.DefaultSchedulingConfig(),
	}

	app := Wiring(store.Repository(), notify.NewLogPublisher(zap.NewNop()), prometheus.NewRegistry(), config, zap.NewNop())

	ts := &testServer{
		router: app.Router,
		store:  store,
		tokens: map[entity.Role]string{},
		users:  map[entity.Role]uuid.UUID{},
	}
	for _, role := range []entity.Role{entity.RolePatient, entity.RoleAdmin} {
		ts.login(role, uuid.New())
	}
	store.Patients.Add(&entity.Patient{BaseNoDelete: entity.BaseNoDelete{ID: ts.users[entity.RolePatient]}, Name: "Ana"})
	return ts
}

func (ts *testServer) login(role entity.Role, userID uuid.UUID) {
	session := &entity.Session{UserID: userID, Token: uuid.New(), Role: role, ExpiresAt: time.Now().Add(time.Hour)}
	session.ID = uuid.New()
	ts.store.Sessions.Add(session)
	ts.tokens[role] = session.Token.String()
	ts.users[role] = userID
}

func (ts *testServer) do(t *testing.T, method, path string, role entity.Role, body any) (*httptest.ResponseRecorder, utils.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token, ok := ts.tokens[role]; ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var resp utils.Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func dataMap(t *testing.T, resp utils.Response) map[string]any {
	t.Helper()
	m, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data is %T", resp.Data)
	return m
}

func TestBookingFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	admin, patient := entity.RoleAdmin, entity.RolePatient

	rec, resp := ts.do(t, http.MethodPost, "/api/admin/centers", admin, map[string]any{
		"name": "Harbor Wellness", "address": "1 Quay", "city": "Lisbon", "state": "Lisboa",
		"therapies": []string{"Physio"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, resp.Message)
	centerID := dataMap(t, resp)["id"].(string)

	rec, _ = ts.do(t, http.MethodPost, "/api/admin/centers/"+centerID+"/practitioners", admin, map[string]any{
		"name": "Dr. Silva", "specialization": "Physio",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, resp = ts.do(t, http.MethodPost, "/api/admin/centers/"+centerID+"/slots", admin, map[string]any{
		"date":  "2024-06-01",
		"slots": []map[string]string{{"start_time": "10:00", "end_time": "11:00"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, resp.Message)
	assert.EqualValues(t, 1, dataMap(t, resp)["added"])

	booking := map[string]any{
		"center_id": centerID, "therapy_type": "Physio", "session_date": "2024-06-01",
		"start_time": "10:00", "end_time": "11:00", "total_sessions": 4,
	}

	rec, _ = ts.do(t, http.MethodPost, "/api/bookings", admin, booking)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp = ts.do(t, http.MethodPost, "/api/bookings", patient, booking)
	require.Equal(t, http.StatusCreated, rec.Code, resp.Message)
	created := dataMap(t, resp)
	assert.Equal(t, "scheduled", created["status"])
	assert.Equal(t, "Dr. Silva", created["practitioner_name"])
	bookingID := created["id"].(string)

	rec, resp = ts.do(t, http.MethodPost, "/api/bookings", patient, booking)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, resp.Message, "re-query")

	rec, resp = ts.do(t, http.MethodGet, "/api/bookings/"+bookingID, patient, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bookingID, dataMap(t, resp)["id"])

	rec, _ = ts.do(t, http.MethodPut, "/api/bookings/"+bookingID+"/status", patient, map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp = ts.do(t, http.MethodPut, "/api/bookings/"+bookingID+"/cancel", patient, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cancelled", dataMap(t, resp)["status"])

	rec, _ = ts.do(t, http.MethodPut, "/api/bookings/"+bookingID+"/cancel", patient, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/admin/centers/"+centerID+"/bookings", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPublicAndProtectedRoutes(t *testing.T) {
	ts := newTestServer(t)

	rec, _ := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp := ts.do(t, http.MethodGet, "/api/centers?city=lisbon", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Status)

	rec, _ = ts.do(t, http.MethodGet, "/api/centers/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/centers/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/centers/"+uuid.NewString()+"/slots", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/admin/centers", entity.RolePatient, map[string]any{})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/admin/notifications/reminders", entity.RolePatient, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/admin/notifications/reminders?hours=2", entity.RoleAdmin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/bookings", entity.RolePatient, map[string]any{"center_id": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "clinic_http_requests_total")
}

func TestSlotQueryOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	center := &entity.Center{Name: "Harbor Wellness", Therapies: []string{"Physio"}, IsActive: true}
	center.ID = uuid.New()
	require.NoError(t, ts.store.Centers.Create(ctx, center))
	_, err := ts.store.Calendar.AddSlots(ctx, center.ID, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		[]entity.SlotWindow{{Start: "10:00", End: "11:00"}})
	require.NoError(t, err)

	rec, resp := ts.do(t, http.MethodGet, "/api/centers/"+center.ID.String()+"/slots?from=2024-06-01&days=1", entity.RolePatient, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	days, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, days, 1)
	assert.Equal(t, "2024-06-01", days[0].(map[string]any)["date"])
}
