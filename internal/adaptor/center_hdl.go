package adaptor

import (
	"net/http"

	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CenterHandler struct {
	service usecase.CenterService
	log     *zap.Logger
}

func NewCenterHandler(service usecase.CenterService, log *zap.Logger) *CenterHandler {
	return &CenterHandler{
		service: service,
		log:     log.With(zap.String("handler", "center")),
	}
}

// GetCenters handles GET /api/centers (public)
func (h *CenterHandler) GetCenters(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
	if validationErrors := utils.ValidateStruct(page); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	filter := request.CenterFilterRequest{
		City:    query.Get("city"),
		State:   query.Get("state"),
		Therapy: query.Get("therapy"),
	}

	centers, total, err := h.service.GetCenters(r.Context(), filter, page)
	if err != nil {
		handleServiceError(h.log, w, err, "get centers")
		return
	}

	utils.ResponseSuccess(w, "success", response.NewPaginatedResponse(centers, page.Page, page.Limit(), total))
}

// GetCenterByID handles GET /api/centers/{id} (public)
func (h *CenterHandler) GetCenterByID(w http.ResponseWriter, r *http.Request) {
	center, err := h.service.GetCenterByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get center by ID")
		return
	}

	utils.ResponseSuccess(w, "success", center)
}

// GetSlots handles GET /api/centers/{id}/slots
func (h *CenterHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.SlotQueryRequest{
		From: query.Get("from"),
		Days: utils.ParseInt(query.Get("days"), 0),
	}

	days, err := h.service.GetSlots(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get slots")
		return
	}

	utils.ResponseSuccess(w, "success", days)
}

// CreateCenter handles POST /api/admin/centers
func (h *CenterHandler) CreateCenter(w http.ResponseWriter, r *http.Request) {
	var req request.CenterRequest
	if !bind(w, r, &req) {
		return
	}

	center, err := h.service.CreateCenter(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create center")
		return
	}

	utils.ResponseCreated(w, "Center created", center)
}

// UpdateCenter handles PUT /api/admin/centers/{id}
func (h *CenterHandler) UpdateCenter(w http.ResponseWriter, r *http.Request) {
	var req request.CenterUpdateRequest
	if !bind(w, r, &req) {
		return
	}

	center, err := h.service.UpdateCenter(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update center")
		return
	}

	utils.ResponseSuccess(w, "Center updated", center)
}

// PublishSlots handles POST /api/admin/centers/{id}/slots
func (h *CenterHandler) PublishSlots(w http.ResponseWriter, r *http.Request) {
	var req request.PublishSlotsRequest
	if !bind(w, r, &req) {
		return
	}

	result, err := h.service.PublishSlots(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "publish slots")
		return
	}

	utils.ResponseCreated(w, "Slots published", result)
}

// AddPractitioner handles POST /api/admin/centers/{id}/practitioners
func (h *CenterHandler) AddPractitioner(w http.ResponseWriter, r *http.Request) {
	var req request.PractitionerRequest
	if !bind(w, r, &req) {
		return
	}

	practitioner, err := h.service.AddPractitioner(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "add practitioner")
		return
	}

	utils.ResponseCreated(w, "Practitioner added", practitioner)
}
