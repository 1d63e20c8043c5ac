package usecase

import (
	"context"
	"strings"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CenterService interface {
	GetCenters(ctx context.Context, filter request.CenterFilterRequest, page request.PaginatedRequest) ([]response.CenterResponse, int64, error)
	GetCenterByID(ctx context.Context, centerID string) (*response.CenterDetailResponse, error)
	GetSlots(ctx context.Context, centerID string, query request.SlotQueryRequest) ([]response.CalendarDayResponse, error)

	CreateCenter(ctx context.Context, req *request.CenterRequest) (*response.CenterResponse, error)
	UpdateCenter(ctx context.Context, centerID string, req *request.CenterUpdateRequest) (*response.CenterResponse, error)
	PublishSlots(ctx context.Context, centerID string, req *request.PublishSlotsRequest) (*response.PublishSlotsResponse, error)
	AddPractitioner(ctx context.Context, centerID string, req *request.PractitionerRequest) (*response.PractitionerResponse, error)
}

type centerService struct {
	repo   *repository.Repository
	config utils.SchedulingConfig
	log    *zap.Logger
	now    func() time.Time
}

func NewCenterService(repo *repository.Repository, config utils.SchedulingConfig, log *zap.Logger) CenterService {
	if config.SlotWindowDays < 1 {
		config.SlotWindowDays = utils.DefaultSchedulingConfig().SlotWindowDays
	}
	return &centerService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "center")),
		now:    time.Now,
	}
}

func (s *centerService) GetCenters(ctx context.Context, filter request.CenterFilterRequest, page request.PaginatedRequest) ([]response.CenterResponse, int64, error) {
	f := entity.CenterFilter{
		City:    strings.TrimSpace(filter.City),
		State:   strings.TrimSpace(filter.State),
		Therapy: strings.TrimSpace(filter.Therapy),
	}

	centers, err := s.repo.Center.FindAll(ctx, f, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list centers", zap.Error(err))
		return nil, 0, err
	}

	total, err := s.repo.Center.CountAll(ctx, f)
	if err != nil {
		s.log.Error("Failed to count centers", zap.Error(err))
		return nil, 0, err
	}

	out := make([]response.CenterResponse, len(centers))
	for i, c := range centers {
		out[i] = response.CenterToResponse(c)
	}
	return out, total, nil
}

// findActive hides inactive centers from public reads.
func (s *centerService) findActive(ctx context.Context, raw string) (*entity.Center, error) {
	center, err := s.find(ctx, raw)
	if err != nil {
		return nil, err
	}
	if !center.IsActive {
		return nil, apperror.NotFound("center %s not found", raw)
	}
	return center, nil
}

func (s *centerService) find(ctx context.Context, raw string) (*entity.Center, error) {
	id, err := parseID("center", raw)
	if err != nil {
		return nil, err
	}
	center, err := s.repo.Center.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if center == nil {
		return nil, apperror.NotFound("center %s not found", raw)
	}
	return center, nil
}

func (s *centerService) GetCenterByID(ctx context.Context, centerID string) (*response.CenterDetailResponse, error) {
	center, err := s.findActive(ctx, centerID)
	if err != nil {
		return nil, err
	}

	from := entity.NormalizeDate(s.now())
	days, err := s.repo.Calendar.FindRange(ctx, center.ID, from, from.AddDate(0, 0, s.config.SlotWindowDays))
	if err != nil {
		return nil, err
	}

	return &response.CenterDetailResponse{
		CenterResponse: response.CenterToResponse(center),
		Days:           response.DaysToResponse(days),
	}, nil
}

// GetSlots is advisory: a slot shown available may be gone by the time a
// booking request arrives.
func (s *centerService) GetSlots(ctx context.Context, centerID string, query request.SlotQueryRequest) ([]response.CalendarDayResponse, error) {
	if err := validate(&query); err != nil {
		return nil, err
	}
	center, err := s.findActive(ctx, centerID)
	if err != nil {
		return nil, err
	}

	from := entity.NormalizeDate(s.now())
	if query.From != "" {
		if from, err = entity.ParseDate(query.From); err != nil {
			return nil, err
		}
	}

	days := query.Days
	if days < 1 || days > s.config.SlotWindowDays {
		days = s.config.SlotWindowDays
	}

	calendar, err := s.repo.Calendar.FindRange(ctx, center.ID, from, from.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	return response.DaysToResponse(calendar), nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s *centerService) CreateCenter(ctx context.Context, req *request.CenterRequest) (*response.CenterResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create center validation failed", zap.Error(err))
		return nil, err
	}

	center := &entity.Center{
		Name:       strings.TrimSpace(req.Name),
		Address:    strings.TrimSpace(req.Address),
		City:       strings.TrimSpace(req.City),
		State:      strings.TrimSpace(req.State),
		Phone:      req.Phone,
		Email:      req.Email,
		Therapies:  cleanList(req.Therapies),
		Facilities: cleanList(req.Facilities),
		IsActive:   true,
	}
	if req.IsActive != nil {
		center.IsActive = *req.IsActive
	}
	if len(center.Therapies) == 0 {
		return nil, apperror.Validation("a center must offer at least one therapy")
	}
	now := s.now()
	center.ID = uuid.New()
	center.CreatedAt = now
	center.UpdatedAt = now

	if err := s.repo.Center.Create(ctx, center); err != nil {
		s.log.Error("Failed to create center", zap.Error(err), zap.String("name", center.Name))
		return nil, err
	}

	s.log.Info("Center created", zap.String("center_id", center.ID.String()), zap.String("name", center.Name))
	resp := response.CenterToResponse(center)
	return &resp, nil
}

func (s *centerService) UpdateCenter(ctx context.Context, centerID string, req *request.CenterUpdateRequest) (*response.CenterResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	center, err := s.find(ctx, centerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		center.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		center.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		center.City = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		center.State = strings.TrimSpace(*req.State)
	}
	if req.Phone != nil {
		center.Phone = req.Phone
	}
	if req.Email != nil {
		center.Email = req.Email
	}
	if req.Therapies != nil {
		center.Therapies = cleanList(req.Therapies)
		if len(center.Therapies) == 0 {
			return nil, apperror.Validation("a center must offer at least one therapy")
		}
	}
	if req.Facilities != nil {
		center.Facilities = cleanList(req.Facilities)
	}
	if req.IsActive != nil {
		center.IsActive = *req.IsActive
	}
	center.UpdatedAt = s.now()

	if err := s.repo.Center.Update(ctx, center); err != nil {
		s.log.Error("Failed to update center", zap.Error(err), zap.String("center_id", centerID))
		return nil, err
	}

	s.log.Info("Center updated", zap.String("center_id", centerID), zap.Bool("is_active", center.IsActive))
	resp := response.CenterToResponse(center)
	return &resp, nil
}

func (s *centerService) PublishSlots(ctx context.Context, centerID string, req *request.PublishSlotsRequest) (*response.PublishSlotsResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	center, err := s.find(ctx, centerID)
	if err != nil {
		return nil, err
	}
	date, err := entity.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	windows := make([]entity.SlotWindow, len(req.Slots))
	for i, w := range req.Slots {
		if err := entity.ValidateWindow(w.StartTime, w.EndTime); err != nil {
			return nil, err
		}
		windows[i] = entity.SlotWindow{Start: w.StartTime, End: w.EndTime}
	}

	added, err := s.repo.Calendar.AddSlots(ctx, center.ID, date, windows)
	if err != nil {
		s.log.Error("Failed to publish slots", zap.Error(err), zap.String("center_id", centerID))
		return nil, err
	}

	slots, err := s.repo.Calendar.FindDaySlots(ctx, center.ID, date)
	if err != nil {
		return nil, err
	}

	s.log.Info("Slots published",
		zap.String("center_id", centerID),
		zap.String("date", req.Date),
		zap.Int("requested", len(windows)),
		zap.Int("added", added),
	)

	return &response.PublishSlotsResponse{
		Added: added,
		Day:   response.DayToResponse(entity.NormalizeDate(date), slots),
	}, nil
}

func (s *centerService) AddPractitioner(ctx context.Context, centerID string, req *request.PractitionerRequest) (*response.PractitionerResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	center, err := s.find(ctx, centerID)
	if err != nil {
		return nil, err
	}

	p := &entity.Practitioner{
		Name:           strings.TrimSpace(req.Name),
		Specialization: strings.TrimSpace(req.Specialization),
		CenterID:       center.ID,
		IsActive:       true,
	}
	now := s.now()
	p.ID = uuid.New()
	p.CreatedAt = now
	p.UpdatedAt = now
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Practitioner.Create(ctx, p); err != nil {
		s.log.Error("Failed to add practitioner", zap.Error(err), zap.String("center_id", centerID))
		return nil, err
	}

	s.log.Info("Practitioner added",
		zap.String("practitioner_id", p.ID.String()),
		zap.String("center_id", centerID),
	)
	resp := response.PractitionerToResponse(p)
	return &resp, nil
}
