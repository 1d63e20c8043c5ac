package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
)

type CenterStore struct {
	mu      sync.RWMutex
	centers map[uuid.UUID]entity.Center
}

func NewCenterStore() *CenterStore {
	return &CenterStore{centers: make(map[uuid.UUID]entity.Center)}
}

func copyCenter(c entity.Center) *entity.Center {
	c.Therapies = append([]string(nil), c.Therapies...)
	c.Facilities = append([]string(nil), c.Facilities...)
	return &c
}

func (s *CenterStore) Create(_ context.Context, center *entity.Center) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.centers[center.ID]; ok {
		return apperror.Conflict("center %s already exists", center.ID)
	}
	s.centers[center.ID] = *copyCenter(*center)
	return nil
}

func (s *CenterStore) FindByID(_ context.Context, id uuid.UUID) (*entity.Center, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.centers[id]
	if !ok {
		return nil, nil
	}
	return copyCenter(c), nil
}

func matches(c entity.Center, f entity.CenterFilter) bool {
	if !c.IsActive {
		return false
	}
	if f.City != "" && !strings.Contains(strings.ToLower(c.City), strings.ToLower(f.City)) {
		return false
	}
	if f.State != "" && !strings.Contains(strings.ToLower(c.State), strings.ToLower(f.State)) {
		return false
	}
	if f.Therapy != "" && !c.OffersTherapy(f.Therapy) {
		return false
	}
	return true
}

func (s *CenterStore) filtered(f entity.CenterFilter) []*entity.Center {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entity.Center
	for _, c := range s.centers {
		if matches(c, f) {
			out = append(out, copyCenter(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s *CenterStore) FindAll(_ context.Context, filter entity.CenterFilter, limit, offset int) ([]*entity.Center, error) {
	all := s.filtered(filter)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *CenterStore) CountAll(_ context.Context, filter entity.CenterFilter) (int64, error) {
	return int64(len(s.filtered(filter))), nil
}

func (s *CenterStore) Update(_ context.Context, center *entity.Center) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.centers[center.ID]
	if !ok {
		return apperror.NotFound("center %s not found", center.ID)
	}
	updated := *copyCenter(*center)
	updated.CreatedAt = existing.CreatedAt
	s.centers[center.ID] = updated
	return nil
}
