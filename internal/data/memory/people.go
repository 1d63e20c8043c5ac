package memory

import (
	"context"
	"sync"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
)

type PractitionerStore struct {
	mu    sync.RWMutex
	order []uuid.UUID
	byID  map[uuid.UUID]entity.Practitioner
}

func NewPractitionerStore() *PractitionerStore {
	return &PractitionerStore{byID: make(map[uuid.UUID]entity.Practitioner)}
}

func (s *PractitionerStore) Create(_ context.Context, p *entity.Practitioner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[p.ID]; ok {
		return apperror.Conflict("practitioner %s already exists", p.ID)
	}
	s.byID[p.ID] = *p
	s.order = append(s.order, p.ID)
	return nil
}

func (s *PractitionerStore) FindByID(_ context.Context, id uuid.UUID) (*entity.Practitioner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// FindFirstActiveByCenter follows registration order.
func (s *PractitionerStore) FindFirstActiveByCenter(_ context.Context, centerID uuid.UUID) (*entity.Practitioner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		p := s.byID[id]
		if p.CenterID == centerID && p.IsActive {
			return &p, nil
		}
	}
	return nil, nil
}

type PatientStore struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]entity.Patient
}

func NewPatientStore() *PatientStore {
	return &PatientStore{byID: make(map[uuid.UUID]entity.Patient)}
}

// Add registers a patient record, standing in for the profile service.
func (s *PatientStore) Add(p *entity.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[p.ID] = *p
}

func (s *PatientStore) FindByID(_ context.Context, id uuid.UUID) (*entity.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *PatientStore) AssignCurrentTherapy(_ context.Context, patientID uuid.UUID, therapy string, centerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[patientID]
	if !ok {
		return apperror.NotFound("patient %s not found", patientID)
	}
	p.AssignedTherapy = &therapy
	p.CenterID = &centerID
	p.UpdatedAt = time.Now()
	s.byID[patientID] = p
	return nil
}

type SessionStore struct {
	mu      sync.RWMutex
	byToken map[string]entity.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{byToken: make(map[string]entity.Session)}
}

// Add registers a session, standing in for the auth service.
func (s *SessionStore) Add(session *entity.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[session.Token.String()] = *session
}

func (s *SessionStore) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.byToken[token]
	if !ok || !session.Valid(time.Now()) {
		return nil, nil
	}
	return &session, nil
}
