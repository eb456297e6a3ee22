package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/umut/fairline/internal/app/models"
	"github.com/umut/fairline/internal/pkg/apperrors"
	"github.com/umut/fairline/internal/pkg/realtime"
)

// In-memory stores standing in for the pgx repositories. They reproduce the
// repository contracts: sentinel errors on misses, booleans for
// compare-and-set updates, value-equal slot matching at millisecond
// precision. The booking-path fakes lock their state so tests may race
// goroutines against them.

type fakeTxRunner struct {
	mu    sync.Mutex
	calls int
	fail  error
}

func (r *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	r.mu.Lock()
	r.calls++
	fail := r.fail
	r.mu.Unlock()
	if fail != nil {
		return fail
	}
	return fn(ctx, nil)
}

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User), nextID: 1}
}

func (s *fakeUserStore) Create(ctx context.Context, user *models.User) (int64, error) {
	for _, u := range s.users {
		if u.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = user
	return user.ID, nil
}

func (s *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (s *fakeUserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	copied := *u
	return &copied, nil
}

type fakeJobFairStore struct {
	fairs    map[int64]*models.JobFair
	nextID   int64
	cascaded []int64
}

func newFakeJobFairStore() *fakeJobFairStore {
	return &fakeJobFairStore{fairs: make(map[int64]*models.JobFair), nextID: 1}
}

func (s *fakeJobFairStore) Create(ctx context.Context, fair *models.JobFair) (int64, error) {
	fair.ID = s.nextID
	s.nextID++
	fair.CreatedAt = time.Now()
	s.fairs[fair.ID] = fair
	return fair.ID, nil
}

func (s *fakeJobFairStore) GetByID(ctx context.Context, id int64) (*models.JobFair, error) {
	f, ok := s.fairs[id]
	if !ok {
		return nil, apperrors.ErrFairNotFound
	}
	copied := *f
	return &copied, nil
}

func (s *fakeJobFairStore) GetAll(ctx context.Context, organizerID *int64, search *string, page, pageSize int) ([]models.JobFair, int64, error) {
	var out []models.JobFair
	for _, f := range s.fairs {
		if organizerID != nil && f.OrganizerID != *organizerID {
			continue
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (s *fakeJobFairStore) DeleteCascadeTx(ctx context.Context, tx pgx.Tx, fairID int64) error {
	if _, ok := s.fairs[fairID]; !ok {
		return apperrors.ErrFairNotFound
	}
	delete(s.fairs, fairID)
	s.cascaded = append(s.cascaded, fairID)
	return nil
}

type fakeBoothStore struct {
	mu     sync.Mutex
	booths map[int64]*models.Booth
	slots  map[int64][]time.Time
	nextID int64
}

func newFakeBoothStore() *fakeBoothStore {
	return &fakeBoothStore{
		booths: make(map[int64]*models.Booth),
		slots:  make(map[int64][]time.Time),
		nextID: 1,
	}
}

func (s *fakeBoothStore) addBooth(companyID int64, companyName string) *models.Booth {
	booth := &models.Booth{
		ID:          s.nextID,
		JobFairID:   1,
		CompanyID:   companyID,
		CompanyName: companyName,
		CreatedAt:   time.Now(),
	}
	s.nextID++
	s.booths[booth.ID] = booth
	return booth
}

func (s *fakeBoothStore) Create(ctx context.Context, booth *models.Booth) (int64, error) {
	booth.ID = s.nextID
	s.nextID++
	booth.CreatedAt = time.Now()
	s.booths[booth.ID] = booth
	return booth.ID, nil
}

func (s *fakeBoothStore) GetByID(ctx context.Context, id int64) (*models.Booth, error) {
	b, ok := s.booths[id]
	if !ok {
		return nil, apperrors.ErrBoothNotFound
	}
	copied := *b
	return &copied, nil
}

func (s *fakeBoothStore) GetAllByFair(ctx context.Context, fairID int64) ([]models.Booth, error) {
	var out []models.Booth
	for _, b := range s.booths {
		if b.JobFairID == fairID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeBoothStore) AddSlot(ctx context.Context, boothID int64, slotAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slotAt = slotAt.Truncate(time.Millisecond)
	for _, existing := range s.slots[boothID] {
		if existing.Equal(slotAt) {
			return false, nil
		}
	}
	s.slots[boothID] = append(s.slots[boothID], slotAt)
	return true, nil
}

func (s *fakeBoothStore) RemoveSlot(ctx context.Context, boothID int64, slotAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slotAt = slotAt.Truncate(time.Millisecond)
	for i, existing := range s.slots[boothID] {
		if existing.Equal(slotAt) {
			s.slots[boothID] = append(s.slots[boothID][:i], s.slots[boothID][i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeBoothStore) ListSlots(ctx context.Context, boothID int64) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]time.Time(nil), s.slots[boothID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (s *fakeBoothStore) ClaimSlotTx(ctx context.Context, tx pgx.Tx, boothID int64, slotAt time.Time) (bool, error) {
	return s.RemoveSlot(ctx, boothID, slotAt)
}

type fakeAppointmentStore struct {
	mu     sync.Mutex
	appts  map[int64]*models.Appointment
	nextID int64
	failTx error
}

func newFakeAppointmentStore() *fakeAppointmentStore {
	return &fakeAppointmentStore{appts: make(map[int64]*models.Appointment), nextID: 1}
}

func (s *fakeAppointmentStore) CreateTx(ctx context.Context, tx pgx.Tx, appt *models.Appointment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTx != nil {
		return 0, s.failTx
	}
	// Cancelled rows sit outside the uniqueness backstop, matching the
	// partial index on appointments.
	for _, existing := range s.appts {
		if existing.Status == models.AppointmentCancelled {
			continue
		}
		if existing.BoothID == appt.BoothID && existing.ScheduledAt.Equal(appt.ScheduledAt) {
			return 0, apperrors.ErrSlotTaken
		}
	}
	appt.ID = s.nextID
	s.nextID++
	appt.CreatedAt = time.Now()
	s.appts[appt.ID] = appt
	return appt.ID, nil
}

func (s *fakeAppointmentStore) GetByID(ctx context.Context, id int64) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appts[id]
	if !ok {
		return nil, apperrors.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *fakeAppointmentStore) GetAll(ctx context.Context, studentID, companyID, fairID *int64) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Appointment
	for _, a := range s.appts {
		if studentID != nil && a.StudentID != *studentID {
			continue
		}
		if companyID != nil && a.CompanyID != *companyID {
			continue
		}
		if fairID != nil && a.JobFairID != *fairID {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeAppointmentStore) UpdateStatus(ctx context.Context, id int64, from, to models.AppointmentStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appts[id]
	if !ok || a.Status != from {
		return false, nil
	}
	a.Status = to
	return true, nil
}

type fakeQnaStore struct {
	sessions   map[int64]*models.QnaSession
	questions  map[int64]*models.Question
	nextSessID int64
	nextQID    int64
}

func newFakeQnaStore() *fakeQnaStore {
	return &fakeQnaStore{
		sessions:   make(map[int64]*models.QnaSession),
		questions:  make(map[int64]*models.Question),
		nextSessID: 1,
		nextQID:    1,
	}
}

func (s *fakeQnaStore) addSession(recruiterID int64, status models.SessionStatus) *models.QnaSession {
	session := &models.QnaSession{
		ID:          s.nextSessID,
		RecruiterID: recruiterID,
		CompanyID:   recruiterID,
		Topic:       "fixture topic",
		ScheduledAt: time.Now().Add(time.Hour),
		Status:      status,
		CreatedAt:   time.Now(),
	}
	s.nextSessID++
	s.sessions[session.ID] = session
	return session
}

func (s *fakeQnaStore) CreateSession(ctx context.Context, session *models.QnaSession) (int64, error) {
	session.ID = s.nextSessID
	s.nextSessID++
	session.CreatedAt = time.Now()
	s.sessions[session.ID] = session
	return session.ID, nil
}

func (s *fakeQnaStore) GetSession(ctx context.Context, id int64) (*models.QnaSession, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	copied := *sess
	return &copied, nil
}

func (s *fakeQnaStore) GetAllSessions(ctx context.Context, recruiterID *int64) ([]models.QnaSession, error) {
	var out []models.QnaSession
	for _, sess := range s.sessions {
		if recruiterID != nil && sess.RecruiterID != *recruiterID {
			continue
		}
		out = append(out, *sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeQnaStore) AdvanceSessionStatus(ctx context.Context, id int64, from, to models.SessionStatus) (bool, error) {
	sess, ok := s.sessions[id]
	if !ok || sess.Status != from {
		return false, nil
	}
	sess.Status = to
	return true, nil
}

func (s *fakeQnaStore) CreateQuestion(ctx context.Context, question *models.Question) (int64, error) {
	question.ID = s.nextQID
	s.nextQID++
	if question.AskedAt.IsZero() {
		// Strictly increasing so ordering assertions are deterministic
		question.AskedAt = time.Unix(1700000000+question.ID, 0)
	}
	s.questions[question.ID] = question
	return question.ID, nil
}

func (s *fakeQnaStore) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	q, ok := s.questions[id]
	if !ok {
		return nil, apperrors.ErrQuestionNotFound
	}
	copied := *q
	return &copied, nil
}

func (s *fakeQnaStore) AnswerQuestion(ctx context.Context, questionID int64, answerText string) (bool, error) {
	q, ok := s.questions[questionID]
	if !ok {
		return false, apperrors.ErrQuestionNotFound
	}
	if q.IsAnswered {
		return false, nil
	}
	q.IsAnswered = true
	q.AnswerText = &answerText
	return true, nil
}

func (s *fakeQnaStore) ListQuestions(ctx context.Context, sessionID int64, answered *bool, newestFirst bool) ([]models.Question, error) {
	var out []models.Question
	for _, q := range s.questions {
		if q.SessionID != sessionID {
			continue
		}
		if answered != nil && q.IsAnswered != *answered {
			continue
		}
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].AskedAt.After(out[j].AskedAt)
		}
		return out[i].AskedAt.Before(out[j].AskedAt)
	})
	return out, nil
}

// fakePublisher records pushed events for assertions
type fakePublisher struct {
	events []publishedEvent
}

type publishedEvent struct {
	topic   realtime.Topic
	kind    string
	payload interface{}
}

func (p *fakePublisher) Publish(topic realtime.Topic, kind string, payload interface{}) {
	p.events = append(p.events, publishedEvent{topic: topic, kind: kind, payload: payload})
}
