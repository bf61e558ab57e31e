package usecase_test

import (
	"context"
	"sync"

	"recruiter-platform/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type notification struct {
	EntityType string
	EntityID   string
	Table      string
	Deleted    bool
}

// recordingNotifier captures sync notifications.
type recordingNotifier struct {
	mu      sync.Mutex
	sent    []notification
	batches int
}

func (r *recordingNotifier) NotifyChanged(_ context.Context, entityType, entityID, table string, deleted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, notification{entityType, entityID, table, deleted})
}

func (r *recordingNotifier) NotifyChangedBatch(_ context.Context, changes []domain.SyncChange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches++
	for _, c := range changes {
		r.sent = append(r.sent, notification{c.EntityType, c.EntityID, c.Table, c.Deleted})
	}
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockJobPostRepo struct {
	mock.Mock
}

func (m *MockJobPostRepo) Create(ctx context.Context, post *domain.JobPost) error {
	return m.Called(ctx, post).Error(0)
}
func (m *MockJobPostRepo) Get(ctx context.Context, name string, version int) (*domain.JobPost, error) {
	args := m.Called(ctx, name, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPost), args.Error(1)
}
func (m *MockJobPostRepo) GetLatest(ctx context.Context, name string) (*domain.JobPost, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPost), args.Error(1)
}
func (m *MockJobPostRepo) ListVersions(ctx context.Context, name string) ([]domain.JobPost, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]domain.JobPost), args.Error(1)
}
func (m *MockJobPostRepo) List(ctx context.Context, filter domain.JobPostFilter) ([]domain.JobPost, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.JobPost), args.Get(1).(int64), args.Error(2)
}
func (m *MockJobPostRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}
func (m *MockJobPostRepo) MaxVersion(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}
func (m *MockJobPostRepo) Update(ctx context.Context, post *domain.JobPost) error {
	return m.Called(ctx, post).Error(0)
}
func (m *MockJobPostRepo) UpdateStatus(ctx context.Context, name string, version int, status domain.JobPostStatus, userID string) error {
	return m.Called(ctx, name, version, status, userID).Error(0)
}
func (m *MockJobPostRepo) SoftDelete(ctx context.Context, name string, version int, userID string) error {
	return m.Called(ctx, name, version, userID).Error(0)
}
func (m *MockJobPostRepo) Delete(ctx context.Context, name string, version int) error {
	return m.Called(ctx, name, version).Error(0)
}
func (m *MockJobPostRepo) CountApplications(ctx context.Context, name string, version int) (int64, error) {
	args := m.Called(ctx, name, version)
	return args.Get(0).(int64), args.Error(1)
}

type MockAssignmentRepo struct {
	mock.Mock
}

func (m *MockAssignmentRepo) ListByJobPost(ctx context.Context, name string, version int) ([]domain.JobPostStepAssignment, error) {
	args := m.Called(ctx, name, version)
	return args.Get(0).([]domain.JobPostStepAssignment), args.Error(1)
}
func (m *MockAssignmentRepo) ReplaceAll(ctx context.Context, name string, version int, items []domain.JobPostStepAssignment) error {
	return m.Called(ctx, name, version, items).Error(0)
}
func (m *MockAssignmentRepo) Remove(ctx context.Context, name string, version int, stepNumber int) (*domain.JobPostStepAssignment, error) {
	args := m.Called(ctx, name, version, stepNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPostStepAssignment), args.Error(1)
}

// stubCountries canonicalises in memory and never touches a store.
type stubCountries struct {
	domain.CountryUsecase
}

func (stubCountries) GetOrCreateExposureSet(_ context.Context, codes []string) (*domain.CountryExposureSet, error) {
	return domain.NewCountryExposureSet(codes), nil
}

type MockUserProfileRepo struct {
	mock.Mock
}

func (m *MockUserProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}
func (m *MockUserProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}
func (m *MockUserProfileRepo) List(ctx context.Context, filter domain.UserProfileFilter) ([]domain.UserProfile, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.UserProfile), args.Get(1).(int64), args.Error(2)
}
func (m *MockUserProfileRepo) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	return m.Called(ctx, profile).Error(0)
}
func (m *MockUserProfileRepo) RecordOverrideConsent(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *MockUserProfileRepo) Sanitize(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockCommentRepo struct {
	mock.Mock
}

func (m *MockCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}
func (m *MockCommentRepo) GetRoot(ctx context.Context, entityType, entityID string) (*domain.Comment, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}
func (m *MockCommentRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]domain.Comment, error) {
	args := m.Called(ctx, entityType, entityID)
	return args.Get(0).([]domain.Comment), args.Error(1)
}
func (m *MockCommentRepo) ListReplies(ctx context.Context, parentID uuid.UUID) ([]domain.Comment, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).([]domain.Comment), args.Error(1)
}
func (m *MockCommentRepo) UpdateContent(ctx context.Context, id uuid.UUID, content string, userID string) error {
	return m.Called(ctx, id, content, userID).Error(0)
}
func (m *MockCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockSyncConfigRepo struct {
	mock.Mock
}

func (m *MockSyncConfigRepo) List(ctx context.Context) ([]domain.EntitySyncConfiguration, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.EntitySyncConfiguration), args.Error(1)
}
func (m *MockSyncConfigRepo) GetByEntityType(ctx context.Context, entityType string) (*domain.EntitySyncConfiguration, error) {
	args := m.Called(ctx, entityType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntitySyncConfiguration), args.Error(1)
}
func (m *MockSyncConfigRepo) Update(ctx context.Context, cfg *domain.EntitySyncConfiguration) error {
	return m.Called(ctx, cfg).Error(0)
}
