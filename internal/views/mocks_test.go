package views_test

import (
	"context"
	"io"

	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockAPI is a mock of the InkSpire API covering every view interface
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) ListPlans(ctx context.Context) ([]models.LearningPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LearningPlan), args.Error(1)
}

func (m *MockAPI) CreatePlan(ctx context.Context, req models.PlanRequest) (*models.LearningPlan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LearningPlan), args.Error(1)
}

func (m *MockAPI) UpdatePlan(ctx context.Context, id int64, req models.PlanRequest) (*models.LearningPlan, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LearningPlan), args.Error(1)
}

func (m *MockAPI) DeletePlan(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) SetMilestoneStatus(ctx context.Context, planID, milestoneID int64, completed bool) error {
	return m.Called(ctx, planID, milestoneID, completed).Error(0)
}

func (m *MockAPI) UploadMaterial(ctx context.Context, planID int64, filename string, content io.Reader) error {
	return m.Called(ctx, planID, filename, content).Error(0)
}

func (m *MockAPI) DownloadMaterial(ctx context.Context, planID int64, index int, dst io.Writer) (*models.Material, error) {
	args := m.Called(ctx, planID, index, dst)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Material), args.Error(1)
}

func (m *MockAPI) DeleteMaterial(ctx context.Context, planID int64, index int) error {
	return m.Called(ctx, planID, index).Error(0)
}

func (m *MockAPI) CleanupReminders(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAPI) ListReminders(ctx context.Context) ([]models.Reminder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reminder), args.Error(1)
}

func (m *MockAPI) SetReminderStatus(ctx context.Context, id int64, completed bool) error {
	return m.Called(ctx, id, completed).Error(0)
}

func (m *MockAPI) DeleteReminder(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) PublicPosts(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockAPI) MyPosts(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockAPI) CreatePost(ctx context.Context, post models.NewPost) (string, error) {
	args := m.Called(ctx, post)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) UpdatePost(ctx context.Context, id int64, description string, private bool) error {
	return m.Called(ctx, id, description, private).Error(0)
}

func (m *MockAPI) DeletePost(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) Comments(ctx context.Context, postID int64) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockAPI) AddComment(ctx context.Context, postID int64, content string) (*models.Comment, error) {
	args := m.Called(ctx, postID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockAPI) UpdateComment(ctx context.Context, postID, commentID int64, content string) (*models.Comment, error) {
	args := m.Called(ctx, postID, commentID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockAPI) DeleteComment(ctx context.Context, postID, commentID int64) error {
	return m.Called(ctx, postID, commentID).Error(0)
}

func (m *MockAPI) ToggleLike(ctx context.Context, postID int64) (bool, error) {
	args := m.Called(ctx, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAPI) LikeCount(ctx context.Context, postID int64) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSession is a mock of the session store
type MockSession struct {
	mock.Mock
}

func (m *MockSession) Current() (models.User, bool) {
	args := m.Called()
	return args.Get(0).(models.User), args.Bool(1)
}

func (m *MockSession) Login(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockSession) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockSession) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	args := m.Called(ctx, email, newPassword)
	return args.String(0), args.Error(1)
}

func (m *MockSession) UpdateUser(ctx context.Context, patch models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
