package views

import (
	"context"
	"io"

	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/pkg/api"
)

// PlansAPI is the part of the InkSpire API the plan views call
type PlansAPI interface {
	ListPlans(ctx context.Context) ([]models.LearningPlan, error)
	CreatePlan(ctx context.Context, req models.PlanRequest) (*models.LearningPlan, error)
	UpdatePlan(ctx context.Context, id int64, req models.PlanRequest) (*models.LearningPlan, error)
	DeletePlan(ctx context.Context, id int64) error
	SetMilestoneStatus(ctx context.Context, planID, milestoneID int64, completed bool) error
	UploadMaterial(ctx context.Context, planID int64, filename string, content io.Reader) error
	DownloadMaterial(ctx context.Context, planID int64, index int, dst io.Writer) (*models.Material, error)
	DeleteMaterial(ctx context.Context, planID int64, index int) error
	CleanupReminders(ctx context.Context) error
}

// RemindersAPI is the part of the InkSpire API the reminder views call
type RemindersAPI interface {
	ListPlans(ctx context.Context) ([]models.LearningPlan, error)
	ListReminders(ctx context.Context) ([]models.Reminder, error)
	SetReminderStatus(ctx context.Context, id int64, completed bool) error
	DeleteReminder(ctx context.Context, id int64) error
}

// PostsAPI is the part of the InkSpire API the post views call
type PostsAPI interface {
	PublicPosts(ctx context.Context) ([]models.Post, error)
	MyPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, post models.NewPost) (string, error)
	UpdatePost(ctx context.Context, id int64, description string, private bool) error
	DeletePost(ctx context.Context, id int64) error
	Comments(ctx context.Context, postID int64) ([]models.Comment, error)
	AddComment(ctx context.Context, postID int64, content string) (*models.Comment, error)
	UpdateComment(ctx context.Context, postID, commentID int64, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID int64) error
	ToggleLike(ctx context.Context, postID int64) (bool, error)
	LikeCount(ctx context.Context, postID int64) (int64, error)
}

// Identity reports the signed-in user
type Identity interface {
	Current() (models.User, bool)
}

// Session is the part of the session store the auth and profile views call
type Session interface {
	Identity
	Login(ctx context.Context, email, password string) (*models.User, error)
	Signup(ctx context.Context, req models.SignupRequest) (string, error)
	ResetPassword(ctx context.Context, email, newPassword string) (string, error)
	UpdateUser(ctx context.Context, patch models.ProfileUpdate) (*models.User, error)
}

var (
	_ PlansAPI     = (*api.Client)(nil)
	_ RemindersAPI = (*api.Client)(nil)
	_ PostsAPI     = (*api.Client)(nil)
)
