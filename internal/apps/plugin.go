package apps

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/chatlog"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/gemini"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/weather"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Gateway is the part of the remote data gateway that feature apps reach
// directly rather than through a workspace state service.
type Gateway interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, name, occupation *string, avatarURL *string) (*models.User, error)
	UploadFile(ctx context.Context, folder, name string, data []byte) (string, error)
	Titles(ctx context.Context) ([]models.Title, error)
	GrantTitle(ctx context.Context, userID, titleID uuid.UUID) error

	PostByID(ctx context.Context, id uuid.UUID) (*models.ForumPost, error)
	CommentByID(ctx context.Context, id uuid.UUID) (*models.ForumComment, error)
	DeletePost(ctx context.Context, postID, actorID uuid.UUID, asAdmin bool) error
	DeleteComment(ctx context.Context, id, actorID uuid.UUID, asAdmin bool) error
	CreateReport(ctx context.Context, r *models.Report) error
	Reports(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error)
	ReportByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	UpdateReport(ctx context.Context, id uuid.UUID, status, note string) error
}

// Deps are the shared clients handed to every plugin.
type Deps struct {
	Config  *config.Config
	Gateway Gateway
	Gemini  *gemini.Client
	Weather *weather.Client
	Chatlog chatlog.Store
}

// Plugin defines the interface every feature app implements.
type Plugin interface {
	// ID returns the unique feature identifier.
	ID() string

	// Models returns GORM model pointers for AutoMigrate. Most features
	// live entirely in the remote gateway and return nil.
	Models() []interface{}

	// RegisterRoutes mounts the feature's routes. The group already has
	// JWT and workspace middleware applied.
	RegisterRoutes(router fiber.Router, deps *Deps)
}

// AdminPlugin extends Plugin with admin-only routes. The group has JWT,
// workspace and admin middleware applied.
type AdminPlugin interface {
	Plugin
	RegisterAdminRoutes(router fiber.Router, deps *Deps)
}
