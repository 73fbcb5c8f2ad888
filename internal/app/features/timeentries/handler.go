// internal/app/features/timeentries/handler.go
package timeentries

import (
	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	timeentrystore "github.com/dalemusser/opshub/internal/app/store/timeentries"
	userstore "github.com/dalemusser/opshub/internal/app/store/users"
	"github.com/dalemusser/opshub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for time tracking.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	Entries  *timeentrystore.Store
	Projects *projectstore.Store
	Users    *userstore.Store
}

// NewHandler constructs a time tracking handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Entries:  timeentrystore.New(db),
		Projects: projectstore.New(db),
		Users:    userstore.New(db),
	}
}
