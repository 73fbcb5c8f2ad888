// internal/app/features/settings/handler.go
package settings

import (
	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	settingsstore "github.com/dalemusser/opshub/internal/app/store/settings"
	"github.com/dalemusser/opshub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for site settings.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	Settings *settingsstore.Store
}

// NewHandler constructs a Settings handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Settings: settingsstore.New(db),
	}
}
