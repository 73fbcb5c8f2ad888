// internal/app/features/apiportal/handler.go
package apiportal

import (
	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	apikeystore "github.com/dalemusser/opshub/internal/app/store/apikeys"
	"github.com/dalemusser/opshub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for the API portal.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	Keys *apikeystore.Store
}

// NewHandler constructs an API portal handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Keys:     apikeystore.New(db),
	}
}
