// internal/app/features/integrations/handler.go
package integrations

import (
	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	integrationstore "github.com/dalemusser/opshub/internal/app/store/integrations"
	"github.com/dalemusser/opshub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for external integrations.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	Integrations *integrationstore.Store
}

// NewHandler constructs an Integrations handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		ErrLog:       errLog,
		AuditLog:     audit,
		Integrations: integrationstore.New(db),
	}
}
