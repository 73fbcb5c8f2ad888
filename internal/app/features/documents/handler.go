// internal/app/features/documents/handler.go
package documents

import (
	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	documentstore "github.com/dalemusser/opshub/internal/app/store/documents"
	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	"github.com/dalemusser/opshub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for project documents.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	Documents *documentstore.Store
	Projects  *projectstore.Store
}

// NewHandler constructs a Documents handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		ErrLog:    errLog,
		AuditLog:  audit,
		Documents: documentstore.New(db),
		Projects:  projectstore.New(db),
	}
}
