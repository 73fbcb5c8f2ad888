// internal/app/features/companies/handler.go
package companies

import (
	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	companystore "github.com/dalemusser/opshub/internal/app/store/companies"
	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	"github.com/dalemusser/opshub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for the client company register.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	Companies *companystore.Store
	Projects  *projectstore.Store
}

// NewHandler constructs a Companies handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		ErrLog:    errLog,
		AuditLog:  audit,
		Companies: companystore.New(db),
		Projects:  projectstore.New(db),
	}
}
