// internal/app/features/projects/handler.go
package projects

import (
	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	companystore "github.com/dalemusser/opshub/internal/app/store/companies"
	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	userstore "github.com/dalemusser/opshub/internal/app/store/users"
	"github.com/dalemusser/opshub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Projects.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	Projects  *projectstore.Store
	Companies *companystore.Store
	Users     *userstore.Store
}

// NewHandler constructs a Projects handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		ErrLog:    errLog,
		AuditLog:  audit,
		Projects:  projectstore.New(db),
		Companies: companystore.New(db),
		Users:     userstore.New(db),
	}
}
