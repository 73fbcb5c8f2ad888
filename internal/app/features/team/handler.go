// internal/app/features/team/handler.go
package team

import (
	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	companystore "github.com/dalemusser/opshub/internal/app/store/companies"
	userstore "github.com/dalemusser/opshub/internal/app/store/users"
	"github.com/dalemusser/opshub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for the staff directory.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	Users     *userstore.Store
	Companies *companystore.Store
}

// NewHandler constructs a Team handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		ErrLog:    errLog,
		AuditLog:  audit,
		Users:     userstore.New(db),
		Companies: companystore.New(db),
	}
}
