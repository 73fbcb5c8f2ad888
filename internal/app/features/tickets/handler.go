// internal/app/features/tickets/handler.go
package tickets

import (
	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	ticketstore "github.com/dalemusser/opshub/internal/app/store/tickets"
	userstore "github.com/dalemusser/opshub/internal/app/store/users"
	"github.com/dalemusser/opshub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Tickets.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	Tickets  *ticketstore.Store
	Projects *projectstore.Store
	Users    *userstore.Store
}

// NewHandler constructs a Tickets handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Tickets:  ticketstore.New(db),
		Projects: projectstore.New(db),
		Users:    userstore.New(db),
	}
}
