// internal/app/features/analytics/handler.go
package analytics

import (
	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	ticketstore "github.com/dalemusser/opshub/internal/app/store/tickets"
	timeentrystore "github.com/dalemusser/opshub/internal/app/store/timeentries"
	userstore "github.com/dalemusser/opshub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for delivery analytics.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Projects *projectstore.Store
	Tickets  *ticketstore.Store
	Time     *timeentrystore.Store
	Users    *userstore.Store
}

// NewHandler constructs an Analytics handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Projects: projectstore.New(db),
		Tickets:  ticketstore.New(db),
		Time:     timeentrystore.New(db),
		Users:    userstore.New(db),
	}
}
