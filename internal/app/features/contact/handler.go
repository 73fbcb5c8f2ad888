package contact

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	messagestore "github.com/dalemusser/opshub/internal/app/store/messages"
	"github.com/dalemusser/opshub/internal/app/system/inputval"
	"github.com/dalemusser/opshub/internal/app/system/limits"
	"github.com/dalemusser/opshub/internal/app/system/mailer"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the public contact page and stores submissions.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger
	Mailer      *mailer.Mailer
	Messages    *messagestore.Store
	NotifyEmail string // operations inbox; empty disables the notification mail
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, mail *mailer.Mailer, notifyEmail string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		ErrLog:      errLog,
		Mailer:      mail,
		Messages:    messagestore.New(db),
		NotifyEmail: notifyEmail,
	}
}

type formData struct {
	viewdata.BaseVM
	Error   string
	Sent    bool
	Name    string
	Email   string
	Subject string
	Body    string
}

// contactInput defines validation rules for the contact form.
type contactInput struct {
	Name    string `validate:"required,max=200" label:"Your name"`
	Email   string `validate:"required,max=320,email" label:"Email address"`
	Subject string `validate:"max=200" label:"Subject"`
	Body    string `validate:"required,max=5000" label:"Message"`
}

// ServeContact handles GET /contact.
func (h *Handler) ServeContact(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "contact", formData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Contact", "/"),
	})
}

// HandleContactPost handles POST /contact: validates, stores the message,
// and best-effort mails the operations inbox.
func (h *Handler) HandleContactPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxContactFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "contact: parse form failed", err, "Invalid form submission.", "/contact")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	subject := strings.TrimSpace(r.FormValue("subject"))
	body := strings.TrimSpace(r.FormValue("message"))

	renderWithError := func(msg string) {
		data := formData{
			BaseVM:  viewdata.NewBaseVM(r, h.DB, "Contact", "/"),
			Name:    name,
			Email:   email,
			Subject: subject,
			Body:    body,
		}
		data.Error = msg
		templates.Render(w, r, "contact", data)
	}

	input := contactInput{Name: name, Email: email, Subject: subject, Body: body}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	msg, err := h.Messages.Create(ctx, models.Message{
		Name:    name,
		Email:   email,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "contact: store message failed", err, "We could not save your message. Please try again.", "/contact")
		return
	}

	// Notification mail is best effort; the stored message is the source
	// of truth either way.
	if h.NotifyEmail != "" {
		settings := viewdata.GetSettings(ctx, h.DB)
		notice := mailer.BuildContactEmail(mailer.ContactEmailData{
			SiteName:    settings.SiteName,
			SenderName:  name,
			SenderEmail: email,
			Subject:     subject,
			Body:        body,
		})
		notice.To = h.NotifyEmail
		if err := h.Mailer.Send(notice); err != nil {
			h.Log.Warn("contact: notification mail failed",
				zap.Error(err),
				zap.String("message_id", msg.ID.Hex()))
		}
	}

	data := formData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Contact", "/"),
		Sent:   true,
	}
	templates.Render(w, r, "contact", data)
}
