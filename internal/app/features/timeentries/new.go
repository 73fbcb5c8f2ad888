// internal/app/features/timeentries/new.go
package timeentries

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/inputval"
	"github.com/dalemusser/opshub/internal/app/system/navigation"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// logTimeInput defines validation rules for logging time.
type logTimeInput struct {
	ProjectID   string `validate:"required,objectid" label:"Project"`
	Hours       string `validate:"required" label:"Hours"`
	Description string `validate:"max=1000" label:"Description"`
}

const dateLayout = "2006-01-02"

// maxHoursPerEntry guards against typos like 80 instead of 8.0.
const maxHoursPerEntry = 24

// ServeNew renders the log-time form.
// Authorization: RequireCapability(CapLogTime) middleware in routes.go.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := newData{
		Date:     time.Now().UTC().Format(dateLayout),
		Projects: h.projectOptions(ctx),
	}
	formutil.SetBase(&data.Base, r, h.DB, "Log Time", "/time")

	templates.Render(w, r, "time_new", data)
}

// HandleCreate processes the log-time form. Hours must parse as a
// non-negative number; entries always belong to the signed-in user.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/time")
		return
	}

	dateStr := strings.TrimSpace(r.FormValue("date"))
	projectHex := strings.TrimSpace(r.FormValue("project"))
	hoursStr := strings.TrimSpace(r.FormValue("hours"))
	description := strings.TrimSpace(r.FormValue("description"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	renderWithError := func(msg string) {
		data := newData{
			Date:        dateStr,
			ProjectID:   projectHex,
			Hours:       hoursStr,
			Description: description,
			Projects:    h.projectOptions(ctx),
		}
		formutil.SetBase(&data.Base, r, h.DB, "Log Time", "/time")
		data.SetError(msg)
		templates.Render(w, r, "time_new", data)
	}

	input := logTimeInput{ProjectID: projectHex, Hours: hoursStr, Description: description}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	hours, err := strconv.ParseFloat(hoursStr, 64)
	if err != nil {
		renderWithError("Hours must be a number.")
		return
	}
	if hours < 0 {
		renderWithError("Hours cannot be negative.")
		return
	}
	if hours > maxHoursPerEntry {
		renderWithError("A single entry cannot exceed 24 hours.")
		return
	}

	date := time.Now().UTC()
	if dateStr != "" {
		date, err = time.Parse(dateLayout, dateStr)
		if err != nil {
			renderWithError("Date must be YYYY-MM-DD.")
			return
		}
	}

	projectID, err := primitive.ObjectIDFromHex(projectHex)
	if err != nil {
		renderWithError("Please select a valid project.")
		return
	}
	if _, err := h.Projects.GetByID(ctx, projectID); err != nil {
		renderWithError("That project no longer exists.")
		return
	}

	role, _, actorID, _ := authz.UserCtx(r)

	created, err := h.Entries.Create(ctx, models.TimeEntry{
		ProjectID:   projectID,
		UserID:      actorID,
		Date:        date,
		Hours:       hours,
		Description: description,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create time entry failed", err, "Unable to log time.", "/time")
		return
	}

	h.AuditLog.TimeEntryCreated(ctx, r, actorID, created.ID, projectID, string(role))

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.TimeEntriesBackURL), http.StatusSeeOther)
}
