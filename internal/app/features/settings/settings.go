// internal/app/features/settings/settings.go
package settings

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/opshub/internal/app/system/limits"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type settingsVM struct {
	viewdata.BaseVM

	SiteName        string
	FooterHTML      string
	WeeklyHoursGoal string
	SLATargetHours  string
	UpdatedByName   string
	Error           string
}

// ServeSettings displays the settings form.
// Authorization: RequireCapability(CapManageSettings) middleware in routes.go.
func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Settings.Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load settings failed", err, "Failed to load settings.", "/dashboard")
		return
	}

	h.render(w, r, h.fillVM(r, current, ""))
}

// HandleSettings processes the settings form submission.
func (h *Handler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxSettingsFormSize)

	if err := r.ParseForm(); err != nil {
		if err.Error() == "http: request body too large" {
			h.ErrLog.LogBadRequest(w, r, "request too large", err, "Request is too large.", "/settings")
			return
		}
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/settings")
		return
	}

	siteName := strings.TrimSpace(r.FormValue("site_name"))
	footerHTML := htmlsanitize.Sanitize(strings.TrimSpace(r.FormValue("footer_html")))
	goalStr := strings.TrimSpace(r.FormValue("weekly_hours_goal"))
	slaStr := strings.TrimSpace(r.FormValue("sla_target_hours"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Settings.Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load settings failed", err, "Failed to load settings.", "/settings")
		return
	}

	renderWithError := func(msg string) {
		vm := h.fillVM(r, current, msg)
		vm.SiteName = siteName
		vm.FooterHTML = footerHTML
		vm.WeeklyHoursGoal = goalStr
		vm.SLATargetHours = slaStr
		h.render(w, r, vm)
	}

	if siteName == "" {
		renderWithError("Site name is required.")
		return
	}

	goal := models.DefaultWeeklyHoursGoal
	if goalStr != "" {
		goal, err = strconv.ParseFloat(goalStr, 64)
		if err != nil || goal <= 0 || goal > 168 {
			renderWithError("Weekly hours goal must be between 0 and 168.")
			return
		}
	}

	slaTarget := models.DefaultSLATargetHours
	if slaStr != "" {
		slaTarget, err = strconv.Atoi(slaStr)
		if err != nil || slaTarget <= 0 {
			renderWithError("SLA target must be a positive number of hours.")
			return
		}
	}

	actorRole, uname, actorID, _ := authz.UserCtx(r)

	var changed []string
	if siteName != current.SiteName {
		changed = append(changed, "site_name")
	}
	if footerHTML != current.FooterHTML {
		changed = append(changed, "footer_html")
	}
	if goal != current.WeeklyHoursGoal {
		changed = append(changed, "weekly_hours_goal")
	}
	if slaTarget != current.SLATargetHours {
		changed = append(changed, "sla_target_hours")
	}

	next := models.SiteSettings{
		SiteName:        siteName,
		FooterHTML:      footerHTML,
		WeeklyHoursGoal: goal,
		SLATargetHours:  slaTarget,
		UpdatedByID:     &actorID,
		UpdatedByName:   uname,
	}

	if err := h.Settings.Save(ctx, next); err != nil {
		h.Log.Error("failed to save settings", zap.Error(err))
		renderWithError("Failed to save settings.")
		return
	}

	if len(changed) > 0 {
		h.AuditLog.SettingsUpdated(ctx, r, actorID, string(actorRole), strings.Join(changed, ","))
	}

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, vm settingsVM) {
	templates.Render(w, r, "settings", vm)
}

func (h *Handler) fillVM(r *http.Request, s models.SiteSettings, errMsg string) settingsVM {
	vm := settingsVM{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Settings", "/dashboard"),
		SiteName:      s.SiteName,
		FooterHTML:    s.FooterHTML,
		UpdatedByName: s.UpdatedByName,
		Error:         errMsg,
	}
	if s.WeeklyHoursGoal > 0 {
		vm.WeeklyHoursGoal = strconv.FormatFloat(s.WeeklyHoursGoal, 'f', -1, 64)
	}
	if s.SLATargetHours > 0 {
		vm.SLATargetHours = strconv.Itoa(s.SLATargetHours)
	}
	return vm
}
