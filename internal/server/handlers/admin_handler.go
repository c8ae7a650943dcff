package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/timeclock/internal/domain/models"
	"github.com/mamadbah2/timeclock/internal/service/reporting"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// EntryAdmin manages entries and staff on behalf of admins.
type EntryAdmin interface {
	RecordManualEntry(ctx context.Context, staffID string, action models.Action, date, clock string) (string, error)
	UpdateEntry(ctx context.Context, id string, req models.UpdateEntryRequest) error
	DeleteEntry(ctx context.Context, id string) error
	AddStaff(ctx context.Context, id, name, role string) (models.StaffMember, error)
	ListStaff(ctx context.Context) ([]models.StaffMember, error)
}

// Reporter computes dashboard views over stored entries.
type Reporter interface {
	Location() *time.Location
	Entries(ctx context.Context, filter models.EntryFilter) ([]models.TimeEntry, error)
	Analytics(ctx context.Context, r models.DateRange) (models.Analytics, error)
	StaffReport(ctx context.Context, staffID string, r models.DateRange) (models.StaffReport, error)
	DailySummaries(ctx context.Context, r models.DateRange) (map[string]map[string]*models.DailySummary, error)
}

// AdminHandler serves the dashboard endpoints.
type AdminHandler struct {
	admin    EntryAdmin
	reporter Reporter
	logger   *zap.Logger
}

// NewAdminHandler constructs the dashboard handler.
func NewAdminHandler(admin EntryAdmin, reporter Reporter, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{admin: admin, reporter: reporter, logger: logger}
}

// ListEntries returns entries matching the query filters, most recent first.
func (h *AdminHandler) ListEntries(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	entries, err := h.reporter.Entries(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "entries": entries, "count": len(entries)})
}

// CreateEntry records a manual entry.
func (h *AdminHandler) CreateEntry(c *gin.Context) {
	var req models.ManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Missing staffId or action")
		return
	}

	id, err := h.admin.RecordManualEntry(c.Request.Context(), req.StaffID, req.Action, req.Date, req.Time)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, models.ClockResponse{Success: true, ID: id})
}

// UpdateEntry applies a correction to an entry.
func (h *AdminHandler) UpdateEntry(c *gin.Context) {
	var req models.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if err := h.admin.UpdateEntry(c.Request.Context(), c.Param("id"), req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteEntry removes an entry.
func (h *AdminHandler) DeleteEntry(c *gin.Context) {
	if err := h.admin.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListStaff returns all staff members.
func (h *AdminHandler) ListStaff(c *gin.Context) {
	staff, err := h.admin.ListStaff(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "staff": staff})
}

// AddStaff creates or replaces a staff member.
func (h *AdminHandler) AddStaff(c *gin.Context) {
	var req models.AddStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "id, name and role are required")
		return
	}

	member, err := h.admin.AddStaff(c.Request.Context(), req.ID, req.Name, req.Role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "staff": member})
}

// Analytics aggregates entries of the requested range.
func (h *AdminHandler) Analytics(c *gin.Context) {
	analytics, err := h.reporter.Analytics(c.Request.Context(), queryRange(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "analytics": analytics})
}

// Summaries returns the per staff, per day summaries of the requested range.
func (h *AdminHandler) Summaries(c *gin.Context) {
	summaries, err := h.reporter.DailySummaries(c.Request.Context(), queryRange(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "summaries": summaries})
}

// StaffReport returns a staff member's timesheet as JSON, or CSV with ?format=csv.
func (h *AdminHandler) StaffReport(c *gin.Context) {
	staffID := strings.TrimSpace(c.Param("staffId"))
	report, err := h.reporter.StaffReport(c.Request.Context(), staffID, queryRange(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if c.Query("format") != "csv" {
		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"report":         report,
			"totalFormatted": reporting.FormatHours(report.TotalHours),
		})
		return
	}

	var buf bytes.Buffer
	if err := reporting.WriteStaffReportCSV(&buf, report, h.reporter.Location()); err != nil {
		respondError(c, h.logger, fmt.Errorf("render staff report: %w", err))
		return
	}
	attachment(c, fmt.Sprintf("staff-report-%s-%s-%s.csv", report.StaffID, report.Period.Start, report.Period.End), csvContentType, buf.Bytes())
}

// Export downloads filtered entries as CSV (default) or XLSX.
func (h *AdminHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		badRequest(c, "format must be csv or xlsx")
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	entries, err := h.reporter.Entries(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	loc := h.reporter.Location()
	name := "time-entries-" + time.Now().In(loc).Format(models.DateLayout)

	if format == "xlsx" {
		data, err := reporting.EntriesXLSX(entries, loc)
		if err != nil {
			respondError(c, h.logger, fmt.Errorf("render xlsx export: %w", err))
			return
		}
		attachment(c, name+".xlsx", xlsxContentType, data)
		return
	}

	var buf bytes.Buffer
	if err := reporting.WriteEntriesCSV(&buf, entries, loc); err != nil {
		respondError(c, h.logger, fmt.Errorf("render csv export: %w", err))
		return
	}
	attachment(c, name+".csv", csvContentType, buf.Bytes())
}

func (h *AdminHandler) bindFilter(c *gin.Context) (models.EntryFilter, bool) {
	var filter models.EntryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, "invalid filters")
		return filter, false
	}
	return filter, true
}

func queryRange(c *gin.Context) models.DateRange {
	return models.DateRange{Start: c.Query("startDate"), End: c.Query("endDate")}
}

func attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
