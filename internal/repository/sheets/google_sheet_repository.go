package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/timeclock/internal/config"
)

// TimesheetHeader is the column layout of exported timesheet rows.
var TimesheetHeader = []interface{}{"Date", "Staff ID", "Clock In", "Clock Out", "Hours", "Breaks", "Lunch"}

// Repository is the timesheet tab of the export spreadsheet.
type Repository interface {
	ExportedDays(ctx context.Context, sheetRange string) (*ExportedDays, error)
	AppendTimesheetRows(ctx context.Context, sheetRange string, rows [][]interface{}, withHeader bool) error
}

// ExportedDays indexes the staff days already present in a timesheet tab.
type ExportedDays struct {
	HasHeader bool
	keys      map[string]struct{}
}

// Contains reports whether the staff member's day was already exported.
func (e *ExportedDays) Contains(date, staffID string) bool {
	_, ok := e.keys[rowKey(date, staffID)]
	return ok
}

// Len returns the number of exported staff days.
func (e *ExportedDays) Len() int {
	return len(e.keys)
}

func indexExportedDays(values [][]interface{}) *ExportedDays {
	days := &ExportedDays{keys: make(map[string]struct{}, len(values))}
	for i, row := range values {
		if i == 0 && len(row) > 0 && fmt.Sprint(row[0]) == TimesheetHeader[0] {
			days.HasHeader = true
			continue
		}
		if len(row) < 2 {
			continue
		}
		days.keys[rowKey(fmt.Sprint(row[0]), fmt.Sprint(row[1]))] = struct{}{}
	}
	return days
}

func rowKey(date, staffID string) string {
	return date + "|" + staffID
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}
	return newGoogleSheetRepository(service, cfg.SpreadsheetID, logger), nil
}

func newGoogleSheetRepository(service *sheetsapi.Service, spreadsheetID string, logger *zap.Logger) *GoogleSheetRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}
}

// ExportedDays reads the date and staff columns of the tab.
func (r *GoogleSheetRepository) ExportedDays(ctx context.Context, sheetRange string) (*ExportedDays, error) {
	if sheetRange == "" {
		return nil, fmt.Errorf("sheetRange must not be empty")
	}

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	days := indexExportedDays(resp.Values)
	r.logger.Debug("timesheet tab read", zap.String("range", sheetRange), zap.Int("exported_days", days.Len()), zap.Bool("has_header", days.HasHeader))
	return days, nil
}

// AppendTimesheetRows appends the rows below the last filled row in a single
// call, preceded by the header when withHeader is set.
func (r *GoogleSheetRepository) AppendTimesheetRows(ctx context.Context, sheetRange string, rows [][]interface{}, withHeader bool) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}
	if len(rows) == 0 {
		return nil
	}

	values := rows
	if withHeader {
		values = append([][]interface{}{TimesheetHeader}, rows...)
	}

	payload := &sheetsapi.ValueRange{Values: values}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append timesheet rows into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("timesheet rows appended", zap.String("range", sheetRange), zap.Int("rows", len(rows)), zap.Bool("header", withHeader))
	return nil
}
