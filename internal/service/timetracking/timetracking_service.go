package timetracking

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/timeclock/internal/cache"
	"github.com/mamadbah2/timeclock/internal/domain/models"
	repo "github.com/mamadbah2/timeclock/internal/repository/mongodb"
)

const clockLayout = "15:04"

var whitespace = regexp.MustCompile(`\s+`)

// Service records clock events and resolves the current status of staff members.
type Service struct {
	repo   repo.Repository
	cache  cache.StatusCache
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires the time tracking service. statusCache may be nil.
func NewService(repository repo.Repository, statusCache cache.StatusCache, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repository, cache: statusCache, loc: loc, logger: logger, now: time.Now}
}

// RecordEvent persists a clock event stamped with the server time. The
// timestamp is stored in UTC and the date in the configured timezone.
func (s *Service) RecordEvent(ctx context.Context, staffID string, action models.Action) (string, error) {
	staffID = strings.TrimSpace(staffID)
	if err := validateEvent(staffID, action); err != nil {
		return "", err
	}

	now := s.now()
	return s.insert(ctx, models.TimeEntry{
		StaffID:   staffID,
		Action:    action,
		Timestamp: now.UTC(),
		Date:      now.In(s.loc).Format(models.DateLayout),
	}, true)
}

// RecordManualEntry stores an entry for an explicit date and "HH:MM" wall time
// in the configured timezone. Empty date or time fall back to now.
func (s *Service) RecordManualEntry(ctx context.Context, staffID string, action models.Action, date, clock string) (string, error) {
	staffID = strings.TrimSpace(staffID)
	if err := validateEvent(staffID, action); err != nil {
		return "", err
	}

	local := s.now().In(s.loc)
	if date == "" {
		date = local.Format(models.DateLayout)
	}
	if clock == "" {
		clock = local.Format(clockLayout)
	}

	ts, err := s.wallTime(date, clock)
	if err != nil {
		return "", err
	}

	return s.insert(ctx, models.TimeEntry{
		StaffID:   staffID,
		Action:    action,
		Timestamp: ts,
		Date:      date,
	}, false)
}

// insert writes the entry once. latest marks entries known to be the staff
// member's newest, whose action can be cached directly.
func (s *Service) insert(ctx context.Context, entry models.TimeEntry, latest bool) (string, error) {
	id, err := s.repo.InsertEntry(ctx, entry)
	if err != nil {
		s.logger.Error("failed to record time entry",
			zap.String("staff_id", entry.StaffID),
			zap.String("action", string(entry.Action)),
			zap.Error(err))
		return "", fmt.Errorf("%w: %w", models.ErrWriteFailure, err)
	}

	s.logger.Info("time entry recorded",
		zap.String("id", id),
		zap.String("staff_id", entry.StaffID),
		zap.String("action", string(entry.Action)))

	if latest {
		s.cacheSet(ctx, entry.StaffID, entry.Action)
	} else {
		s.cacheDelete(ctx, entry.StaffID)
	}
	return id, nil
}

// QueryEvents returns the events of a staff member within the range, oldest first.
func (s *Service) QueryEvents(ctx context.Context, staffID string, r models.DateRange) ([]models.TimeEntry, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	entries, err := s.repo.FindEntries(ctx, models.EntryQuery{
		StaffID: strings.TrimSpace(staffID),
		Range:   r,
		Sort:    models.SortAscending,
	})
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return entries, nil
}

// ResolveStatus returns the action of the staff member's most recent event,
// or clock_out when there is none or the ordered lookup cannot be served yet.
func (s *Service) ResolveStatus(ctx context.Context, staffID string) (models.Action, error) {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return "", fmt.Errorf("%w: staffId is required", models.ErrValidation)
	}

	if s.cache != nil {
		action, ok, err := s.cache.Get(ctx, staffID)
		if err != nil {
			s.logger.Warn("status cache read failed", zap.String("staff_id", staffID), zap.Error(err))
		} else if ok {
			return action, nil
		}
	}

	latest, err := s.repo.LatestEntry(ctx, staffID)
	switch {
	case errors.Is(err, models.ErrIndexNotReady):
		s.logger.Warn("latest entry lookup needs an index, defaulting to clock_out",
			zap.String("staff_id", staffID), zap.Error(err))
		return models.ActionClockOut, nil
	case err != nil:
		return "", fmt.Errorf("resolve status: %w", err)
	case latest == nil:
		return models.ActionClockOut, nil
	}

	// A write landing during the lookup has already cached a newer action.
	s.cacheFill(ctx, staffID, latest.Action)
	return latest.Action, nil
}

// UpdateEntry applies an admin correction. A time without a date is applied
// to the entry's current date.
func (s *Service) UpdateEntry(ctx context.Context, id string, req models.UpdateEntryRequest) error {
	patch, err := s.buildPatch(ctx, id, req)
	if err != nil {
		return err
	}

	before, err := s.repo.UpdateEntry(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}

	affected := []string{before.StaffID}
	if patch.StaffID != nil && *patch.StaffID != before.StaffID {
		affected = append(affected, *patch.StaffID)
	}
	s.cacheDelete(ctx, affected...)

	s.logger.Info("time entry updated", zap.String("id", id), zap.Strings("staff_ids", affected))
	return nil
}

// DeleteEntry removes an entry.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	s.cacheDelete(ctx, deleted.StaffID)
	s.logger.Info("time entry deleted", zap.String("id", id), zap.String("staff_id", deleted.StaffID))
	return nil
}

// AddStaff creates or replaces a staff member. The id is normalised to
// lower case with whitespace runs replaced by underscores.
func (s *Service) AddStaff(ctx context.Context, id, name, role string) (models.StaffMember, error) {
	id, name, role = strings.TrimSpace(id), strings.TrimSpace(name), strings.TrimSpace(role)
	if id == "" || name == "" || role == "" {
		return models.StaffMember{}, fmt.Errorf("%w: id, name and role are required", models.ErrValidation)
	}

	member := models.StaffMember{
		ID:        NormalizeStaffID(id),
		Name:      name,
		Role:      role,
		Active:    true,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.UpsertStaff(ctx, member); err != nil {
		return models.StaffMember{}, fmt.Errorf("add staff: %w", err)
	}

	s.logger.Info("staff member saved", zap.String("staff_id", member.ID))
	return member, nil
}

// ListStaff returns every known staff member.
func (s *Service) ListStaff(ctx context.Context) ([]models.StaffMember, error) {
	staff, err := s.repo.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}

// StoreStatus reports whether the store is configured and reachable. When
// staffID is set, the staff member's current status is included.
func (s *Service) StoreStatus(ctx context.Context, hasURI, hasDatabase bool, staffID string) models.StoreStatus {
	var status models.StoreStatus
	status.Env.HasURI = hasURI
	status.Env.HasDatabase = hasDatabase

	if err := s.repo.Ping(ctx); err != nil {
		status.Store.Error = err.Error()
		s.logger.Warn("store ping failed", zap.Error(err))
		return status
	}
	status.Store.Reachable = true

	if staffID != "" {
		action, err := s.ResolveStatus(ctx, staffID)
		if err != nil {
			status.Store.Error = err.Error()
			return status
		}
		status.LastAction = action
	}
	return status
}

// NormalizeStaffID lower-cases an id and replaces whitespace with underscores.
func NormalizeStaffID(id string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(id)), "_")
}

func (s *Service) buildPatch(ctx context.Context, id string, req models.UpdateEntryRequest) (models.EntryPatch, error) {
	var patch models.EntryPatch

	if staffID := strings.TrimSpace(req.StaffID); staffID != "" {
		patch.StaffID = &staffID
	}
	if req.Action != "" {
		if !req.Action.Valid() {
			return patch, fmt.Errorf("%w: invalid action %q", models.ErrValidation, req.Action)
		}
		action := req.Action
		patch.Action = &action
	}
	if req.Date != "" {
		if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
			return patch, fmt.Errorf("%w: date %q must use YYYY-MM-DD", models.ErrValidation, req.Date)
		}
		date := req.Date
		patch.Date = &date
	}

	switch {
	case req.Time != "":
		date := req.Date
		if date == "" {
			current, err := s.currentDate(ctx, id)
			if err != nil {
				return patch, err
			}
			date = current
			patch.Date = &date
		}
		ts, err := s.wallTime(date, req.Time)
		if err != nil {
			return patch, err
		}
		patch.Timestamp = &ts
	case req.Date != "":
		// Keep the entry's wall time, move it to the new date.
		entry, err := s.findEntry(ctx, id)
		if err != nil {
			return patch, err
		}
		ts, err := s.wallTime(req.Date, entry.Timestamp.In(s.loc).Format(clockLayout))
		if err != nil {
			return patch, err
		}
		patch.Timestamp = &ts
	}

	if patch.Empty() {
		return patch, fmt.Errorf("%w: nothing to update", models.ErrValidation)
	}
	return patch, nil
}

func (s *Service) currentDate(ctx context.Context, id string) (string, error) {
	entry, err := s.findEntry(ctx, id)
	if err != nil {
		return "", err
	}
	return entry.Day(), nil
}

func (s *Service) findEntry(ctx context.Context, id string) (*models.TimeEntry, error) {
	entry, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}
	return entry, nil
}

func (s *Service) wallTime(date, clock string) (time.Time, error) {
	ts, err := time.ParseInLocation(models.DateLayout+" "+clockLayout, date+" "+clock, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q and time %q must use YYYY-MM-DD and HH:MM", models.ErrValidation, date, clock)
	}
	return ts.UTC(), nil
}

func (s *Service) cacheSet(ctx context.Context, staffID string, action models.Action) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, staffID, action); err != nil {
		s.logger.Warn("status cache write failed", zap.String("staff_id", staffID), zap.Error(err))
	}
}

func (s *Service) cacheFill(ctx context.Context, staffID string, action models.Action) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetIfAbsent(ctx, staffID, action); err != nil {
		s.logger.Warn("status cache fill failed", zap.String("staff_id", staffID), zap.Error(err))
	}
}

func (s *Service) cacheDelete(ctx context.Context, staffIDs ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, staffIDs...); err != nil {
		s.logger.Warn("status cache invalidation failed", zap.Strings("staff_ids", staffIDs), zap.Error(err))
	}
}

func validateEvent(staffID string, action models.Action) error {
	if staffID == "" {
		return fmt.Errorf("%w: staffId is required", models.ErrValidation)
	}
	if action == "" {
		return fmt.Errorf("%w: action is required", models.ErrValidation)
	}
	if !action.Valid() {
		return fmt.Errorf("%w: invalid action %q", models.ErrValidation, action)
	}
	return nil
}
