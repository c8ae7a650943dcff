package timetracking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/timeclock/internal/domain/models"
)

type fakeRepo struct {
	inserted  []models.TimeEntry
	insertErr error

	latest    *models.TimeEntry
	latestErr error
	onLatest  func()

	entries map[string]models.TimeEntry
	patches map[string]models.EntryPatch
	deleted []string

	staff   []models.StaffMember
	pingErr error
	queries []models.EntryQuery
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: map[string]models.TimeEntry{}, patches: map[string]models.EntryPatch{}}
}

func (f *fakeRepo) InsertEntry(_ context.Context, entry models.TimeEntry) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.inserted = append(f.inserted, entry)
	return fmt.Sprintf("entry-%d", len(f.inserted)), nil
}

func (f *fakeRepo) FindEntries(_ context.Context, query models.EntryQuery) ([]models.TimeEntry, error) {
	f.queries = append(f.queries, query)
	return f.inserted, nil
}

func (f *fakeRepo) LatestEntry(context.Context, string) (*models.TimeEntry, error) {
	latest, err := f.latest, f.latestErr
	if f.onLatest != nil {
		f.onLatest()
	}
	return latest, err
}

func (f *fakeRepo) GetEntry(_ context.Context, id string) (*models.TimeEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &entry, nil
}

func (f *fakeRepo) UpdateEntry(_ context.Context, id string, patch models.EntryPatch) (*models.TimeEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	f.patches[id] = patch
	return &entry, nil
}

func (f *fakeRepo) DeleteEntry(_ context.Context, id string) (*models.TimeEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	delete(f.entries, id)
	f.deleted = append(f.deleted, id)
	return &entry, nil
}

func (f *fakeRepo) UpsertStaff(_ context.Context, member models.StaffMember) error {
	f.staff = append(f.staff, member)
	return nil
}

func (f *fakeRepo) ListStaff(context.Context) ([]models.StaffMember, error) {
	return f.staff, nil
}

func (f *fakeRepo) Ping(context.Context) error {
	return f.pingErr
}

type fakeCache struct {
	values  map[string]models.Action
	getErr  error
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]models.Action{}}
}

func (c *fakeCache) Get(_ context.Context, staffID string) (models.Action, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	action, ok := c.values[staffID]
	return action, ok, nil
}

func (c *fakeCache) Set(_ context.Context, staffID string, action models.Action) error {
	c.values[staffID] = action
	return nil
}

func (c *fakeCache) SetIfAbsent(_ context.Context, staffID string, action models.Action) error {
	if _, ok := c.values[staffID]; !ok {
		c.values[staffID] = action
	}
	return nil
}

func (c *fakeCache) Delete(_ context.Context, staffIDs ...string) error {
	for _, id := range staffIDs {
		delete(c.values, id)
	}
	c.deleted = append(c.deleted, staffIDs...)
	return nil
}

var fixedNow = time.Date(2024, 3, 4, 23, 30, 0, 0, time.UTC)

func newTestService(repo *fakeRepo, statusCache *fakeCache, loc *time.Location) *Service {
	var svc *Service
	if statusCache == nil {
		svc = NewService(repo, nil, loc, nil)
	} else {
		svc = NewService(repo, statusCache, loc, nil)
	}
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestRecordEvent(t *testing.T) {
	repo := newFakeRepo()
	statusCache := newFakeCache()
	svc := newTestService(repo, statusCache, time.FixedZone("UTC+2", 2*3600))

	id, err := svc.RecordEvent(context.Background(), "  john_doe ", models.ActionClockIn)
	require.NoError(t, err)
	assert.Equal(t, "entry-1", id)

	require.Len(t, repo.inserted, 1)
	entry := repo.inserted[0]
	assert.Equal(t, "john_doe", entry.StaffID)
	assert.Equal(t, models.ActionClockIn, entry.Action)
	assert.True(t, fixedNow.Equal(entry.Timestamp))
	assert.Equal(t, time.UTC, entry.Timestamp.Location())
	assert.Equal(t, "2024-03-05", entry.Date)
	assert.Equal(t, models.ActionClockIn, statusCache.values["john_doe"])
}

func TestLiveAndManualEntriesShareDateBucket(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, time.FixedZone("UTC-5", -5*3600))
	ctx := context.Background()

	_, err := svc.RecordEvent(ctx, "john_doe", models.ActionClockIn)
	require.NoError(t, err)
	_, err = svc.RecordManualEntry(ctx, "john_doe", models.ActionClockIn, "", "")
	require.NoError(t, err)

	require.Len(t, repo.inserted, 2)
	assert.Equal(t, "2024-03-04", repo.inserted[0].Date)
	assert.Equal(t, repo.inserted[0].Date, repo.inserted[1].Date)
	assert.True(t, repo.inserted[0].Timestamp.Equal(repo.inserted[1].Timestamp))
}

func TestRecordEventValidation(t *testing.T) {
	cases := []struct {
		name    string
		staffID string
		action  models.Action
	}{
		{name: "missing staff", staffID: "   ", action: models.ActionClockIn},
		{name: "missing action", staffID: "john_doe"},
		{name: "unknown action", staffID: "john_doe", action: "coffee"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := newTestService(repo, nil, nil)

			_, err := svc.RecordEvent(context.Background(), tc.staffID, tc.action)
			require.ErrorIs(t, err, models.ErrValidation)
			assert.Empty(t, repo.inserted)
		})
	}
}

func TestRecordEventStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.insertErr = fmt.Errorf("insert time entry: %w", models.ErrStoreUnavailable)
	statusCache := newFakeCache()
	svc := newTestService(repo, statusCache, nil)

	_, err := svc.RecordEvent(context.Background(), "john_doe", models.ActionClockOut)
	require.ErrorIs(t, err, models.ErrWriteFailure)
	require.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.Empty(t, statusCache.values)
}

func TestResolveStatus(t *testing.T) {
	t.Run("no entries defaults to clock_out", func(t *testing.T) {
		svc := newTestService(newFakeRepo(), nil, nil)

		action, err := svc.ResolveStatus(context.Background(), "new_hire")
		require.NoError(t, err)
		assert.Equal(t, models.ActionClockOut, action)
	})

	t.Run("latest entry wins and is cached", func(t *testing.T) {
		repo := newFakeRepo()
		repo.latest = &models.TimeEntry{StaffID: "john_doe", Action: models.ActionBreak}
		statusCache := newFakeCache()
		svc := newTestService(repo, statusCache, nil)

		action, err := svc.ResolveStatus(context.Background(), "john_doe")
		require.NoError(t, err)
		assert.Equal(t, models.ActionBreak, action)
		assert.Equal(t, models.ActionBreak, statusCache.values["john_doe"])
	})

	t.Run("missing index degrades to clock_out", func(t *testing.T) {
		repo := newFakeRepo()
		repo.latestErr = fmt.Errorf("find latest time entry: %w", models.ErrIndexNotReady)
		svc := newTestService(repo, nil, nil)

		action, err := svc.ResolveStatus(context.Background(), "john_doe")
		require.NoError(t, err)
		assert.Equal(t, models.ActionClockOut, action)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		repo := newFakeRepo()
		repo.latestErr = fmt.Errorf("find latest time entry: %w", models.ErrStoreUnavailable)
		svc := newTestService(repo, nil, nil)

		_, err := svc.ResolveStatus(context.Background(), "john_doe")
		require.ErrorIs(t, err, models.ErrStoreUnavailable)
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		repo := newFakeRepo()
		repo.latestErr = errors.New("store must not be queried")
		statusCache := newFakeCache()
		statusCache.values["john_doe"] = models.ActionLunch
		svc := newTestService(repo, statusCache, nil)

		action, err := svc.ResolveStatus(context.Background(), "john_doe")
		require.NoError(t, err)
		assert.Equal(t, models.ActionLunch, action)
	})

	t.Run("fill does not replace a concurrent write", func(t *testing.T) {
		repo := newFakeRepo()
		repo.latest = &models.TimeEntry{StaffID: "john_doe", Action: models.ActionClockOut}
		statusCache := newFakeCache()
		svc := newTestService(repo, statusCache, nil)

		repo.onLatest = func() {
			repo.onLatest = nil
			_, err := svc.RecordEvent(context.Background(), "john_doe", models.ActionClockIn)
			require.NoError(t, err)
			repo.latest = &repo.inserted[len(repo.inserted)-1]
		}

		action, err := svc.ResolveStatus(context.Background(), "john_doe")
		require.NoError(t, err)
		assert.Equal(t, models.ActionClockOut, action)
		assert.Equal(t, models.ActionClockIn, statusCache.values["john_doe"])

		action, err = svc.ResolveStatus(context.Background(), "john_doe")
		require.NoError(t, err)
		assert.Equal(t, models.ActionClockIn, action)
	})

	t.Run("cache failure falls back to the store", func(t *testing.T) {
		repo := newFakeRepo()
		repo.latest = &models.TimeEntry{StaffID: "john_doe", Action: models.ActionClockIn}
		statusCache := newFakeCache()
		statusCache.getErr = errors.New("connection refused")
		svc := newTestService(repo, statusCache, nil)

		action, err := svc.ResolveStatus(context.Background(), "john_doe")
		require.NoError(t, err)
		assert.Equal(t, models.ActionClockIn, action)
	})
}

func TestRecordManualEntry(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	repo := newFakeRepo()
	statusCache := newFakeCache()
	statusCache.values["jane_smith"] = models.ActionClockOut
	svc := newTestService(repo, statusCache, loc)

	_, err := svc.RecordManualEntry(context.Background(), "jane_smith", models.ActionClockIn, "2024-03-01", "09:15")
	require.NoError(t, err)

	require.Len(t, repo.inserted, 1)
	entry := repo.inserted[0]
	assert.Equal(t, "2024-03-01", entry.Date)
	assert.True(t, time.Date(2024, 3, 1, 7, 15, 0, 0, time.UTC).Equal(entry.Timestamp))
	assert.NotContains(t, statusCache.values, "jane_smith")

	_, err = svc.RecordManualEntry(context.Background(), "jane_smith", models.ActionClockIn, "2024-03-01", "9h15")
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestRecordManualEntryDefaultsToNow(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, time.FixedZone("UTC+2", 2*3600))

	_, err := svc.RecordManualEntry(context.Background(), "jane_smith", models.ActionBreak, "", "")
	require.NoError(t, err)

	entry := repo.inserted[0]
	assert.Equal(t, "2024-03-05", entry.Date)
	assert.True(t, fixedNow.Equal(entry.Timestamp))
}

func TestUpdateEntry(t *testing.T) {
	repo := newFakeRepo()
	repo.entries["e1"] = models.TimeEntry{
		ID:        "e1",
		StaffID:   "john_doe",
		Action:    models.ActionClockIn,
		Timestamp: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
		Date:      "2024-03-04",
	}
	statusCache := newFakeCache()
	svc := newTestService(repo, statusCache, nil)

	err := svc.UpdateEntry(context.Background(), "e1", models.UpdateEntryRequest{StaffID: "jane_smith", Time: "08:30"})
	require.NoError(t, err)

	patch := repo.patches["e1"]
	require.NotNil(t, patch.StaffID)
	assert.Equal(t, "jane_smith", *patch.StaffID)
	require.NotNil(t, patch.Timestamp)
	assert.True(t, time.Date(2024, 3, 4, 8, 30, 0, 0, time.UTC).Equal(*patch.Timestamp))
	assert.ElementsMatch(t, []string{"john_doe", "jane_smith"}, statusCache.deleted)
}

func TestUpdateEntryMovesDateKeepingWallTime(t *testing.T) {
	repo := newFakeRepo()
	repo.entries["e1"] = models.TimeEntry{
		ID:        "e1",
		StaffID:   "john_doe",
		Action:    models.ActionClockOut,
		Timestamp: time.Date(2024, 3, 4, 17, 5, 0, 0, time.UTC),
		Date:      "2024-03-04",
	}
	svc := newTestService(repo, nil, nil)

	require.NoError(t, svc.UpdateEntry(context.Background(), "e1", models.UpdateEntryRequest{Date: "2024-03-06"}))

	patch := repo.patches["e1"]
	require.NotNil(t, patch.Date)
	assert.Equal(t, "2024-03-06", *patch.Date)
	assert.True(t, time.Date(2024, 3, 6, 17, 5, 0, 0, time.UTC).Equal(*patch.Timestamp))
}

func TestUpdateEntryErrors(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdateEntry(ctx, "e1", models.UpdateEntryRequest{}), models.ErrValidation)
	assert.ErrorIs(t, svc.UpdateEntry(ctx, "e1", models.UpdateEntryRequest{Action: "coffee"}), models.ErrValidation)
	assert.ErrorIs(t, svc.UpdateEntry(ctx, "e1", models.UpdateEntryRequest{Date: "04/03/2024"}), models.ErrValidation)
	assert.ErrorIs(t, svc.UpdateEntry(ctx, "missing", models.UpdateEntryRequest{Action: models.ActionLunch}), models.ErrNotFound)
	assert.ErrorIs(t, svc.UpdateEntry(ctx, "missing", models.UpdateEntryRequest{Time: "10:00"}), models.ErrNotFound)
}

func TestDeleteEntry(t *testing.T) {
	repo := newFakeRepo()
	repo.entries["e1"] = models.TimeEntry{ID: "e1", StaffID: "john_doe", Action: models.ActionClockIn}
	statusCache := newFakeCache()
	statusCache.values["john_doe"] = models.ActionClockIn
	svc := newTestService(repo, statusCache, nil)

	require.NoError(t, svc.DeleteEntry(context.Background(), "e1"))
	assert.Equal(t, []string{"e1"}, repo.deleted)
	assert.NotContains(t, statusCache.values, "john_doe")

	require.ErrorIs(t, svc.DeleteEntry(context.Background(), "e1"), models.ErrNotFound)
}

func TestAddStaff(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, nil)

	member, err := svc.AddStaff(context.Background(), " Mary  Ann ", "Mary Ann", "Cashier")
	require.NoError(t, err)
	assert.Equal(t, "mary_ann", member.ID)
	assert.True(t, member.Active)
	assert.Len(t, repo.staff, 1)

	_, err = svc.AddStaff(context.Background(), "bob", "", "Cashier")
	require.ErrorIs(t, err, models.ErrValidation)

	staff, err := svc.ListStaff(context.Background())
	require.NoError(t, err)
	assert.Len(t, staff, 1)
}

func TestQueryEvents(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, nil)

	_, err := svc.QueryEvents(context.Background(), "john_doe", models.DateRange{Start: "2024-03-01", End: "2024-03-07"})
	require.NoError(t, err)
	require.Len(t, repo.queries, 1)
	assert.Equal(t, models.SortAscending, repo.queries[0].Sort)
	assert.Equal(t, "john_doe", repo.queries[0].StaffID)

	_, err = svc.QueryEvents(context.Background(), "john_doe", models.DateRange{Start: "2024-03-08", End: "2024-03-01"})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestStoreStatus(t *testing.T) {
	repo := newFakeRepo()
	repo.latest = &models.TimeEntry{StaffID: "john_doe", Action: models.ActionClockIn}
	svc := newTestService(repo, nil, nil)

	status := svc.StoreStatus(context.Background(), true, true, "john_doe")
	assert.True(t, status.Env.HasURI)
	assert.True(t, status.Store.Reachable)
	assert.Equal(t, models.ActionClockIn, status.LastAction)

	repo.pingErr = errors.New("server selection timeout")
	status = svc.StoreStatus(context.Background(), true, false, "")
	assert.False(t, status.Store.Reachable)
	assert.Equal(t, "server selection timeout", status.Store.Error)
}

func TestNormalizeStaffID(t *testing.T) {
	assert.Equal(t, "john_doe", NormalizeStaffID("John Doe"))
	assert.Equal(t, "a_b", NormalizeStaffID("A\t\nB"))
}
