package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/timeclock/internal/domain/models"
)

type entryDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	StaffID   string             `bson:"staffId"`
	Action    models.Action      `bson:"action"`
	Timestamp time.Time          `bson:"timestamp"`
	Date      string             `bson:"date"`
}

func (d entryDocument) toModel() models.TimeEntry {
	return models.TimeEntry{
		ID:        d.ID.Hex(),
		StaffID:   d.StaffID,
		Action:    d.Action,
		Timestamp: d.Timestamp,
		Date:      d.Date,
	}
}

// InsertEntry persists a new time entry and returns its id.
func (r *MongoDBRepository) InsertEntry(ctx context.Context, entry models.TimeEntry) (string, error) {
	doc := entryDocument{
		ID:        primitive.NewObjectID(),
		StaffID:   entry.StaffID,
		Action:    entry.Action,
		Timestamp: entry.Timestamp,
		Date:      entry.Date,
	}

	if _, err := r.entries.InsertOne(ctx, doc); err != nil {
		return "", classify("insert time entry", err)
	}

	r.logger.Debug("time entry inserted", zap.String("id", doc.ID.Hex()), zap.String("staff_id", doc.StaffID))
	return doc.ID.Hex(), nil
}

// FindEntries returns the entries matching the query.
func (r *MongoDBRepository) FindEntries(ctx context.Context, query models.EntryQuery) ([]models.TimeEntry, error) {
	opts := options.Find()
	if sort := sortSpec(query.Sort); sort != nil {
		opts.SetSort(sort)
	}
	if query.Limit > 0 {
		opts.SetLimit(query.Limit)
	}

	cursor, err := r.entries.Find(ctx, entryFilter(query), opts)
	if err != nil {
		return nil, classify("find time entries", err)
	}

	var docs []entryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classify("decode time entries", err)
	}

	entries := make([]models.TimeEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, doc.toModel())
	}
	return entries, nil
}

// LatestEntry returns the most recent entry of a staff member, or nil when
// the staff member has none.
func (r *MongoDBRepository) LatestEntry(ctx context.Context, staffID string) (*models.TimeEntry, error) {
	opts := options.FindOne().SetSort(sortSpec(models.SortDescending))

	var doc entryDocument
	err := r.entries.FindOne(ctx, bson.M{"staffId": staffID}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find latest time entry", err)
	}

	entry := doc.toModel()
	return &entry, nil
}

// GetEntry returns the entry with the given id.
func (r *MongoDBRepository) GetEntry(ctx context.Context, id string) (*models.TimeEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("get time entry %q: %w", id, models.ErrNotFound)
	}

	var doc entryDocument
	if err := r.entries.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, classify("get time entry", err)
	}

	entry := doc.toModel()
	return &entry, nil
}

// UpdateEntry overwrites the patched fields and returns the entry as it was
// before the update.
func (r *MongoDBRepository) UpdateEntry(ctx context.Context, id string, patch models.EntryPatch) (*models.TimeEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("update time entry %q: %w", id, models.ErrNotFound)
	}

	set := bson.M{}
	if patch.StaffID != nil {
		set["staffId"] = *patch.StaffID
	}
	if patch.Action != nil {
		set["action"] = *patch.Action
	}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	if patch.Timestamp != nil {
		set["timestamp"] = *patch.Timestamp
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", models.ErrValidation)
	}

	var before entryDocument
	err = r.entries.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}).Decode(&before)
	if err != nil {
		return nil, classify("update time entry", err)
	}

	entry := before.toModel()
	return &entry, nil
}

// DeleteEntry removes an entry and returns it.
func (r *MongoDBRepository) DeleteEntry(ctx context.Context, id string) (*models.TimeEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("delete time entry %q: %w", id, models.ErrNotFound)
	}

	var deleted entryDocument
	if err := r.entries.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&deleted); err != nil {
		return nil, classify("delete time entry", err)
	}

	entry := deleted.toModel()
	return &entry, nil
}

func entryFilter(query models.EntryQuery) bson.M {
	filter := bson.M{}
	if query.StaffID != "" {
		filter["staffId"] = query.StaffID
	}
	if query.Action != "" {
		filter["action"] = query.Action
	}

	dateRange := bson.M{}
	if query.Range.Start != "" {
		dateRange["$gte"] = query.Range.Start
	}
	if query.Range.End != "" {
		dateRange["$lte"] = query.Range.End
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	return filter
}

func sortSpec(order models.SortOrder) bson.D {
	switch order {
	case models.SortAscending:
		return bson.D{{Key: "timestamp", Value: 1}}
	case models.SortDescending:
		return bson.D{{Key: "timestamp", Value: -1}}
	default:
		return nil
	}
}
