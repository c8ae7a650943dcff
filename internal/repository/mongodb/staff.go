package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/timeclock/internal/domain/models"
)

// UpsertStaff creates the staff member or updates the existing record with the
// same id. createdAt is only written on insert.
func (r *MongoDBRepository) UpsertStaff(ctx context.Context, member models.StaffMember) error {
	opts := options.Update().SetUpsert(true)
	if _, err := r.staff.UpdateOne(ctx, bson.M{"id": member.ID}, staffUpsert(member), opts); err != nil {
		return classify("upsert staff member", err)
	}
	return nil
}

func staffUpsert(member models.StaffMember) bson.M {
	return bson.M{
		"$set": bson.M{
			"name":   member.Name,
			"role":   member.Role,
			"active": member.Active,
		},
		"$setOnInsert": bson.M{
			"createdAt": member.CreatedAt,
		},
	}
}

// ListStaff returns every staff member ordered by id.
func (r *MongoDBRepository) ListStaff(ctx context.Context) ([]models.StaffMember, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})

	cursor, err := r.staff.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, classify("find staff", err)
	}

	staff := make([]models.StaffMember, 0)
	if err := cursor.All(ctx, &staff); err != nil {
		return nil, classify("decode staff", err)
	}
	return staff, nil
}
