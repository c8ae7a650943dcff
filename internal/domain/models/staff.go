package models

import "time"

// StaffMember is a person allowed to clock in. Time entries reference it by ID
// without any integrity check.
type StaffMember struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Role      string    `bson:"role" json:"role"`
	Active    bool      `bson:"active" json:"active"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
