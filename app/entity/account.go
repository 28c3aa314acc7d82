package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Account is one registered identity. Profile fields (username, names, dob,
// state, city) are opaque to the lifecycle logic and may be empty.
//
// ResetToken and ResetTokenExpiresAt are either both set or both absent.
// They carry the pending verification/reset credential; expiry is enforced
// lazily at lookup time, never by a background sweep.
type Account struct {
	ID                  bson.ObjectID `bson:"_id,omitempty"`
	Email               string        `bson:"email"`
	Username            string        `bson:"username,omitempty"`
	FirstName           string        `bson:"firstname,omitempty"`
	LastName            string        `bson:"lastname,omitempty"`
	DOB                 int64         `bson:"dob,omitempty"`
	State               string        `bson:"state,omitempty"`
	City                string        `bson:"city,omitempty"`
	PasswordHash        string        `bson:"password_hash"`
	IsVerified          bool          `bson:"is_verified"`
	ResetToken          string        `bson:"reset_token,omitempty"`
	ResetTokenExpiresAt time.Time     `bson:"reset_token_expires_at,omitempty"`
	CreatedAt           time.Time     `bson:"created_at"`
	UpdatedAt           time.Time     `bson:"updated_at"`
}
