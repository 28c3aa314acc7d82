package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pinpoint-app/ms-go-accounts/app/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ErrDuplicateEmail is returned by Create when the unique email index
// rejects the insert.
var ErrDuplicateEmail = errors.New("account email already exists")

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection("accounts")}
}

// EnsureIndexes creates the unique index backing the email invariant.
// Safe to call on every startup; Mongo treats it as a no-op when present.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	res, err := r.col.InsertOne(ctx, account)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}

	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		account.ID = id
	}
	return nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	account := &entity.Account{}
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id bson.ObjectID) (*entity.Account, error) {
	account := &entity.Account{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// VerifyByToken flips is_verified on the account whose stored token matches
// and has not yet expired, clearing the token pair in the same update. The
// filter and update travel in one command, so the check-and-clear is atomic
// on the document. Returns false when nothing matched.
func (r *AccountRepository) VerifyByToken(ctx context.Context, token string, now time.Time) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{
			"reset_token":            token,
			"reset_token_expires_at": bson.M{"$gt": now},
		},
		bson.M{
			"$set":   bson.M{"is_verified": true, "updated_at": now},
			"$unset": bson.M{"reset_token": "", "reset_token_expires_at": ""},
		},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// SetPendingToken stores a freshly issued reset/verification token and its
// expiry on the account.
func (r *AccountRepository) SetPendingToken(ctx context.Context, id bson.ObjectID, token string, expiresAt time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"reset_token":            token,
			"reset_token_expires_at": expiresAt,
			"updated_at":             time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdatePassword overwrites the stored hash and clears any pending token
// pair in the same update.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id bson.ObjectID, passwordHash string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":   bson.M{"password_hash": passwordHash, "updated_at": time.Now()},
			"$unset": bson.M{"reset_token": "", "reset_token_expires_at": ""},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
