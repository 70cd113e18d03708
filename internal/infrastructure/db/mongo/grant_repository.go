package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/streamgate/webshare-addon/internal/core/domain"
)

const grantCollection = "device_grants"

type MongoGrantRepository struct {
	coll *mongo.Collection
}

func NewGrantRepository(db *mongo.Database) *MongoGrantRepository {
	return &MongoGrantRepository{coll: db.Collection(grantCollection)}
}

type mongoGrant struct {
	Token             string `bson:"token"`
	DeviceID          string `bson:"device_id"`
	Username          string `bson:"username"`
	SessionCredential string `bson:"session_credential,omitempty"`
	CreatedAt         int64  `bson:"created_at"`
}

// EnsureIndexes creates the unique token index and the (token, device_id)
// lookup index. Call once at startup.
func (r *MongoGrantRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "token", Value: 1}, {Key: "device_id", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create grant indexes: %w", err)
	}
	return nil
}

func (r *MongoGrantRepository) FindByTokenAndDevice(ctx context.Context, token, deviceID string) (*domain.DeviceGrant, error) {
	var mg mongoGrant
	err := r.coll.FindOne(ctx, bson.M{"token": token, "device_id": deviceID}).Decode(&mg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrGrantNotFound
		}
		return nil, fmt.Errorf("find grant: %w", err)
	}
	return mg.toDomain(), nil
}

func (r *MongoGrantRepository) Create(ctx context.Context, grant *domain.DeviceGrant) error {
	doc := mongoGrant{
		Token:             grant.Token,
		DeviceID:          grant.DeviceID,
		Username:          grant.Username,
		SessionCredential: grant.SessionCredential,
		CreatedAt:         grant.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrGrantExists
		}
		return fmt.Errorf("insert grant: %w", err)
	}
	return nil
}

func (r *MongoGrantRepository) DeleteByToken(ctx context.Context, token string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"token": token})
	if err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrGrantNotFound
	}
	return nil
}

func (r *MongoGrantRepository) ListAll(ctx context.Context) ([]*domain.DeviceGrant, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	defer cur.Close(ctx)

	var grants []*domain.DeviceGrant
	for cur.Next(ctx) {
		var mg mongoGrant
		if err := cur.Decode(&mg); err != nil {
			return nil, fmt.Errorf("decode grant: %w", err)
		}
		grants = append(grants, mg.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate grants: %w", err)
	}
	return grants, nil
}

func (mg mongoGrant) toDomain() *domain.DeviceGrant {
	var createdAt time.Time
	if mg.CreatedAt != 0 {
		createdAt = time.Unix(mg.CreatedAt, 0).UTC()
	}
	return &domain.DeviceGrant{
		Token:             mg.Token,
		DeviceID:          mg.DeviceID,
		Username:          mg.Username,
		SessionCredential: mg.SessionCredential,
		CreatedAt:         createdAt,
	}
}
