package journal

import (
	"context"
	"time"

	"storebot/internal/config"
	"storebot/internal/usecase"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 決済試行1件
type CheckoutEntry struct {
	ID         string                   `bson:"_id" json:"id"`
	SessionID  int64                    `bson:"session_id" json:"session_id"`
	UserID     int64                    `bson:"user_id" json:"user_id"`
	Subtotal   int64                    `bson:"subtotal" json:"subtotal"`
	Products   []usecase.PaymentProduct `bson:"products" json:"products"`
	PaymentURL string                   `bson:"payment_url,omitempty" json:"payment_url,omitempty"`
	Error      string                   `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt  time.Time                `bson:"created_at" json:"created_at"`
}

// チェックアウトの記録をMongoに残す
type MongoJournal struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoJournal(cfg config.MongoConfig) (*MongoJournal, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoJournal{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (j *MongoJournal) Record(ctx context.Context, rec usecase.CheckoutRecord) error {
	_, err := j.collection.InsertOne(ctx, toEntry(rec))
	return err
}

// ユーザーの直近の記録
func (j *MongoJournal) Recent(ctx context.Context, userID int64, limit int64) ([]CheckoutEntry, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := j.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []CheckoutEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (j *MongoJournal) Close(ctx context.Context) error {
	return j.client.Disconnect(ctx)
}

func toEntry(rec usecase.CheckoutRecord) CheckoutEntry {
	return CheckoutEntry{
		ID:         uuid.NewString(),
		SessionID:  rec.SessionID,
		UserID:     rec.UserID,
		Subtotal:   rec.Request.Subtotal,
		Products:   rec.Request.Products,
		PaymentURL: rec.PaymentURL,
		Error:      rec.Err,
		CreatedAt:  rec.At,
	}
}
