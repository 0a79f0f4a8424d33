package waste

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type collectionDoc struct {
	Key     string    `bson:"key"`
	Value   string    `bson:"value"`
	Updated time.Time `bson:"updated"`
}

// MongoKV - по документу на коллекцию в wasteDB.collections
type MongoKV struct {
	mgo  *mongo.Client
	coll *mongo.Collection
}

func NewMongoKV(ctx context.Context, addr string, database string) (*MongoKV, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	options := options.Client().ApplyURI("mongodb://" + addr)
	client, err := mongo.Connect(ctx, options)
	if err != nil {
		return nil, err
	}
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, err
	}
	if database == "" {
		database = "wasteDB"
	}
	coll := client.Database(database).Collection("collections")

	return &MongoKV{client, coll}, nil
}

func (m *MongoKV) Get(ctx context.Context, key string) (string, bool, error) {
	var doc collectionDoc
	err := m.coll.FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, err
	}
	return doc.Value, true, nil
}

func (m *MongoKV) Set(ctx context.Context, key string, value string) error {
	filter := bson.M{"key": key}
	update := bson.M{"$set": collectionDoc{key, value, time.Now().UTC()}}
	_, err := m.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (m *MongoKV) Close(ctx context.Context) error {
	return m.mgo.Disconnect(ctx)
}
