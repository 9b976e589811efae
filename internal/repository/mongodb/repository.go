package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/cantine/internal/domain/models"
)

const (
	hospitalsCollection   = "hospitals"
	weeksCollection       = "weeks"
	productionsCollection = "productions"
)

// Repository defines the storage operations backing the remote meal service.
type Repository interface {
	ListHospitals(ctx context.Context) ([]models.Hospital, error)
	UpsertHospital(ctx context.Context, hospital models.Hospital) error
	FindWeek(ctx context.Context, year, weekNumber int) (*models.Week, error)
	InsertWeek(ctx context.Context, week models.Week) error
	InsertProductions(ctx context.Context, records []models.ProductionRecord) error
	ListProductions(ctx context.Context, start, end time.Time) ([]models.ProductionRecord, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{client: client, dbName: dbName}, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// ListHospitals returns every hospital ordered by name.
func (r *MongoDBRepository) ListHospitals(ctx context.Context) ([]models.Hospital, error) {
	cursor, err := r.collection(hospitalsCollection).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}

	var hospitals []models.Hospital
	if err := cursor.All(ctx, &hospitals); err != nil {
		return nil, fmt.Errorf("failed to decode hospitals: %w", err)
	}
	return hospitals, nil
}

// UpsertHospital inserts or replaces a hospital record, keyed by its id.
func (r *MongoDBRepository) UpsertHospital(ctx context.Context, hospital models.Hospital) error {
	_, err := r.collection(hospitalsCollection).ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: hospital.ID}},
		hospital,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert hospital %s: %w", hospital.ID, err)
	}
	return nil
}

// FindWeek looks up the week record for the given ISO year/week pair.
// A missing week yields (nil, nil).
func (r *MongoDBRepository) FindWeek(ctx context.Context, year, weekNumber int) (*models.Week, error) {
	var week models.Week
	err := r.collection(weeksCollection).FindOne(ctx, bson.D{
		{Key: "year", Value: year},
		{Key: "week_number", Value: weekNumber},
	}).Decode(&week)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find week %d-W%d: %w", year, weekNumber, err)
	}
	return &week, nil
}

// InsertWeek stores a newly created week record.
func (r *MongoDBRepository) InsertWeek(ctx context.Context, week models.Week) error {
	if _, err := r.collection(weeksCollection).InsertOne(ctx, week); err != nil {
		return fmt.Errorf("failed to insert week %d-W%d: %w", week.Year, week.WeekNumber, err)
	}
	return nil
}

// InsertProductions stores one submitted batch.
func (r *MongoDBRepository) InsertProductions(ctx context.Context, records []models.ProductionRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(records))
	for _, record := range records {
		docs = append(docs, record)
	}

	if _, err := r.collection(productionsCollection).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert production records: %w", err)
	}
	return nil
}

// ListProductions returns records whose production date falls inside the
// window, newest first.
func (r *MongoDBRepository) ListProductions(ctx context.Context, start, end time.Time) ([]models.ProductionRecord, error) {
	// end is exclusive; callers pass the day after the last wanted date.
	filter := bson.D{{Key: "production_date", Value: bson.D{
		{Key: "$gte", Value: start},
		{Key: "$lt", Value: end},
	}}}

	cursor, err := r.collection(productionsCollection).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "production_date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list productions: %w", err)
	}

	var records []models.ProductionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode productions: %w", err)
	}
	return records, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
