package databases

// go generate: mockery --name TripDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/collabstay/collabstay-api/models"
)

const tripName = "trips"

// TripDatabase contains the methods to use with the trips collection
type TripDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Trip, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Trip, error)
	FindPaginated(ctx context.Context, filter interface{}, limit, page int) ([]models.Trip, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, trip models.Trip, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type tripDatabase struct {
	db DatabaseHelper
}

// NewTripDatabase initializes a new instance of trip database with the provided db connection
func NewTripDatabase(db DatabaseHelper) TripDatabase {
	return &tripDatabase{
		db: db,
	}
}

func (c *tripDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Trip, error) {
	trip := &models.Trip{}
	err := c.db.Collection(tripName).FindOne(ctx, filter, opts...).Decode(&trip)
	if err != nil {
		return nil, err
	}
	return trip, nil
}

func (c *tripDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Trip, error) {
	var trips []models.Trip
	cur, err := c.db.Collection(tripName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&trips)
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (c *tripDatabase) FindPaginated(ctx context.Context, filter interface{}, limit, page int) ([]models.Trip, error) {
	return c.Find(ctx, filter, newMongoPaginate(limit, page).getPaginatedOpts())
}

func (c *tripDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	count, err := c.db.Collection(tripName).CountDocuments(ctx, filter, opts...)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (c *tripDatabase) InsertOne(ctx context.Context, trip models.Trip, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(tripName).InsertOne(ctx, trip, opts...)
}

func (c *tripDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(tripName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (c *tripDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(tripName).DeleteOne(ctx, filter, opts...)
}
