package databases

// go generate: mockery --name ProjectDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/collabstay/collabstay-api/models"
)

const projectName = "projects"

// ProjectDatabase contains the methods to use with the projects collection
type ProjectDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Project, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Project, error)
	FindPaginated(ctx context.Context, filter interface{}, limit, page int) ([]models.Project, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, project models.Project, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type projectDatabase struct {
	db DatabaseHelper
}

// NewProjectDatabase initializes a new instance of project database with the provided db connection
func NewProjectDatabase(db DatabaseHelper) ProjectDatabase {
	return &projectDatabase{
		db: db,
	}
}

func (c *projectDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Project, error) {
	project := &models.Project{}
	err := c.db.Collection(projectName).FindOne(ctx, filter, opts...).Decode(&project)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (c *projectDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Project, error) {
	var projects []models.Project
	cur, err := c.db.Collection(projectName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&projects)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *projectDatabase) FindPaginated(ctx context.Context, filter interface{}, limit, page int) ([]models.Project, error) {
	return c.Find(ctx, filter, newMongoPaginate(limit, page).getPaginatedOpts())
}

func (c *projectDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	count, err := c.db.Collection(projectName).CountDocuments(ctx, filter, opts...)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (c *projectDatabase) InsertOne(ctx context.Context, project models.Project, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(projectName).InsertOne(ctx, project, opts...)
}

func (c *projectDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(projectName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (c *projectDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(projectName).DeleteOne(ctx, filter, opts...)
}
