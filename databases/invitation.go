package databases

// go generate: mockery --name InvitationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/collabstay/collabstay-api/models"
)

const invitationName = "invitations"

// InvitationDatabase contains the methods to use with the invitations collection
type InvitationDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Invitation, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Invitation, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, invitation models.Invitation, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type invitationDatabase struct {
	db DatabaseHelper
}

// NewInvitationDatabase initializes a new instance of invitation database with the provided db connection
func NewInvitationDatabase(db DatabaseHelper) InvitationDatabase {
	return &invitationDatabase{
		db: db,
	}
}

func (c *invitationDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Invitation, error) {
	invitation := &models.Invitation{}
	err := c.db.Collection(invitationName).FindOne(ctx, filter, opts...).Decode(&invitation)
	if err != nil {
		return nil, err
	}
	return invitation, nil
}

func (c *invitationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Invitation, error) {
	var invitations []models.Invitation
	cur, err := c.db.Collection(invitationName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&invitations)
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

func (c *invitationDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	count, err := c.db.Collection(invitationName).CountDocuments(ctx, filter, opts...)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (c *invitationDatabase) InsertOne(ctx context.Context, invitation models.Invitation, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(invitationName).InsertOne(ctx, invitation, opts...)
}

func (c *invitationDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(invitationName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (c *invitationDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(invitationName).DeleteOne(ctx, filter, opts...)
}
