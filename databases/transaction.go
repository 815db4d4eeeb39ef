package databases

// go generate: mockery --name TransactionDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/collabstay/collabstay-api/models"
)

const transactionName = "transactions"

// TransactionDatabase contains the methods to use with the transactions collection
type TransactionDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Transaction, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Transaction, error)
	InsertOne(ctx context.Context, transaction models.Transaction, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
}

type transactionDatabase struct {
	db DatabaseHelper
}

// NewTransactionDatabase initializes a new instance of transaction database with the provided db connection
func NewTransactionDatabase(db DatabaseHelper) TransactionDatabase {
	return &transactionDatabase{
		db: db,
	}
}

func (c *transactionDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Transaction, error) {
	transaction := &models.Transaction{}
	err := c.db.Collection(transactionName).FindOne(ctx, filter, opts...).Decode(&transaction)
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

func (c *transactionDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Transaction, error) {
	var transactions []models.Transaction
	cur, err := c.db.Collection(transactionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&transactions)
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

func (c *transactionDatabase) InsertOne(ctx context.Context, transaction models.Transaction, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(transactionName).InsertOne(ctx, transaction, opts...)
}

func (c *transactionDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(transactionName).UpdateOne(ctx, filter, update, opts...)
	return err
}
