// Package accounts links reservations to guest accounts. Account management
// itself lives elsewhere; this is only the lookup the reservation core needs.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stopshot/pkg/config"
	mongotx "stopshot/pkg/db/mongo"
	"stopshot/pkg/model"
	"stopshot/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Accounts"

var ErrEmptyEmail = errors.New("account email cannot be empty")

type Directory interface {
	// FindOrCreate returns the account registered under email, creating a
	// CUSTOMER account named name when none exists.
	FindOrCreate(ctx context.Context, email, name string) (*model.Account, error)
}

type mongoDirectory struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoDirectory(cfg *config.Config) Directory {
	return &mongoDirectory{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName),
	}
}

func (d *mongoDirectory) FindOrCreate(ctx context.Context, email, name string) (*model.Account, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmptyEmail
	}

	ctx, cancel := mongotx.WithTimeout(ctx, d.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$setOnInsert": bson.M{
		"email":      email,
		"name":       sanitizer.NormalizeName(name),
		"role":       model.RoleCustomer,
		"created_at": time.Now().UTC().Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var account model.Account
	if err := d.collection.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&account); err != nil {
		return nil, fmt.Errorf("failed to find or create account: %w", err)
	}
	return &account, nil
}

type memoryDirectory struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
}

func NewMemoryDirectory() Directory {
	return &memoryDirectory{accounts: make(map[string]*model.Account)}
}

func (d *memoryDirectory) FindOrCreate(_ context.Context, email, name string) (*model.Account, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmptyEmail
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if account, ok := d.accounts[email]; ok {
		found := *account
		return &found, nil
	}
	account := &model.Account{
		ID:        primitive.NewObjectID().Hex(),
		Email:     email,
		Name:      sanitizer.NormalizeName(name),
		Role:      model.RoleCustomer,
		CreatedAt: time.Now().UTC(),
	}
	d.accounts[email] = account
	created := *account
	return &created, nil
}
