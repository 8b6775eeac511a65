package todouser

import (
	"fmt"
	"log/slog"

	"github.com/todo-app/todo-backend/pkg/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var indexesForTodoUsersCollection = []mongo.IndexModel{
	{
		Keys: bson.D{
			{Key: "email", Value: 1},
		},
		// only non-empty strings take part in the uniqueness check
		Options: options.Index().
			SetName("email_1_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"email": bson.M{"$gt": ""}}),
	},
	{
		Keys: bson.D{
			{Key: "todo._id", Value: 1},
		},
		Options: options.Index().SetName("todo._id_1"),
	},
}

func (dbService *TodoUserDBService) CreateDefaultIndexes() {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionTodoUsers().Indexes().CreateMany(ctx, indexesForTodoUsersCollection)
	if err != nil {
		slog.Error("Error creating indexes for todo users", slog.String("error", err.Error()))
	}
}

func (dbService *TodoUserDBService) DropIndexes(dropAll bool) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	if dropAll {
		_, err := dbService.collectionTodoUsers().Indexes().DropAll(ctx)
		if err != nil {
			slog.Error("Error dropping all indexes for todo users", slog.String("error", err.Error()))
		}
		return
	}

	for _, index := range indexesForTodoUsersCollection {
		if index.Options == nil || index.Options.Name == nil {
			slog.Error("Index name is nil for todo users collection", slog.String("index", fmt.Sprintf("%+v", index)))
			continue
		}
		indexName := *index.Options.Name
		_, err := dbService.collectionTodoUsers().Indexes().DropOne(ctx, indexName)
		if err != nil {
			slog.Error("Error dropping index for todo users", slog.String("error", err.Error()), slog.String("indexName", indexName))
		}
	}
}

func (dbService *TodoUserDBService) GetIndexes() ([]bson.M, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	return db.ListCollectionIndexes(ctx, dbService.collectionTodoUsers())
}
