package todouser

import (
	"context"
	"log/slog"
	"time"

	"github.com/todo-app/todo-backend/pkg/db"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection names
const (
	// accounts and their embedded todo lists share one collection; the name matches existing data
	COLLECTION_NAME_TODO_USERS = "tasks"
)

type TodoUserDBService struct {
	DBClient     *mongo.Client
	timeout      int
	DBName       string
	DBNamePrefix string
}

func NewTodoUserDBService(configs db.DBConfig) (*TodoUserDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)

	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()

	if err != nil {
		return nil, err
	}

	tuDBSc := &TodoUserDBService{
		DBClient:     dbClient,
		timeout:      configs.Timeout,
		DBName:       configs.DBName,
		DBNamePrefix: configs.DBNamePrefix,
	}

	if configs.RunIndexCreation {
		tuDBSc.CreateDefaultIndexes()
	}
	return tuDBSc, nil
}

// getDBName prefers the database named in the connection string
func (dbService *TodoUserDBService) getDBName() string {
	if dbService.DBName != "" {
		return dbService.DBName
	}
	return dbService.DBNamePrefix + "todo"
}

func (dbService *TodoUserDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *TodoUserDBService) collectionTodoUsers() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_TODO_USERS)
}

func (dbService *TodoUserDBService) Close() {
	ctx, cancel := dbService.getContext()
	defer cancel()

	if err := dbService.DBClient.Disconnect(ctx); err != nil {
		slog.Error("Error disconnecting from todo user DB", slog.String("error", err.Error()))
	}
}
