package todouser

import (
	"errors"

	userTypes "github.com/todo-app/todo-backend/pkg/user-management/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (dbService *TodoUserDBService) AddUser(user userTypes.User) (string, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	if user.Tasks == nil {
		user.Tasks = []userTypes.Task{}
	}

	res, err := dbService.collectionTodoUsers().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", userTypes.ErrEmailTaken
		}
		return "", err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("unexpected type of inserted id")
	}
	return id.Hex(), nil
}

func (dbService *TodoUserDBService) GetUser(userID string) (userTypes.User, error) {
	var user userTypes.User
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return user, userTypes.ErrUserNotFound
	}

	ctx, cancel := dbService.getContext()
	defer cancel()

	err = dbService.collectionTodoUsers().FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user, userTypes.ErrUserNotFound
	}
	return user, err
}

func (dbService *TodoUserDBService) GetUserByEmail(email string) (userTypes.User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var user userTypes.User
	err := dbService.collectionTodoUsers().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user, userTypes.ErrUserNotFound
	}
	return user, err
}

// UpdateLoginInfos saves the login time. A non-empty password hash replaces the stored one.
func (dbService *TodoUserDBService) UpdateLoginInfos(userID string, lastLogin int64, passwordHash string) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return userTypes.ErrUserNotFound
	}

	ctx, cancel := dbService.getContext()
	defer cancel()

	set := bson.M{"timestamps.lastLogin": lastLogin}
	if passwordHash != "" {
		set["password"] = passwordHash
	}

	res, err := dbService.collectionTodoUsers().UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return userTypes.ErrUserNotFound
	}
	return nil
}

func (dbService *TodoUserDBService) CountUsers() (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	return dbService.collectionTodoUsers().CountDocuments(ctx, bson.M{}, options.Count())
}
