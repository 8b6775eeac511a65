package todouser

import (
	"errors"

	userTypes "github.com/todo-app/todo-backend/pkg/user-management/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Every task mutation is a single update on the account document.

func taskFilter(userID primitive.ObjectID, taskID primitive.ObjectID) bson.M {
	return bson.M{"_id": userID, "todo._id": taskID}
}

func parseIDs(userID string, taskID string) (primitive.ObjectID, primitive.ObjectID, error) {
	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return uID, primitive.NilObjectID, userTypes.ErrUserNotFound
	}
	tID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return uID, tID, userTypes.ErrTaskNotFound
	}
	return uID, tID, nil
}

func (dbService *TodoUserDBService) AddTask(userID string, task userTypes.Task) (userTypes.Task, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return task, userTypes.ErrUserNotFound
	}
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}

	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionTodoUsers().UpdateOne(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$push": bson.M{"todo": task}},
	)
	if err != nil {
		return task, err
	}
	if res.MatchedCount < 1 {
		return task, userTypes.ErrUserNotFound
	}
	return task, nil
}

func (dbService *TodoUserDBService) UpdateTask(userID string, taskID string, upd userTypes.TaskUpdate) (userTypes.Task, error) {
	if upd.IsEmpty() {
		user, err := dbService.GetUser(userID)
		if err != nil {
			return userTypes.Task{}, err
		}
		return user.FindTask(taskID)
	}

	uID, tID, err := parseIDs(userID, taskID)
	if err != nil {
		if errors.Is(err, userTypes.ErrTaskNotFound) {
			return userTypes.Task{}, dbService.missingTaskReason(uID)
		}
		return userTypes.Task{}, err
	}

	set := bson.M{}
	if upd.Title != nil && *upd.Title != "" {
		set["todo.$.title"] = *upd.Title
	}
	if upd.Completed != nil {
		set["todo.$.completed"] = *upd.Completed
	}

	return dbService.findAndUpdateTask(uID, tID, bson.M{"$set": set}, options.After)
}

// DeleteTask removes the task and returns it as it was before removal
func (dbService *TodoUserDBService) DeleteTask(userID string, taskID string) (userTypes.Task, error) {
	uID, tID, err := parseIDs(userID, taskID)
	if err != nil {
		if errors.Is(err, userTypes.ErrTaskNotFound) {
			return userTypes.Task{}, dbService.missingTaskReason(uID)
		}
		return userTypes.Task{}, err
	}

	return dbService.findAndUpdateTask(uID, tID, bson.M{"$pull": bson.M{"todo": bson.M{"_id": tID}}}, options.Before)
}

func (dbService *TodoUserDBService) ToggleTask(userID string, taskID string) (userTypes.Task, error) {
	uID, tID, err := parseIDs(userID, taskID)
	if err != nil {
		if errors.Is(err, userTypes.ErrTaskNotFound) {
			return userTypes.Task{}, dbService.missingTaskReason(uID)
		}
		return userTypes.Task{}, err
	}

	// pipeline update: negate "completed" of the matching element only
	toggle := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "todo", Value: bson.D{
				{Key: "$map", Value: bson.D{
					{Key: "input", Value: "$todo"},
					{Key: "as", Value: "t"},
					{Key: "in", Value: bson.D{
						{Key: "$cond", Value: bson.A{
							bson.D{{Key: "$eq", Value: bson.A{"$$t._id", tID}}},
							bson.D{{Key: "$mergeObjects", Value: bson.A{
								"$$t",
								bson.D{{Key: "completed", Value: bson.D{{Key: "$not", Value: bson.A{"$$t.completed"}}}}},
							}}},
							"$$t",
						}},
					}},
				}},
			}},
		}}},
	}

	return dbService.findAndUpdateTask(uID, tID, toggle, options.After)
}

func (dbService *TodoUserDBService) findAndUpdateTask(
	userID primitive.ObjectID,
	taskID primitive.ObjectID,
	update interface{},
	returnDocument options.ReturnDocument,
) (userTypes.Task, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(returnDocument).
		SetProjection(bson.M{"todo": 1})

	var user userTypes.User
	err := dbService.collectionTodoUsers().FindOneAndUpdate(ctx, taskFilter(userID, taskID), update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return userTypes.Task{}, dbService.missingTaskReason(userID)
		}
		return userTypes.Task{}, err
	}
	return user.FindTask(taskID.Hex())
}

// missingTaskReason tells apart a missing account from a missing task after a filter did not match
func (dbService *TodoUserDBService) missingTaskReason(userID primitive.ObjectID) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	count, err := dbService.collectionTodoUsers().CountDocuments(ctx, bson.M{"_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if count < 1 {
		return userTypes.ErrUserNotFound
	}
	return userTypes.ErrTaskNotFound
}
