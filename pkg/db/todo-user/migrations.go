package todouser

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// FixMissingTaskLists sets an empty todo list on accounts where it is missing or null
func (dbService *TodoUserDBService) FixMissingTaskLists() (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionTodoUsers().UpdateMany(
		ctx,
		bson.M{"$or": bson.A{
			bson.M{"todo": bson.M{"$exists": false}},
			bson.M{"todo": nil},
		}},
		bson.M{"$set": bson.M{"todo": bson.A{}}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// NormalizeEmails trims and lower-cases stored email addresses
func (dbService *TodoUserDBService) NormalizeEmails() (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionTodoUsers().UpdateMany(
		ctx,
		bson.M{"email": bson.M{"$type": "string"}},
		mongo.Pipeline{
			{{Key: "$set", Value: bson.D{
				{Key: "email", Value: bson.D{{Key: "$toLower", Value: bson.D{{Key: "$trim", Value: bson.D{{Key: "input", Value: "$email"}}}}}}},
			}}},
		},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// FixMissingRoles sets the user role on accounts created without one
func (dbService *TodoUserDBService) FixMissingRoles(role string) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionTodoUsers().UpdateMany(
		ctx,
		bson.M{"$or": bson.A{
			bson.M{"role": bson.M{"$exists": false}},
			bson.M{"role": ""},
		}},
		bson.M{"$set": bson.M{"role": role}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
