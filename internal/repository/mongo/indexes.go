package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes every collection relies on. Call this once
// during application startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		userCollectionName: {
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetUnique(true), // Usernames are unique, case-sensitive
			},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		workoutCollectionName: {
			{Keys: bson.D{{Key: "trainerId", Value: 1}}},
		},
		studentWorkoutCollectionName: {
			{
				// One assignment per (student, workout)
				Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "workoutId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "workoutId", Value: 1}}},
		},
		exerciseCollectionName: {
			{Keys: bson.D{{Key: "trainerId", Value: 1}}},
		},
		workoutExerciseCollectionName: {
			{
				Keys:    bson.D{{Key: "workoutId", Value: 1}, {Key: "order", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		sessionCollectionName: {
			{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "studentId", Value: 1}}},
		},
		paymentCollectionName: {
			{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "studentId", Value: 1}}},
		},
		progressCollectionName: {
			{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "date", Value: -1}}},
		},
	}

	for name, indexes := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes for %s: %w", name, err)
		}
	}
	return nil
}
