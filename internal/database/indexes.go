package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	models := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("email_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "EmpUsername", Value: 1}},
			Options: options.Index().
				SetName("empUsername_unique").
				SetUnique(true).
				SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "adminId", Value: 1}},
			Options: options.Index().SetName("adminId_index"),
		},
	}

	_, err := indexes.CreateMany(ctx, models)
	return err
}

func EnsureOrganisationIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "adminEmail", Value: 1}},
		Options: options.Index().
			SetName("adminEmail_unique").
			SetUnique(true),
	}

	_, err := db.Collection("organisations").Indexes().CreateOne(ctx, emailIndex)
	return err
}

// EnsureBookingIndexes creates the uniqueBookingId constraint the booking id
// generator relies on for collision detection, for both lead collections and
// the sales archive.
func EnsureBookingIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, name := range []string{"bookings", "holiday_bookings", "sales"} {
		bookingIDIndex := mongo.IndexModel{
			Keys: bson.D{{Key: "uniqueBookingId", Value: 1}},
			Options: options.Index().
				SetName("uniqueBookingId_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"uniqueBookingId": bson.M{"$exists": true},
				}),
		}
		orgIndex := mongo.IndexModel{
			Keys:    bson.D{{Key: "organisationId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("organisationId_createdAt"),
		}
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, []mongo.IndexModel{bookingIDIndex, orgIndex}); err != nil {
			return err
		}
	}
	return nil
}

func EnsureAuditLogIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	orgIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "orgId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("orgId_createdAt"),
	}

	_, err := db.Collection("audit_logs").Indexes().CreateOne(ctx, orgIndex)
	return err
}
