package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"backend/internal/audit"
	"backend/internal/models"
	"backend/internal/scope"
)

// bookingResource describes one lead collection sharing the lifecycle code
// path. Both resources convert into the common sales collection.
type bookingResource struct {
	collection   string
	kind         string // audit action prefix and metrics label
	targetType   string
	defaultLimit int64
	extra        bson.M // stamped onto every new document
}

var flightHotelBookings = bookingResource{
	collection:   "bookings",
	kind:         "flightHotel",
	targetType:   "Booking",
	defaultLimit: 7,
}

var holidayBookings = bookingResource{
	collection:   "holiday_bookings",
	kind:         "holidayPackage",
	targetType:   "HolidayPackage",
	defaultLimit: 7,
	extra:        bson.M{"bookingCategory": "customPackage"},
}

const bookingIDPrefix = "USR-"

// newBookingID builds "USR-" plus the first uuid group uppercased. The
// unique index on uniqueBookingId catches the unlikely collision; creates
// retry with a fresh id.
func newBookingID() string {
	return bookingIDPrefix + strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
}

func (a *App) createBooking(res bookingResource) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := requireCaller(c)
		if !ok {
			return
		}

		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if len(body) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body cannot be empty"})
			return
		}

		now := time.Now()
		doc := bson.M(body)
		stripImmutableFields(doc)
		for key, value := range res.extra {
			doc[key] = value
		}
		doc["organisationId"] = caller.OrganisationID
		doc["adminId"] = scope.EffectiveAdminID(caller)
		doc["userId"] = caller.ID
		doc["createdBy"] = caller.Name
		doc["createdByEmail"] = caller.Email
		doc["createdByRole"] = caller.Role
		if _, exists := doc["Status"]; !exists {
			doc["Status"] = "New"
		}
		if _, exists := doc["AssignedTo"]; !exists {
			doc["AssignedTo"] = ""
		}
		for _, financial := range models.FinancialFields {
			if _, exists := doc[financial]; !exists {
				doc[financial] = 0
			}
		}
		doc["feedbackSent"] = false
		doc["createdAt"] = now
		doc["updatedAt"] = now

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var insertedID primitive.ObjectID
		inserted := false
		for attempt := 0; attempt < 3 && !inserted; attempt++ {
			doc["uniqueBookingId"] = newBookingID()
			result, err := a.DB.Collection(res.collection).InsertOne(ctx, doc)
			if err != nil {
				if mongo.IsDuplicateKeyError(err) {
					continue
				}
				a.Log.Error("booking insert failed", zap.String("kind", res.kind), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			insertedID, _ = result.InsertedID.(primitive.ObjectID)
			inserted = true
		}
		if !inserted {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not allocate booking id"})
			return
		}

		doc["_id"] = insertedID
		a.Metrics.BookingsCreated.WithLabelValues(res.kind).Inc()

		entry := audit.FromCaller(caller, res.kind+".create", res.targetType, insertedID.Hex())
		entry.IP = c.ClientIP()
		entry.UserAgent = c.Request.UserAgent()
		_ = a.Audit.Record(c.Request.Context(), entry)

		c.JSON(http.StatusCreated, gin.H{
			"message": "Booking created successfully",
			"data":    doc,
		})
	}
}

func (a *App) listBookings(res bookingResource) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := requireCaller(c)
		if !ok {
			return
		}

		page, limit, err := parsePaginationParams(
			c.Query("currentPage"),
			c.Query("limit"),
			res.defaultLimit,
		)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		filter := scope.SharedListFilter(caller)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		collection := a.DB.Collection(res.collection)
		total, err := collection.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := collection.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		docs := make([]bson.M, 0, limit)
		if err := cursor.All(ctx, &docs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":     "All bookings fetched successfully",
			"totalLeads":  total,
			"currentPage": page,
			"totalPages":  totalPages(total, limit),
			"data":        docs,
		})
	}
}

func (a *App) getBooking(res bookingResource) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := requireCaller(c)
		if !ok {
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var doc bson.M
		if err := a.DB.Collection(res.collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if !scope.CanModify(caller, models.DecodeOwnership(doc)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to view this booking"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Booking fetched successfully",
			"data":    doc,
		})
	}
}

// updateBooking merges the flattened payload into the lead. When the update
// touches a financial field the merged document moves to the sales
// collection and the lead is removed, both inside one transaction, so a
// booking is never a lead and a sale at the same time.
func (a *App) updateBooking(res bookingResource) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := requireCaller(c)
		if !ok {
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
			return
		}

		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		updateFields := flattenObject(body)
		stripImmutableFields(updateFields)
		if len(updateFields) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}
		updateFields["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		collection := a.DB.Collection(res.collection)

		var existing bson.M
		if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if !scope.CanModify(caller, models.DecodeOwnership(existing)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to update this booking"})
			return
		}

		if !hasFinancialField(updateFields) {
			var updated bson.M
			err := collection.FindOneAndUpdate(ctx,
				bson.M{"_id": id},
				bson.M{"$set": updateFields},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).Decode(&updated)
			if err != nil {
				if err == mongo.ErrNoDocuments {
					c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
				return
			}

			entry := audit.FromCaller(caller, res.kind+".updateData", res.targetType, id.Hex())
			entry.IP = c.ClientIP()
			entry.UserAgent = c.Request.UserAgent()
			_ = a.Audit.Record(c.Request.Context(), entry)

			c.JSON(http.StatusOK, gin.H{
				"message": "Booking updated successfully",
				"data":    updated,
			})
			return
		}

		sale, err := a.convertLeadToSale(ctx, collection, id, updateFields, caller)
		if err != nil {
			a.Log.Error("lead conversion failed",
				zap.String("kind", res.kind),
				zap.String("id", id.Hex()),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		a.Metrics.LeadsConverted.Inc()

		entry := audit.FromCaller(caller, "lead.convertToSale", res.targetType, id.Hex())
		entry.IP = c.ClientIP()
		entry.UserAgent = c.Request.UserAgent()
		entry.Meta = bson.M{"saleId": sale["_id"], "uniqueBookingId": sale["uniqueBookingId"]}
		_ = a.Audit.Record(c.Request.Context(), entry)

		c.JSON(http.StatusOK, gin.H{
			"message": "Booking closed as sale",
			"data":    sale,
		})
	}
}

// convertLeadToSale applies the merge, copies the merged document into the
// sales collection and deletes the lead, all in one multi-document
// transaction.
func (a *App) convertLeadToSale(ctx context.Context, leads *mongo.Collection, id primitive.ObjectID, updateFields bson.M, caller scope.Caller) (bson.M, error) {
	session, err := a.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var merged bson.M
		err := leads.FindOneAndUpdate(sc,
			bson.M{"_id": id},
			bson.M{"$set": updateFields},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&merged)
		if err != nil {
			return nil, err
		}

		sale := make(bson.M, len(merged)+3)
		for key, value := range merged {
			sale[key] = value
		}
		delete(sale, "_id")
		sale["bookingId"] = id
		sale["updatedBy"] = caller.ID
		sale["convertedAt"] = time.Now()

		insertResult, err := a.DB.Collection("sales").InsertOne(sc, sale)
		if err != nil {
			return nil, err
		}
		sale["_id"] = insertResult.InsertedID

		if _, err := leads.DeleteOne(sc, bson.M{"_id": id}); err != nil {
			return nil, err
		}
		return sale, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(bson.M), nil
}

func (a *App) deleteBooking(res bookingResource) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := requireCaller(c)
		if !ok {
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		collection := a.DB.Collection(res.collection)

		var existing bson.M
		if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if !scope.CanModify(caller, models.DecodeOwnership(existing)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to delete this booking"})
			return
		}

		if _, err := collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		entry := audit.FromCaller(caller, res.kind+".delete", res.targetType, id.Hex())
		entry.IP = c.ClientIP()
		entry.UserAgent = c.Request.UserAgent()
		entry.Meta = bson.M{"snapshot": existing}
		_ = a.Audit.Record(c.Request.Context(), entry)

		c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
	}
}
