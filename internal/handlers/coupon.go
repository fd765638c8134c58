package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/audit"
	"backend/internal/models"
	"backend/internal/scope"
)

const couponDefaultLimit = 10

// CreateCoupon stores a discount coupon under the caller's ownership.
// Coupons are schemaless beyond the stamped ownership fields.
func (a *App) CreateCoupon(c *gin.Context) {
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
	doc["organisationId"] = caller.OrganisationID
	doc["adminId"] = scope.EffectiveAdminID(caller)
	doc["userId"] = caller.ID
	doc["createdAt"] = now
	doc["updatedAt"] = now

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := a.DB.Collection("coupons").InsertOne(ctx, doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	doc["_id"] = result.InsertedID

	entry := audit.FromCaller(caller, "coupon.create", "Coupon", result.InsertedID.(primitive.ObjectID).Hex())
	entry.IP = c.ClientIP()
	entry.UserAgent = c.Request.UserAgent()
	_ = a.Audit.Record(c.Request.Context(), entry)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Coupon created successfully",
		"data":    doc,
	})
}

// ListCoupons pages coupons visible to the caller, including those shared
// by their admin.
func (a *App) ListCoupons(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	page, limit, err := parsePaginationParams(c.Query("currentPage"), c.Query("limit"), couponDefaultLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := scope.SharedListFilter(caller)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	collection := a.DB.Collection("coupons")
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
		"message":      "Coupons fetched successfully",
		"totalCoupons": total,
		"currentPage":  page,
		"totalPages":   totalPages(total, limit),
		"data":         docs,
	})
}

// GetCoupon fetches one coupon after an ownership check.
func (a *App) GetCoupon(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var doc bson.M
	if err := a.DB.Collection("coupons").FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	if !scope.CanModify(caller, models.DecodeOwnership(doc)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to view this coupon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon fetched successfully",
		"data":    doc,
	})
}

// UpdateCoupon merges a flattened payload into a coupon.
func (a *App) UpdateCoupon(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon id"})
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

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	collection := a.DB.Collection("coupons")

	var existing bson.M
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if !scope.CanModify(caller, models.DecodeOwnership(existing)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to update this coupon"})
		return
	}

	var updated bson.M
	err = collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": updateFields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	entry := audit.FromCaller(caller, "coupon.update", "Coupon", id.Hex())
	entry.IP = c.ClientIP()
	entry.UserAgent = c.Request.UserAgent()
	_ = a.Audit.Record(c.Request.Context(), entry)

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon updated successfully",
		"data":    updated,
	})
}

// DeleteCoupon removes a coupon after an ownership check.
func (a *App) DeleteCoupon(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	collection := a.DB.Collection("coupons")

	var existing bson.M
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if !scope.CanModify(caller, models.DecodeOwnership(existing)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to delete this coupon"})
		return
	}

	if _, err := collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	entry := audit.FromCaller(caller, "coupon.delete", "Coupon", id.Hex())
	entry.IP = c.ClientIP()
	entry.UserAgent = c.Request.UserAgent()
	entry.Meta = bson.M{"snapshot": existing}
	_ = a.Audit.Record(c.Request.Context(), entry)

	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted successfully"})
}
