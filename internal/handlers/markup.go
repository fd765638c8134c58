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

const markupDefaultLimit = 10

// CreateMarkup stores a pricing markup rule under the caller's ownership.
func (a *App) CreateMarkup(c *gin.Context) {
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

	result, err := a.DB.Collection("markups").InsertOne(ctx, doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	doc["_id"] = result.InsertedID

	entry := audit.FromCaller(caller, "markup.create", "Markup", result.InsertedID.(primitive.ObjectID).Hex())
	entry.IP = c.ClientIP()
	entry.UserAgent = c.Request.UserAgent()
	_ = a.Audit.Record(c.Request.Context(), entry)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Markup created successfully",
		"data":    doc,
	})
}

// ListMarkups pages markup rules: admins see the whole organisation's
// rules, users only their own.
func (a *App) ListMarkups(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	page, limit, err := parsePaginationParams(c.Query("currentPage"), c.Query("limit"), markupDefaultLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := scope.ListFilter(caller)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	collection := a.DB.Collection("markups")
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
		"message":      "Markups fetched successfully",
		"totalMarkups": total,
		"currentPage":  page,
		"totalPages":   totalPages(total, limit),
		"data":         docs,
	})
}

// GetMarkup fetches one markup rule after an ownership check.
func (a *App) GetMarkup(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid markup id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var doc bson.M
	if err := a.DB.Collection("markups").FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "markup not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	if !scope.CanModify(caller, models.DecodeOwnership(doc)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to view this markup"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Markup fetched successfully",
		"data":    doc,
	})
}

// UpdateMarkup merges a flattened payload into a markup rule.
func (a *App) UpdateMarkup(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid markup id"})
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

	collection := a.DB.Collection("markups")

	var existing bson.M
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "markup not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if !scope.CanModify(caller, models.DecodeOwnership(existing)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to update this markup"})
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

	entry := audit.FromCaller(caller, "markup.update", "Markup", id.Hex())
	entry.IP = c.ClientIP()
	entry.UserAgent = c.Request.UserAgent()
	_ = a.Audit.Record(c.Request.Context(), entry)

	c.JSON(http.StatusOK, gin.H{
		"message": "Markup updated successfully",
		"data":    updated,
	})
}

// DeleteMarkup removes a markup rule after an ownership check.
func (a *App) DeleteMarkup(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid markup id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	collection := a.DB.Collection("markups")

	var existing bson.M
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "markup not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if !scope.CanModify(caller, models.DecodeOwnership(existing)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to delete this markup"})
		return
	}

	if _, err := collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	entry := audit.FromCaller(caller, "markup.delete", "Markup", id.Hex())
	entry.IP = c.ClientIP()
	entry.UserAgent = c.Request.UserAgent()
	entry.Meta = bson.M{"snapshot": existing}
	_ = a.Audit.Record(c.Request.Context(), entry)

	c.JSON(http.StatusOK, gin.H{"message": "Markup deleted successfully"})
}
