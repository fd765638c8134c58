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

const salesDefaultLimit = 20

// ListSales pages through closed sales under the caller's scope.
func (a *App) ListSales(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	page, limit, err := parsePaginationParams(c.Query("currentPage"), c.Query("limit"), salesDefaultLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := scope.SharedListFilter(caller)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	collection := a.DB.Collection("sales")
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
		"message":     "Sales fetched successfully",
		"totalSales":  total,
		"currentPage": page,
		"totalPages":  totalPages(total, limit),
		"salesData":   docs,
	})
}

// GetSale fetches one sale after an ownership check.
func (a *App) GetSale(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sale id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var doc bson.M
	if err := a.DB.Collection("sales").FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "sale not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	if !scope.CanModify(caller, models.DecodeOwnership(doc)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to view this sale"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sale fetched successfully",
		"data":    doc,
	})
}

// UpdateSale merges a flattened payload into a sale. Sales never convert
// back into leads, so financial fields update in place here.
func (a *App) UpdateSale(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sale id"})
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
	updateFields["updatedBy"] = caller.ID

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	collection := a.DB.Collection("sales")

	var existing bson.M
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "sale not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if !scope.CanModify(caller, models.DecodeOwnership(existing)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to update this sale"})
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

	entry := audit.FromCaller(caller, "sale.updateData", "Sale", id.Hex())
	entry.IP = c.ClientIP()
	entry.UserAgent = c.Request.UserAgent()
	_ = a.Audit.Record(c.Request.Context(), entry)

	c.JSON(http.StatusOK, gin.H{
		"message": "Sale updated successfully",
		"data":    updated,
	})
}

// DeleteSale removes a sale record. Admin only.
func (a *App) DeleteSale(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sale id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	collection := a.DB.Collection("sales")

	var existing bson.M
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "sale not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if !scope.CanModify(caller, models.DecodeOwnership(existing)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to delete this sale"})
		return
	}

	if _, err := collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	entry := audit.FromCaller(caller, "sale.delete", "Sale", id.Hex())
	entry.IP = c.ClientIP()
	entry.UserAgent = c.Request.UserAgent()
	entry.Meta = bson.M{"snapshot": existing}
	_ = a.Audit.Record(c.Request.Context(), entry)

	c.JSON(http.StatusOK, gin.H{"message": "Sale deleted successfully"})
}
