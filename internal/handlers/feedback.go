package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// TriggerFeedbackEmails runs the feedback sweep on demand instead of
// waiting for the next scheduled run.
func (a *App) TriggerFeedbackEmails(c *gin.Context) {
	if _, ok := requireCaller(c); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	summary, err := a.Feedback.Run(ctx)
	if err != nil {
		a.Log.Error("feedback sweep failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Feedback emails processed",
		"summary": summary,
	})
}

type submitFeedbackRequest struct {
	Rating      int    `json:"rating" binding:"required,min=1,max=5"`
	Comments    string `json:"comments"`
	Suggestions string `json:"suggestions"`
}

// SubmitFeedback records a traveler's response. The route is reached from
// the emailed link, so it carries no auth; the booking reference is the
// only key.
func (a *App) SubmitFeedback(c *gin.Context) {
	bookingID := c.Param("bookingId")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing booking id"})
		return
	}

	var req submitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	now := time.Now()
	update := bson.M{"$set": bson.M{
		"feedbackReceived":   true,
		"feedbackReceivedAt": now,
		"feedbackData": bson.M{
			"rating":      req.Rating,
			"comments":    req.Comments,
			"suggestions": req.Suggestions,
			"submittedAt": now,
		},
	}}

	var updated bson.M
	err := a.DB.Collection("sales").FindOneAndUpdate(ctx,
		bson.M{"uniqueBookingId": bookingID},
		update,
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

	c.JSON(http.StatusOK, gin.H{"message": "Thank you for your feedback!"})
}
