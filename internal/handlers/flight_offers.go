package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"backend/internal/audit"
	"backend/internal/models"
	"backend/internal/scope"
)

const flightOffersCollection = "flight_offers"

var (
	errInvalidOfferID = errors.New("invalid offer id")
	errOfferNotFound  = errors.New("offer not found")
	errOfferForbidden = errors.New("not allowed to access this offer")
)

type searchFlightOffersRequest struct {
	Origin        string `json:"origin" binding:"required,len=3"`
	Destination   string `json:"destination" binding:"required,len=3"`
	DepartureDate string `json:"departureDate" binding:"required"`
	ReturnDate    string `json:"returnDate"`
	Adults        int    `json:"adults"`
	Max           int    `json:"max"`
}

// SearchFlightOffers runs an availability search against the provider and
// keeps the best offer (itinerary, price, raw payload) for later pricing
// and booking.
func (a *App) SearchFlightOffers(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req searchFlightOffersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	if req.Adults < 1 {
		req.Adults = 1
	}
	if req.Max < 1 {
		req.Max = 5
	}

	params := url.Values{
		"originLocationCode":      {req.Origin},
		"destinationLocationCode": {req.Destination},
		"departureDate":           {req.DepartureDate},
		"adults":                  {strconv.Itoa(req.Adults)},
		"max":                     {strconv.Itoa(req.Max)},
	}
	if req.ReturnDate != "" {
		params.Set("returnDate", req.ReturnDate)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	var results struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := a.Flights.Get(ctx, "/v2/shopping/flight-offers", params, &results); err != nil {
		a.Log.Error("flight search failed",
			zap.String("origin", req.Origin),
			zap.String("destination", req.Destination),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if len(results.Data) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no offers found for this route"})
		return
	}

	best := results.Data[0]
	now := time.Now()
	offer := models.FlightOffer{
		OfferID:        stringField(best, "id"),
		Itinerary:      decodeSegments(best),
		Price:          decodePrice(best),
		RawResponse:    bson.M(best),
		Status:         models.OfferStatusSearched,
		UserID:         caller.ID,
		AdminID:        scope.EffectiveAdminID(caller),
		OrganisationID: caller.OrganisationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	result, err := a.DB.Collection(flightOffersCollection).InsertOne(ctx, offer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	offer.ID = result.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Flight offer saved",
		"data":       offer,
		"totalFound": len(results.Data),
	})
}

// ListFlightOffers pages saved offers under the caller's scope.
func (a *App) ListFlightOffers(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	page, limit, err := parsePaginationParams(c.Query("currentPage"), c.Query("limit"), 10)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := scope.ListFilter(caller)
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	collection := a.DB.Collection(flightOffersCollection)
	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"rawResponse": 0})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	defer cursor.Close(ctx)

	offers := make([]models.FlightOffer, 0, limit)
	if err := cursor.All(ctx, &offers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Flight offers fetched successfully",
		"totalOffers": total,
		"currentPage": page,
		"totalPages":  totalPages(total, limit),
		"data":        offers,
	})
}

// GetFlightOffer fetches one saved offer after an ownership check.
func (a *App) GetFlightOffer(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	offer, status, err := a.loadOffer(c, caller)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Flight offer fetched successfully",
		"data":    offer,
	})
}

// PriceFlightOffer re-prices a saved offer against the provider and moves
// it to PRICED with the confirmed fare.
func (a *App) PriceFlightOffer(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	offer, status, err := a.loadOffer(c, caller)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	payload := gin.H{
		"data": gin.H{
			"type":         "flight-offers-pricing",
			"flightOffers": []interface{}{offer.RawResponse},
		},
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	var priced struct {
		Data struct {
			FlightOffers []map[string]interface{} `json:"flightOffers"`
		} `json:"data"`
	}
	if err := a.Flights.Post(ctx, "/v1/shopping/flight-offers/pricing", payload, &priced); err != nil {
		a.Log.Error("offer pricing failed", zap.String("offerId", offer.OfferID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if len(priced.Data.FlightOffers) == 0 {
		c.JSON(http.StatusBadGateway, gin.H{"error": "provider returned no priced offers"})
		return
	}

	confirmed := priced.Data.FlightOffers[0]
	set := bson.M{
		"status":      models.OfferStatusPriced,
		"rawResponse": confirmed,
		"price":       decodePrice(confirmed),
		"updatedAt":   time.Now(),
	}

	var updated models.FlightOffer
	err = a.DB.Collection(flightOffersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": offer.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Flight offer priced successfully",
		"data":    updated,
	})
}

type bookFlightOfferRequest struct {
	Travelers []models.Traveler `json:"travelers" binding:"required,min=1,dive"`
}

// BookFlightOffer places the order with the provider and stores the PNR.
// Only priced offers may be booked.
func (a *App) BookFlightOffer(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req bookFlightOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	offer, status, err := a.loadOffer(c, caller)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if offer.Status != models.OfferStatusPriced {
		c.JSON(http.StatusConflict, gin.H{"error": "offer must be priced before booking"})
		return
	}

	travelers := make([]gin.H, 0, len(req.Travelers))
	for _, t := range req.Travelers {
		traveler := gin.H{
			"id": t.TravelerID,
			"name": gin.H{
				"firstName": t.FirstName,
				"lastName":  t.LastName,
			},
		}
		if t.DateOfBirth != "" {
			traveler["dateOfBirth"] = t.DateOfBirth
		}
		if t.Gender != "" {
			traveler["gender"] = t.Gender
		}
		if t.Email != "" || t.Phone != "" {
			traveler["contact"] = gin.H{"emailAddress": t.Email, "phone": t.Phone}
		}
		travelers = append(travelers, traveler)
	}

	payload := gin.H{
		"data": gin.H{
			"type":         "flight-order",
			"flightOffers": []interface{}{offer.RawResponse},
			"travelers":    travelers,
		},
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	var order struct {
		Data struct {
			ID                string `json:"id"`
			AssociatedRecords []struct {
				Reference string `json:"reference"`
			} `json:"associatedRecords"`
		} `json:"data"`
	}
	if err := a.Flights.Post(ctx, "/v1/booking/flight-orders", payload, &order); err != nil {
		a.Log.Error("flight order failed", zap.String("offerId", offer.OfferID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	pnr := ""
	if len(order.Data.AssociatedRecords) > 0 {
		pnr = order.Data.AssociatedRecords[0].Reference
	}

	var updated models.FlightOffer
	err = a.DB.Collection(flightOffersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": offer.ID},
		bson.M{"$set": bson.M{
			"status":    models.OfferStatusConfirmed,
			"orderId":   order.Data.ID,
			"pnr":       pnr,
			"travelers": req.Travelers,
			"updatedAt": time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	entry := audit.FromCaller(caller, "flightOffer.book", "FlightOffer", offer.ID.Hex())
	entry.IP = c.ClientIP()
	entry.UserAgent = c.Request.UserAgent()
	entry.Meta = bson.M{"orderId": order.Data.ID, "pnr": pnr}
	_ = a.Audit.Record(c.Request.Context(), entry)

	c.JSON(http.StatusOK, gin.H{
		"message": "Flight booked successfully",
		"data":    updated,
	})
}

// loadOffer fetches the offer in the :id param and runs the ownership
// check, returning an HTTP status on failure.
func (a *App) loadOffer(c *gin.Context, caller scope.Caller) (models.FlightOffer, int, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return models.FlightOffer{}, http.StatusBadRequest, errInvalidOfferID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var offer models.FlightOffer
	if err := a.DB.Collection(flightOffersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&offer); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.FlightOffer{}, http.StatusNotFound, errOfferNotFound
		}
		return models.FlightOffer{}, http.StatusInternalServerError, err
	}

	own := models.Ownership{
		UserID:         offer.UserID,
		AdminID:        offer.AdminID,
		OrganisationID: offer.OrganisationID,
	}
	if !scope.CanModify(caller, own) {
		return models.FlightOffer{}, http.StatusForbidden, errOfferForbidden
	}
	return offer, http.StatusOK, nil
}

// decodeSegments flattens the provider's itineraries[].segments[] arrays
// into the stored itinerary.
func decodeSegments(offer map[string]interface{}) []models.FlightSegment {
	var segments []models.FlightSegment

	itineraries, _ := offer["itineraries"].([]interface{})
	for _, rawItinerary := range itineraries {
		itinerary, ok := rawItinerary.(map[string]interface{})
		if !ok {
			continue
		}
		rawSegments, _ := itinerary["segments"].([]interface{})
		for _, rawSegment := range rawSegments {
			segment, ok := rawSegment.(map[string]interface{})
			if !ok {
				continue
			}
			s := models.FlightSegment{
				Airline:      stringField(segment, "carrierCode"),
				FlightNumber: stringField(segment, "number"),
				Duration:     stringField(segment, "duration"),
			}
			if departure, ok := segment["departure"].(map[string]interface{}); ok {
				s.Origin = stringField(departure, "iataCode")
				s.DepartureTime = stringField(departure, "at")
			}
			if arrival, ok := segment["arrival"].(map[string]interface{}); ok {
				s.Destination = stringField(arrival, "iataCode")
				s.ArrivalTime = stringField(arrival, "at")
			}
			segments = append(segments, s)
		}
	}
	return segments
}

func decodePrice(offer map[string]interface{}) models.OfferPrice {
	price, _ := offer["price"].(map[string]interface{})
	out := models.OfferPrice{
		Currency: stringField(price, "currency"),
		Total:    stringField(price, "total"),
		Base:     stringField(price, "base"),
	}
	if out.Total == "" {
		out.Total = stringField(price, "grandTotal")
	}
	return out
}

func stringField(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	value, _ := m[key].(string)
	return value
}
