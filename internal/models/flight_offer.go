package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FlightSegment struct {
	Airline       string `bson:"airline" json:"airline"`
	FlightNumber  string `bson:"flightNumber" json:"flightNumber"`
	Origin        string `bson:"origin" json:"origin"`
	Destination   string `bson:"destination" json:"destination"`
	DepartureTime string `bson:"departureTime" json:"departureTime"`
	ArrivalTime   string `bson:"arrivalTime" json:"arrivalTime"`
	Duration      string `bson:"duration,omitempty" json:"duration,omitempty"`
}

type OfferPrice struct {
	Currency string `bson:"currency" json:"currency"`
	Total    string `bson:"total" json:"total"`
	Base     string `bson:"base,omitempty" json:"base,omitempty"`
	Taxes    string `bson:"taxes,omitempty" json:"taxes,omitempty"`
}

type Traveler struct {
	TravelerID     string `bson:"travelerId" json:"travelerId"`
	FirstName      string `bson:"firstName" json:"firstName"`
	LastName       string `bson:"lastName" json:"lastName"`
	DateOfBirth    string `bson:"dob,omitempty" json:"dob,omitempty"`
	Gender         string `bson:"gender,omitempty" json:"gender,omitempty"`
	Email          string `bson:"email,omitempty" json:"email,omitempty"`
	Phone          string `bson:"phone,omitempty" json:"phone,omitempty"`
	PassportNumber string `bson:"passportNumber,omitempty" json:"passportNumber,omitempty"`
	PassportExpiry string `bson:"passportExpiry,omitempty" json:"passportExpiry,omitempty"`
	Nationality    string `bson:"nationality,omitempty" json:"nationality,omitempty"`
}

// FlightOffer tracks an offer through the external flight API:
// SEARCHED -> PRICED -> CONFIRMED.
type FlightOffer struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SearchID       string             `bson:"searchId,omitempty" json:"searchId,omitempty"`
	OfferID        string             `bson:"offerId,omitempty" json:"offerId,omitempty"`
	OrderID        string             `bson:"orderId,omitempty" json:"orderId,omitempty"`
	PNR            string             `bson:"pnr,omitempty" json:"pnr,omitempty"`
	Itinerary      []FlightSegment    `bson:"itinerary" json:"itinerary"`
	Price          OfferPrice         `bson:"price" json:"price"`
	Travelers      []Traveler         `bson:"travelers,omitempty" json:"travelers,omitempty"`
	RawResponse    bson.M             `bson:"rawResponse,omitempty" json:"-"`
	Status         string             `bson:"status" json:"status"`
	UserID         primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	AdminID        primitive.ObjectID `bson:"adminId,omitempty" json:"adminId,omitempty"`
	OrganisationID primitive.ObjectID `bson:"organisationId,omitempty" json:"organisationId,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	OfferStatusSearched  = "SEARCHED"
	OfferStatusPriced    = "PRICED"
	OfferStatusConfirmed = "CONFIRMED"
)
