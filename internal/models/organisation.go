package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Billing struct {
	PlanID string `bson:"planId,omitempty" json:"planId,omitempty"`
	Cycle  string `bson:"cycle,omitempty" json:"cycle,omitempty"` // monthly | annual
}

type Address struct {
	Line1   string `bson:"line1,omitempty" json:"line1,omitempty"`
	Line2   string `bson:"line2,omitempty" json:"line2,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	Pincode string `bson:"pincode,omitempty" json:"pincode,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

// Organisation is the tenant boundary; every other document carries its id.
type Organisation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyName string             `bson:"companyName" json:"companyName"`
	Industry    string             `bson:"industry,omitempty" json:"industry,omitempty"`
	AdminEmail  string             `bson:"adminEmail" json:"adminEmail"`
	AdminPhone  string             `bson:"adminPhone,omitempty" json:"adminPhone,omitempty"`
	Billing     Billing            `bson:"billing,omitempty" json:"billing,omitempty"`
	Address     Address            `bson:"address,omitempty" json:"address,omitempty"`
	LogoURL     string             `bson:"logoUrl,omitempty" json:"logoUrl,omitempty"`
	GSTNumber   string             `bson:"gstNumber,omitempty" json:"gstNumber,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
