package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginRecord is one entry in a user's login history.
type LoginRecord struct {
	LoginAt   time.Time `bson:"loginAt" json:"loginAt"`
	IP        string    `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent string    `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
}

// User is an account inside an organisation: either the organisation's admin
// or a sub-user created by that admin (adminId points back at the creator).
type User struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name           string              `bson:"name" json:"name"`
	EmpUsername    string              `bson:"EmpUsername,omitempty" json:"EmpUsername,omitempty"`
	Email          string              `bson:"email" json:"email"`
	Phone          string              `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash   string              `bson:"password" json:"-"`
	Role           string              `bson:"role" json:"role"`
	Permissions    map[string]bool     `bson:"permissions,omitempty" json:"permissions,omitempty"`
	OrganisationID primitive.ObjectID  `bson:"organisationId,omitempty" json:"organisationId,omitempty"`
	AdminID        *primitive.ObjectID `bson:"adminId,omitempty" json:"adminId,omitempty"`
	IsActive       bool                `bson:"isActive" json:"isActive"`
	LastLogin      *time.Time          `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	LoginHistory   []LoginRecord       `bson:"loginHistory,omitempty" json:"loginHistory,omitempty"`

	ResetPasswordToken   string     `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpires *time.Time `bson:"resetPasswordExpires,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
