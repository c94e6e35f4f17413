package model

import "time"

type Region struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Slug      string    `json:"slug" bson:"slug" validate:"required,min=2,max=100,lowercase"`
	IsActive  bool      `json:"is_active" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type RegionUpdate struct {
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Slug     string `json:"slug,omitempty" validate:"omitempty,min=2,max=100,lowercase"`
	IsActive *bool  `json:"is_active,omitempty" validate:"omitempty"`
}

type AutoService struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RegionID    string    `json:"region_id" bson:"region_id" validate:"required,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Slug        string    `json:"slug" bson:"slug" validate:"required,min=2,max=100,lowercase"`
	Address     string    `json:"address" bson:"address" validate:"required,min=2,max=200"`
	Phone       string    `json:"phone" bson:"phone" validate:"required,e164"`
	Email       string    `json:"email,omitempty" bson:"email" validate:"omitempty,email"`
	Description string    `json:"description,omitempty" bson:"description" validate:"omitempty,max=2000"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type AutoServiceUpdate struct {
	RegionID    string  `json:"region_id,omitempty" validate:"omitempty,mongodb"`
	Name        string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Slug        string  `json:"slug,omitempty" validate:"omitempty,min=2,max=100,lowercase"`
	Address     string  `json:"address,omitempty" validate:"omitempty,min=2,max=200"`
	Phone       string  `json:"phone,omitempty" validate:"omitempty,e164"`
	Email       string  `json:"email,omitempty" validate:"omitempty,email"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active,omitempty" validate:"omitempty"`
}

type Master struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AutoServiceID  string    `json:"auto_service_id" bson:"auto_service_id" validate:"required,mongodb"`
	FullName       string    `json:"full_name" bson:"full_name" validate:"required,min=2,max=150"`
	Phone          string    `json:"phone" bson:"phone" validate:"required,e164"`
	Specialization string    `json:"specialization,omitempty" bson:"specialization" validate:"omitempty,max=200"`
	IsActive       bool      `json:"is_active" bson:"is_active"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type MasterUpdate struct {
	AutoServiceID  string  `json:"auto_service_id,omitempty" validate:"omitempty,mongodb"`
	FullName       string  `json:"full_name,omitempty" validate:"omitempty,min=2,max=150"`
	Phone          string  `json:"phone,omitempty" validate:"omitempty,e164"`
	Specialization *string `json:"specialization,omitempty" validate:"omitempty,max=200"`
	IsActive       *bool   `json:"is_active,omitempty" validate:"omitempty"`
}
