package models

import "time"

type Property struct {
	ID          string    `json:"id" bson:"propertyId"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Location    string    `json:"location" bson:"location"`
	Price       float64   `json:"price" bson:"price"`
	CreatedAt   time.Time `json:"created_at" bson:"createdAt"`
}
