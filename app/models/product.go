package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductCollection is the MongoDB collection products are stored in.
const ProductCollection = "products"

// Unit is the measure a product's quantity is counted in.
type Unit string

const (
	UnitKg    Unit = "kg"
	UnitLitre Unit = "litre"
	UnitPcs   Unit = "pcs"
)

// Status is the stock state of a product.
type Status string

const (
	StatusInStock      Status = "in-stock"
	StatusOutOfStock   Status = "out-of-stock"
	StatusDiscontinued Status = "discontinued"
)

// Product is a stored product document.
type Product struct {
	ID          primitive.ObjectID `json:"_id"              bson:"_id"`
	Name        string             `json:"name"             bson:"name"`
	Description string             `json:"description"      bson:"description"`
	Price       float64            `json:"price"            bson:"price"`
	Unit        Unit               `json:"unit"             bson:"unit"`
	Quantity    int64              `json:"quantity"         bson:"quantity"`
	Status      Status             `json:"status,omitempty" bson:"status,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"        bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"        bson:"updatedAt"`
}

// ProductInput is an untrusted create request. Pointers tell an absent field
// apart from a zero value; quantity is a float so fractional input can be
// rejected instead of silently truncated. Quantities stop at 2^53-1, the
// largest whole number a float64 holds exactly.
type ProductInput struct {
	Name        *string  `json:"name"        validate:"required,min=3,max=100" msg:"required=Please provide a name for this product;min=name must be at least 3 characters;max=Name is too large"`
	Description *string  `json:"description" validate:"present"`
	Price       *float64 `json:"price"       validate:"required,gte=0" msg:"gte=price can't be negative"`
	Unit        *string  `json:"unit"        validate:"required,in=kg,litre,pcs" msg:"in=unit value can't be {VALUE}, must be kg/litre/pcs"`
	Quantity    *float64 `json:"quantity"    validate:"required,gte=0,integer,lte=9007199254740991" msg:"gte=quantity can't be negative;integer=Quantity must be an integer;lte=quantity is too large"`
	Status      *string  `json:"status"      validate:"nullable,in=in-stock,out-of-stock,discontinued" msg:"in=status can't be {VALUE}"`
}

// EventProductSaved is fired with a Product value after a successful insert.
const EventProductSaved = "product.saved"
