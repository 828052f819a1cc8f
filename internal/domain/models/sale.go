package models

import (
	"fmt"
	"strings"
	"time"
)

// PaymentMethod is how the buyer settled the sale.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCheck    PaymentMethod = "check"
	PaymentCard     PaymentMethod = "card"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentCheck, PaymentCard:
		return true
	}
	return false
}

// Label returns the human label used in exports.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Efectivo"
	case PaymentTransfer:
		return "Transferencia"
	case PaymentCheck:
		return "Cheque"
	case PaymentCard:
		return "Tarjeta"
	}
	return string(m)
}

// DeliveryMethod is how the animal leaves the farm.
type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryDelivery DeliveryMethod = "delivery"
)

// Valid reports whether m is a supported delivery method.
func (m DeliveryMethod) Valid() bool {
	return m == DeliveryPickup || m == DeliveryDelivery
}

// Label returns the human label used in exports.
func (m DeliveryMethod) Label() string {
	switch m {
	case DeliveryPickup:
		return "Retiro en finca"
	case DeliveryDelivery:
		return "Entrega a domicilio"
	}
	return string(m)
}

// Sale is an immutable record of a closed transaction against one listing.
// Product fields are copied from the listing at sale time.
type Sale struct {
	ID          string   `bson:"_id" json:"id"`
	ProductID   string   `bson:"productId" json:"productId"`
	ProductName string   `bson:"productName" json:"productName"`
	Breed       string   `bson:"breed,omitempty" json:"breed,omitempty"`
	Weight      float64  `bson:"weight,omitempty" json:"weight,omitempty"`
	Images      []string `bson:"images" json:"images"`

	BuyerName    string `bson:"buyerName" json:"buyerName"`
	BuyerPhone   string `bson:"buyerPhone" json:"buyerPhone"`
	BuyerEmail   string `bson:"buyerEmail,omitempty" json:"buyerEmail,omitempty"`
	BuyerAddress string `bson:"buyerAddress,omitempty" json:"buyerAddress,omitempty"`

	SaleDate        time.Time      `bson:"saleDate" json:"saleDate"`
	SalePrice       float64        `bson:"salePrice" json:"salePrice"`
	PaymentMethod   PaymentMethod  `bson:"paymentMethod" json:"paymentMethod"`
	DeliveryMethod  DeliveryMethod `bson:"deliveryMethod" json:"deliveryMethod"`
	DeliveryDate    *time.Time     `bson:"deliveryDate,omitempty" json:"deliveryDate,omitempty"`
	DeliveryAddress string         `bson:"deliveryAddress,omitempty" json:"deliveryAddress,omitempty"`
	Observations    string         `bson:"observations,omitempty" json:"observations,omitempty"`

	SellerName    string `bson:"sellerName" json:"sellerName"`
	SellerContact string `bson:"sellerContact,omitempty" json:"sellerContact,omitempty"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// ShortID returns the trailing part of the identity used in exports.
func (s Sale) ShortID() string {
	const n = 8
	if len(s.ID) <= n {
		return s.ID
	}
	return s.ID[len(s.ID)-n:]
}

// SaleInput is the owner-submitted sale form.
type SaleInput struct {
	ProductID       string         `json:"productId"`
	BuyerName       string         `json:"buyerName"`
	BuyerPhone      string         `json:"buyerPhone"`
	BuyerEmail      string         `json:"buyerEmail"`
	BuyerAddress    string         `json:"buyerAddress"`
	SaleDate        string         `json:"saleDate"`
	SalePrice       *float64       `json:"salePrice"`
	PaymentMethod   PaymentMethod  `json:"paymentMethod"`
	DeliveryMethod  DeliveryMethod `json:"deliveryMethod"`
	DeliveryDate    string         `json:"deliveryDate,omitempty"`
	DeliveryAddress string         `json:"deliveryAddress,omitempty"`
	Observations    string         `json:"observations"`
	SellerName      string         `json:"sellerName,omitempty"`
	SellerContact   string         `json:"sellerContact,omitempty"`
}

// Validate checks the mandatory sale fields. Delivery date and address are
// only required for home delivery.
func (in SaleInput) Validate() error {
	switch {
	case strings.TrimSpace(in.ProductID) == "":
		return NewValidationError("productId", "is required")
	case strings.TrimSpace(in.BuyerName) == "":
		return NewValidationError("buyerName", "is required")
	case strings.TrimSpace(in.BuyerPhone) == "":
		return NewValidationError("buyerPhone", "is required")
	case strings.TrimSpace(in.SaleDate) == "":
		return NewValidationError("saleDate", "is required")
	case in.SalePrice == nil:
		return NewValidationError("salePrice", "is required")
	case *in.SalePrice < 0:
		return NewValidationError("salePrice", "must not be negative")
	case !in.PaymentMethod.Valid():
		return NewValidationError("paymentMethod", "must be one of cash, transfer, check, card")
	case !in.DeliveryMethod.Valid():
		return NewValidationError("deliveryMethod", "must be pickup or delivery")
	}

	if _, err := ParseDay(in.SaleDate, time.UTC); err != nil {
		return NewValidationError("saleDate", err.Error())
	}

	if in.DeliveryMethod == DeliveryDelivery {
		if strings.TrimSpace(in.DeliveryDate) == "" {
			return NewValidationError("deliveryDate", "is required for delivery")
		}
		if _, err := ParseDay(in.DeliveryDate, time.UTC); err != nil {
			return NewValidationError("deliveryDate", err.Error())
		}
		if strings.TrimSpace(in.DeliveryAddress) == "" {
			return NewValidationError("deliveryAddress", "is required for delivery")
		}
	}
	return nil
}

// ToSale builds the sale record for the given listing. Validate must have
// succeeded first. Calendar days are read in now's location.
func (in SaleInput) ToSale(listing Listing, sellerName, sellerContact string, now time.Time) Sale {
	saleDate, _ := ParseDay(in.SaleDate, now.Location())

	sale := Sale{
		ProductID:      listing.ID,
		ProductName:    listing.Name,
		Breed:          listing.Breed,
		Weight:         listing.Weight,
		Images:         append([]string{}, listing.Images...),
		BuyerName:      strings.TrimSpace(in.BuyerName),
		BuyerPhone:     strings.TrimSpace(in.BuyerPhone),
		BuyerEmail:     strings.TrimSpace(in.BuyerEmail),
		BuyerAddress:   strings.TrimSpace(in.BuyerAddress),
		SaleDate:       saleDate,
		SalePrice:      *in.SalePrice,
		PaymentMethod:  in.PaymentMethod,
		DeliveryMethod: in.DeliveryMethod,
		Observations:   in.Observations,
		SellerName:     sellerName,
		SellerContact:  sellerContact,
		Timestamp:      now,
	}

	if in.DeliveryMethod == DeliveryDelivery {
		deliveryDate, _ := ParseDay(in.DeliveryDate, now.Location())
		sale.DeliveryDate = &deliveryDate
		sale.DeliveryAddress = strings.TrimSpace(in.DeliveryAddress)
	}

	return sale
}

var dayLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseDay accepts either a full RFC3339 timestamp or a calendar day. Values
// without an offset are read in loc.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	value = strings.TrimSpace(value)
	for _, layout := range dayLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}
