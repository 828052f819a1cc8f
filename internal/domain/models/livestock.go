package models

import (
	"strings"
	"time"
)

// Purpose classifies what the animal is raised for.
type Purpose string

const (
	PurposeMilk Purpose = "leche"
	PurposeMeat Purpose = "carne"
	PurposeDual Purpose = "doble_proposito"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeMilk, PurposeMeat, PurposeDual:
		return true
	}
	return false
}

// HealthStatus is the seller's declared health grade.
type HealthStatus string

const (
	HealthExcellent HealthStatus = "excellent"
	HealthGood      HealthStatus = "good"
	HealthFair      HealthStatus = "fair"
)

// Valid reports whether h is a known health status.
func (h HealthStatus) Valid() bool {
	switch h {
	case HealthExcellent, HealthGood, HealthFair:
		return true
	}
	return false
}

// OffspringSex is the sex of a listing's calf.
type OffspringSex string

const (
	OffspringFemale OffspringSex = "hembra"
	OffspringMale   OffspringSex = "macho"
)

// Seller is the contact published with a listing.
type Seller struct {
	Name   string  `bson:"name" json:"name"`
	Phone  string  `bson:"phone" json:"phone"`
	Email  string  `bson:"email" json:"email"`
	Rating float64 `bson:"rating" json:"rating"`
}

// Offspring describes the calf sold together with the animal.
type Offspring struct {
	Sex      OffspringSex `bson:"sex,omitempty" json:"sex,omitempty"`
	Quantity int          `bson:"quantity" json:"quantity"`
}

// Listing is a single animal or a lot offered in the catalog.
type Listing struct {
	ID           string       `bson:"_id" json:"id"`
	Name         string       `bson:"name" json:"name"`
	Breed        string       `bson:"breed" json:"breed"`
	Age          float64      `bson:"age" json:"age"`
	Weight       float64      `bson:"weight" json:"weight"`
	Price        float64      `bson:"price" json:"price"`
	Location     string       `bson:"location" json:"location"`
	Seller       Seller       `bson:"seller" json:"seller"`
	Images       []string     `bson:"images" json:"images"`
	Videos       []string     `bson:"videos" json:"videos"`
	Description  string       `bson:"description" json:"description"`
	Purpose      Purpose      `bson:"purpose" json:"purpose"`
	HealthStatus HealthStatus `bson:"healthStatus" json:"healthStatus"`
	Vaccinations []string     `bson:"vaccinations" json:"vaccinations"`
	Available    bool         `bson:"available" json:"available"`
	ListedDate   time.Time    `bson:"listedDate" json:"listedDate"`

	Births        int       `bson:"births" json:"births"`
	MilkYield     *float64  `bson:"milkYield,omitempty" json:"milkYield,omitempty"`
	GestationTime int       `bson:"gestationTime" json:"gestationTime"`
	Offspring     Offspring `bson:"offspring" json:"offspring"`

	IsLot   bool `bson:"isLot" json:"isLot"`
	LotSize int  `bson:"lotSize" json:"lotSize"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ListingInput carries the owner-provided fields of a new listing.
type ListingInput struct {
	Name          string       `json:"name"`
	Breed         string       `json:"breed"`
	Age           float64      `json:"age"`
	Weight        float64      `json:"weight"`
	Price         float64      `json:"price"`
	Location      string       `json:"location"`
	Seller        Seller       `json:"seller"`
	Description   string       `json:"description"`
	Purpose       Purpose      `json:"purpose"`
	HealthStatus  HealthStatus `json:"healthStatus"`
	Vaccinations  []string     `json:"vaccinations"`
	Births        int          `json:"births"`
	MilkYield     *float64     `json:"milkYield,omitempty"`
	GestationTime int          `json:"gestationTime"`
	Offspring     Offspring    `json:"offspring"`
	IsLot         bool         `json:"isLot"`
	LotSize       int          `json:"lotSize"`
	Images        []string     `json:"images"`
	Videos        []string     `json:"videos"`
}

// Validate checks the mandatory listing attributes.
func (in ListingInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return NewValidationError("name", "is required")
	case strings.TrimSpace(in.Breed) == "":
		return NewValidationError("breed", "is required")
	case in.Age < 0:
		return NewValidationError("age", "must not be negative")
	case in.Weight <= 0:
		return NewValidationError("weight", "must be positive")
	case in.Price < 0:
		return NewValidationError("price", "must not be negative")
	case strings.TrimSpace(in.Location) == "":
		return NewValidationError("location", "is required")
	case strings.TrimSpace(in.Description) == "":
		return NewValidationError("description", "is required")
	case !in.Purpose.Valid():
		return NewValidationError("purpose", "must be one of leche, carne, doble_proposito")
	case !in.HealthStatus.Valid():
		return NewValidationError("healthStatus", "must be one of excellent, good, fair")
	}

	if err := validateSeller(in.Seller); err != nil {
		return err
	}
	if err := validateOffspring(in.Offspring); err != nil {
		return err
	}
	if in.IsLot && in.LotSize < 2 {
		return NewValidationError("lotSize", "a lot needs at least two animals")
	}
	return nil
}

// ToListing materializes a new available listing from the input.
func (in ListingInput) ToListing(now time.Time) Listing {
	lotSize := in.LotSize
	if !in.IsLot || lotSize <= 0 {
		lotSize = 1
	}

	return Listing{
		Name:          strings.TrimSpace(in.Name),
		Breed:         strings.TrimSpace(in.Breed),
		Age:           in.Age,
		Weight:        in.Weight,
		Price:         in.Price,
		Location:      strings.TrimSpace(in.Location),
		Seller:        in.Seller,
		Images:        nonNil(in.Images),
		Videos:        nonNil(in.Videos),
		Description:   in.Description,
		Purpose:       in.Purpose,
		HealthStatus:  in.HealthStatus,
		Vaccinations:  nonNil(in.Vaccinations),
		Available:     true,
		ListedDate:    now,
		Births:        in.Births,
		MilkYield:     in.MilkYield,
		GestationTime: in.GestationTime,
		Offspring:     in.Offspring,
		IsLot:         in.IsLot,
		LotSize:       lotSize,
	}
}

// ListingPatch is a partial update of a listing. Nil fields are left untouched.
// Media URLs are appended, never replaced. Available only changes when a sale
// is recorded, so a patch carrying it is rejected.
type ListingPatch struct {
	Name          *string       `json:"name,omitempty"`
	Breed         *string       `json:"breed,omitempty"`
	Age           *float64      `json:"age,omitempty"`
	Weight        *float64      `json:"weight,omitempty"`
	Price         *float64      `json:"price,omitempty"`
	Location      *string       `json:"location,omitempty"`
	Seller        *Seller       `json:"seller,omitempty"`
	Description   *string       `json:"description,omitempty"`
	Purpose       *Purpose      `json:"purpose,omitempty"`
	HealthStatus  *HealthStatus `json:"healthStatus,omitempty"`
	Vaccinations  []string      `json:"vaccinations,omitempty"`
	Available     *bool         `json:"available,omitempty"`
	Births        *int          `json:"births,omitempty"`
	MilkYield     *float64      `json:"milkYield,omitempty"`
	GestationTime *int          `json:"gestationTime,omitempty"`
	Offspring     *Offspring    `json:"offspring,omitempty"`
	IsLot         *bool         `json:"isLot,omitempty"`
	LotSize       *int          `json:"lotSize,omitempty"`

	AppendImages []string `json:"-"`
	AppendVideos []string `json:"-"`
}

// Validate checks the fields present in the patch.
func (p ListingPatch) Validate() error {
	switch {
	case p.Name != nil && strings.TrimSpace(*p.Name) == "":
		return NewValidationError("name", "must not be empty")
	case p.Breed != nil && strings.TrimSpace(*p.Breed) == "":
		return NewValidationError("breed", "must not be empty")
	case p.Age != nil && *p.Age < 0:
		return NewValidationError("age", "must not be negative")
	case p.Weight != nil && *p.Weight <= 0:
		return NewValidationError("weight", "must be positive")
	case p.Price != nil && *p.Price < 0:
		return NewValidationError("price", "must not be negative")
	case p.Location != nil && strings.TrimSpace(*p.Location) == "":
		return NewValidationError("location", "must not be empty")
	case p.Purpose != nil && !p.Purpose.Valid():
		return NewValidationError("purpose", "must be one of leche, carne, doble_proposito")
	case p.HealthStatus != nil && !p.HealthStatus.Valid():
		return NewValidationError("healthStatus", "must be one of excellent, good, fair")
	case p.LotSize != nil && *p.LotSize < 1:
		return NewValidationError("lotSize", "must be at least 1")
	case p.Available != nil:
		return NewValidationError("available", "is set by recording a sale")
	}

	if p.Seller != nil {
		if err := validateSeller(*p.Seller); err != nil {
			return err
		}
	}
	if p.Offspring != nil {
		return validateOffspring(*p.Offspring)
	}
	return nil
}

// IsEmpty reports whether the patch would change nothing.
func (p ListingPatch) IsEmpty() bool {
	return p.Name == nil && p.Breed == nil && p.Age == nil && p.Weight == nil &&
		p.Price == nil && p.Location == nil && p.Seller == nil && p.Description == nil &&
		p.Purpose == nil && p.HealthStatus == nil && p.Vaccinations == nil &&
		p.Births == nil && p.MilkYield == nil &&
		p.GestationTime == nil && p.Offspring == nil && p.IsLot == nil &&
		p.LotSize == nil && len(p.AppendImages) == 0 && len(p.AppendVideos) == 0
}

func validateSeller(s Seller) error {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return NewValidationError("seller.name", "is required")
	case strings.TrimSpace(s.Phone) == "":
		return NewValidationError("seller.phone", "is required")
	case strings.TrimSpace(s.Email) == "":
		return NewValidationError("seller.email", "is required")
	case s.Rating < 0 || s.Rating > 5:
		return NewValidationError("seller.rating", "must be between 0 and 5")
	}
	return nil
}

func validateOffspring(o Offspring) error {
	if o.Sex != "" && o.Sex != OffspringFemale && o.Sex != OffspringMale {
		return NewValidationError("offspring.sex", "must be hembra or macho")
	}
	if o.Quantity < 0 {
		return NewValidationError("offspring.quantity", "must not be negative")
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
