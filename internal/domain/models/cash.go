package models

import (
	"strings"
	"time"
)

// CashCategory is the direction of a cash movement.
type CashCategory string

const (
	CashInflow  CashCategory = "inicio"
	CashOutflow CashCategory = "gasto"
)

// Valid reports whether c is a known category.
func (c CashCategory) Valid() bool {
	return c == CashInflow || c == CashOutflow
}

// MovementKind tells apart the two shapes a cash movement can take.
type MovementKind string

const (
	MovementMonetary     MovementKind = "monetary"
	MovementDenomination MovementKind = "denomination"
	MovementInvalid      MovementKind = "invalid"
)

// CashMovement is one ledger entry. A monetary movement carries Amount > 0 and
// zero counters; a denomination count carries Amount == 0 and exactly one of
// TotalBills or TotalCoins set.
type CashMovement struct {
	ID         string       `bson:"_id" json:"id"`
	Category   CashCategory `bson:"category" json:"category"`
	Concept    string       `bson:"concept" json:"concept"`
	Amount     float64      `bson:"amount" json:"amount"`
	TotalBills float64      `bson:"totalBills" json:"totalBills"`
	TotalCoins float64      `bson:"totalCoins" json:"totalCoins"`
	CreatedAt  time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// Kind classifies the movement by which fields are populated.
func (m CashMovement) Kind() MovementKind {
	switch {
	case m.Amount > 0 && m.TotalBills == 0 && m.TotalCoins == 0:
		return MovementMonetary
	case m.Amount == 0 && (m.TotalBills > 0) != (m.TotalCoins > 0):
		return MovementDenomination
	}
	return MovementInvalid
}

// Validate enforces category, concept and the dual-shape invariant.
func (m CashMovement) Validate() error {
	if !m.Category.Valid() {
		return NewValidationError("category", "must be inicio or gasto")
	}
	if strings.TrimSpace(m.Concept) == "" {
		return NewValidationError("concept", "is required")
	}
	if m.Amount < 0 || m.TotalBills < 0 || m.TotalCoins < 0 {
		return NewValidationError("amount", "values must not be negative")
	}
	if m.Kind() == MovementInvalid {
		return NewValidationError("amount", "set either an amount or exactly one of totalBills, totalCoins")
	}
	return nil
}

// CashMovementInput is the payload used to create a movement.
type CashMovementInput struct {
	Category   CashCategory `json:"category"`
	Concept    string       `json:"concept"`
	Amount     float64      `json:"amount"`
	TotalBills float64      `json:"totalBills"`
	TotalCoins float64      `json:"totalCoins"`
}

// ToMovement converts the input into an unsaved movement.
func (in CashMovementInput) ToMovement() CashMovement {
	return CashMovement{
		Category:   in.Category,
		Concept:    strings.TrimSpace(in.Concept),
		Amount:     in.Amount,
		TotalBills: in.TotalBills,
		TotalCoins: in.TotalCoins,
	}
}

// CashMovementPatch replaces the provided fields of a movement.
type CashMovementPatch struct {
	Category   *CashCategory `json:"category,omitempty"`
	Concept    *string       `json:"concept,omitempty"`
	Amount     *float64      `json:"amount,omitempty"`
	TotalBills *float64      `json:"totalBills,omitempty"`
	TotalCoins *float64      `json:"totalCoins,omitempty"`
}

// Apply returns a copy of m with the patch fields written over it.
func (p CashMovementPatch) Apply(m CashMovement) CashMovement {
	if p.Category != nil {
		m.Category = *p.Category
	}
	if p.Concept != nil {
		m.Concept = strings.TrimSpace(*p.Concept)
	}
	if p.Amount != nil {
		m.Amount = *p.Amount
	}
	if p.TotalBills != nil {
		m.TotalBills = *p.TotalBills
	}
	if p.TotalCoins != nil {
		m.TotalCoins = *p.TotalCoins
	}
	return m
}
