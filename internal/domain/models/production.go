package models

import (
	"strconv"
	"time"
)

// RowField identifies one of the editable numeric fields of a production row.
type RowField string

const (
	FieldStarch     RowField = "starchProduced"
	FieldVegetables RowField = "vegetablesProduced"
	FieldPax        RowField = "pax"
)

// ProductionRow is the per-hospital editable record aggregated and submitted
// as a batch. The portion and meals fields are carried through as placeholders
// until the nutrition team supplies the conversion; nothing here computes them.
type ProductionRow struct {
	HospitalID         string  `json:"hospitalId" bson:"hospital_id"`
	HospitalName       string  `json:"hospitalName" bson:"hospital_name"`
	StarchProduced     float64 `json:"starchProduced" bson:"starch_kg"`
	VegetablesProduced float64 `json:"vegetablesProduced" bson:"vegetables_kg"`
	StarchPortions     int     `json:"starchPortions" bson:"starch_portions"`
	VegetablePortions  int     `json:"vegetablePortions" bson:"vegetable_portions"`
	Pax                int     `json:"pax" bson:"pax"`
	MealsCalculated    int     `json:"mealsCalculated" bson:"meals_calculated"`
}

// TotalKg is the derived display weight: starch plus vegetables. It is
// recomputed on demand and never stored by the entry form.
func (r ProductionRow) TotalKg() float64 {
	return r.StarchProduced + r.VegetablesProduced
}

// TotalKgDisplay renders the derived weight with one decimal place for the form.
func (r ProductionRow) TotalKgDisplay() string {
	return strconv.FormatFloat(r.TotalKg(), 'f', 1, 64)
}

// SubmitProductionRequest is the POST /production payload.
type SubmitProductionRequest struct {
	Productions []ProductionRow `json:"productions"`
}

// ProductionRecord is the persisted form of a submitted row on the remote
// side, stamped with its week and production date.
type ProductionRecord struct {
	ID             string    `json:"id" bson:"_id"`
	WeekID         string    `json:"weekId" bson:"week_id"`
	ProductionDate time.Time `json:"productionDate" bson:"production_date"`
	ProductionRow  `bson:",inline"`
	CreatedBy      string    `json:"createdBy,omitempty" bson:"created_by,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"created_at"`
}
