package entry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/cantine/internal/domain/models"
	"github.com/mamadbah2/cantine/pkg/clients/mealapi"
)

// ErrHospitalsLoad tags a failed hospital-collection fetch.
var ErrHospitalsLoad = errors.New("hospitals load failed")

// ErrSubmission tags a failed production batch save.
var ErrSubmission = errors.New("production submission failed")

// Fixed banner messages shown for the two failure classes.
const (
	hospitalsLoadBanner = "Failed to load hospitals"
	submissionBanner    = "Failed to save production data"
)

// Form is the production entry view-model: the active-hospital list, one
// editable row per hospital, a single error slot and a busy flag. Exactly one
// operation mutates state at a time; the mutex serializes HTTP callers.
type Form struct {
	client mealapi.Client
	logger *zap.Logger

	mu        sync.Mutex
	hospitals []models.Hospital
	rows      []models.ProductionRow
	lastErr   error
	loading   bool
}

// NewForm constructs the entry form around the remote meal-service client.
func NewForm(client mealapi.Client, logger *zap.Logger) *Form {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Form{client: client, logger: logger}
}

// DeriveRows builds the zeroed row set for a hospital list: one row per
// hospital, order preserved, id and name copied verbatim. Pure and
// idempotent; any prior edits are discarded by construction.
func DeriveRows(hospitals []models.Hospital) []models.ProductionRow {
	rows := make([]models.ProductionRow, 0, len(hospitals))
	for _, h := range hospitals {
		rows = append(rows, models.ProductionRow{
			HospitalID:   h.ID,
			HospitalName: h.Name,
		})
	}
	return rows
}

// LoadHospitals fetches the hospital collection, keeps the active subset and
// rebuilds the row set from it. On failure the prior hospital state is kept
// and the error slot holds ErrHospitalsLoad.
func (f *Form) LoadHospitals(ctx context.Context) error {
	f.mu.Lock()
	f.loading = true
	f.lastErr = nil
	f.mu.Unlock()

	hospitals, err := f.client.ListHospitals(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false

	if err != nil {
		f.logger.Error("failed to load hospitals", zap.Error(err))
		f.lastErr = fmt.Errorf("%w: %w", ErrHospitalsLoad, err)
		return f.lastErr
	}

	f.hospitals = models.FilterActive(hospitals)
	f.rows = DeriveRows(f.hospitals)

	f.logger.Info("hospitals loaded",
		zap.Int("total", len(hospitals)),
		zap.Int("active", len(f.hospitals)))
	return nil
}

// Reset rebuilds the row set from the current hospital list, zeroing every
// field regardless of prior edits.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = DeriveRows(f.hospitals)
	f.lastErr = nil
}

// SetField replaces one editable numeric field on the row matching
// hospitalID. Unknown ids and non-editable fields are ignored. Negative
// values clamp to zero; the pax count truncates to a whole number.
func (f *Form) SetField(hospitalID string, field models.RowField, value float64) {
	if value < 0 {
		value = 0
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.rows {
		if f.rows[i].HospitalID != hospitalID {
			continue
		}
		switch field {
		case models.FieldStarch:
			f.rows[i].StarchProduced = value
		case models.FieldVegetables:
			f.rows[i].VegetablesProduced = value
		case models.FieldPax:
			f.rows[i].Pax = int(value)
		}
		return
	}
}

// Submit posts the full row set as a single batch. Success clears the error
// slot and leaves the rows in place so the operator can see what was sent;
// failure records ErrSubmission and keeps every edit for a retry.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	f.loading = true
	f.lastErr = nil
	rows := make([]models.ProductionRow, len(f.rows))
	copy(rows, f.rows)
	f.mu.Unlock()

	err := f.client.SubmitProductions(ctx, models.SubmitProductionRequest{Productions: rows})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false

	if err != nil {
		f.logger.Error("failed to save production data", zap.Error(err))
		f.lastErr = fmt.Errorf("%w: %w", ErrSubmission, err)
		return f.lastErr
	}

	f.logger.Info("production batch saved", zap.Int("rows", len(rows)))
	return nil
}

// RowView is a render-ready row: the raw values plus the derived total
// weight formatted to one decimal place.
type RowView struct {
	models.ProductionRow
	TotalKg string `json:"totalKg"`
}

// Snapshot is an immutable copy of the form state for rendering.
type Snapshot struct {
	Hospitals []models.Hospital `json:"hospitals"`
	Rows      []RowView         `json:"rows"`
	Banner    string            `json:"banner"`
	Loading   bool              `json:"loading"`
	// Initializing is set while a fetch is in flight and no hospitals have
	// loaded yet; the page then shows the loading indicator exclusively.
	Initializing bool `json:"initializing"`
}

// Snapshot copies the current state for the rendering layer.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := Snapshot{
		Hospitals:    append([]models.Hospital(nil), f.hospitals...),
		Rows:         make([]RowView, 0, len(f.rows)),
		Banner:       bannerFor(f.lastErr),
		Loading:      f.loading,
		Initializing: f.loading && len(f.hospitals) == 0,
	}
	for _, row := range f.rows {
		snap.Rows = append(snap.Rows, RowView{ProductionRow: row, TotalKg: row.TotalKgDisplay()})
	}
	return snap
}

// Rows returns a copy of the current row set.
func (f *Form) Rows() []models.ProductionRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := make([]models.ProductionRow, len(f.rows))
	copy(rows, f.rows)
	return rows
}

func bannerFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrHospitalsLoad):
		return hospitalsLoadBanner
	case errors.Is(err, ErrSubmission):
		return submissionBanner
	default:
		return err.Error()
	}
}
