package entry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/cantine/internal/domain/models"
)

type fakeClient struct {
	hospitals   []models.Hospital
	listErr     error
	submitErr   error
	submitted   []models.SubmitProductionRequest
	listEntered chan struct{}
	listRelease chan struct{}
}

func (f *fakeClient) ListHospitals(ctx context.Context) ([]models.Hospital, error) {
	if f.listEntered != nil {
		f.listEntered <- struct{}{}
		<-f.listRelease
	}
	return f.hospitals, f.listErr
}

func (f *fakeClient) SubmitProductions(ctx context.Context, req models.SubmitProductionRequest) error {
	f.submitted = append(f.submitted, req)
	return f.submitErr
}

func (f *fakeClient) ListProductions(ctx context.Context, start, end time.Time) ([]models.ProductionRecord, error) {
	return nil, nil
}

func (f *fakeClient) CurrentUser(ctx context.Context) (*models.User, error) {
	return &models.User{ID: "u-1"}, nil
}

func threeHospitals() []models.Hospital {
	return []models.Hospital{
		{ID: "h-1", Name: "Donka", Active: true},
		{ID: "h-2", Name: "Ignace Deen", Active: false},
		{ID: "h-3", Name: "Kipe", Active: true},
	}
}

func loadedForm(t *testing.T, client *fakeClient) *Form {
	t.Helper()
	form := NewForm(client, nil)
	require.NoError(t, form.LoadHospitals(context.Background()))
	return form
}

func TestLoadHospitalsKeepsActiveSubsetInOrder(t *testing.T) {
	form := loadedForm(t, &fakeClient{hospitals: threeHospitals()})

	snap := form.Snapshot()
	require.Len(t, snap.Hospitals, 2)
	assert.Equal(t, "h-1", snap.Hospitals[0].ID)
	assert.Equal(t, "h-3", snap.Hospitals[1].ID)
	assert.Empty(t, snap.Banner)
}

func TestLoadHospitalsDerivesZeroedRows(t *testing.T) {
	form := loadedForm(t, &fakeClient{hospitals: threeHospitals()})

	rows := form.Rows()
	require.Len(t, rows, 2)

	assert.Equal(t, models.ProductionRow{HospitalID: "h-1", HospitalName: "Donka"}, rows[0])
	assert.Equal(t, models.ProductionRow{HospitalID: "h-3", HospitalName: "Kipe"}, rows[1])
}

func TestSetFieldTouchesOnlyTheMatchingRow(t *testing.T) {
	form := loadedForm(t, &fakeClient{hospitals: threeHospitals()})

	form.SetField("h-3", models.FieldStarch, 4.5)

	rows := form.Rows()
	assert.Equal(t, models.ProductionRow{HospitalID: "h-1", HospitalName: "Donka"}, rows[0])
	assert.Equal(t, 4.5, rows[1].StarchProduced)
	assert.Zero(t, rows[1].VegetablesProduced)
	assert.Zero(t, rows[1].Pax)
}

func TestSetFieldIgnoresUnknownTargets(t *testing.T) {
	form := loadedForm(t, &fakeClient{hospitals: threeHospitals()})

	before := form.Rows()
	form.SetField("h-404", models.FieldStarch, 9)
	form.SetField("h-1", models.RowField("mealsCalculated"), 9)
	assert.Equal(t, before, form.Rows())
}

func TestSetFieldClampsNegativeValues(t *testing.T) {
	form := loadedForm(t, &fakeClient{hospitals: threeHospitals()})

	form.SetField("h-1", models.FieldPax, -12)
	form.SetField("h-1", models.FieldVegetables, -0.5)

	rows := form.Rows()
	assert.Zero(t, rows[0].Pax)
	assert.Zero(t, rows[0].VegetablesProduced)
}

func TestResetDiscardsEveryEdit(t *testing.T) {
	form := loadedForm(t, &fakeClient{hospitals: threeHospitals()})

	form.SetField("h-1", models.FieldStarch, 2.5)
	form.SetField("h-1", models.FieldPax, 120)
	form.SetField("h-3", models.FieldVegetables, 1.75)

	form.Reset()

	rows := form.Rows()
	assert.Equal(t, models.ProductionRow{HospitalID: "h-1", HospitalName: "Donka"}, rows[0])
	assert.Equal(t, models.ProductionRow{HospitalID: "h-3", HospitalName: "Kipe"}, rows[1])
}

func TestTotalKgDisplayTracksEveryEdit(t *testing.T) {
	form := loadedForm(t, &fakeClient{hospitals: threeHospitals()})

	form.SetField("h-1", models.FieldStarch, 2.5)
	form.SetField("h-1", models.FieldVegetables, 1.25)

	snap := form.Snapshot()
	assert.Equal(t, "3.8", snap.Rows[0].TotalKg)
	assert.Equal(t, "0.0", snap.Rows[1].TotalKg)

	form.SetField("h-1", models.FieldVegetables, 0.5)
	assert.Equal(t, "3.0", form.Snapshot().Rows[0].TotalKg)
}

func TestSubmitSendsTheFullRowSet(t *testing.T) {
	client := &fakeClient{hospitals: threeHospitals()}
	form := loadedForm(t, client)

	form.SetField("h-1", models.FieldStarch, 2.5)
	form.SetField("h-3", models.FieldPax, 80)

	require.NoError(t, form.Submit(context.Background()))
	require.Len(t, client.submitted, 1)
	assert.Equal(t, form.Rows(), client.submitted[0].Productions)
	assert.Empty(t, form.Snapshot().Banner)
}

func TestSubmitFailureKeepsEditsAndSetsBanner(t *testing.T) {
	client := &fakeClient{hospitals: threeHospitals(), submitErr: errors.New("boom")}
	form := loadedForm(t, client)

	form.SetField("h-1", models.FieldStarch, 2.5)
	before := form.Rows()

	err := form.Submit(context.Background())
	require.ErrorIs(t, err, ErrSubmission)

	snap := form.Snapshot()
	assert.Equal(t, "Failed to save production data", snap.Banner)
	assert.Equal(t, before, form.Rows())
}

func TestLoadFailureKeepsPriorStateAndSetsBanner(t *testing.T) {
	form := NewForm(&fakeClient{listErr: errors.New("boom")}, nil)

	err := form.LoadHospitals(context.Background())
	require.ErrorIs(t, err, ErrHospitalsLoad)

	snap := form.Snapshot()
	assert.Equal(t, "Failed to load hospitals", snap.Banner)
	assert.Empty(t, snap.Hospitals)
	assert.Empty(t, snap.Rows)
	assert.False(t, snap.Loading)
}

func TestSubmitSuccessClearsPreviousBanner(t *testing.T) {
	client := &fakeClient{hospitals: threeHospitals(), submitErr: errors.New("boom")}
	form := loadedForm(t, client)

	require.Error(t, form.Submit(context.Background()))
	require.NotEmpty(t, form.Snapshot().Banner)

	client.submitErr = nil
	require.NoError(t, form.Submit(context.Background()))
	assert.Empty(t, form.Snapshot().Banner)
}

func TestInitializingOnlyWhileFirstFetchInFlight(t *testing.T) {
	client := &fakeClient{
		hospitals:   threeHospitals(),
		listEntered: make(chan struct{}),
		listRelease: make(chan struct{}),
	}
	form := NewForm(client, nil)

	done := make(chan error, 1)
	go func() { done <- form.LoadHospitals(context.Background()) }()

	<-client.listEntered
	snap := form.Snapshot()
	assert.True(t, snap.Loading)
	assert.True(t, snap.Initializing)

	close(client.listRelease)
	require.NoError(t, <-done)

	snap = form.Snapshot()
	assert.False(t, snap.Loading)
	assert.False(t, snap.Initializing)

	// Once hospitals are present a later fetch no longer blanks the page.
	client.listEntered = nil
	require.NoError(t, form.LoadHospitals(context.Background()))
	assert.False(t, form.Snapshot().Initializing)
}

func TestDeriveRowsIsIdempotent(t *testing.T) {
	hospitals := models.FilterActive(threeHospitals())
	assert.Equal(t, DeriveRows(hospitals), DeriveRows(hospitals))
	assert.Empty(t, DeriveRows(nil))
}
