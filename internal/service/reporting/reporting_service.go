package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/cantine/internal/domain/models"
	repo "github.com/mamadbah2/cantine/internal/repository/sheets"
	"github.com/mamadbah2/cantine/pkg/clients/mealapi"
)

const dateLayout = "2006-01-02"

// Service aggregates persisted production records into weekly summaries and
// exports them to the tracking spreadsheet.
type Service struct {
	client      mealapi.Client
	sheets      repo.Repository
	exportRange string
	logger      *zap.Logger
}

// NewService wires a new reporting service instance. A nil sheets repository
// disables the export path; summaries still work.
func NewService(client mealapi.Client, sheets repo.Repository, exportRange string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:      client,
		sheets:      sheets,
		exportRange: exportRange,
		logger:      logger,
	}
}

// HospitalTotals accumulates one hospital's figures for the week.
type HospitalTotals struct {
	HospitalID   string
	HospitalName string
	StarchKg     float64
	VegetablesKg float64
	Pax          int
	Meals        int
}

// TotalKg is the combined produced weight.
func (t HospitalTotals) TotalKg() float64 {
	return t.StarchKg + t.VegetablesKg
}

// WeekTotals aggregates records for one ISO week, per hospital plus overall.
func WeekTotals(records []models.ProductionRecord) []HospitalTotals {
	index := make(map[string]int)
	var totals []HospitalTotals

	for _, record := range records {
		i, ok := index[record.HospitalID]
		if !ok {
			i = len(totals)
			index[record.HospitalID] = i
			totals = append(totals, HospitalTotals{
				HospitalID:   record.HospitalID,
				HospitalName: record.HospitalName,
			})
		}
		totals[i].StarchKg += record.StarchProduced
		totals[i].VegetablesKg += record.VegetablesProduced
		totals[i].Pax += record.Pax
		totals[i].Meals += record.MealsCalculated
	}

	return totals
}

// WeeklySummary fetches the week containing ref and returns a short text summary.
func (s *Service) WeeklySummary(ctx context.Context, ref time.Time) (string, error) {
	week := models.WeekOf(ref)

	records, err := s.client.ListProductions(ctx, week.StartDate, week.EndDate)
	if err != nil {
		return "", fmt.Errorf("load week productions: %w", err)
	}

	window := fmt.Sprintf("%s-%s", week.StartDate.Format(dateLayout), week.EndDate.Format(dateLayout))
	if len(records) == 0 {
		return fmt.Sprintf("Production summary (%s): no records yet.", window), nil
	}

	totals := WeekTotals(records)
	var kg float64
	var pax int
	for _, t := range totals {
		kg += t.TotalKg()
		pax += t.Pax
	}

	return fmt.Sprintf("Production summary (%s): %.1f kg across %d hospitals, %d pax served.",
		window, kg, len(totals), pax), nil
}

// ExportWeeklyReport appends one spreadsheet row per hospital plus a totals
// row for the week containing ref.
func (s *Service) ExportWeeklyReport(ctx context.Context, ref time.Time) error {
	if s.sheets == nil {
		s.logger.Info("sheets export disabled, skipping weekly report")
		return nil
	}

	week := models.WeekOf(ref)
	records, err := s.client.ListProductions(ctx, week.StartDate, week.EndDate)
	if err != nil {
		return fmt.Errorf("load week productions: %w", err)
	}

	totals := WeekTotals(records)
	if len(totals) == 0 {
		s.logger.Info("no production records for week, skipping export",
			zap.Int("year", week.Year), zap.Int("week", week.WeekNumber))
		return nil
	}

	weekLabel := fmt.Sprintf("%d-W%02d", week.Year, week.WeekNumber)

	// The export cron can fire more than once for the same week (restarts,
	// manual runs); a week already present in the sheet is not re-appended.
	existing, err := s.sheets.ReadRange(ctx, s.exportRange)
	if err != nil {
		return fmt.Errorf("read export range: %w", err)
	}
	for _, row := range existing {
		if len(row) > 0 && row[0] == weekLabel {
			s.logger.Info("week already exported, skipping", zap.String("week", weekLabel))
			return nil
		}
	}

	rows := make([][]interface{}, 0, len(totals)+1)

	var sumStarch, sumVeg float64
	var sumPax, sumMeals int
	for _, t := range totals {
		rows = append(rows, []interface{}{
			weekLabel, t.HospitalID, t.HospitalName,
			t.StarchKg, t.VegetablesKg, t.TotalKg(), t.Pax, t.Meals,
		})
		sumStarch += t.StarchKg
		sumVeg += t.VegetablesKg
		sumPax += t.Pax
		sumMeals += t.Meals
	}
	rows = append(rows, []interface{}{
		weekLabel, "", "TOTAL", sumStarch, sumVeg, sumStarch + sumVeg, sumPax, sumMeals,
	})

	if err := s.sheets.AppendRows(ctx, s.exportRange, rows); err != nil {
		return fmt.Errorf("export weekly report: %w", err)
	}

	s.logger.Info("weekly report exported",
		zap.String("week", weekLabel),
		zap.Int("hospitals", len(totals)))
	return nil
}
