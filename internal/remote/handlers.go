package remote

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/cantine/internal/domain/models"
	"github.com/mamadbah2/cantine/internal/repository/mongodb"
)

const dateLayout = "2006-01-02"

// Handler serves the reference meal-service API the entry form posts to.
type Handler struct {
	repo     mongodb.Repository
	identity models.User
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandler constructs the remote service handler.
func NewHandler(repo mongodb.Repository, identity models.User, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		repo:     repo,
		identity: identity,
		logger:   logger,
		now:      time.Now,
	}
}

// ListHospitals returns the full hospital collection ordered by name.
// Filtering to active hospitals is left to clients.
func (h *Handler) ListHospitals(c *gin.Context) {
	hospitals, err := h.repo.ListHospitals(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list hospitals", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list hospitals"})
		return
	}
	if hospitals == nil {
		hospitals = []models.Hospital{}
	}
	c.JSON(http.StatusOK, hospitals)
}

// UpsertHospital creates or replaces a hospital record, keyed by its id.
// The original API restricted this to admins; the reference service trusts
// its caller.
func (h *Handler) UpsertHospital(c *gin.Context) {
	var hospital models.Hospital
	if err := c.ShouldBindJSON(&hospital); err != nil {
		h.logger.Warn("invalid hospital payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if hospital.ID == "" || hospital.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id and name are required"})
		return
	}

	now := h.now().UTC()
	if hospital.CreatedAt.IsZero() {
		hospital.CreatedAt = now
	}
	hospital.UpdatedAt = now

	if err := h.repo.UpsertHospital(c.Request.Context(), hospital); err != nil {
		h.logger.Error("failed to upsert hospital", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save hospital"})
		return
	}

	h.logger.Info("hospital upserted",
		zap.String("hospital_id", hospital.ID),
		zap.Bool("active", hospital.Active))
	c.JSON(http.StatusOK, hospital)
}

// CreateProductions ingests one submitted batch. The week record for the
// production date is resolved or created on the fly, as in the original
// intake flow.
func (h *Handler) CreateProductions(c *gin.Context) {
	var req models.SubmitProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid production payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	ctx := c.Request.Context()
	productionDate := h.now().UTC()

	week, err := h.resolveWeek(c, productionDate)
	if err != nil {
		h.logger.Error("failed to resolve week", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve week"})
		return
	}

	records := make([]models.ProductionRecord, 0, len(req.Productions))
	for _, row := range req.Productions {
		records = append(records, models.ProductionRecord{
			ID:             primitive.NewObjectID().Hex(),
			WeekID:         week.ID,
			ProductionDate: productionDate,
			ProductionRow:  row,
			CreatedBy:      h.identity.ID,
			CreatedAt:      h.now().UTC(),
		})
	}

	if err := h.repo.InsertProductions(ctx, records); err != nil {
		h.logger.Error("failed to insert productions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save productions"})
		return
	}

	h.logger.Info("production batch stored",
		zap.Int("rows", len(records)),
		zap.String("week", week.ID))
	c.JSON(http.StatusCreated, gin.H{"saved": len(records)})
}

// ListProductions returns records for the requested window; the window
// defaults to the current ISO week when unspecified.
func (h *Handler) ListProductions(c *gin.Context) {
	week := models.WeekOf(h.now().UTC())
	start, end := week.StartDate, week.EndDate.AddDate(0, 0, 1)

	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
			return
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
			return
		}
		// Inclusive end date.
		end = parsed.AddDate(0, 0, 1)
	}

	records, err := h.repo.ListProductions(c.Request.Context(), start, end)
	if err != nil {
		h.logger.Error("failed to list productions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list productions"})
		return
	}
	if records == nil {
		records = []models.ProductionRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// Me returns the identity bound to the service. Real deployments resolve
// this from the bearer token; the reference service is single-identity.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, h.identity)
}

func (h *Handler) resolveWeek(c *gin.Context, productionDate time.Time) (*models.Week, error) {
	ctx := c.Request.Context()

	week := models.WeekOf(productionDate)
	existing, err := h.repo.FindWeek(ctx, week.Year, week.WeekNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	week.ID = primitive.NewObjectID().Hex()
	week.CreatedAt = h.now().UTC()
	if err := h.repo.InsertWeek(ctx, week); err != nil {
		return nil, err
	}

	h.logger.Info("week auto-created",
		zap.Int("year", week.Year),
		zap.Int("week", week.WeekNumber))
	return &week, nil
}
