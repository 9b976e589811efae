package mealapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/cantine/internal/config"
	"github.com/mamadbah2/cantine/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Client exposes the remote meal-service operations used by the application.
type Client interface {
	ListHospitals(ctx context.Context) ([]models.Hospital, error)
	SubmitProductions(ctx context.Context, req models.SubmitProductionRequest) error
	ListProductions(ctx context.Context, start, end time.Time) ([]models.ProductionRecord, error)
	CurrentUser(ctx context.Context) (*models.User, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a meal-service API client using the provided configuration values.
func NewClient(cfg config.RemoteConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	if cfg.APIToken != "" {
		restyClient.SetAuthToken(cfg.APIToken)
	}

	return &APIClient{httpClient: restyClient}
}

// apiError mirrors the remote service's error payload.
type apiError struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (e *apiError) message() string {
	if e == nil {
		return ""
	}
	if e.Error != "" {
		return e.Error
	}
	return e.Detail
}

// ListHospitals fetches the full hospital collection. Filtering to active
// hospitals is the caller's concern.
func (c *APIClient) ListHospitals(ctx context.Context) ([]models.Hospital, error) {
	var hospitals []models.Hospital
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&hospitals).
		SetError(apiErr).
		Get("/hospitals")
	if err != nil {
		return nil, fmt.Errorf("list hospitals: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("meal api error: status=%d, message=%s", resp.StatusCode(), apiErr.message())
	}

	return hospitals, nil
}

// SubmitProductions posts the aggregated production rows as a single batch.
// The response body is not inspected; only the status matters.
func (c *APIClient) SubmitProductions(ctx context.Context, req models.SubmitProductionRequest) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetError(apiErr).
		Post("/production")
	if err != nil {
		return fmt.Errorf("submit productions: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("meal api error: status=%d, message=%s", resp.StatusCode(), apiErr.message())
	}

	return nil
}

// ListProductions fetches persisted production records for the given window.
func (c *APIClient) ListProductions(ctx context.Context, start, end time.Time) ([]models.ProductionRecord, error) {
	var records []models.ProductionRecord
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"start": start.Format(dateLayout),
			"end":   end.Format(dateLayout),
		}).
		SetResult(&records).
		SetError(apiErr).
		Get("/production")
	if err != nil {
		return nil, fmt.Errorf("list productions: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("meal api error: status=%d, message=%s", resp.StatusCode(), apiErr.message())
	}

	return records, nil
}

// CurrentUser resolves the identity bound to the configured token.
func (c *APIClient) CurrentUser(ctx context.Context) (*models.User, error) {
	user := new(models.User)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(user).
		SetError(apiErr).
		Get("/auth/me")
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("meal api error: status=%d, message=%s", resp.StatusCode(), apiErr.message())
	}

	return user, nil
}
