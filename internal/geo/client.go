// Package geo — best-effort определение геолокации через внешний сервис.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avklimov/url-shortener/internal/models"
)

// Значения по умолчанию для внешнего сервиса
const (
	DefaultAPIURL  = "https://ipapi.co/json/"
	DefaultTimeout = 3 * time.Second
)

// Locator отдаёт геоданные текущего клиента. Единственная реализация —
// Client; интерфейс нужен для подмены в тестах.
type Locator interface {
	FetchLocation(ctx context.Context) (models.Location, error)
}

type Client struct {
	httpClient *http.Client
	apiURL     string
}

func NewClient(apiURL string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
	}
}

// ответ ipapi.co
type apiResponse struct {
	CountryName string `json:"country_name"`
	City        string `json:"city"`
	Region      string `json:"region"`
}

// FetchLocation делает один запрос к геосервису. Любая ошибка отдаётся
// вызывающему: повторов нет, деградация решается на стороне рекордера.
func (c *Client) FetchLocation(ctx context.Context) (models.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to build geo request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Location{}, fmt.Errorf("geo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Location{}, fmt.Errorf("geo service returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.Location{}, fmt.Errorf("failed to decode geo response: %w", err)
	}

	location := models.Location{
		Country: payload.CountryName,
		City:    payload.City,
		Region:  payload.Region,
	}
	if location.Country == "" {
		location.Country = "Unknown"
	}
	if location.City == "" {
		location.City = "Unknown"
	}
	if location.Region == "" {
		location.Region = "Unknown"
	}

	return location, nil
}
