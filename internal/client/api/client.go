// Package api is the client of the places REST surface. It owns the boundary
// reshape: the wire keeps lat/lng flat, callers get a nested Location.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/urbexlog/places-service/internal/domain"
	"go.uber.org/zap"
)

// Place is the client-side shape: the flat wire record with the coordinate
// pair folded into Location.
type Place struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Location    domain.Location    `json:"location"`
	Status      domain.PlaceStatus `json:"status"`
	ImageURL    *string            `json:"imageUrl"`
	VisitedDate *string            `json:"visitedDate"`
}

// UpdateForm carries a full-replace edit. Location is the pending drag result,
// if any; Picture streams the optional photo.
type UpdateForm struct {
	Name        string
	Description string
	Status      domain.PlaceStatus
	VisitedDate string
	Location    *domain.Location
	Picture     io.Reader
	PictureName string
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// wirePlace is the flat shape the server speaks.
type wirePlace struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Lat         float64            `json:"lat"`
	Lng         float64            `json:"lng"`
	Status      domain.PlaceStatus `json:"status"`
	ImageURL    *string            `json:"imageUrl"`
	VisitedDate *string            `json:"visitedDate"`
}

func (w wirePlace) toPlace() Place {
	return Place{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Location:    domain.Location{Lat: w.Lat, Lng: w.Lng},
		Status:      w.Status,
		ImageURL:    w.ImageURL,
		VisitedDate: w.VisitedDate,
	}
}

type wireError struct {
	Error string `json:"error"`
}

// ListPlaces fetches the full catalog, most recent first.
func (c *Client) ListPlaces(ctx context.Context) ([]Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/places", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var wire []wirePlace
	if err := c.do(req, &wire); err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(wire))
	for _, w := range wire {
		places = append(places, w.toPlace())
	}
	return places, nil
}

// CreatePlace registers a new suggestion at the clicked location.
func (c *Client) CreatePlace(ctx context.Context, location domain.Location, name string) (*Place, error) {
	body, err := json.Marshal(map[string]interface{}{
		"name":        name,
		"description": "",
		"location":    location,
		"status":      domain.StatusSuggestion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/places", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var wire wirePlace
	if err := c.do(req, &wire); err != nil {
		return nil, err
	}

	place := wire.toPlace()
	return &place, nil
}

// UpdatePlace commits a full edit as a multipart form, mirroring the server's
// PUT /api/places/:id contract.
func (c *Client) UpdatePlace(ctx context.Context, id int64, form UpdateForm) (*Place, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":        form.Name,
		"description": form.Description,
		"status":      string(form.Status),
	}
	if form.VisitedDate != "" {
		fields["visitedDate"] = form.VisitedDate
	}
	if form.Location != nil {
		fields["location[lat]"] = fmt.Sprintf("%f", form.Location.Lat)
		fields["location[lng]"] = fmt.Sprintf("%f", form.Location.Lng)
	}
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	if form.Picture != nil {
		part, err := w.CreateFormFile("picture", form.PictureName)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, form.Picture); err != nil {
			return nil, fmt.Errorf("failed to stream picture: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	url := fmt.Sprintf("%s/api/places/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var wire wirePlace
	if err := c.do(req, &wire); err != nil {
		return nil, err
	}

	place := wire.toPlace()
	return &place, nil
}

// UpdateStatus is the narrow status-only mutation.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status domain.PlaceStatus) (*Place, error) {
	body, err := json.Marshal(map[string]string{"newStatus": string(status)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/places/%d/status", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var wire wirePlace
	if err := c.do(req, &wire); err != nil {
		return nil, err
	}

	place := wire.toPlace()
	return &place, nil
}

// DeletePlace removes the place for good.
func (c *Client) DeletePlace(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/api/places/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, nil)
}

// do executes the request, surfaces the server's {"error": …} body on non-2xx
// responses, and decodes the payload into out when given.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err),
		)
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var wireErr wireError
		if err := json.NewDecoder(resp.Body).Decode(&wireErr); err != nil || wireErr.Error == "" {
			return fmt.Errorf("request failed with status %d", resp.StatusCode)
		}
		return fmt.Errorf("%s", wireErr.Error)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
