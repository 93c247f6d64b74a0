// Package ga talks to the Google Analytics Admin and Data APIs over REST
// with a service-account token source. It implements the tracking provider
// used by the analytics service.
package ga

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"sophia/api/models"
)

const (
	adminBase = "https://analyticsadmin.googleapis.com/v1beta"
	dataBase  = "https://analyticsdata.googleapis.com/v1beta"
)

var reportMetrics = []string{
	"activeUsers",
	"conversions",
	"totalRevenue",
	"bounceRate",
	"averageSessionDuration",
	"screenPageViews",
}

type Client struct {
	http      *http.Client
	accountID string
}

// NewClient builds a provider from service-account credentials JSON and the
// Analytics account the platform provisions properties under.
func NewClient(ctx context.Context, credentialsJSON []byte, accountID string) (*Client, error) {
	if accountID == "" {
		return nil, fmt.Errorf("analytics account id is required")
	}
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON,
		"https://www.googleapis.com/auth/analytics.edit",
		"https://www.googleapis.com/auth/analytics.readonly",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse analytics credentials: %w", err)
	}
	return &Client{
		http:      oauth2.NewClient(ctx, creds.TokenSource),
		accountID: accountID,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("analytics API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("analytics API %s %s: status %d: %s", method, url, resp.StatusCode, detail)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type propertyResponse struct {
	Name string `json:"name"` // "properties/123"
}

type dataStreamResponse struct {
	Name          string `json:"name"` // "properties/123/dataStreams/456"
	WebStreamData struct {
		MeasurementID string `json:"measurementId"`
	} `json:"webStreamData"`
}

func lastSegment(name string) string {
	idx := strings.LastIndex(name, "/")
	if idx < 0 {
		return name
	}
	return name[idx+1:]
}

// ProvisionProperty creates a GA4 property and web data stream and returns
// the identifier triple the platform stores.
func (c *Client) ProvisionProperty(ctx context.Context, displayName, websiteURL string) (*models.TrackingConfig, error) {
	var property propertyResponse
	err := c.doJSON(ctx, http.MethodPost, adminBase+"/properties", map[string]interface{}{
		"displayName": displayName,
		"parent":      "accounts/" + c.accountID,
		"timeZone":    "Etc/UTC",
	}, &property)
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	propertyID := lastSegment(property.Name)

	streamBody := map[string]interface{}{
		"type":        "WEB_DATA_STREAM",
		"displayName": displayName + " web",
	}
	if websiteURL != "" {
		streamBody["webStreamData"] = map[string]string{"defaultUri": websiteURL}
	}
	var stream dataStreamResponse
	err = c.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("%s/properties/%s/dataStreams", adminBase, propertyID), streamBody, &stream)
	if err != nil {
		return nil, fmt.Errorf("failed to create data stream: %w", err)
	}

	return &models.TrackingConfig{
		PropertyID:    propertyID,
		MeasurementID: stream.WebStreamData.MeasurementID,
		StreamID:      lastSegment(stream.Name),
	}, nil
}

type runReportResponse struct {
	MetricHeaders []struct {
		Name string `json:"name"`
	} `json:"metricHeaders"`
	Rows []struct {
		DimensionValues []struct {
			Value string `json:"value"`
		} `json:"dimensionValues"`
		MetricValues []struct {
			Value string `json:"value"`
		} `json:"metricValues"`
	} `json:"rows"`
}

// RunReport pulls per-day metrics for the property. Missing or unparsable
// values default to zero.
func (c *Client) RunReport(ctx context.Context, propertyID string, from, to time.Time) ([]models.ProviderMetricRow, error) {
	metrics := make([]map[string]string, len(reportMetrics))
	for i, name := range reportMetrics {
		metrics[i] = map[string]string{"name": name}
	}

	var report runReportResponse
	err := c.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("%s/properties/%s:runReport", dataBase, propertyID),
		map[string]interface{}{
			"dateRanges": []map[string]string{{
				"startDate": from.Format("2006-01-02"),
				"endDate":   to.Format("2006-01-02"),
			}},
			"dimensions": []map[string]string{{"name": "date"}},
			"metrics":    metrics,
		}, &report)
	if err != nil {
		return nil, fmt.Errorf("failed to run report: %w", err)
	}

	rows := make([]models.ProviderMetricRow, 0, len(report.Rows))
	for _, row := range report.Rows {
		if len(row.DimensionValues) == 0 {
			continue
		}
		date, err := time.Parse("20060102", row.DimensionValues[0].Value)
		if err != nil {
			continue
		}
		values := make(map[string]float64, len(row.MetricValues))
		for i, mv := range row.MetricValues {
			if i >= len(report.MetricHeaders) {
				break
			}
			v, err := strconv.ParseFloat(mv.Value, 64)
			if err != nil {
				v = 0
			}
			values[report.MetricHeaders[i].Name] = v
		}
		rows = append(rows, models.ProviderMetricRow{Date: date, Metrics: values})
	}
	return rows, nil
}
