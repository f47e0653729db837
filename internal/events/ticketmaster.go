package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	appErr "github.com/databridge/databridge/internal/pkg/errors"
)

const ticketmasterEndpoint = "https://app.ticketmaster.com/discovery/v2/events.json"

// TicketmasterClient fetches current-month listings around a postal code from
// the Discovery v2 API.
type TicketmasterClient struct {
	apiKey      string
	radiusMiles int
	endpoint    string
	client      *http.Client
}

func NewTicketmasterClient(apiKey string, radiusMiles int, timeout time.Duration) *TicketmasterClient {
	if radiusMiles <= 0 {
		radiusMiles = 15
	}
	return &TicketmasterClient{
		apiKey:      apiKey,
		radiusMiles: radiusMiles,
		endpoint:    ticketmasterEndpoint,
		client:      &http.Client{Timeout: timeout},
	}
}

type TicketmasterEvent struct {
	EventID     string
	Name        string
	Description string
	StartDate   string
	EndDate     string
	URL         string
	Venue       string
}

type tmListing struct {
	Embedded *struct {
		Events []tmEvent `json:"events"`
	} `json:"_embedded"`
}

type tmEvent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Dates       struct {
		Start struct {
			DateTime string `json:"dateTime"`
		} `json:"start"`
		End struct {
			DateTime string `json:"dateTime"`
		} `json:"end"`
	} `json:"dates"`
	Embedded struct {
		Venues []struct {
			Name string `json:"name"`
		} `json:"venues"`
	} `json:"_embedded"`
}

// FetchEvents queries the provider for listings in the current calendar month
// around the ZIP code contained in location, falling back to the city name
// when the address carries no ZIP. A location with neither is rejected as
// invalid input rather than an upstream failure.
func (c *TicketmasterClient) FetchEvents(ctx context.Context, location string) ([]TicketmasterEvent, error) {
	postalCode := ExtractPostalCode(location)
	city := ""
	if postalCode == "" {
		city, _ = ExtractCityAndState(location)
		if city == "" {
			return nil, fmt.Errorf("%w: address has no postal code or city", appErr.ErrInvalid)
		}
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Second)

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	if postalCode != "" {
		params.Set("postalCode", postalCode)
		params.Set("radius", strconv.Itoa(c.radiusMiles))
		params.Set("unit", "miles")
	} else {
		params.Set("city", city)
	}
	params.Set("startDateTime", monthStart.Format("2006-01-02T15:04:05Z"))
	params.Set("endDateTime", monthEnd.Format("2006-01-02T15:04:05Z"))
	params.Set("size", "100")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: ticketmaster status %s: %s", appErr.ErrUpstream, resp.Status, strings.TrimSpace(string(raw)))
	}

	var listing tmListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("%w: decode ticketmaster response: %v", appErr.ErrUpstream, err)
	}
	if listing.Embedded == nil {
		return nil, nil
	}
	results := make([]TicketmasterEvent, 0, len(listing.Embedded.Events))
	for _, ev := range listing.Embedded.Events {
		venue := ""
		if len(ev.Embedded.Venues) > 0 {
			venue = ev.Embedded.Venues[0].Name
		}
		results = append(results, TicketmasterEvent{
			EventID:     ev.ID,
			Name:        ev.Name,
			Description: ev.Description,
			StartDate:   ev.Dates.Start.DateTime,
			EndDate:     ev.Dates.End.DateTime,
			URL:         ev.URL,
			Venue:       venue,
		})
	}
	return results, nil
}
