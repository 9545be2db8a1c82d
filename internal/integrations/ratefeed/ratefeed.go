package ratefeed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/cash-runway/internal/config"
)

// ErrRateNotFound is returned when the feed has no rate for the requested index
var ErrRateNotFound = errors.New("reference rate not found")

var hundred = decimal.NewFromInt(100)

// Client reads reference rates (prime, key rate) from an XML feed. Each element
// selected by path carries a percentage as text and an optional index attribute:
//
//	<Rates><Rate index="PRIME" date="2025-01-02">7.50</Rate></Rates>
type Client struct {
	url    string
	path   string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new rate feed client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:  cfg.RateFeedURL,
		path: cfg.RateFeedPath,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetch downloads the raw feed
func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	if c.url == "" {
		return nil, fmt.Errorf("rate feed URL is not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml, text/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("Rate feed XML response: %s", string(body))
	return body, nil
}

// parse extracts the first rate of index from the feed as a fraction
func (c *Client) parse(rawBody []byte, index string) (decimal.Decimal, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse XML: %w", err)
	}

	path, err := etree.CompilePath(c.path)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate path %q: %w", c.path, err)
	}

	for _, el := range doc.FindElementsPath(path) {
		if idx := el.SelectAttrValue("index", ""); index != "" && idx != "" && !strings.EqualFold(idx, index) {
			continue
		}
		pct, err := decimal.NewFromString(strings.TrimSpace(el.Text()))
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to parse rate %q: %w", el.Text(), err)
		}
		return pct.Div(hundred), nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s", ErrRateNotFound, index)
}

// ReferenceRate retrieves the current value of index as an annual fraction
func (c *Client) ReferenceRate(ctx context.Context, index string) (decimal.Decimal, error) {
	body, err := c.fetch(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	rate, err := c.parse(body, index)
	if err != nil {
		return decimal.Zero, err
	}

	c.log.WithFields(logrus.Fields{"index": index, "rate": rate.String()}).Info("Retrieved reference rate")
	return rate, nil
}
