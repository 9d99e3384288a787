// Package billing talks to the external billing collaborator over HTTP.
// Payloads arrive in Mongo extended JSON, so every numeric field is decoded
// through the flexible types in flex.go and handed to callers as plain
// primitives.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// ErrUnavailable wraps transport and non-2xx failures from the billing
// service. The dashboard surfaces it inline instead of failing the page.
var ErrUnavailable = errors.New("billing: service unavailable")

// Subscription is a school's plan record, decoded defensively.
type Subscription struct {
	ID          string
	SchoolID    string
	PlanName    string
	Status      string
	StartDate   time.Time
	EndDate     time.Time
	MaxUsers    int64
	MaxAPICalls int64
}

// Invoice is one line of billing history.
type Invoice struct {
	ID     string
	Date   string
	Amount float64
	Status string
}

// Overview is the display-ready billing summary for one school.
type Overview struct {
	CurrentPlan         string
	NextBillingDate     string
	SubscriptionEndDate string
	APIUsage            int64
	APILimit            int64
	RecentInvoices      []Invoice
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// wire shapes: every scalar that could arrive wrapped goes through a Flex type.

type wireSubscription struct {
	ID          FlexString `json:"id"`
	SchoolID    FlexString `json:"school_id"`
	PlanName    FlexString `json:"plan_name"`
	Status      FlexString `json:"status"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	MaxUsers    FlexInt64  `json:"max_users"`
	MaxAPICalls FlexInt64  `json:"max_api_calls"`
}

type wireInvoice struct {
	ID     FlexString  `json:"id"`
	Date   FlexString  `json:"date"`
	Amount FlexFloat64 `json:"amount"`
	Status FlexString  `json:"status"`
}

type wireOverview struct {
	CurrentPlan         FlexString    `json:"currentPlan"`
	NextBillingDate     FlexString    `json:"nextBillingDate"`
	SubscriptionEndDate FlexString    `json:"subscriptionEndDate"`
	APIUsage            FlexInt64     `json:"apiUsage"`
	APILimit            FlexInt64     `json:"apiLimit"`
	RecentInvoices      []wireInvoice `json:"recentInvoices"`
}

// Subscriptions lists subscriptions. Pass uuid.Nil to list across all
// schools (operator scope).
func (c *Client) Subscriptions(ctx context.Context, schoolID uuid.UUID) ([]Subscription, error) {
	endpoint := c.baseURL + "/subscriptions"
	if schoolID != uuid.Nil {
		endpoint += "?school_id=" + url.QueryEscape(schoolID.String())
	}

	var wire []wireSubscription
	if err := c.getJSON(ctx, endpoint, &wire); err != nil {
		return nil, fmt.Errorf("billing.Subscriptions: %w", err)
	}

	subs := make([]Subscription, 0, len(wire))
	for _, w := range wire {
		subs = append(subs, Subscription{
			ID:          w.ID.String(),
			SchoolID:    w.SchoolID.String(),
			PlanName:    w.PlanName.String(),
			Status:      w.Status.String(),
			StartDate:   parseDate(w.StartDate),
			EndDate:     parseDate(w.EndDate),
			MaxUsers:    w.MaxUsers.Int64(),
			MaxAPICalls: w.MaxAPICalls.Int64(),
		})
	}
	return subs, nil
}

// Overview fetches the billing summary for a school.
func (c *Client) Overview(ctx context.Context, schoolID uuid.UUID) (*Overview, error) {
	endpoint := c.baseURL + "/schools/" + url.PathEscape(schoolID.String()) + "/overview"

	var wire wireOverview
	if err := c.getJSON(ctx, endpoint, &wire); err != nil {
		return nil, fmt.Errorf("billing.Overview: %w", err)
	}

	overview := &Overview{
		CurrentPlan:         wire.CurrentPlan.String(),
		NextBillingDate:     wire.NextBillingDate.String(),
		SubscriptionEndDate: wire.SubscriptionEndDate.String(),
		APIUsage:            wire.APIUsage.Int64(),
		APILimit:            wire.APILimit.Int64(),
		RecentInvoices:      make([]Invoice, 0, len(wire.RecentInvoices)),
	}
	for _, w := range wire.RecentInvoices {
		overview.RecentInvoices = append(overview.RecentInvoices, Invoice{
			ID:     w.ID.String(),
			Date:   w.Date.String(),
			Amount: w.Amount.Float64(),
			Status: w.Status.String(),
		})
	}
	return overview, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %w", ErrUnavailable, err)
	}
	return nil
}

// parseDate accepts the date formats the billing service has been observed
// emitting. Unknown formats settle to the zero time.
func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
