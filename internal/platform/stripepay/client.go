package stripepay

import (
	"context"
	"fmt"
	"net/http"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/membership"
	cfgpkg "github.com/tiredaf123/fitflow--G3-sub001/pkg/config"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

// Client implements membership.ProcessorClient over the Stripe SDK. All
// calls go through a backend with a bounded timeout so a hung processor
// call cannot stall a request indefinitely.
type Client struct {
	cfg *cfgpkg.Config
	log *zap.SugaredLogger
}

func NewClient(cfg *cfgpkg.Config, log *zap.SugaredLogger) membership.ProcessorClient {
	stripe.Key = cfg.Stripe.SecretKey
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: 15 * time.Second},
		MaxNetworkRetries: stripe.Int64(2),
	})
	stripe.SetBackend(stripe.APIBackend, backend)
	return &Client{cfg: cfg, log: log}
}

// EnsureCustomer reuses the cached customer handle when Stripe still knows
// it and creates a fresh customer otherwise.
func (c *Client) EnsureCustomer(ctx context.Context, name, email, cachedRef string) (string, error) {
	if cachedRef != "" {
		getParams := &stripe.CustomerParams{}
		getParams.Context = ctx
		if _, err := customer.Get(cachedRef, getParams); err == nil {
			return cachedRef, nil
		}
		c.log.Warnw("cached stripe customer no longer exists, recreating", "customer_ref", cachedRef)
	}

	params := &stripe.CustomerParams{
		Name:  stripe.String(name),
		Email: stripe.String(email),
	}
	params.Context = ctx
	cust, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}
	return cust.ID, nil
}

// CreateSubscription opens an incomplete subscription so the client can
// confirm payment with the returned secret directly against Stripe.
func (c *Client) CreateSubscription(ctx context.Context, customerRef, priceID string) (*membership.CheckoutIntent, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerRef),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
	}
	params.Context = ctx
	params.AddExpand("latest_invoice.confirmation_secret")

	sub, err := subscription.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create subscription: %w", err)
	}

	var clientSecret string
	if sub.LatestInvoice != nil && sub.LatestInvoice.ConfirmationSecret != nil {
		clientSecret = sub.LatestInvoice.ConfirmationSecret.ClientSecret
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("stripe subscription %s has no confirmation secret", sub.ID)
	}
	return &membership.CheckoutIntent{SubscriptionRef: sub.ID, ClientSecret: clientSecret}, nil
}

func (c *Client) GetSubscription(ctx context.Context, subscriptionRef string) (*membership.ProcessorSubscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	sub, err := subscription.Get(subscriptionRef, params)
	if err != nil {
		return nil, fmt.Errorf("stripe get subscription: %w", err)
	}
	return mapSubscription(sub), nil
}

func (c *Client) CancelAtPeriodEnd(ctx context.Context, subscriptionRef string) (*membership.ProcessorSubscription, error) {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	params.Context = ctx
	sub, err := subscription.Update(subscriptionRef, params)
	if err != nil {
		return nil, fmt.Errorf("stripe cancel subscription: %w", err)
	}
	return mapSubscription(sub), nil
}

// VerifyEvent authenticates the delivery against the signing secret over the
// exact raw payload bytes, then reduces it to the provider-neutral event.
func (c *Client) VerifyEvent(payload []byte, signature string) (*types.BillingEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, c.cfg.Stripe.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("webhook verification: %w", err)
	}
	return translateEvent(&event)
}

func mapSubscription(sub *stripe.Subscription) *membership.ProcessorSubscription {
	ps := &membership.ProcessorSubscription{
		Ref:               sub.ID,
		Status:            string(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if sub.Customer != nil {
		ps.CustomerRef = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		if item.Price != nil {
			ps.PriceID = item.Price.ID
		}
		if item.CurrentPeriodEnd > 0 {
			ps.CurrentPeriodEnd = time.Unix(item.CurrentPeriodEnd, 0)
		}
	}
	if sub.CanceledAt > 0 {
		ps.CanceledAt = time.Unix(sub.CanceledAt, 0)
	}
	return ps
}
