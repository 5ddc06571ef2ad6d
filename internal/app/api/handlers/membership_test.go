package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/membership"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/models"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

type stubManager struct {
	initiateIntent *membership.CheckoutIntent
	initiateErr    error
	confirmRecord  *models.Membership
	confirmErr     error
	checkRecord    *models.Membership
	checkOK        bool
	webhookEvent   *types.BillingEvent
	webhookErr     error

	gotSignature string
	gotPayload   []byte
}

func (s *stubManager) Initiate(_ context.Context, _ string, _ types.PlanType) (*membership.CheckoutIntent, error) {
	return s.initiateIntent, s.initiateErr
}

func (s *stubManager) Confirm(_ context.Context, _, _ string) (*models.Membership, error) {
	return s.confirmRecord, s.confirmErr
}

func (s *stubManager) Cancel(_ context.Context, _ string) (*models.Membership, error) {
	panic("not used")
}

func (s *stubManager) Check(_ context.Context, _ string) (*models.Membership, bool, error) {
	return s.checkRecord, s.checkOK, nil
}

func (s *stubManager) ProcessWebhook(_ context.Context, payload []byte, signature string) (*types.BillingEvent, error) {
	s.gotPayload = payload
	s.gotSignature = signature
	return s.webhookEvent, s.webhookErr
}

func newMembershipRouter(mgr membership.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/api/v1")
	RegisterMembershipRoutes(grp, mgr)
	RegisterBillingWebhookRoutes(grp, mgr, zap.NewNop().Sugar())
	return r
}

func TestApiCreateIntent_ReturnsSecret(t *testing.T) {
	mgr := &stubManager{initiateIntent: &membership.CheckoutIntent{SubscriptionRef: "sub_1", ClientSecret: "pi_secret"}}
	r := newMembershipRouter(mgr)

	body, _ := json.Marshal(map[string]string{"plan": "monthly"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/membership/create-intent", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp createIntentResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "pi_secret", resp.ClientSecret)
	require.Equal(t, "sub_1", resp.SubscriptionID)
}

func TestApiCreateIntent_UnknownPlan(t *testing.T) {
	mgr := &stubManager{initiateErr: membership.ErrInvalidPlan}
	r := newMembershipRouter(mgr)

	body, _ := json.Marshal(map[string]string{"plan": "lifetime"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/membership/create-intent", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApiConfirmMembership_PendingReturns202(t *testing.T) {
	mgr := &stubManager{confirmErr: membership.ErrStillProcessing}
	r := newMembershipRouter(mgr)

	body, _ := json.Marshal(map[string]string{"subscriptionId": "sub_1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/membership/confirm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Contains(t, w.Body.String(), `"success":false`)
}

func TestApiConfirmMembership_Active(t *testing.T) {
	end := time.Now().Add(30 * 24 * time.Hour)
	mgr := &stubManager{confirmRecord: &models.Membership{
		UserID:           "u-1",
		Status:           types.MembershipStatusActive,
		CurrentPeriodEnd: &end,
	}}
	r := newMembershipRouter(mgr)

	body, _ := json.Marshal(map[string]string{"subscriptionId": "sub_1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/membership/confirm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"success":true`)
	require.Contains(t, w.Body.String(), `"currentPeriodEnd"`)
}

func TestApiCheckMembership_NoRecord(t *testing.T) {
	r := newMembershipRouter(&stubManager{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/membership/check", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"hasMembership":false`)
	require.Contains(t, w.Body.String(), `"membership":null`)
}

func TestApiBillingWebhook_BadSignature(t *testing.T) {
	mgr := &stubManager{webhookErr: membership.ErrBadSignature}
	r := newMembershipRouter(mgr)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/membership/webhook", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Stripe-Signature", "t=1,v1=bad")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "signature")
	require.Equal(t, "t=1,v1=bad", mgr.gotSignature)
}

func TestApiBillingWebhook_AcksHandledEvent(t *testing.T) {
	mgr := &stubManager{webhookEvent: &types.BillingEvent{ID: "evt_1", Kind: types.BillingEventInvoicePaid}}
	r := newMembershipRouter(mgr)

	payload := []byte(`{"id":"evt_1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/membership/webhook", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"received":true`)
	require.Equal(t, payload, mgr.gotPayload)
}

func TestApiBillingWebhook_AcksDespiteReconcileFailure(t *testing.T) {
	mgr := &stubManager{
		webhookEvent: &types.BillingEvent{ID: "evt_2", Kind: types.BillingEventInvoicePaid, RawType: "invoice.paid"},
		webhookErr:   errors.New("no local owner for event evt_2"),
	}
	r := newMembershipRouter(mgr)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/membership/webhook", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"received":true`)
}
