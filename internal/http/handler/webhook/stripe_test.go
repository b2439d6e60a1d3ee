package webhook_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/membership/internal/billing"
	"basegraph.app/membership/internal/http/handler/webhook"
	"basegraph.app/membership/internal/model"
)

type fakeVerifier struct {
	event *billing.Event
	err   error
	body  []byte
}

func (v *fakeVerifier) ParseEvent(payload []byte, _ string) (*billing.Event, error) {
	v.body = payload
	return v.event, v.err
}

type fakeSync struct {
	synced []*billing.ProviderSubscription
	err    error
}

func (s *fakeSync) SyncFromProvider(_ context.Context, ps *billing.ProviderSubscription) error {
	s.synced = append(s.synced, ps)
	return s.err
}

var _ = Describe("StripeWebhookHandler", func() {
	var (
		router   *gin.Engine
		verifier *fakeVerifier
		sync     *fakeSync
	)

	post := func(signature string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewBufferString(`{"id":"evt_1"}`))
		if signature != "" {
			req.Header.Set("Stripe-Signature", signature)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		verifier = &fakeVerifier{}
		sync = &fakeSync{}
		router.POST("/webhooks/stripe", webhook.NewStripeWebhookHandler(verifier, sync).HandleEvent)
	})

	It("syncs subscription events", func() {
		ps := &billing.ProviderSubscription{ExternalID: "sub_1", Status: model.SubscriptionStatusActive}
		verifier.event = &billing.Event{ID: "evt_1", Type: billing.EventSubscriptionUpdated, Subscription: ps}

		w := post("t=1,v1=abc")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(sync.synced).To(ConsistOf(ps))
		Expect(string(verifier.body)).To(Equal(`{"id":"evt_1"}`))
	})

	It("acknowledges events it does not handle", func() {
		verifier.event = &billing.Event{ID: "evt_2", Type: "invoice.paid"}

		w := post("t=1,v1=abc")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(sync.synced).To(BeEmpty())
	})

	It("rejects requests without a signature", func() {
		w := post("")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("rejects bad signatures", func() {
		verifier.err = fmt.Errorf("%w: mismatch", billing.ErrInvalidSignature)

		w := post("t=1,v1=abc")

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(sync.synced).To(BeEmpty())
	})

	It("asks for a retry when the sync fails", func() {
		verifier.event = &billing.Event{ID: "evt_1", Type: billing.EventSubscriptionUpdated, Subscription: &billing.ProviderSubscription{ExternalID: "sub_1"}}
		sync.err = errors.New("db down")

		w := post("t=1,v1=abc")
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})
})
