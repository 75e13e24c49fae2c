package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop-be/internal/api/domain"
	"github.com/hireloop/hireloop-be/internal/api/model"
	"github.com/hireloop/hireloop-be/internal/auth"
	"github.com/hireloop/hireloop-be/internal/config"
	"github.com/hireloop/hireloop-be/internal/events"
	"github.com/hireloop/hireloop-be/internal/payments"
)

type fakePaymentStore struct {
	user    *model.User
	company *model.Company
	job     *model.JobPosting

	existingPayments map[string]bool
	hasApplied       bool

	publishErr error
	createErr  error

	publishedJobs []*model.JobPosting
	applications  []*model.JobApplication
	ledger        []*model.PaymentTransaction
}

func (f *fakePaymentStore) GetUserBySubject(_ context.Context, subject string) (*model.User, error) {
	if f.user == nil || f.user.AuthSubject != subject {
		return nil, domain.ErrUserNotFound
	}
	return f.user, nil
}

func (f *fakePaymentStore) GetCompanyByOwner(_ context.Context, ownerUserID string) (*model.Company, error) {
	if f.company == nil || f.company.OwnerUserID != ownerUserID {
		return nil, domain.ErrCompanyNotFound
	}
	return f.company, nil
}

func (f *fakePaymentStore) GetCompanyByID(_ context.Context, companyID string) (*model.Company, error) {
	if f.company == nil || f.company.CompanyID != companyID {
		return nil, domain.ErrCompanyNotFound
	}
	return f.company, nil
}

func (f *fakePaymentStore) GetJobByID(_ context.Context, jobID string) (*model.JobPosting, error) {
	if f.job == nil || f.job.JobID != jobID {
		return nil, domain.ErrJobNotFound
	}
	return f.job, nil
}

func (f *fakePaymentStore) PaymentExists(_ context.Context, transactionID string) (bool, error) {
	return f.existingPayments[transactionID], nil
}

func (f *fakePaymentStore) HasApplied(_ context.Context, _, _ string) (bool, error) {
	return f.hasApplied, nil
}

func (f *fakePaymentStore) PublishJobWithPayment(_ context.Context, job *model.JobPosting, payment *model.PaymentTransaction) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	if f.existingPayments[payment.TransactionID] {
		return domain.ErrPaymentAlreadyProcessed
	}
	f.publishedJobs = append(f.publishedJobs, job)
	f.ledger = append(f.ledger, payment)
	return nil
}

func (f *fakePaymentStore) CreateApplicationWithPayment(_ context.Context, app *model.JobApplication, payment *model.PaymentTransaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.hasApplied {
		return domain.ErrAlreadyApplied
	}
	if f.existingPayments[payment.TransactionID] {
		return domain.ErrPaymentAlreadyProcessed
	}
	f.applications = append(f.applications, app)
	f.ledger = append(f.ledger, payment)
	return nil
}

type fakeGateway struct{}

func (fakeGateway) Name() string { return "razorpay" }

func (fakeGateway) CreateOrder(_ context.Context, amount int64, currency, _ string) (*payments.Order, error) {
	return &payments.Order{OrderID: "order_test123", Amount: amount, Currency: currency}, nil
}

type fakeEvents struct {
	fired []*events.Event
}

func (f *fakeEvents) Fire(_ context.Context, e *events.Event) {
	f.fired = append(f.fired, e)
}

const testSecret = "test_webhook_secret"

func newPaymentTestServer(t *testing.T, store *fakePaymentStore, principal *auth.Principal) (*gin.Engine, *fakeEvents) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	firer := &fakeEvents{}
	h := &PaymentHandler{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		store:     store,
		gateway:   fakeGateway{},
		signature: payments.NewSignatureVerifier(testSecret),
		events:    firer,
		cfg: config.PaymentsConfig{
			Gateway:        "razorpay",
			KeyID:          "rzp_test_key",
			Currency:       "INR",
			JobPostingFee:  59900,
			ApplicationFee: 9900,
		},
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if principal != nil {
			SetPrincipal(c, principal)
		}
		c.Next()
	})
	r.POST("/payments/order", h.CreateOrder)
	r.POST("/payments/confirm-and-publish", h.ConfirmAndPublish)
	r.POST("/payments/confirm-application", h.ConfirmApplication)

	return r, firer
}

func companyFixture() (*fakePaymentStore, *auth.Principal) {
	user := &model.User{
		UserID:      "6f9619ff-8b86-4d01-b42d-00cf4fc964ff",
		AuthSubject: "auth0|company-owner",
		Email:       "owner@acme.example",
		Role:        domain.RoleCompany,
		Active:      true,
	}
	store := &fakePaymentStore{
		user: user,
		company: &model.Company{
			CompanyID:   "7c9e6679-7425-40de-944b-e07fc1f90ae7",
			OwnerUserID: user.UserID,
			Name:        "Acme",
		},
		existingPayments: map[string]bool{},
	}
	principal := &auth.Principal{
		Subject: user.AuthSubject,
		Email:   user.Email,
		Roles:   []string{domain.RoleCompany},
	}
	return store, principal
}

func seekerFixture() (*fakePaymentStore, *auth.Principal) {
	user := &model.User{
		UserID:      "e902893a-9d22-4eb4-b417-a957b58e2afe",
		AuthSubject: "auth0|job-seeker",
		Email:       "seeker@mail.example",
		Role:        domain.RoleJobSeeker,
		Active:      true,
	}
	store := &fakePaymentStore{
		user: user,
		company: &model.Company{
			CompanyID:   "7c9e6679-7425-40de-944b-e07fc1f90ae7",
			OwnerUserID: "6f9619ff-8b86-4d01-b42d-00cf4fc964ff",
			Name:        "Acme",
		},
		job: &model.JobPosting{
			JobID:     "0c6f9f3a-2f4f-4d16-9f6e-6f2a9d1c8b11",
			CompanyID: "7c9e6679-7425-40de-944b-e07fc1f90ae7",
			Title:     "Engineer",
			JobType:   domain.JobTypeFullTime,
			Status:    domain.JobStatusPublished,
		},
		existingPayments: map[string]bool{},
	}
	principal := &auth.Principal{
		Subject: user.AuthSubject,
		Email:   user.Email,
		Roles:   []string{domain.RoleJobSeeker},
	}
	return store, principal
}

func signedProof(orderID, paymentID string) map[string]string {
	sig := payments.NewSignatureVerifier(testSecret).Sign(orderID, paymentID)
	return map[string]string{
		"order_id":   orderID,
		"payment_id": paymentID,
		"signature":  sig,
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPaymentHandler_CreateOrder(t *testing.T) {
	store, principal := companyFixture()
	r, _ := newPaymentTestServer(t, store, principal)

	w := doJSON(t, r, http.MethodPost, "/payments/order", map[string]string{
		"purpose": domain.PaymentTypeJobPosting,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "order_test123", resp["order_id"])
	assert.Equal(t, float64(59900), resp["amount"])
	assert.Equal(t, "INR", resp["currency"])
	assert.Equal(t, "rzp_test_key", resp["key_id"])
}

func TestPaymentHandler_CreateOrder_UnknownPurpose(t *testing.T) {
	store, principal := companyFixture()
	r, _ := newPaymentTestServer(t, store, principal)

	w := doJSON(t, r, http.MethodPost, "/payments/order", map[string]string{
		"purpose": "SUBSCRIPTION",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_ConfirmAndPublish(t *testing.T) {
	store, principal := companyFixture()
	r, firer := newPaymentTestServer(t, store, principal)

	body := map[string]interface{}{
		"payment": signedProof("order_abc", "pay_xyz"),
		"job": map[string]interface{}{
			"title":       "Engineer",
			"description": "Build and run our hiring platform",
			"location":    "Bengaluru",
			"job_type":    domain.JobTypeFullTime,
		},
		"amount":   599,
		"currency": "INR",
	}

	w := doJSON(t, r, http.MethodPost, "/payments/confirm-and-publish", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])

	require.Len(t, store.publishedJobs, 1)
	job := store.publishedJobs[0]
	assert.Equal(t, "Engineer", job.Title)
	assert.Equal(t, domain.JobStatusPublished, job.Status)
	assert.Equal(t, store.company.CompanyID, job.CompanyID)

	require.Len(t, store.ledger, 1)
	ledger := store.ledger[0]
	assert.Equal(t, int64(599), ledger.Amount)
	assert.Equal(t, domain.PaymentStatusSuccess, ledger.Status)
	assert.Equal(t, domain.PaymentTypeJobPosting, ledger.PaymentType)
	assert.Equal(t, "pay_xyz", ledger.TransactionID)
	require.NotNil(t, ledger.JobPostingID)
	assert.Equal(t, job.JobID, *ledger.JobPostingID)

	require.Len(t, firer.fired, 1)
	assert.Equal(t, events.KindJobPublished, firer.fired[0].Kind)
}

func TestPaymentHandler_ConfirmAndPublish_TamperedSignature(t *testing.T) {
	store, principal := companyFixture()
	r, firer := newPaymentTestServer(t, store, principal)

	proof := signedProof("order_abc", "pay_xyz")
	// Flip one character of the hex signature
	sig := []byte(proof["signature"])
	if sig[0] == 'a' {
		sig[0] = 'b'
	} else {
		sig[0] = 'a'
	}
	proof["signature"] = string(sig)

	body := map[string]interface{}{
		"payment": proof,
		"job": map[string]interface{}{
			"title":       "Engineer",
			"description": "Build and run our hiring platform",
			"location":    "Bengaluru",
			"job_type":    domain.JobTypeFullTime,
		},
		"amount":   599,
		"currency": "INR",
	}

	w := doJSON(t, r, http.MethodPost, "/payments/confirm-and-publish", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Payment verification failed")

	assert.Empty(t, store.publishedJobs)
	assert.Empty(t, store.ledger)
	assert.Empty(t, firer.fired)
}

func TestPaymentHandler_ConfirmAndPublish_MissingPaymentField(t *testing.T) {
	store, principal := companyFixture()
	r, _ := newPaymentTestServer(t, store, principal)

	body := map[string]interface{}{
		"payment": map[string]string{
			"order_id":  "order_abc",
			"signature": "deadbeef",
		},
		"job": map[string]interface{}{
			"title":       "Engineer",
			"description": "Build and run our hiring platform",
			"location":    "Bengaluru",
			"job_type":    domain.JobTypeFullTime,
		},
		"amount":   599,
		"currency": "INR",
	}

	w := doJSON(t, r, http.MethodPost, "/payments/confirm-and-publish", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Payment verification failed")
	assert.Empty(t, store.ledger)
}

func TestPaymentHandler_ConfirmAndPublish_Replay(t *testing.T) {
	store, principal := companyFixture()
	store.existingPayments["pay_xyz"] = true
	r, _ := newPaymentTestServer(t, store, principal)

	body := map[string]interface{}{
		"payment": signedProof("order_abc", "pay_xyz"),
		"job": map[string]interface{}{
			"title":       "Engineer",
			"description": "Build and run our hiring platform",
			"location":    "Bengaluru",
			"job_type":    domain.JobTypeFullTime,
		},
		"amount":   599,
		"currency": "INR",
	}

	w := doJSON(t, r, http.MethodPost, "/payments/confirm-and-publish", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Payment already processed")
	assert.Empty(t, store.publishedJobs)
	assert.Empty(t, store.ledger)
}

func TestPaymentHandler_ConfirmAndPublish_StoreFailure(t *testing.T) {
	store, principal := companyFixture()
	store.publishErr = fmt.Errorf("pq: connection reset")
	r, firer := newPaymentTestServer(t, store, principal)

	body := map[string]interface{}{
		"payment": signedProof("order_abc", "pay_xyz"),
		"job": map[string]interface{}{
			"title":       "Engineer",
			"description": "Build and run our hiring platform",
			"location":    "Bengaluru",
			"job_type":    domain.JobTypeFullTime,
		},
		"amount":   599,
		"currency": "INR",
	}

	w := doJSON(t, r, http.MethodPost, "/payments/confirm-and-publish", body)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
	assert.NotContains(t, w.Body.String(), "connection reset")
	assert.Empty(t, firer.fired)
}

func TestPaymentHandler_ConfirmApplication(t *testing.T) {
	store, principal := seekerFixture()
	r, firer := newPaymentTestServer(t, store, principal)

	body := map[string]interface{}{
		"payment":      signedProof("order_app1", "pay_app1"),
		"job_id":       store.job.JobID,
		"cover_letter": "I would love to work on this.",
		"resume_url":   "https://cdn.hireloop.example/resumes/abc.pdf",
		"amount":       9900,
		"currency":     "INR",
	}

	w := doJSON(t, r, http.MethodPost, "/payments/confirm-application", body)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, store.applications, 1)
	app := store.applications[0]
	assert.Equal(t, domain.ApplicationStatusApplied, app.Status)
	assert.Equal(t, store.user.UserID, app.JobSeekerID)

	require.Len(t, store.ledger, 1)
	ledger := store.ledger[0]
	assert.Equal(t, domain.PaymentTypeApplicationFee, ledger.PaymentType)
	assert.Equal(t, int64(9900), ledger.Amount)
	require.NotNil(t, ledger.ApplicationID)
	assert.Equal(t, app.ApplicationID, *ledger.ApplicationID)

	require.Len(t, firer.fired, 1)
	assert.Equal(t, events.KindApplicationReceived, firer.fired[0].Kind)
	assert.Equal(t, store.company.OwnerUserID, firer.fired[0].RecipientUserID)
}

func TestPaymentHandler_ConfirmApplication_MissingResume(t *testing.T) {
	store, principal := seekerFixture()
	r, firer := newPaymentTestServer(t, store, principal)

	body := map[string]interface{}{
		"payment":      signedProof("order_app1", "pay_app1"),
		"job_id":       store.job.JobID,
		"cover_letter": "I would love to work on this.",
		"amount":       9900,
		"currency":     "INR",
	}

	w := doJSON(t, r, http.MethodPost, "/payments/confirm-application", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Resume is required")

	assert.Empty(t, store.applications)
	assert.Empty(t, store.ledger)
	assert.Empty(t, firer.fired)
}

func TestPaymentHandler_ConfirmApplication_Duplicate(t *testing.T) {
	store, principal := seekerFixture()
	store.hasApplied = true
	r, _ := newPaymentTestServer(t, store, principal)

	body := map[string]interface{}{
		"payment":    signedProof("order_app1", "pay_app1"),
		"job_id":     store.job.JobID,
		"resume_url": "https://cdn.hireloop.example/resumes/abc.pdf",
		"amount":     9900,
		"currency":   "INR",
	}

	w := doJSON(t, r, http.MethodPost, "/payments/confirm-application", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "You have already applied for this job")
	assert.Empty(t, store.applications)
	assert.Empty(t, store.ledger)
}

func TestPaymentHandler_ConfirmApplication_JobNotOpen(t *testing.T) {
	store, principal := seekerFixture()
	store.job.Status = domain.JobStatusClosed
	r, _ := newPaymentTestServer(t, store, principal)

	body := map[string]interface{}{
		"payment":    signedProof("order_app1", "pay_app1"),
		"job_id":     store.job.JobID,
		"resume_url": "https://cdn.hireloop.example/resumes/abc.pdf",
		"amount":     9900,
		"currency":   "INR",
	}

	w := doJSON(t, r, http.MethodPost, "/payments/confirm-application", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not open")
	assert.Empty(t, store.ledger)
}

func TestPaymentHandler_Unauthenticated(t *testing.T) {
	store, _ := companyFixture()
	r, _ := newPaymentTestServer(t, store, nil)

	w := doJSON(t, r, http.MethodPost, "/payments/order", map[string]string{
		"purpose": domain.PaymentTypeJobPosting,
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentHandler_InactiveUser(t *testing.T) {
	store, principal := companyFixture()
	store.user.Active = false
	r, _ := newPaymentTestServer(t, store, principal)

	w := doJSON(t, r, http.MethodPost, "/payments/order", map[string]string{
		"purpose": domain.PaymentTypeJobPosting,
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// Events fire only after the transaction has committed.
func TestPaymentHandler_NoEventOnFailedConfirm(t *testing.T) {
	store, principal := seekerFixture()
	store.createErr = fmt.Errorf("pq: deadlock detected")
	r, firer := newPaymentTestServer(t, store, principal)

	body := map[string]interface{}{
		"payment":    signedProof("order_app1", "pay_app1"),
		"job_id":     store.job.JobID,
		"resume_url": "https://cdn.hireloop.example/resumes/abc.pdf",
		"amount":     9900,
		"currency":   "INR",
	}

	w := doJSON(t, r, http.MethodPost, "/payments/confirm-application", body)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, firer.fired)
}
