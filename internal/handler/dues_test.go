package handler

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/dues-engine/internal/domain"
	"github.com/segyhp/dues-engine/internal/mocks"
	customError "github.com/segyhp/dues-engine/pkg/errors"
)

const (
	testJWTSecret     = "test-secret"
	testWebhookSecret = "sk_test_webhook"
)

func newRouter(svc DuesService) *mux.Router {
	h := NewDuesHandler(svc)
	router := mux.NewRouter()

	webhooks := router.PathPrefix("/api/v1/webhooks").Subrouter()
	webhooks.Use(WebhookSignatureMiddleware(testWebhookSecret))
	webhooks.HandleFunc("/payments", h.PaymentWebhook).Methods("POST")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(testJWTSecret))
	api.HandleFunc("/associations/{associationId}/dues", h.ListDues).Methods("GET")
	api.HandleFunc("/associations/{associationId}/dues/generate", h.GenerateDues).Methods("POST")
	api.HandleFunc("/dues/{dueId}/pay", h.MarkPaid).Methods("POST")
	api.HandleFunc("/dues/{dueId}/ledger/retry", h.RetryLedger).Methods("POST")
	api.HandleFunc("/members/{memberId}/dues", h.MemberDues).Methods("GET")
	api.HandleFunc("/associations/{associationId}/members/{memberId}/dues/remind", h.SendReminder).Methods("POST")

	return router
}

func signToken(t *testing.T, subject string, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authed(t *testing.T, method, target, body string, actorID uuid.UUID) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+signToken(t, actorID.String(), testJWTSecret))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestAuthMiddleware(t *testing.T) {
	svc := mocks.NewMockDuesService()
	router := newRouter(svc)
	associationID := uuid.New()
	target := "/api/v1/associations/" + associationID.String() + "/dues"

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "wrong secret", header: "Bearer " + signToken(t, uuid.NewString(), "other")},
		{name: "subject is not a uuid", header: "Bearer " + signToken(t, "42", testJWTSecret)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	svc.AssertNotCalled(t, "ListAssociationDues", mock.Anything, mock.Anything, mock.Anything)
}

func TestListDues(t *testing.T) {
	svc := mocks.NewMockDuesService()
	router := newRouter(svc)
	actorID := uuid.New()
	associationID := uuid.New()

	svc.On("ListAssociationDues", mock.Anything, associationID, actorID).Return(&domain.DuesListResponse{
		AssociationID: associationID,
		Dues:          []*domain.MemberDue{{ID: uuid.New(), Status: domain.DueStatusPending}},
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authed(t, http.MethodGet, "/api/v1/associations/"+associationID.String()+"/dues", "", actorID))

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.True(t, env.Success)

	var body domain.DuesListResponse
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Len(t, body.Dues, 1)
	svc.AssertExpectations(t)
}

func TestListDues_InvalidAssociationID(t *testing.T) {
	svc := mocks.NewMockDuesService()
	router := newRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authed(t, http.MethodGet, "/api/v1/associations/not-a-uuid/dues", "", uuid.New()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateDues(t *testing.T) {
	associationID := uuid.New()
	actorID := uuid.New()
	target := "/api/v1/associations/" + associationID.String() + "/dues/generate"
	dueDate := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		report     *domain.ReconcileReport
		err        error
		wantStatus int
		wantCode   string
		check      func(t *testing.T, body domain.GenerateDuesResponse)
	}{
		{
			name: "new dues created",
			report: &domain.ReconcileReport{
				DueDate:   dueDate,
				Generated: []*domain.MemberDue{{ID: uuid.New()}, {ID: uuid.New()}},
				Skipped:   []uuid.UUID{uuid.New()},
				Failures:  []domain.MemberFailure{{MemberID: uuid.New(), Err: errors.New("boom")}},
			},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, body domain.GenerateDuesResponse) {
				assert.Equal(t, 2, body.Count)
				assert.Equal(t, 1, body.Existing)
				require.Len(t, body.Failures, 1)
				assert.Equal(t, "boom", body.Failures[0].Error)
			},
		},
		{
			name:       "nothing new",
			report:     &domain.ReconcileReport{DueDate: dueDate, Skipped: []uuid.UUID{uuid.New()}},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body domain.GenerateDuesResponse) {
				assert.Equal(t, 0, body.Count)
				assert.Empty(t, body.Failures)
			},
		},
		{
			name:       "not an admin",
			err:        customError.WrapForbidden("Only admins can generate dues"),
			wantStatus: http.StatusForbidden,
			wantCode:   customError.ErrCodeForbidden,
		},
		{
			name:       "dues disabled",
			err:        customError.WrapDuesNotEnabled(associationID.String()),
			wantStatus: http.StatusBadRequest,
			wantCode:   customError.ErrCodeDuesNotEnabled,
		},
		{
			name:       "another pass running",
			err:        customError.WrapReconcileInProgress(associationID.String()),
			wantStatus: http.StatusConflict,
			wantCode:   customError.ErrCodeReconcileInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockDuesService()
			router := newRouter(svc)

			if tt.err != nil {
				svc.On("GenerateDues", mock.Anything, associationID, actorID).Return(nil, tt.err)
			} else {
				svc.On("GenerateDues", mock.Anything, associationID, actorID).Return(tt.report, nil)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authed(t, http.MethodPost, target, "", actorID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decode(t, rec)
			assert.Equal(t, tt.wantCode, env.Code)

			if tt.check != nil {
				var body domain.GenerateDuesResponse
				require.NoError(t, json.Unmarshal(env.Data, &body))
				tt.check(t, body)
			}
		})
	}
}

func TestMarkPaid(t *testing.T) {
	dueID := uuid.New()
	actorID := uuid.New()
	target := "/api/v1/dues/" + dueID.String() + "/pay"

	t.Run("amount and method are passed through", func(t *testing.T) {
		svc := mocks.NewMockDuesService()
		router := newRouter(svc)

		svc.On("MarkPaid", mock.Anything, dueID, actorID, mock.MatchedBy(func(req domain.MarkPaidRequest) bool {
			return req.PaidAmount != nil && req.PaidAmount.Equal(decimal.NewFromInt(50)) && req.PaymentMethod == "cash"
		})).Return(&domain.MemberDue{ID: dueID, Status: domain.DueStatusPaid}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authed(t, http.MethodPost, target, `{"paid_amount":"50","payment_method":"cash"}`, actorID))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("empty body pays the due amount", func(t *testing.T) {
		svc := mocks.NewMockDuesService()
		router := newRouter(svc)

		svc.On("MarkPaid", mock.Anything, dueID, actorID, domain.MarkPaidRequest{}).
			Return(&domain.MemberDue{ID: dueID, Status: domain.DueStatusPaid}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authed(t, http.MethodPost, target, "", actorID))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("negative amount fails validation", func(t *testing.T) {
		svc := mocks.NewMockDuesService()
		router := newRouter(svc)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authed(t, http.MethodPost, target, `{"paid_amount":"-1"}`, actorID))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := mocks.NewMockDuesService()
		router := newRouter(svc)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authed(t, http.MethodPost, target, `{"paid_amount":`, actorID))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("already paid", func(t *testing.T) {
		svc := mocks.NewMockDuesService()
		router := newRouter(svc)

		svc.On("MarkPaid", mock.Anything, dueID, actorID, mock.Anything).Return(nil, customError.WrapDueAlreadyPaid(dueID.String()))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authed(t, http.MethodPost, target, "{}", actorID))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, customError.ErrCodeDueAlreadyPaid, decode(t, rec).Code)
	})

	t.Run("database details are not leaked", func(t *testing.T) {
		svc := mocks.NewMockDuesService()
		router := newRouter(svc)

		svc.On("MarkPaid", mock.Anything, dueID, actorID, mock.Anything).Return(nil, customError.WrapDatabaseError(errors.New("pq: password authentication failed")))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authed(t, http.MethodPost, target, "{}", actorID))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
	})
}

func TestRetryLedger(t *testing.T) {
	svc := mocks.NewMockDuesService()
	router := newRouter(svc)
	dueID := uuid.New()
	actorID := uuid.New()

	svc.On("RetryLedger", mock.Anything, dueID, actorID).Return(&domain.MemberDue{ID: dueID, Status: domain.DueStatusPaid}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authed(t, http.MethodPost, "/api/v1/dues/"+dueID.String()+"/ledger/retry", "", actorID))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestMemberDues(t *testing.T) {
	svc := mocks.NewMockDuesService()
	router := newRouter(svc)
	memberID := uuid.New()
	actorID := uuid.New()

	svc.On("MemberDuesSummary", mock.Anything, memberID, actorID).Return(nil, customError.WrapForbidden("Not authorized to view this member's dues"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authed(t, http.MethodGet, "/api/v1/members/"+memberID.String()+"/dues", "", actorID))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSendReminder(t *testing.T) {
	associationID := uuid.New()
	memberID := uuid.New()
	actorID := uuid.New()
	target := "/api/v1/associations/" + associationID.String() + "/members/" + memberID.String() + "/dues/remind"

	tests := []struct {
		name       string
		result     *domain.ReminderResponse
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "reminder sent",
			result:     &domain.ReminderResponse{DueID: uuid.New(), MemberID: memberID, Status: domain.DueStatusOverdue, Sent: true},
			wantStatus: http.StatusOK,
		},
		{
			name:       "regular member",
			err:        customError.WrapForbidden("Only admins and moderators can send payment reminders"),
			wantStatus: http.StatusForbidden,
			wantCode:   customError.ErrCodeForbidden,
		},
		{
			name:       "nothing owed",
			err:        customError.WrapNoOutstandingDue(memberID.String()),
			wantStatus: http.StatusNotFound,
			wantCode:   customError.ErrCodeNoOutstandingDue,
		},
		{
			name:       "unknown member",
			err:        customError.WrapMemberNotFound(memberID.String()),
			wantStatus: http.StatusNotFound,
			wantCode:   customError.ErrCodeMemberNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockDuesService()
			router := newRouter(svc)

			if tt.err != nil {
				svc.On("SendReminder", mock.Anything, associationID, memberID, actorID).Return(nil, tt.err)
			} else {
				svc.On("SendReminder", mock.Anything, associationID, memberID, actorID).Return(tt.result, nil)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authed(t, http.MethodPost, target, "", actorID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decode(t, rec)
			assert.Equal(t, tt.wantCode, env.Code)

			if tt.result != nil {
				var body domain.ReminderResponse
				require.NoError(t, json.Unmarshal(env.Data, &body))
				assert.True(t, body.Sent)
				assert.Equal(t, tt.result.DueID, body.DueID)
			}
			svc.AssertExpectations(t)
		})
	}

	t.Run("invalid member ID", func(t *testing.T) {
		svc := mocks.NewMockDuesService()
		router := newRouter(svc)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authed(t, http.MethodPost, "/api/v1/associations/"+associationID.String()+"/members/42/dues/remind", "", actorID))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "SendReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func sign(body string) string {
	mac := hmac.New(sha512.New, []byte(testWebhookSecret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaymentWebhook(t *testing.T) {
	dueID := uuid.New()
	reference := "dues_" + dueID.String() + "_1706745600"
	body := `{"event":"charge.success","data":{"reference":"` + reference + `","amount":5000,"status":"success","paid_at":"2024-01-31T14:00:00Z"}}`

	t.Run("valid signature confirms the payment", func(t *testing.T) {
		svc := mocks.NewMockDuesService()
		router := newRouter(svc)

		svc.On("ConfirmGatewayPayment", mock.Anything, domain.GatewayPaymentRequest{
			Reference: reference,
			Amount:    5000,
			PaidAt:    time.Date(2024, 1, 31, 14, 0, 0, 0, time.UTC),
		}).Return(&domain.MemberDue{ID: dueID, Status: domain.DueStatusPaid}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader(body))
		req.Header.Set("X-Paystack-Signature", sign(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("bad signature is rejected", func(t *testing.T) {
		svc := mocks.NewMockDuesService()
		router := newRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader(body))
		req.Header.Set("X-Paystack-Signature", sign(body+" "))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "ConfirmGatewayPayment", mock.Anything, mock.Anything)
	})

	t.Run("other events are ignored", func(t *testing.T) {
		svc := mocks.NewMockDuesService()
		router := newRouter(svc)

		other := `{"event":"transfer.success","data":{"reference":"x"}}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader(other))
		req.Header.Set("X-Paystack-Signature", sign(other))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertNotCalled(t, "ConfirmGatewayPayment", mock.Anything, mock.Anything)
	})

	t.Run("reference that is not a due", func(t *testing.T) {
		svc := mocks.NewMockDuesService()
		router := newRouter(svc)

		svc.On("ConfirmGatewayPayment", mock.Anything, mock.Anything).Return(nil, customError.WrapInvalidReference("loan_1"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader(body))
		req.Header.Set("X-Paystack-Signature", sign(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, customError.ErrCodeInvalidReference, decode(t, rec).Code)
	})
}

func TestNewValidator_DecimalGTE(t *testing.T) {
	v := NewValidator()

	ok := decimal.RequireFromString("0")
	bad := decimal.RequireFromString("-0.01")

	assert.NoError(t, v.Struct(domain.MarkPaidRequest{}))
	assert.NoError(t, v.Struct(domain.MarkPaidRequest{PaidAmount: &ok}))
	assert.Error(t, v.Struct(domain.MarkPaidRequest{PaidAmount: &bad}))
}
