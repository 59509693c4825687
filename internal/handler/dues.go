package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/segyhp/dues-engine/internal/domain"
	"github.com/segyhp/dues-engine/pkg/response"
	"github.com/segyhp/dues-engine/pkg/utils"
	"github.com/shopspring/decimal"
)

// DuesService is what the HTTP layer needs from the dues engine
type DuesService interface {
	ListAssociationDues(ctx context.Context, associationID, actorID uuid.UUID) (*domain.DuesListResponse, error)
	GenerateDues(ctx context.Context, associationID, actorID uuid.UUID) (*domain.ReconcileReport, error)
	MarkPaid(ctx context.Context, dueID, actorID uuid.UUID, request domain.MarkPaidRequest) (*domain.MemberDue, error)
	RetryLedger(ctx context.Context, dueID, actorID uuid.UUID) (*domain.MemberDue, error)
	MemberDuesSummary(ctx context.Context, memberID, actorID uuid.UUID) (*domain.MemberDuesResponse, error)
	ConfirmGatewayPayment(ctx context.Context, request domain.GatewayPaymentRequest) (*domain.MemberDue, error)
	SendReminder(ctx context.Context, associationID, memberID, actorID uuid.UUID) (*domain.ReminderResponse, error)
}

type DuesHandler struct {
	service   DuesService
	validator *validator.Validate
}

func NewDuesHandler(service DuesService) *DuesHandler {
	return &DuesHandler{
		service:   service,
		validator: NewValidator(),
	}
}

// NewValidator returns a validator that understands decimal.Decimal fields
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("decimal_gte", func(fl validator.FieldLevel) bool {
		value, err := utils.DecimalFromString(fl.Field().String())
		if err != nil {
			return false
		}
		floor, err := utils.DecimalFromString(fl.Param())
		if err != nil {
			return false
		}
		return value.GreaterThanOrEqual(floor)
	})

	return v
}

func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	return id, err == nil
}

// ListDues returns an association's dues after reconciling the current period
func (h *DuesHandler) ListDues(w http.ResponseWriter, r *http.Request) {
	actorID, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	associationID, ok := pathUUID(r, "associationId")
	if !ok {
		response.BadRequest(w, "Invalid association ID", nil)
		return
	}

	result, err := h.service.ListAssociationDues(r.Context(), associationID, actorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, result)
}

// GenerateDues runs a reconciliation pass for the association
func (h *DuesHandler) GenerateDues(w http.ResponseWriter, r *http.Request) {
	actorID, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	associationID, ok := pathUUID(r, "associationId")
	if !ok {
		response.BadRequest(w, "Invalid association ID", nil)
		return
	}

	report, err := h.service.GenerateDues(r.Context(), associationID, actorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	result := domain.GenerateDuesResponse{
		Count:    len(report.Generated),
		Existing: len(report.Skipped),
		DueDate:  report.DueDate,
		Period:   report.Period,
		Failures: report.FailureDTOs(),
	}

	if len(report.Generated) == 0 {
		response.Success(w, result)
		return
	}
	response.Created(w, result)
}

// MarkPaid records a manual payment against a due
func (h *DuesHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	actorID, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	dueID, ok := pathUUID(r, "dueId")
	if !ok {
		response.BadRequest(w, "Invalid due ID", nil)
		return
	}

	var request domain.MarkPaidRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			response.BadRequest(w, "Invalid request body", err)
			return
		}
	}

	if err := h.validator.Struct(request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	due, err := h.service.MarkPaid(r.Context(), dueID, actorID, request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, due)
}

// RetryLedger re-records income for a due whose ledger write failed
func (h *DuesHandler) RetryLedger(w http.ResponseWriter, r *http.Request) {
	actorID, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	dueID, ok := pathUUID(r, "dueId")
	if !ok {
		response.BadRequest(w, "Invalid due ID", nil)
		return
	}

	due, err := h.service.RetryLedger(r.Context(), dueID, actorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, due)
}

// MemberDues returns a member's dues across associations with totals
func (h *DuesHandler) MemberDues(w http.ResponseWriter, r *http.Request) {
	actorID, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	memberID, ok := pathUUID(r, "memberId")
	if !ok {
		response.BadRequest(w, "Invalid member ID", nil)
		return
	}

	result, err := h.service.MemberDuesSummary(r.Context(), memberID, actorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, result)
}

// SendReminder notifies a member about their latest unpaid due
func (h *DuesHandler) SendReminder(w http.ResponseWriter, r *http.Request) {
	actorID, ok := ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	associationID, ok := pathUUID(r, "associationId")
	if !ok {
		response.BadRequest(w, "Invalid association ID", nil)
		return
	}

	memberID, ok := pathUUID(r, "memberId")
	if !ok {
		response.BadRequest(w, "Invalid member ID", nil)
		return
	}

	result, err := h.service.SendReminder(r.Context(), associationID, memberID, actorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, result)
}

type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Status    string `json:"status"`
		PaidAt    string `json:"paid_at"`
	} `json:"data"`
}

// PaymentWebhook confirms dues paid through the gateway. Other events are acknowledged and ignored.
func (h *DuesHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var event paystackEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		response.BadRequest(w, "Invalid webhook payload", err)
		return
	}

	if event.Event != "charge.success" || event.Data.Status != "success" {
		response.Success(w, map[string]string{"status": "ignored"})
		return
	}

	paidAt, err := time.Parse(time.RFC3339, event.Data.PaidAt)
	if err != nil {
		paidAt = time.Now()
	}

	request := domain.GatewayPaymentRequest{
		Reference: event.Data.Reference,
		Amount:    event.Data.Amount,
		PaidAt:    paidAt,
	}
	if err := h.validator.Struct(request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	due, err := h.service.ConfirmGatewayPayment(r.Context(), request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, due)
}
