package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/dues-engine/internal/cache"
	"github.com/segyhp/dues-engine/internal/config"
	"github.com/segyhp/dues-engine/internal/domain"
	"github.com/segyhp/dues-engine/internal/notify"
	"github.com/segyhp/dues-engine/internal/repository"
	customError "github.com/segyhp/dues-engine/pkg/errors"
	"github.com/segyhp/dues-engine/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const defaultLockTTL = 30 * time.Second

// Locker serialises reconciliation passes for one association across processes
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, error)
}

// DuesService computes due periods, generates member dues once per period,
// sweeps late dues to overdue and records payments.
type DuesService struct {
	AssociationRepo repository.AssociationRepository
	MemberRepo      repository.MemberRepository
	DueRepo         repository.DueRepository
	ledger          LedgerRecorder
	notifier        notify.Notifier
	locker          Locker
	log             logrus.FieldLogger

	location   *time.Location
	allowRepay bool
	lockTTL    time.Duration
	now        func() time.Time
}

// NewDuesService wires the engine. notifier and locker may be nil.
func NewDuesService(
	associationRepo repository.AssociationRepository,
	memberRepo repository.MemberRepository,
	dueRepo repository.DueRepository,
	ledger LedgerRecorder,
	notifier notify.Notifier,
	locker Locker,
	cfg *config.Config,
	log logrus.FieldLogger,
) *DuesService {
	s := &DuesService{
		AssociationRepo: associationRepo,
		MemberRepo:      memberRepo,
		DueRepo:         dueRepo,
		ledger:          ledger,
		notifier:        notifier,
		locker:          locker,
		log:             log,
		location:        time.UTC,
		lockTTL:         defaultLockTTL,
		now:             time.Now,
	}

	if cfg != nil {
		s.location = cfg.Location()
		s.allowRepay = cfg.AllowsRepay()
		s.lockTTL = cfg.Dues.LockTTL
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}

	return s
}

func (s *DuesService) clock() time.Time {
	return s.now().In(s.location)
}

// ValidateRule fails fast when a rule cannot produce dues
func ValidateRule(associationID uuid.UUID, rule domain.RecurrenceRule) error {
	if !rule.Enabled {
		return customError.WrapDuesNotEnabled(associationID.String())
	}

	if !rule.Frequency.Valid() {
		return customError.WrapInvalidRule(fmt.Sprintf("unknown dues frequency %q", rule.Frequency))
	}

	if !rule.Amount.IsPositive() {
		return customError.WrapInvalidRule("dues amount is required and must be greater than 0")
	}

	maxAnchor := 31
	if rule.Frequency == domain.FrequencyWeekly {
		maxAnchor = 7
	}
	if rule.AnchorDay < 1 || rule.AnchorDay > maxAnchor {
		return customError.WrapInvalidRule(fmt.Sprintf("anchor day must be between 1 and %d for %s dues", maxAnchor, rule.Frequency))
	}

	return nil
}

// CurrentPeriod returns the upcoming due date and the period it closes
func (s *DuesService) CurrentPeriod(rule domain.RecurrenceRule) (time.Time, domain.DuesPeriod) {
	dueDate := utils.NextDueDate(rule.Frequency, rule.AnchorDay, s.clock())
	return dueDate, utils.PeriodRange(rule.Frequency, dueDate)
}

// ReconcileDues makes sure every active member has a due for the current period.
// Members are processed independently; failures are collected in the report.
func (s *DuesService) ReconcileDues(ctx context.Context, association *domain.Association, activeMembers []*domain.Member) (*domain.ReconcileReport, error) {
	if err := ValidateRule(association.ID, association.Dues); err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, association.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	now := s.clock()
	dueDate, period := s.CurrentPeriod(association.Dues)

	report := &domain.ReconcileReport{
		AssociationID: association.ID,
		DueDate:       dueDate,
		Period:        period,
		Generated:     []*domain.MemberDue{},
		Skipped:       []uuid.UUID{},
	}

	for _, member := range activeMembers {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !member.IsActive() {
			continue
		}

		due, err := s.reconcileMember(ctx, association, member.UserID, dueDate, period, now)
		switch {
		case err != nil:
			s.log.WithError(err).WithFields(logrus.Fields{
				"association_id": association.ID,
				"member_id":      member.UserID,
			}).Error("failed to generate due")
			report.Failures = append(report.Failures, domain.MemberFailure{MemberID: member.UserID, Err: err})
		case due == nil:
			report.Skipped = append(report.Skipped, member.UserID)
		default:
			report.Generated = append(report.Generated, due)
		}
	}

	s.log.WithFields(logrus.Fields{
		"association_id": association.ID,
		"due_date":       dueDate.Format("2006-01-02"),
		"generated":      len(report.Generated),
		"skipped":        len(report.Skipped),
		"failed":         len(report.Failures),
	}).Info("dues reconciled")

	if len(report.Generated) > 0 && s.notifier != nil {
		if err := s.notifier.DuesGenerated(ctx, association, report.Generated); err != nil {
			s.log.WithError(err).WithField("association_id", association.ID).Warn("dues notification failed")
		}
	}

	return report, nil
}

// reconcileMember returns the created due, or nil when the period is already covered
func (s *DuesService) reconcileMember(ctx context.Context, association *domain.Association, memberID uuid.UUID, dueDate time.Time, period domain.DuesPeriod, now time.Time) (*domain.MemberDue, error) {
	_, err := s.DueRepo.FindInPeriod(ctx, association.ID, memberID, period)
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	due := &domain.MemberDue{
		ID:            uuid.New(),
		AssociationID: association.ID,
		MemberID:      memberID,
		Amount:        association.Dues.Amount,
		DueDate:       dueDate,
		PeriodStart:   period.Start,
		PeriodEnd:     period.End,
		Status:        utils.InitialStatus(dueDate, now),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.DueRepo.CreateIfAbsent(ctx, due)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if !created {
		s.log.WithFields(logrus.Fields{
			"association_id": association.ID,
			"member_id":      memberID,
		}).Debug("due for this period was created by a concurrent pass")
		return nil, nil
	}

	return due, nil
}

func (s *DuesService) acquire(ctx context.Context, associationID uuid.UUID) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}

	unlock, err := s.locker.Acquire(ctx, "reconcile:"+associationID.String(), s.lockTTL)
	if errors.Is(err, cache.ErrLockHeld) {
		return nil, customError.WrapReconcileInProgress(associationID.String())
	}
	if err != nil {
		// the unique period index still prevents duplicates without the lock
		s.log.WithError(customError.WrapCacheError(err)).WithField("association_id", associationID).Warn("reconcile lock unavailable, continuing without it")
		return noop, nil
	}

	return func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.log.WithError(err).WithField("association_id", associationID).Warn("failed to release reconcile lock")
		}
	}, nil
}

// GenerateDues is the explicit admin action that runs a reconciliation pass
func (s *DuesService) GenerateDues(ctx context.Context, associationID, actorID uuid.UUID) (*domain.ReconcileReport, error) {
	association, err := s.getAssociation(ctx, associationID)
	if err != nil {
		return nil, err
	}

	actor, err := s.getActor(ctx, associationID, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.MemberRoleAdmin {
		return nil, customError.WrapForbidden("Only admins can generate dues")
	}

	if !association.Dues.Enabled {
		return nil, customError.WrapDuesNotEnabled(associationID.String())
	}

	members, err := s.MemberRepo.ListActive(ctx, associationID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return s.ReconcileDues(ctx, association, members)
}

// SweepOverdue marks pending dues whose due date has passed as overdue.
// It returns the dues that changed.
func (s *DuesService) SweepOverdue(ctx context.Context, dues []*domain.MemberDue) ([]*domain.MemberDue, error) {
	now := s.clock()
	updated := make([]*domain.MemberDue, 0)
	var errs []error

	for _, due := range dues {
		if due.Status != domain.DueStatusPending || !utils.IsOverdue(due.DueDate, now) {
			continue
		}

		moved, err := s.DueRepo.UpdateStatus(ctx, due.ID, domain.DueStatusPending, domain.DueStatusOverdue)
		if err != nil {
			errs = append(errs, fmt.Errorf("due %s: %w", due.ID, err))
			continue
		}
		if !moved {
			// changed underneath us, most likely paid
			continue
		}

		due.Status = domain.DueStatusOverdue
		due.UpdatedAt = now
		updated = append(updated, due)
	}

	if len(errs) > 0 {
		return updated, customError.WrapDatabaseError(errors.Join(errs...))
	}

	return updated, nil
}

// ListAssociationDues is the read path: it reconciles the current period,
// sweeps late dues and returns everything newest first.
func (s *DuesService) ListAssociationDues(ctx context.Context, associationID, actorID uuid.UUID) (*domain.DuesListResponse, error) {
	association, err := s.getAssociation(ctx, associationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.getActor(ctx, associationID, actorID); err != nil {
		return nil, err
	}

	resp := &domain.DuesListResponse{AssociationID: associationID}

	if association.Dues.Enabled {
		members, err := s.MemberRepo.ListActive(ctx, associationID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}

		report, err := s.ReconcileDues(ctx, association, members)
		switch {
		case errors.Is(err, customError.ErrReconcileInProgress):
			s.log.WithField("association_id", associationID).Debug("reconcile in progress elsewhere, listing only")
		case errors.Is(err, customError.ErrInvalidRule):
			s.log.WithError(err).WithField("association_id", associationID).Warn("dues rule is invalid, skipping generation")
		case err != nil:
			return nil, err
		default:
			resp.Reconcile = report
		}
	}

	dues, err := s.DueRepo.ListByAssociation(ctx, associationID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if _, err := s.SweepOverdue(ctx, dues); err != nil {
		s.log.WithError(err).WithField("association_id", associationID).Warn("overdue sweep incomplete")
	}

	resp.Dues = dues
	return resp, nil
}

// MarkPaid records a manual payment. Only admins and moderators may do this.
func (s *DuesService) MarkPaid(ctx context.Context, dueID, actorID uuid.UUID, request domain.MarkPaidRequest) (*domain.MemberDue, error) {
	due, err := s.getDue(ctx, dueID)
	if err != nil {
		return nil, err
	}

	association, err := s.getAssociation(ctx, due.AssociationID)
	if err != nil {
		return nil, err
	}

	actor, err := s.getActor(ctx, due.AssociationID, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageDues() {
		return nil, customError.WrapForbidden("Insufficient permissions")
	}

	payment := Payment{
		Amount:     request.PaidAmount,
		Method:     request.PaymentMethod,
		Notes:      request.Notes,
		PaidAt:     s.clock(),
		RecordedBy: &actorID,
	}

	return s.markPaid(ctx, association, due, payment)
}

// Payment carries the optional fields of a payment confirmation
type Payment struct {
	Amount     *decimal.Decimal
	Method     string
	Notes      string
	Reference  string
	PaidAt     time.Time
	RecordedBy *uuid.UUID
}

// markPaid moves a pending or overdue due to paid, then records income.
// A ledger failure leaves the due paid and is reported as LEDGER_ERROR.
func (s *DuesService) markPaid(ctx context.Context, association *domain.Association, due *domain.MemberDue, payment Payment) (*domain.MemberDue, error) {
	if !due.IsPayable() {
		if due.Status != domain.DueStatusPaid || !s.allowRepay {
			return nil, customError.WrapDueAlreadyPaid(due.ID.String())
		}
	}

	amount := due.Amount
	if payment.Amount != nil {
		if payment.Amount.IsNegative() {
			return nil, customError.WrapInvalidPaymentAmount(payment.Amount.String())
		}
		// zero means "not given", the due amount applies
		if !payment.Amount.IsZero() {
			amount = *payment.Amount
		}
	}

	paidAt := payment.PaidAt
	due.Status = domain.DueStatusPaid
	due.PaidDate = &paidAt
	due.PaidAmount = &amount
	if payment.Method != "" {
		method := payment.Method
		due.PaymentMethod = &method
	}
	if payment.Notes != "" {
		notes := payment.Notes
		due.Notes = &notes
	}
	if payment.Reference != "" {
		reference := payment.Reference
		due.PaymentReference = &reference
	}
	due.UpdatedAt = s.clock()

	written, err := s.DueRepo.UpdatePayment(ctx, due, s.payableStatuses())
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if !written {
		// paid by another request after it was read
		return nil, customError.WrapDueAlreadyPaid(due.ID.String())
	}

	s.log.WithFields(logrus.Fields{
		"association_id": due.AssociationID,
		"due_id":         due.ID,
		"amount":         amount.String(),
	}).Info("due marked as paid")

	if err := s.recordIncome(ctx, due, payment.RecordedBy); err != nil {
		return due, err
	}

	if s.notifier != nil {
		if err := s.notifier.DuePaid(ctx, association, due); err != nil {
			s.log.WithError(err).WithField("due_id", due.ID).Warn("payment notification failed")
		}
	}

	return due, nil
}

// payableStatuses are the stored statuses a payment may be written over
func (s *DuesService) payableStatuses() []string {
	statuses := []string{domain.DueStatusPending, domain.DueStatusOverdue}
	if s.allowRepay {
		statuses = append(statuses, domain.DueStatusPaid)
	}
	return statuses
}

func (s *DuesService) recordIncome(ctx context.Context, due *domain.MemberDue, recordedBy *uuid.UUID) error {
	if s.ledger == nil {
		return nil
	}

	method := domain.PaymentMethodManual
	if due.PaymentMethod != nil && *due.PaymentMethod != "" {
		method = *due.PaymentMethod
	}

	payerName := "Member"
	if member, err := s.MemberRepo.GetMember(ctx, due.AssociationID, due.MemberID); err == nil && member.Name != "" {
		payerName = member.Name
	}

	entry := domain.LedgerEntry{
		AssociationID: due.AssociationID,
		DueID:         due.ID,
		PayerID:       due.MemberID,
		PayerName:     payerName,
		Amount:        *due.PaidAmount,
		Method:        method,
		RecordedBy:    recordedBy,
	}

	if _, err := s.ledger.Record(ctx, entry); err != nil {
		s.log.WithError(err).WithField("due_id", due.ID).Error("failed to record dues income")
		return customError.WrapLedgerError(due.ID.String(), err)
	}

	return nil
}

// RetryLedger re-records income for a paid due. Recording is idempotent per due.
func (s *DuesService) RetryLedger(ctx context.Context, dueID, actorID uuid.UUID) (*domain.MemberDue, error) {
	due, err := s.getDue(ctx, dueID)
	if err != nil {
		return nil, err
	}

	actor, err := s.getActor(ctx, due.AssociationID, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageDues() {
		return nil, customError.WrapForbidden("Insufficient permissions")
	}

	if due.Status != domain.DueStatusPaid || due.PaidAmount == nil {
		return nil, customError.WrapInvalidPaymentAmount("due has no recorded payment")
	}

	if err := s.recordIncome(ctx, due, &actorID); err != nil {
		return nil, err
	}

	return due, nil
}

// ParseDuesReference extracts the due ID from a gateway reference "dues_<dueID>_<timestamp>"
func ParseDuesReference(reference string) (uuid.UUID, error) {
	parts := strings.Split(reference, "_")
	if len(parts) != 3 || parts[0] != "dues" {
		return uuid.Nil, customError.WrapInvalidReference(reference)
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, customError.WrapInvalidReference(reference)
	}

	return id, nil
}

// ConfirmGatewayPayment marks a due paid from a verified gateway charge.
// Replays of the same reference return the paid due unchanged. A charge for a
// due that was already settled another way is acknowledged and logged.
func (s *DuesService) ConfirmGatewayPayment(ctx context.Context, request domain.GatewayPaymentRequest) (*domain.MemberDue, error) {
	dueID, err := ParseDuesReference(request.Reference)
	if err != nil {
		return nil, err
	}

	due, err := s.getDue(ctx, dueID)
	if err != nil {
		return nil, err
	}

	if due.Status == domain.DueStatusPaid && due.PaymentReference != nil && *due.PaymentReference == request.Reference {
		return due, nil
	}

	association, err := s.getAssociation(ctx, due.AssociationID)
	if err != nil {
		return nil, err
	}

	amount := utils.FromMinorUnits(request.Amount)
	payment := Payment{
		Amount:    &amount,
		Method:    domain.PaymentMethodPaystack,
		Reference: request.Reference,
		PaidAt:    request.PaidAt.In(s.location),
	}

	paid, err := s.markPaid(ctx, association, due, payment)
	if errors.Is(err, customError.ErrDueAlreadyPaid) {
		s.log.WithFields(logrus.Fields{
			"due_id":    due.ID,
			"reference": request.Reference,
			"amount":    amount.String(),
		}).Warn("gateway charge received for a due that is already paid")
		return s.getDue(ctx, due.ID)
	}

	return paid, err
}

// SendReminder notifies a member about their newest pending or overdue due
// in the association. Only admins and moderators may send reminders.
func (s *DuesService) SendReminder(ctx context.Context, associationID, memberID, actorID uuid.UUID) (*domain.ReminderResponse, error) {
	association, err := s.getAssociation(ctx, associationID)
	if err != nil {
		return nil, err
	}

	actor, err := s.getActor(ctx, associationID, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageDues() {
		return nil, customError.WrapForbidden("Only admins and moderators can send payment reminders")
	}

	member, err := s.MemberRepo.GetMember(ctx, associationID, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapMemberNotFound(memberID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	due, err := s.DueRepo.LatestOutstanding(ctx, associationID, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapNoOutstandingDue(memberID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	result := &domain.ReminderResponse{
		DueID:    due.ID,
		MemberID: memberID,
		Amount:   due.Amount,
		DueDate:  due.DueDate,
		Status:   due.Status,
	}

	log := s.log.WithFields(logrus.Fields{
		"association_id": associationID,
		"member_id":      memberID,
		"due_id":         due.ID,
	})

	if s.notifier == nil {
		log.Warn("no notifier configured, reminder not sent")
		return result, nil
	}
	if err := s.notifier.DueReminder(ctx, association, member, due); err != nil {
		log.WithError(err).Warn("dues reminder failed")
		return result, nil
	}

	result.Sent = true
	log.Info("dues reminder sent")
	return result, nil
}

// MemberDuesSummary lists a member's dues with totals. Other users need to
// manage dues in every association the member owes.
func (s *DuesService) MemberDuesSummary(ctx context.Context, memberID, actorID uuid.UUID) (*domain.MemberDuesResponse, error) {
	dues, err := s.DueRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if memberID != actorID {
		checked := make(map[uuid.UUID]bool)
		for _, due := range dues {
			if checked[due.AssociationID] {
				continue
			}
			actor, err := s.getActor(ctx, due.AssociationID, actorID)
			if err != nil {
				return nil, err
			}
			if !actor.CanManageDues() {
				return nil, customError.WrapForbidden("Not authorized to view this member's dues")
			}
			checked[due.AssociationID] = true
		}
	}

	if _, err := s.SweepOverdue(ctx, dues); err != nil {
		s.log.WithError(err).WithField("member_id", memberID).Warn("overdue sweep incomplete")
	}

	return &domain.MemberDuesResponse{
		MemberID: memberID,
		Dues:     dues,
		Stats:    SummarizeDues(dues),
	}, nil
}

// SummarizeDues counts dues by status and totals amounts owed and paid
func SummarizeDues(dues []*domain.MemberDue) domain.MemberDuesStats {
	stats := domain.MemberDuesStats{
		Total:       len(dues),
		TotalAmount: decimal.Zero,
		PaidAmount:  decimal.Zero,
	}

	for _, due := range dues {
		stats.TotalAmount = stats.TotalAmount.Add(due.Amount)
		switch due.Status {
		case domain.DueStatusPaid:
			stats.Paid++
			if due.PaidAmount != nil {
				stats.PaidAmount = stats.PaidAmount.Add(*due.PaidAmount)
			}
		case domain.DueStatusPending:
			stats.Pending++
		case domain.DueStatusOverdue:
			stats.Overdue++
		}
	}

	return stats
}

// RunScheduledPass reconciles and sweeps every association with dues enabled
func (s *DuesService) RunScheduledPass(ctx context.Context) error {
	associations, err := s.AssociationRepo.ListDuesEnabled(ctx)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	var errs []error
	for _, association := range associations {
		if err := ctx.Err(); err != nil {
			return err
		}

		log := s.log.WithField("association_id", association.ID)

		members, err := s.MemberRepo.ListActive(ctx, association.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("association %s: %w", association.ID, err))
			continue
		}

		report, err := s.ReconcileDues(ctx, association, members)
		switch {
		case errors.Is(err, customError.ErrReconcileInProgress):
			log.Info("reconcile in progress elsewhere, skipping")
		case err != nil:
			errs = append(errs, fmt.Errorf("association %s: %w", association.ID, err))
		case report.Err() != nil:
			errs = append(errs, fmt.Errorf("association %s: %w", association.ID, report.Err()))
		}

		flipped, err := s.DueRepo.MarkOverdue(ctx, association.ID, s.overdueCutoff())
		if err != nil {
			errs = append(errs, fmt.Errorf("association %s sweep: %w", association.ID, err))
			continue
		}
		if flipped > 0 {
			log.WithField("count", flipped).Info("dues marked overdue")
		}
	}

	return errors.Join(errs...)
}

// overdueCutoff is the latest due date that counts as overdue right now
func (s *DuesService) overdueCutoff() time.Time {
	return s.clock().AddDate(0, 0, -1)
}

func (s *DuesService) getAssociation(ctx context.Context, id uuid.UUID) (*domain.Association, error) {
	association, err := s.AssociationRepo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapAssociationNotFound(id.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return association, nil
}

func (s *DuesService) getDue(ctx context.Context, id uuid.UUID) (*domain.MemberDue, error) {
	due, err := s.DueRepo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDueNotFound(id.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return due, nil
}

// getActor loads the caller's membership; non-members are forbidden
func (s *DuesService) getActor(ctx context.Context, associationID, actorID uuid.UUID) (*domain.Member, error) {
	member, err := s.MemberRepo.GetMember(ctx, associationID, actorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapForbidden("Not a member of this association")
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return member, nil
}
