package notify

import (
	"context"
	"errors"

	"github.com/segyhp/dues-engine/internal/domain"

	"github.com/sirupsen/logrus"
)

// Notifier alerts members about dues. Failures never undo the dues operation.
type Notifier interface {
	DuesGenerated(ctx context.Context, association *domain.Association, dues []*domain.MemberDue) error
	DuePaid(ctx context.Context, association *domain.Association, due *domain.MemberDue) error
	DueReminder(ctx context.Context, association *domain.Association, member *domain.Member, due *domain.MemberDue) error
}

// LogNotifier writes notifications to the log
type LogNotifier struct {
	log logrus.FieldLogger
}

func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) DuesGenerated(ctx context.Context, association *domain.Association, dues []*domain.MemberDue) error {
	if len(dues) == 0 {
		return nil
	}
	n.log.WithFields(logrus.Fields{
		"association_id": association.ID,
		"count":          len(dues),
		"due_date":       dues[0].DueDate.Format("2006-01-02"),
	}).Info("dues generated")
	return nil
}

func (n *LogNotifier) DuePaid(ctx context.Context, association *domain.Association, due *domain.MemberDue) error {
	n.log.WithFields(logrus.Fields{
		"association_id": association.ID,
		"due_id":         due.ID,
		"member_id":      due.MemberID,
	}).Info("due paid")
	return nil
}

func (n *LogNotifier) DueReminder(ctx context.Context, association *domain.Association, member *domain.Member, due *domain.MemberDue) error {
	n.log.WithFields(logrus.Fields{
		"association_id": association.ID,
		"due_id":         due.ID,
		"member_id":      member.UserID,
		"status":         due.Status,
	}).Info("dues reminder")
	return nil
}

// Multi fans a notification out to every notifier
type Multi []Notifier

func (m Multi) DuesGenerated(ctx context.Context, association *domain.Association, dues []*domain.MemberDue) error {
	var errs []error
	for _, n := range m {
		if err := n.DuesGenerated(ctx, association, dues); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) DuePaid(ctx context.Context, association *domain.Association, due *domain.MemberDue) error {
	var errs []error
	for _, n := range m {
		if err := n.DuePaid(ctx, association, due); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) DueReminder(ctx context.Context, association *domain.Association, member *domain.Member, due *domain.MemberDue) error {
	var errs []error
	for _, n := range m {
		if err := n.DueReminder(ctx, association, member, due); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
