package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"

	"github.com/segyhp/dues-engine/internal/config"
	"github.com/segyhp/dues-engine/internal/domain"
	"github.com/segyhp/dues-engine/internal/repository"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// EmailNotifier emails members when dues are raised and when they are paid
type EmailNotifier struct {
	cfg     config.SMTPConfig
	members repository.MemberRepository
	log     logrus.FieldLogger
	send    func(e *email.Email) error
}

func NewEmailNotifier(cfg config.SMTPConfig, members repository.MemberRepository, log logrus.FieldLogger) *EmailNotifier {
	n := &EmailNotifier{
		cfg:     cfg,
		members: members,
		log:     log,
	}
	n.send = n.sendSMTP
	return n
}

func (n *EmailNotifier) sendSMTP(e *email.Email) error {
	addr := net.JoinHostPort(n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	return e.Send(addr, auth)
}

func (n *EmailNotifier) DuesGenerated(ctx context.Context, association *domain.Association, dues []*domain.MemberDue) error {
	var errs []error
	for _, due := range dues {
		member, err := n.members.GetMember(ctx, association.ID, due.MemberID)
		if err != nil {
			errs = append(errs, fmt.Errorf("lookup member %s: %w", due.MemberID, err))
			continue
		}
		if member.Email == "" {
			n.log.WithField("member_id", due.MemberID).Debug("no email address, skipping dues notice")
			continue
		}

		e := email.NewEmail()
		e.From = n.cfg.Sender
		e.To = []string{member.Email}
		e.Subject = fmt.Sprintf("%s dues due %s", association.Name, due.DueDate.Format("2 Jan 2006"))
		e.Text = []byte(fmt.Sprintf(
			"Hi %s,\n\nYou have a pending dues payment of %s %s for %s, due on %s.\n",
			member.Name, association.Currency, due.Amount.StringFixed(2), association.Name, due.DueDate.Format("2006-01-02"),
		))

		if err := n.send(e); err != nil {
			n.log.WithError(err).WithField("member_id", due.MemberID).Error("failed to send dues notice")
			errs = append(errs, fmt.Errorf("send dues notice to %s: %w", member.Email, err))
			continue
		}
	}
	return errors.Join(errs...)
}

func (n *EmailNotifier) DuePaid(ctx context.Context, association *domain.Association, due *domain.MemberDue) error {
	member, err := n.members.GetMember(ctx, association.ID, due.MemberID)
	if err != nil {
		return fmt.Errorf("lookup member %s: %w", due.MemberID, err)
	}
	if member.Email == "" {
		return nil
	}

	paid := due.Amount
	if due.PaidAmount != nil {
		paid = *due.PaidAmount
	}

	e := email.NewEmail()
	e.From = n.cfg.Sender
	e.To = []string{member.Email}
	e.Subject = fmt.Sprintf("%s dues payment received", association.Name)
	e.Text = []byte(fmt.Sprintf(
		"Hi %s,\n\nWe received your dues payment of %s %s for the period ending %s. Thank you.\n",
		member.Name, association.Currency, paid.StringFixed(2), due.DueDate.Format("2006-01-02"),
	))

	if err := n.send(e); err != nil {
		n.log.WithError(err).WithField("due_id", due.ID).Error("failed to send payment receipt")
		return fmt.Errorf("send payment receipt to %s: %w", member.Email, err)
	}

	return nil
}

// DueReminder emails a member about an unpaid due. Members without an address are skipped.
func (n *EmailNotifier) DueReminder(ctx context.Context, association *domain.Association, member *domain.Member, due *domain.MemberDue) error {
	if member.Email == "" {
		n.log.WithField("member_id", member.UserID).Debug("no email address, skipping dues reminder")
		return nil
	}

	state := "pending"
	if due.Status == domain.DueStatusOverdue {
		state = "overdue"
	}

	e := email.NewEmail()
	e.From = n.cfg.Sender
	e.To = []string{member.Email}
	e.Subject = fmt.Sprintf("Reminder: %s dues %s", association.Name, state)
	e.Text = []byte(fmt.Sprintf(
		"Hi %s,\n\nThis is a reminder that your dues payment of %s %s for %s is %s. It was due on %s.\n",
		member.Name, association.Currency, due.Amount.StringFixed(2), association.Name, state, due.DueDate.Format("2006-01-02"),
	))

	if err := n.send(e); err != nil {
		n.log.WithError(err).WithField("due_id", due.ID).Error("failed to send dues reminder")
		return fmt.Errorf("send dues reminder to %s: %w", member.Email, err)
	}

	return nil
}
