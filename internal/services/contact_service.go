package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/oklog/ulid/v2"

	domain "github.com/brightfold/api/internal/domain"
	"github.com/brightfold/api/internal/repositories"
)

const maxContactMessageLength = 5000

var (
	// ErrContactInvalidInput signals an invalid contact form payload.
	ErrContactInvalidInput = errors.New("contact: invalid input")
	// ErrContactNotFound indicates the submission does not exist.
	ErrContactNotFound = errors.New("contact: not found")
)

// ContactServiceDeps bundles collaborators for the contact service.
type ContactServiceDeps struct {
	Contacts repositories.ContactRepository

	Clock       func() time.Time
	IDGenerator func(prefix string) string
}

type contactService struct {
	contacts repositories.ContactRepository
	clock    func() time.Time
	newID    func(prefix string) string
	sanitize *bluemonday.Policy
}

// NewContactService wires a ContactService implementation. Submissions come
// straight from the public site, so the message body is stripped of markup
// before persistence.
func NewContactService(deps ContactServiceDeps) (ContactService, error) {
	if deps.Contacts == nil {
		return nil, errors.New("contact service requires contact repository")
	}
	svc := &contactService{
		contacts: deps.Contacts,
		clock:    deps.Clock,
		newID:    deps.IDGenerator,
		sanitize: bluemonday.StrictPolicy(),
	}
	if svc.clock == nil {
		svc.clock = func() time.Time { return time.Now().UTC() }
	}
	if svc.newID == nil {
		svc.newID = func(prefix string) string {
			return prefix + strings.ToLower(ulid.Make().String())
		}
	}
	return svc, nil
}

func (s *contactService) Submit(ctx context.Context, submission ContactSubmission) (domain.Contact, error) {
	name := strings.TrimSpace(submission.Name)
	email := strings.ToLower(strings.TrimSpace(submission.Email))
	message := strings.TrimSpace(s.sanitize.Sanitize(submission.Message))
	switch {
	case name == "":
		return domain.Contact{}, fmt.Errorf("%w: name is required", ErrContactInvalidInput)
	case email == "":
		return domain.Contact{}, fmt.Errorf("%w: email is required", ErrContactInvalidInput)
	case !emailPattern.MatchString(email):
		return domain.Contact{}, fmt.Errorf("%w: email %q is not valid", ErrContactInvalidInput, email)
	case message == "":
		return domain.Contact{}, fmt.Errorf("%w: message is required", ErrContactInvalidInput)
	case len(message) > maxContactMessageLength:
		return domain.Contact{}, fmt.Errorf("%w: message exceeds %d characters", ErrContactInvalidInput, maxContactMessageLength)
	}

	now := s.clock()
	contact := domain.Contact{
		ID:        s.newID("ctc_"),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(submission.Phone),
		Subject:   strings.TrimSpace(s.sanitize.Sanitize(submission.Subject)),
		Message:   message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.contacts.Insert(ctx, contact); err != nil {
		return domain.Contact{}, fmt.Errorf("submit contact: %w", err)
	}
	return contact, nil
}

func (s *contactService) List(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.Contact], error) {
	page, err := s.contacts.List(ctx, opts)
	if err != nil {
		return domain.Page[domain.Contact]{}, fmt.Errorf("list contacts: %w", err)
	}
	return page, nil
}

func (s *contactService) MarkRead(ctx context.Context, contactID string) (domain.Contact, error) {
	if err := s.contacts.MarkRead(ctx, contactID, s.clock()); err != nil {
		if repositories.IsNotFound(err) {
			return domain.Contact{}, fmt.Errorf("%w: id %s", ErrContactNotFound, contactID)
		}
		return domain.Contact{}, fmt.Errorf("mark contact read: %w", err)
	}
	contact, err := s.contacts.FindByID(ctx, contactID)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("reload contact: %w", err)
	}
	return contact, nil
}

func (s *contactService) Delete(ctx context.Context, contactID string) error {
	if err := s.contacts.Delete(ctx, contactID); err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("%w: id %s", ErrContactNotFound, contactID)
		}
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
