package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "github.com/brightfold/api/internal/domain"
	"github.com/brightfold/api/internal/repositories"
)

type stubContactRepo struct {
	byID map[string]domain.Contact
}

func newStubContactRepo() *stubContactRepo {
	return &stubContactRepo{byID: map[string]domain.Contact{}}
}

func (r *stubContactRepo) Insert(_ context.Context, contact domain.Contact) error {
	r.byID[contact.ID] = contact
	return nil
}

func (r *stubContactRepo) FindByID(_ context.Context, id string) (domain.Contact, error) {
	contact, ok := r.byID[id]
	if !ok {
		return domain.Contact{}, repositories.NotFoundError("find contact", "contact not found")
	}
	return contact, nil
}

func (r *stubContactRepo) MarkRead(_ context.Context, id string, readAt time.Time) error {
	contact, ok := r.byID[id]
	if !ok {
		return repositories.NotFoundError("mark contact read", "contact not found")
	}
	contact.Read = true
	contact.UpdatedAt = readAt
	r.byID[id] = contact
	return nil
}

func (r *stubContactRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return repositories.NotFoundError("delete contact", "contact not found")
	}
	delete(r.byID, id)
	return nil
}

func (r *stubContactRepo) List(_ context.Context, _ repositories.ListOptions) (domain.Page[domain.Contact], error) {
	var items []domain.Contact
	for _, contact := range r.byID {
		items = append(items, contact)
	}
	return domain.Page[domain.Contact]{Items: items, TotalCount: int64(len(items))}, nil
}

func newTestContactService(t *testing.T) (ContactService, *stubContactRepo) {
	t.Helper()
	repo := newStubContactRepo()
	svc, err := NewContactService(ContactServiceDeps{
		Contacts: repo,
		Clock:    func() time.Time { return time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("NewContactService: %v", err)
	}
	return svc, repo
}

func TestContactServiceSubmit(t *testing.T) {
	svc, repo := newTestContactService(t)

	contact, err := svc.Submit(context.Background(), ContactSubmission{
		Name:    "Ada Lovelace",
		Email:   "Ada@Example.com",
		Message: "I would like a quote for a <b>new site</b>.",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !strings.HasPrefix(contact.ID, "ctc_") {
		t.Fatalf("unexpected id %q", contact.ID)
	}
	if contact.Email != "ada@example.com" {
		t.Fatalf("email not lowercased: %q", contact.Email)
	}
	if strings.Contains(contact.Message, "<b>") {
		t.Fatalf("message not stripped: %q", contact.Message)
	}
	if contact.Read {
		t.Fatal("new submission marked read")
	}
	if _, ok := repo.byID[contact.ID]; !ok {
		t.Fatal("submission not persisted")
	}
}

func TestContactServiceSubmitValidation(t *testing.T) {
	svc, _ := newTestContactService(t)

	cases := map[string]ContactSubmission{
		"missing name":    {Email: "a@b.co", Message: "hi"},
		"missing email":   {Name: "A", Message: "hi"},
		"bad email":       {Name: "A", Email: "not-an-email", Message: "hi"},
		"missing message": {Name: "A", Email: "a@b.co"},
		"markup only":     {Name: "A", Email: "a@b.co", Message: "<script>alert(1)</script>"},
		"too long":        {Name: "A", Email: "a@b.co", Message: strings.Repeat("x", 5001)},
	}
	for name, submission := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Submit(context.Background(), submission); !errors.Is(err, ErrContactInvalidInput) {
				t.Fatalf("expected ErrContactInvalidInput, got %v", err)
			}
		})
	}
}

func TestContactServiceMarkRead(t *testing.T) {
	svc, _ := newTestContactService(t)

	contact, err := svc.Submit(context.Background(), ContactSubmission{
		Name:    "Grace",
		Email:   "grace@example.com",
		Message: "Hello",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	read, err := svc.MarkRead(context.Background(), contact.ID)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !read.Read {
		t.Fatal("contact not marked read")
	}
}

func TestContactServiceMarkReadMissing(t *testing.T) {
	svc, _ := newTestContactService(t)

	if _, err := svc.MarkRead(context.Background(), "ctc_missing"); !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
}

func TestContactServiceDeleteMissing(t *testing.T) {
	svc, _ := newTestContactService(t)

	if err := svc.Delete(context.Background(), "ctc_missing"); !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
}
