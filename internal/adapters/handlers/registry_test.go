package handlers

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"whatsapp-campaign-engine/internal/domain"

	"github.com/google/uuid"
)

type fakeResponder struct {
	replies []string
}

func (f *fakeResponder) Reply(ctx context.Context, to domain.CanonicalNumber, body string) error {
	f.replies = append(f.replies, body)
	return nil
}

type fakeOwners struct {
	owners map[string]domain.Owner
}

func (f *fakeOwners) GetOwnerByProperty(ctx context.Context, ref string) (domain.Owner, error) {
	o, ok := f.owners[ref]
	if !ok {
		return domain.Owner{}, domain.ErrOwnerNotFound
	}
	return o, nil
}

type fakeRepo struct {
	campaigns map[string]domain.Campaign
}

func (f *fakeRepo) SaveCampaign(context.Context, domain.Campaign) error { return nil }

func (f *fakeRepo) GetCampaign(context.Context, uuid.UUID) (*domain.Campaign, error) {
	return nil, domain.ErrCampaignNotFound
}

func (f *fakeRepo) GetCampaignByName(ctx context.Context, name string) (*domain.Campaign, error) {
	c, ok := f.campaigns[name]
	if !ok {
		return nil, domain.ErrCampaignNotFound
	}
	return &c, nil
}

func (f *fakeRepo) SaveContacts(context.Context, uuid.UUID, []string) error { return nil }

func (f *fakeRepo) GetContacts(context.Context, uuid.UUID) ([]string, error) { return nil, nil }

func (f *fakeRepo) ListCampaignNames(context.Context) ([]string, error) { return nil, nil }

func (f *fakeRepo) SaveRun(context.Context, domain.CampaignRun) error { return nil }

type fakePublisher struct {
	published []domain.RunRequest
}

func (f *fakePublisher) Publish(ctx context.Context, req domain.RunRequest) error {
	f.published = append(f.published, req)
	return nil
}

func newRegistry(resp *fakeResponder, owners *fakeOwners, repo *fakeRepo, pub *fakePublisher) *Registry {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(resp, owners, repo, pub, log)
}

func TestOwnerLookupFromQuotedBody(t *testing.T) {
	resp := &fakeResponder{}
	owners := &fakeOwners{owners: map[string]domain.Owner{
		"REF-10234": {PropertyRef: "REF-10234", Name: "Ahmed", Phone: "971509998888"},
	}}
	reg := newRegistry(resp, owners, &fakeRepo{}, &fakePublisher{})

	msg := domain.InboundMessage{
		Kind:           domain.KindText,
		Body:           "request owner contact",
		HasQuotedReply: true,
		QuotedBody:     "2BR apartment in Marina, REF-10234, AED 1.2M",
		Sender:         "971501112222",
	}
	if err := reg.OwnerLookup(context.Background(), msg); err != nil {
		t.Fatal(err)
	}

	if len(resp.replies) != 1 {
		t.Fatalf("got %d replies, want 1", len(resp.replies))
	}
	if !strings.Contains(resp.replies[0], "Ahmed") || !strings.Contains(resp.replies[0], "971509998888") {
		t.Fatalf("reply %q does not carry the owner details", resp.replies[0])
	}
}

func TestOwnerLookupNoReference(t *testing.T) {
	resp := &fakeResponder{}
	reg := newRegistry(resp, &fakeOwners{}, &fakeRepo{}, &fakePublisher{})

	msg := domain.InboundMessage{Kind: domain.KindText, Body: "request owner contact", Sender: "971501112222"}
	if err := reg.OwnerLookup(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	if len(resp.replies) != 1 || !strings.Contains(resp.replies[0], "quote") {
		t.Fatalf("expected a prompt to quote the listing, got %v", resp.replies)
	}
}

func TestOwnerLookupUnknownReference(t *testing.T) {
	resp := &fakeResponder{}
	reg := newRegistry(resp, &fakeOwners{}, &fakeRepo{}, &fakePublisher{})

	msg := domain.InboundMessage{
		Kind:       domain.KindText,
		Body:       "request owner contact",
		QuotedBody: "REF-99999",
		Sender:     "971501112222",
	}
	if err := reg.OwnerLookup(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	if len(resp.replies) != 1 || !strings.Contains(resp.replies[0], "REF-99999") {
		t.Fatalf("expected a miss reply naming the reference, got %v", resp.replies)
	}
}

func TestTriggerCampaignEnqueuesRun(t *testing.T) {
	resp := &fakeResponder{}
	pub := &fakePublisher{}
	campaign := domain.NewCampaign("spring-launch", "New listings this week")
	repo := &fakeRepo{campaigns: map[string]domain.Campaign{"spring-launch": campaign}}
	reg := newRegistry(resp, &fakeOwners{}, repo, pub)

	msg := domain.InboundMessage{Kind: domain.KindText, Body: "spring-launch", Sender: "971501112222"}
	if err := reg.TriggerCampaign(context.Background(), msg, "spring-launch"); err != nil {
		t.Fatal(err)
	}

	if len(pub.published) != 1 {
		t.Fatalf("published %d run requests, want 1", len(pub.published))
	}
	req := pub.published[0]
	if req.CampaignID != campaign.ID {
		t.Errorf("run targets campaign %s, want %s", req.CampaignID, campaign.ID)
	}
	if req.Mode != domain.ModeNewContactsOnly {
		t.Errorf("run mode = %s, want %s", req.Mode, domain.ModeNewContactsOnly)
	}
}

func TestTriggerCampaignUnknownName(t *testing.T) {
	reg := newRegistry(&fakeResponder{}, &fakeOwners{}, &fakeRepo{}, &fakePublisher{})

	msg := domain.InboundMessage{Kind: domain.KindText, Body: "nope", Sender: "971501112222"}
	if err := reg.TriggerCampaign(context.Background(), msg, "nope"); err == nil {
		t.Fatal("expected error for unknown campaign")
	}
}
