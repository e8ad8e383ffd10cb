package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"whatsapp-campaign-engine/internal/dispatch"
	"whatsapp-campaign-engine/internal/domain"
	"whatsapp-campaign-engine/internal/phone"
	"whatsapp-campaign-engine/internal/ports"
	"whatsapp-campaign-engine/internal/sessions"
	"whatsapp-campaign-engine/internal/throttle"

	"github.com/google/uuid"
)

type memRepo struct {
	campaigns map[uuid.UUID]domain.Campaign
	contacts  map[uuid.UUID][]string
	runs      []domain.CampaignRun
}

func newMemRepo() *memRepo {
	return &memRepo{
		campaigns: map[uuid.UUID]domain.Campaign{},
		contacts:  map[uuid.UUID][]string{},
	}
}

func (m *memRepo) SaveCampaign(ctx context.Context, c domain.Campaign) error {
	m.campaigns[c.ID] = c
	return nil
}

func (m *memRepo) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok {
		return nil, domain.ErrCampaignNotFound
	}
	return &c, nil
}

func (m *memRepo) GetCampaignByName(ctx context.Context, name string) (*domain.Campaign, error) {
	for _, c := range m.campaigns {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, domain.ErrCampaignNotFound
}

func (m *memRepo) SaveContacts(ctx context.Context, id uuid.UUID, raw []string) error {
	m.contacts[id] = append(m.contacts[id], raw...)
	return nil
}

func (m *memRepo) GetContacts(ctx context.Context, id uuid.UUID) ([]string, error) {
	return m.contacts[id], nil
}

func (m *memRepo) ListCampaignNames(ctx context.Context) ([]string, error) {
	var names []string
	for _, c := range m.campaigns {
		names = append(names, c.Name)
	}
	return names, nil
}

func (m *memRepo) SaveRun(ctx context.Context, run domain.CampaignRun) error {
	m.runs = append(m.runs, run)
	return nil
}

type memPublisher struct {
	published []domain.RunRequest
	err       error
}

func (m *memPublisher) Publish(ctx context.Context, req domain.RunRequest) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, req)
	return nil
}

type okSession struct{}

func (okSession) ID() string { return "agent-0" }

func (okSession) SendText(ctx context.Context, to domain.CanonicalNumber, body string) (ports.DeliveryReceipt, error) {
	return ports.DeliveryReceipt{MessageID: "gw-1", Timestamp: time.Now()}, nil
}

func (okSession) LookupConversation(ctx context.Context, with domain.CanonicalNumber) (domain.ProbeResult, error) {
	return domain.ProbeResult{}, nil
}

type nopSink struct{}

func (nopSink) Record(context.Context, domain.Progress) {}

func newService(t *testing.T, repo *memRepo, pub *memPublisher) *CampaignService {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	pool, err := sessions.NewPool([]ports.Session{okSession{}})
	if err != nil {
		t.Fatal(err)
	}
	d := dispatch.New(pool, phone.NewValidator("971"), throttle.New(0, 0, 0, 0), nopSink{}, log)
	return NewCampaignService(repo, pub, d, nil, log)
}

func TestCreateCampaignPersistsContacts(t *testing.T) {
	repo := newMemRepo()
	svc := newService(t, repo, &memPublisher{})

	c, err := svc.CreateCampaign(context.Background(), CreateCampaignRequest{
		Name:     "spring-launch",
		Body:     "New listings this week",
		Contacts: []string{"971501112222", "971502223333"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := repo.campaigns[c.ID]; !ok {
		t.Fatal("campaign not persisted")
	}
	if len(repo.contacts[c.ID]) != 2 {
		t.Fatalf("persisted %d contacts, want 2", len(repo.contacts[c.ID]))
	}
}

func TestEnqueueRunUnknownCampaign(t *testing.T) {
	svc := newService(t, newMemRepo(), &memPublisher{})

	_, err := svc.EnqueueRun(context.Background(), uuid.New(), domain.ModeAllContacts)
	if !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Fatalf("want ErrCampaignNotFound, got %v", err)
	}
}

func TestEnqueueRunPublishes(t *testing.T) {
	repo := newMemRepo()
	pub := &memPublisher{}
	svc := newService(t, repo, pub)

	c, err := svc.CreateCampaign(context.Background(), CreateCampaignRequest{
		Name: "x", Body: "y", Contacts: []string{"971501112222"},
	})
	if err != nil {
		t.Fatal(err)
	}

	req, err := svc.EnqueueRun(context.Background(), c.ID, domain.ModeNewContactsOnly)
	if err != nil {
		t.Fatal(err)
	}
	if len(pub.published) != 1 || pub.published[0].RunID != req.RunID {
		t.Fatalf("published = %+v", pub.published)
	}
}

func TestExecuteRunRecordsTallies(t *testing.T) {
	repo := newMemRepo()
	svc := newService(t, repo, &memPublisher{})

	c, err := svc.CreateCampaign(context.Background(), CreateCampaignRequest{
		Name:     "x",
		Body:     "hello",
		Contacts: []string{"971501112222", "garbage"},
	})
	if err != nil {
		t.Fatal(err)
	}

	req := domain.RunRequest{RunID: uuid.New(), CampaignID: c.ID, Mode: domain.ModeAllContacts}
	if err := svc.ExecuteRun(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	if len(repo.runs) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(repo.runs))
	}
	run := repo.runs[0]
	if run.Stats.Sent != 1 || run.Stats.Failed != 1 {
		t.Fatalf("stats = %+v, want 1 sent / 1 failed", run.Stats)
	}
	if run.ID != req.RunID {
		t.Fatalf("run id = %s, want %s", run.ID, req.RunID)
	}
}

func TestExecuteRunUnknownCampaignAcks(t *testing.T) {
	svc := newService(t, newMemRepo(), &memPublisher{})

	req := domain.RunRequest{RunID: uuid.New(), CampaignID: uuid.New(), Mode: domain.ModeAllContacts}
	if err := svc.ExecuteRun(context.Background(), req); err != nil {
		t.Fatalf("unknown campaign must be dropped, not requeued: %v", err)
	}
}

func TestExecuteRunEmptyContactsAcks(t *testing.T) {
	repo := newMemRepo()
	svc := newService(t, repo, &memPublisher{})

	c := domain.NewCampaign("empty", "body")
	repo.campaigns[c.ID] = c

	req := domain.RunRequest{RunID: uuid.New(), CampaignID: c.ID, Mode: domain.ModeAllContacts}
	if err := svc.ExecuteRun(context.Background(), req); err != nil {
		t.Fatalf("empty contact list must be dropped, not requeued: %v", err)
	}
	if len(repo.runs) != 0 {
		t.Fatal("no run record for a dropped request")
	}
}
