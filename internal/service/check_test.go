package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"content-fraud-detection/internal/core"
	"content-fraud-detection/internal/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passClassifier struct{}

func (passClassifier) Classify(ctx context.Context, content string) (core.Verdict, error) {
	return core.Verdict{Fraud: false, Confidence: "medium"}, nil
}

func (passClassifier) DescribeImage(ctx context.Context, image []byte) (string, error) {
	return "", nil
}

type memoryRepo struct {
	mu      sync.Mutex
	records []core.DecisionRecord
}

func (m *memoryRepo) Insert(ctx context.Context, rec core.DecisionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryRepo) List(ctx context.Context, filter core.DecisionFilter) (*core.PaginatedDecisions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]core.DecisionRecord(nil), m.records...)
	return &core.PaginatedDecisions{Records: out, Total: int64(len(out)), Page: 1, Limit: filter.Limit}, nil
}

func (m *memoryRepo) snapshot() []core.DecisionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.DecisionRecord(nil), m.records...)
}

type memoryPublisher struct {
	mu        sync.Mutex
	published []core.DecisionRecord
}

func (m *memoryPublisher) PublishDecision(rec core.DecisionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, rec)
	return nil
}

func (m *memoryPublisher) Close() {}

func (m *memoryPublisher) snapshot() []core.DecisionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.DecisionRecord(nil), m.published...)
}

func newTestEngine() *detector.Engine {
	extractor := detector.NewExtractor()
	walker := detector.NewArchiveWalker(extractor, detector.ZipOpener{})
	return detector.NewEngine(passClassifier{}, extractor, walker, 8000, 6000, true)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestCheckTextRecordsDecision(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewCheckService(newTestEngine(), repo, nil)

	d := svc.CheckText(context.Background(), "join my telegram channel", "u1", "c1", "1.2.3.4")
	assert.True(t, d.Fraud)

	waitFor(t, func() bool { return len(repo.snapshot()) == 1 })

	rec := repo.snapshot()[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, core.ContentText, rec.ContentType)
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, "c1", rec.ConversationID)
	assert.Equal(t, "1.2.3.4", rec.ClientIP)
	assert.True(t, rec.Decision.Fraud)
	assert.False(t, rec.Timestamp.IsZero())
}

func TestFraudDecisionsArePublished(t *testing.T) {
	repo := &memoryRepo{}
	pub := &memoryPublisher{}
	svc := NewCheckService(newTestEngine(), repo, pub)

	svc.CheckText(context.Background(), "message me on whatsapp", "u1", "", "1.2.3.4")
	waitFor(t, func() bool { return len(pub.snapshot()) == 1 })
	assert.True(t, pub.snapshot()[0].Decision.Fraud)
}

func TestCleanDecisionsAreNotPublished(t *testing.T) {
	repo := &memoryRepo{}
	pub := &memoryPublisher{}
	svc := NewCheckService(newTestEngine(), repo, pub)

	d := svc.CheckText(context.Background(), "thanks, see you at the meeting", "u1", "", "1.2.3.4")
	assert.False(t, d.Fraud)

	waitFor(t, func() bool { return len(repo.snapshot()) == 1 })
	assert.Empty(t, pub.snapshot(), "clean verdicts stay off the event bus")
}

func TestCheckFileRecordsFilename(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewCheckService(newTestEngine(), repo, nil)

	d := svc.CheckFile(context.Background(), "payload.exe", []byte{0x4d, 0x5a}, "5.6.7.8")
	assert.True(t, d.Fraud)

	waitFor(t, func() bool { return len(repo.snapshot()) == 1 })
	rec := repo.snapshot()[0]
	assert.Equal(t, core.ContentFile, rec.ContentType)
	assert.Equal(t, "payload.exe", rec.Filename)
}

func TestNilDependenciesAreSafe(t *testing.T) {
	svc := NewCheckService(newTestEngine(), nil, nil)

	d := svc.CheckText(context.Background(), "", "", "", "")
	assert.False(t, d.Fraud)

	page, err := svc.ListDecisions(context.Background(), core.DecisionFilter{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.Equal(t, int64(1), page.Page)
}
