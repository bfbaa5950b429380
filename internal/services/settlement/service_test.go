package settlement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guild-settlement-backend/internal/models"
	"guild-settlement-backend/internal/notify"
)

type fakeDetector struct {
	text string
	err  error
}

func (f *fakeDetector) DetectTextFromURL(ctx context.Context, url string) (string, error) {
	return f.text, f.err
}

type fakeRoster struct {
	members map[string]*models.Member
}

func (f *fakeRoster) FindByName(ctx context.Context, name string) (*models.Member, error) {
	return f.members[name], nil
}

func (f *fakeRoster) Names(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(f.members))
	for n := range f.members {
		names = append(names, n)
	}
	return names, nil
}

// memStore mirrors the persistence contract: the record append and the pool
// accrual land together, and accruals for the same month add up.
type memStore struct {
	mu      sync.Mutex
	err     error
	records []*models.SettlementRecord
	pools   map[string]int64
	tickets map[string]map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		pools:   make(map[string]int64),
		tickets: make(map[string]map[string]int),
	}
}

func (s *memStore) SaveSettlement(ctx context.Context, rec *models.SettlementRecord, acc Accrual) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	if acc.Tickets > 0 {
		s.pools[acc.Month] += acc.Amount
		if s.tickets[acc.Month] == nil {
			s.tickets[acc.Month] = make(map[string]int)
		}
		s.tickets[acc.Month][acc.PlayerName] += acc.Tickets
	}
	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notify.Summary
	err   error
}

func (f *fakeNotifier) Notify(ctx context.Context, sum notify.Summary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sum)
	return f.err
}

var testTime = time.Date(2025, 8, 31, 14, 30, 0, 0, time.UTC)

func testService(detector *fakeDetector, store *memStore, notifier *fakeNotifier) *Service {
	roster := &fakeRoster{members: map[string]*models.Member{
		"張三": {Name: "張三", Guild: "鐵血幫"},
		"李四": {Name: "李四", Guild: "鐵血幫"},
	}}
	return NewService(detector, roster, store, notifier, Options{
		Location: time.UTC,
		Now:      func() time.Time { return testTime },
	})
}

func screenshotText(killLines ...string) string {
	text := "2025/8/31 12:00"
	for _, l := range killLines {
		text += "\n" + l
	}
	return text
}

func testRequest() Request {
	return Request{
		ImageURL:     "https://img.example.com/shot.webp",
		UploaderName: "張三",
		BankAccount:  "12345",
	}
}

func TestSettleEnemyKills(t *testing.T) {
	store := newMemStore()
	notifier := &fakeNotifier{}
	detector := &fakeDetector{text: screenshotText(
		"張三使用狙擊槍擊殺路人甲",
		"張三使用狙擊槍擊殺路人乙",
		"張三使用手槍杀路人丙",
	)}
	svc := testService(detector, store, notifier)

	out, err := svc.Settle(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, 3, out.Kills)
	assert.Zero(t, out.Deaths)
	assert.Zero(t, out.Mistakes)
	assert.Equal(t, int64(300000), out.Money)
	assert.Equal(t, "30W", out.MoneyText)
	assert.Equal(t, "鐵血幫", out.Guild)
	assert.Equal(t, "2025-08", out.Month)

	require.Len(t, store.records, 1)
	assert.Equal(t, int64(60000), store.pools["2025-08"])
	assert.Equal(t, 3, store.tickets["2025-08"]["張三"])

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "張三", notifier.calls[0].Uploader)
}

func TestSettleFriendlyFire(t *testing.T) {
	store := newMemStore()
	detector := &fakeDetector{text: screenshotText("張三使用狙擊槍擊殺李四")}
	svc := testService(detector, store, &fakeNotifier{})

	out, err := svc.Settle(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Zero(t, out.Kills)
	assert.Equal(t, 1, out.Mistakes)
	assert.Zero(t, out.Money)
	// No kills, no pool movement.
	assert.Empty(t, store.pools)
}

func TestSettleDeaths(t *testing.T) {
	store := newMemStore()
	detector := &fakeDetector{text: screenshotText("路人甲使用狙擊槍擊殺張三")}
	svc := testService(detector, store, &fakeNotifier{})

	out, err := svc.Settle(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Deaths)
	assert.Zero(t, out.Kills)
}

func TestSettleAccrualAdds(t *testing.T) {
	store := newMemStore()
	detector := &fakeDetector{text: screenshotText(
		"張三使用狙擊槍擊殺路人甲",
		"張三使用狙擊槍擊殺路人乙",
		"張三使用狙擊槍擊殺路人丙",
	)}
	svc := testService(detector, store, &fakeNotifier{})

	_, err := svc.Settle(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(60000), store.pools["2025-08"])
	assert.Equal(t, 3, store.tickets["2025-08"]["張三"])

	// A second submission the same month adds, never overwrites.
	_, err = svc.Settle(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(120000), store.pools["2025-08"])
	assert.Equal(t, 6, store.tickets["2025-08"]["張三"])
}

func TestSettleConcurrentAccruals(t *testing.T) {
	store := newMemStore()
	detector := &fakeDetector{text: screenshotText("張三使用狙擊槍擊殺路人甲")}
	svc := testService(detector, store, &fakeNotifier{})

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Settle(context.Background(), testRequest())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(n*20000), store.pools["2025-08"])
	assert.Equal(t, n, store.tickets["2025-08"]["張三"])
	assert.Len(t, store.records, n)
}

func TestSettleIgnoresUnparseableLines(t *testing.T) {
	store := newMemStore()
	detector := &fakeDetector{text: screenshotText(
		"張三狙擊槍擊殺路人甲", // missing the used marker
		"張三使用狙擊槍擊殺路人乙",
	)}
	svc := testService(detector, store, &fakeNotifier{})

	out, err := svc.Settle(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Kills)
}

func TestSettleRejectsBeforeMutation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
		text   string
		reason Reason
		class  Class
	}{
		{
			"short bank account",
			func(r *Request) { r.BankAccount = "1234" },
			screenshotText("張三使用狙擊槍擊殺路人甲"),
			ReasonInvalidBankAccount, ClassInput,
		},
		{
			"unregistered uploader",
			func(r *Request) { r.UploaderName = "陌生人" },
			screenshotText("陌生人使用狙擊槍擊殺路人甲"),
			ReasonMemberNotFound, ClassInput,
		},
		{
			"stale screenshot",
			func(r *Request) {},
			"2025/8/30 23:00\n張三使用狙擊槍擊殺路人甲",
			ReasonStaleScreenshot, ClassEvidence,
		},
		{
			"empty OCR text",
			func(r *Request) {},
			"",
			ReasonMissingDateEvidence, ClassEvidence,
		},
		{
			"uploader not in screenshot",
			func(r *Request) {},
			screenshotText("李四使用狙擊槍擊殺路人甲"),
			ReasonIdentityNotFound, ClassEvidence,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			notifier := &fakeNotifier{}
			svc := testService(&fakeDetector{text: tt.text}, store, notifier)

			req := testRequest()
			tt.mutate(&req)

			_, err := svc.Settle(context.Background(), req)
			var serr *Error
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.reason, serr.Reason)
			assert.Equal(t, tt.class, serr.Class)

			// Fail-fast means fail-clean: nothing persisted, nothing
			// accrued, nobody notified.
			assert.Empty(t, store.records)
			assert.Empty(t, store.pools)
			assert.Empty(t, notifier.calls)
		})
	}
}

func TestSettleUpstreamFailure(t *testing.T) {
	store := newMemStore()
	svc := testService(&fakeDetector{err: errors.New("vision down")}, store, &fakeNotifier{})

	_, err := svc.Settle(context.Background(), testRequest())
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, ClassUpstream, serr.Class)
	assert.Equal(t, ReasonOCRFailed, serr.Reason)
	assert.Empty(t, store.records)
}

func TestSettlePersistenceFailure(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection reset")
	notifier := &fakeNotifier{}
	detector := &fakeDetector{text: screenshotText("張三使用狙擊槍擊殺路人甲")}
	svc := testService(detector, store, notifier)

	_, err := svc.Settle(context.Background(), testRequest())
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, ClassPersistence, serr.Class)
	assert.Empty(t, notifier.calls)
}

func TestSettleNotificationFailureDoesNotRollBack(t *testing.T) {
	store := newMemStore()
	notifier := &fakeNotifier{err: errors.New("webhook 500")}
	detector := &fakeDetector{text: screenshotText("張三使用狙擊槍擊殺路人甲")}
	svc := testService(detector, store, notifier)

	out, err := svc.Settle(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Kills)
	assert.Len(t, store.records, 1)
}

func TestMonthKeySingleSample(t *testing.T) {
	assert.Equal(t, "2025-08", MonthKey(testTime))
	assert.Equal(t, "2025-12", MonthKey(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestSettleDeathBonusPolicy(t *testing.T) {
	store := newMemStore()
	detector := &fakeDetector{text: screenshotText(
		"張三使用狙擊槍擊殺路人甲",
		"路人乙使用手槍杀張三",
		"路人丙使用手槍杀張三",
	)}
	roster := &fakeRoster{members: map[string]*models.Member{
		"張三": {Name: "張三", Guild: "鐵血幫"},
	}}
	svc := NewService(detector, roster, store, &fakeNotifier{}, Options{
		Location: time.UTC,
		Now:      func() time.Time { return testTime },
		Policy:   DeathBonusPolicy{PerKill: 100000, PerDeath: 50000, Cap: 5},
	})

	out, err := svc.Settle(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Kills)
	assert.Equal(t, 2, out.Deaths)
	assert.Equal(t, int64(200000), out.Money)
	assert.Equal(t, 2, out.DeathBonusCount)
	assert.Equal(t, int64(100000), out.DeathBonusMoney)
}

func TestSettleGuildEvidence(t *testing.T) {
	store := newMemStore()
	detector := &fakeDetector{text: screenshotText("張三使用狙擊槍擊殺路人甲")}
	svc := testService(detector, store, &fakeNotifier{})

	req := testRequest()
	req.GuildName = "鐵血幫"

	_, err := svc.Settle(context.Background(), req)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, ReasonGuildNotFound, serr.Reason)

	// With the guild visible in the screenshot the same request passes.
	detector.text = "2025/8/31 12:00\n鐵血幫\n張三使用狙擊槍擊殺路人甲"
	out, err := svc.Settle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Kills)
}
