package settlement

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"guild-settlement-backend/internal/models"
	"guild-settlement-backend/internal/notify"
	"guild-settlement-backend/internal/services/parsing"
)

// TextDetector is the OCR collaborator: it resolves a screenshot URL into
// raw text. May legitimately return empty text.
type TextDetector interface {
	DetectTextFromURL(ctx context.Context, imageURL string) (string, error)
}

// RosterStore is the member store collaborator; the service takes one
// snapshot per settlement.
type RosterStore interface {
	FindByName(ctx context.Context, name string) (*models.Member, error)
	Names(ctx context.Context) ([]string, error)
}

// Store persists one settlement: the outcome record plus the pool accrual,
// atomically. Either both land or neither does.
type Store interface {
	SaveSettlement(ctx context.Context, rec *models.SettlementRecord, acc Accrual) error
}

// Notifier delivers the settlement summary, best-effort. Failures must not
// roll the settlement back.
type Notifier interface {
	Notify(ctx context.Context, sum notify.Summary) error
}

// Accrual is the pool mutation one settlement produces.
type Accrual struct {
	Month      string
	PlayerName string
	Tickets    int
	Amount     int64
}

func NewAccrual(month, player string, kills int, poolRate int64) Accrual {
	return Accrual{
		Month:      month,
		PlayerName: player,
		Tickets:    kills,
		Amount:     int64(kills) * poolRate,
	}
}

// MonthKey derives the YYYY-MM pool key from a single timestamp sample, so
// year and month can never come from different clock reads across a month
// boundary.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// Outcome is what the caller gets back after a successful settlement.
type Outcome struct {
	RecordID        uuid.UUID `json:"record_id"`
	Uploader        string    `json:"uploader"`
	Guild           string    `json:"guild"`
	Kills           int       `json:"kills"`
	Deaths          int       `json:"deaths"`
	Mistakes        int       `json:"mistakes"`
	Money           int64     `json:"money"`
	MoneyText       string    `json:"money_text"`
	Mode            string    `json:"mode"`
	DeathBonusCount int       `json:"death_bonus_count"`
	DeathBonusMoney int64     `json:"death_bonus_money"`
	BankAccount     string    `json:"bank_account"`
	Month           string    `json:"month"`
	PoolAccrued     int64     `json:"pool_accrued"`
}

// Options tune a Service; zero values fall back to the historical defaults.
type Options struct {
	Vocabulary       *parsing.Vocabulary
	Policy           RewardPolicy
	PoolRate         int64
	StrictClassifier bool
	Location         *time.Location
	OCRTimeout       time.Duration
	NotifyTimeout    time.Duration
	Logger           *zap.Logger
	Now              func() time.Time
}

// Service runs the whole pipeline for one request:
// gate → classify → parse → match → calculate → persist+accrue → notify.
// Stages are strictly sequential; the only shared mutable state across
// concurrent requests is the monthly pool, which the Store mutates
// atomically.
type Service struct {
	gate       Gate
	classifier *parsing.Classifier
	parser     *parsing.Parser
	calc       *Calculator
	policy     RewardPolicy
	poolRate   int64

	detector TextDetector
	roster   RosterStore
	store    Store
	notifier Notifier

	loc           *time.Location
	ocrTimeout    time.Duration
	notifyTimeout time.Duration
	log           *zap.Logger
	now           func() time.Time
}

func NewService(detector TextDetector, roster RosterStore, store Store, notifier Notifier, opts Options) *Service {
	vocab := opts.Vocabulary
	if vocab == nil {
		vocab = parsing.DefaultVocabulary()
	}
	policy := opts.Policy
	if policy == nil {
		policy = KillsOnlyPolicy{PerKill: DefaultRates().PerKill}
	}
	poolRate := opts.PoolRate
	if poolRate == 0 {
		poolRate = 20000
	}
	loc := opts.Location
	if loc == nil {
		loc, _ = time.LoadLocation("Asia/Taipei")
	}
	ocrTimeout := opts.OCRTimeout
	if ocrTimeout == 0 {
		ocrTimeout = 15 * time.Second
	}
	notifyTimeout := opts.NotifyTimeout
	if notifyTimeout == 0 {
		notifyTimeout = 5 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		classifier:    parsing.NewClassifier(vocab, opts.StrictClassifier),
		parser:        parsing.NewParser(vocab),
		calc:          NewCalculator(vocab),
		policy:        policy,
		poolRate:      poolRate,
		detector:      detector,
		roster:        roster,
		store:         store,
		notifier:      notifier,
		loc:           loc,
		ocrTimeout:    ocrTimeout,
		notifyTimeout: notifyTimeout,
		log:           logger,
		now:           now,
	}
}

// Settle processes one request end to end. On any error, nothing has been
// persisted and the pool is untouched.
func (s *Service) Settle(ctx context.Context, req Request) (*Outcome, error) {
	if rej := s.gate.CheckRequest(req); rej != nil {
		return nil, rej
	}

	member, err := s.roster.FindByName(ctx, req.UploaderName)
	if err != nil {
		return nil, persistence("loading uploader", err)
	}
	if member == nil {
		return nil, reject(ClassInput, ReasonMemberNotFound, "uploader is not a registered member")
	}
	guild := req.GuildName
	if guild == "" {
		guild = member.Guild
	}

	octx, cancel := context.WithTimeout(ctx, s.ocrTimeout)
	defer cancel()
	raw, err := s.detector.DetectTextFromURL(octx, req.ImageURL)
	if err != nil {
		return nil, upstream(ReasonOCRFailed, "text detection failed", err)
	}

	// One clock sample drives both the staleness check and the month key.
	now := s.now().In(s.loc)

	doc := NewDocument(raw)
	uploaderKey := parsing.Canonicalize(req.UploaderName)
	guildKey := parsing.Canonicalize(req.GuildName)
	if rej := s.gate.CheckEvidence(doc, uploaderKey, guildKey, now); rej != nil {
		return nil, rej
	}

	names, err := s.roster.Names(ctx)
	if err != nil {
		return nil, persistence("loading roster snapshot", err)
	}

	candidates := s.classifier.Classify(doc.Lines)
	events := s.parser.ParseAll(candidates)
	tally := s.calc.Tabulate(events, uploaderKey, parsing.Roster(names))
	award := s.policy.Award(tally)

	month := MonthKey(now)
	details, _ := json.Marshal(map[string]interface{}{
		"policy":          s.policy.Name(),
		"month":           month,
		"candidate_lines": len(candidates),
		"parsed_events":   len(events),
		"pool_rate":       s.poolRate,
	})

	rec := &models.SettlementRecord{
		ID:              uuid.New(),
		Uploader:        member.Name,
		Guild:           guild,
		Kills:           tally.Kills,
		Deaths:          tally.Deaths,
		Mistakes:        tally.Mistakes,
		Money:           award.Money,
		Mode:            tally.Mode,
		DeathBonusCount: award.DeathBonusCount,
		DeathBonusMoney: award.DeathBonusMoney,
		BankAccount:     req.BankAccount,
		ImageURL:        req.ImageURL,
		Details:         details,
		CreatedAt:       now,
	}
	acc := NewAccrual(month, member.Name, tally.Kills, s.poolRate)

	if err := s.store.SaveSettlement(ctx, rec, acc); err != nil {
		return nil, persistence("saving settlement", err)
	}

	s.notifyResult(rec)

	return &Outcome{
		RecordID:        rec.ID,
		Uploader:        rec.Uploader,
		Guild:           rec.Guild,
		Kills:           rec.Kills,
		Deaths:          rec.Deaths,
		Mistakes:        rec.Mistakes,
		Money:           rec.Money,
		MoneyText:       MoneyText(rec.Money),
		Mode:            rec.Mode,
		DeathBonusCount: rec.DeathBonusCount,
		DeathBonusMoney: rec.DeathBonusMoney,
		BankAccount:     rec.BankAccount,
		Month:           month,
		PoolAccrued:     acc.Amount,
	}, nil
}

func (s *Service) notifyResult(rec *models.SettlementRecord) {
	if s.notifier == nil {
		return
	}
	// The settlement is already committed; notification failure only gets
	// logged. Detached context so a cancelled request cannot cut it short.
	ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
	defer cancel()

	sum := notify.Summary{
		Uploader:    rec.Uploader,
		Guild:       rec.Guild,
		Kills:       rec.Kills,
		Deaths:      rec.Deaths,
		Mistakes:    rec.Mistakes,
		Money:       rec.Money,
		MoneyText:   MoneyText(rec.Money),
		Mode:        rec.Mode,
		BankAccount: rec.BankAccount,
	}
	if err := s.notifier.Notify(ctx, sum); err != nil {
		s.log.Warn("settlement notification failed",
			zap.String("uploader", rec.Uploader),
			zap.Error(err))
	}
}
