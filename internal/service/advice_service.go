package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"mizan/internal/domain"
	"mizan/internal/models"
	"mizan/pkg/cache"
	"mizan/pkg/llm"

	"go.uber.org/zap"
)

// Advice is the payload returned by GET /advice/today.
type Advice struct {
	Advice          string `json:"advice"`
	Encouragement   string `json:"encouragement"`
	HadithReference string `json:"hadithReference"`
}

// LatencyObserver records how long one advice generation took.
type LatencyObserver interface {
	ObserveAdvice(d time.Duration)
}

var errEmptyAdvice = errors.New("advice: empty advice field")

var fallbackAdvice = map[string]Advice{
	domain.LangFrench: {
		Advice:          "Continuez vos bonnes actions et repentez-vous des mauvaises.",
		Encouragement:   "اللهم أعنا على ذكرك وشكرك وحسن عبادتك",
		HadithReference: "Le Prophète ﷺ a dit : « Les actions ne valent que par les intentions. »",
	},
	domain.LangArabic: {
		Advice:          "استمر في أعمالك الصالحة وتب إلى الله من السيئات.",
		Encouragement:   "اللهم أعنا على ذكرك وشكرك وحسن عبادتك",
		HadithReference: "قال رسول الله ﷺ: «إنما الأعمال بالنيات»",
	},
	domain.LangEnglish: {
		Advice:          "Keep up your good deeds and repent from the bad ones.",
		Encouragement:   "اللهم أعنا على ذكرك وشكرك وحسن عبادتك",
		HadithReference: "The Prophet ﷺ said: \"Actions are judged only by their intentions.\"",
	},
}

// FallbackAdvice returns the fixed payload served when generation fails.
func FallbackAdvice(lang string) Advice {
	return fallbackAdvice[domain.NormalizeLang(lang)]
}

type AdviceService struct {
	client   llm.Client
	cache    cache.AdviceCache
	cacheTTL time.Duration
	timeout  time.Duration
	observer LatencyObserver
	log      *zap.Logger
}

type AdviceOptions struct {
	Timeout  time.Duration
	Cache    cache.AdviceCache // optional
	CacheTTL time.Duration
	Observer LatencyObserver // optional
}

func NewAdviceService(client llm.Client, opts AdviceOptions, log *zap.Logger) *AdviceService {
	if client == nil {
		client = llm.DisabledClient{}
	}
	return &AdviceService{
		client:   client,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		timeout:  opts.Timeout,
		observer: opts.Observer,
		log:      log.Named("advice"),
	}
}

// Generate produces advice for a snapshot. It never fails: any upstream or
// parsing error yields the language's fallback payload.
func (s *AdviceService) Generate(ctx context.Context, userID uint, snap *models.DailyBalance, lang string) Advice {
	lang = domain.NormalizeLang(lang)
	start := time.Now()
	defer func() {
		if s.observer != nil {
			s.observer.ObserveAdvice(time.Since(start))
		}
	}()

	key := cache.AdviceKey(userID, snap.BalanceDate, lang, snap.GoodCount, snap.BadCount, snap.GoodWeight, snap.BadWeight)
	if cached, ok := s.fromCache(ctx, key); ok {
		return cached
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.client.Complete(callCtx, BuildAdvicePrompt(snap, lang))
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			s.log.Warn("advice generation failed", zap.Error(err), zap.Uint("user_id", userID))
		}
		return FallbackAdvice(lang)
	}
	advice, err := ParseAdvice(raw)
	if err != nil {
		s.log.Warn("advice response unparseable", zap.Error(err), zap.Uint("user_id", userID))
		return FallbackAdvice(lang)
	}

	s.toCache(ctx, key, advice)
	return advice
}

func (s *AdviceService) fromCache(ctx context.Context, key string) (Advice, bool) {
	if s.cache == nil {
		return Advice{}, false
	}
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("advice cache get failed", zap.Error(err))
		return Advice{}, false
	}
	if !ok {
		return Advice{}, false
	}
	var a Advice
	if err := json.Unmarshal(b, &a); err != nil || a.Advice == "" {
		return Advice{}, false
	}
	return a, true
}

func (s *AdviceService) toCache(ctx context.Context, key string, a Advice) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	b, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, b, s.cacheTTL); err != nil {
		s.log.Warn("advice cache set failed", zap.Error(err))
	}
}

var promptTemplates = map[string]string{
	domain.LangFrench: `Tu es un conseiller islamique bienveillant. Voici le bilan des actions du jour :
- Bonnes actions (حسنات) : %d (poids : %d)
- Mauvaises actions (سيئات) : %d (poids : %d)
- Verdict : %s

Donne un conseil court et encourageant (3-4 phrases max) en français, une invocation en arabe, et une référence de hadith pertinente.

Réponds uniquement en JSON avec les clés : advice, encouragement, hadithReference`,
	domain.LangArabic: `أنت ناصح إسلامي رحيم. هذه حصيلة أعمال اليوم:
- الحسنات: %d (الوزن: %d)
- السيئات: %d (الوزن: %d)
- الحكم: %s

قدّم نصيحة قصيرة مشجعة (3-4 جمل كحد أقصى) باللغة العربية، ودعاءً، ومرجعًا من حديث نبوي مناسب.

أجب بصيغة JSON فقط بالمفاتيح: advice, encouragement, hadithReference`,
	domain.LangEnglish: `You are a kind Islamic counsellor. Here is today's summary of deeds:
- Good deeds (hasanat): %d (weight: %d)
- Bad deeds (sayyi'at): %d (weight: %d)
- Verdict: %s

Give short, encouraging advice (3-4 sentences max) in English, a supplication in Arabic, and a relevant hadith reference.

Reply only with JSON using the keys: advice, encouragement, hadithReference`,
}

// BuildAdvicePrompt renders the chat messages for a snapshot in lang.
func BuildAdvicePrompt(snap *models.DailyBalance, lang string) []llm.Message {
	tmpl := promptTemplates[domain.NormalizeLang(lang)]
	return []llm.Message{{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf(tmpl, snap.GoodCount, snap.GoodWeight, snap.BadCount, snap.BadWeight, snap.Verdict),
	}}
}

// ParseAdvice decodes a model reply, tolerating a surrounding markdown code fence.
func ParseAdvice(raw string) (Advice, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var a Advice
	if err := json.Unmarshal([]byte(cleaned), &a); err != nil {
		return Advice{}, fmt.Errorf("advice: %w", err)
	}
	a.Advice = strings.TrimSpace(a.Advice)
	if a.Advice == "" {
		return Advice{}, errEmptyAdvice
	}
	return a, nil
}
