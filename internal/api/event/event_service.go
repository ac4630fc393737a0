package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/seoulmate/seoul-travel-api/internal/api/generativeai"
	"github.com/seoulmate/seoul-travel-api/internal/types"
)

const (
	maxEvents = 10
	fetchRows = 100

	feedCacheTTL        = 30 * time.Minute
	translationCacheTTL = 6 * time.Hour
)

var kst = time.FixedZone("KST", 9*60*60)

type Service interface {
	GetUpcomingEvents(ctx context.Context, locale string) ([]types.Event, error)
}

type ServiceImpl struct {
	logger           *slog.Logger
	client           *http.Client
	aiClient         generativeai.AIClient
	feedCache        *cache.Cache
	translationCache *cache.Cache
	apiKey           string
	baseURL          string
	now              func() time.Time
}

var _ Service = (*ServiceImpl)(nil)

func NewServiceImpl(baseURL, apiKey string, aiClient generativeai.AIClient, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:           logger,
		client:           &http.Client{Timeout: 10 * time.Second},
		aiClient:         aiClient,
		feedCache:        cache.New(feedCacheTTL, 2*feedCacheTTL),
		translationCache: cache.New(translationCacheTTL, 2*translationCacheTTL),
		apiKey:           apiKey,
		baseURL:          baseURL,
		now:              time.Now,
	}
}

type feedRow struct {
	Codename  string `json:"CODENAME"`
	Title     string `json:"TITLE"`
	Place     string `json:"PLACE"`
	OrgLink   string `json:"ORG_LINK"`
	MainImg   string `json:"MAIN_IMG"`
	StartDate string `json:"STRTDATE"`
	EndDate   string `json:"END_DATE"`
	IsFree    string `json:"IS_FREE"`
}

type feedResponse struct {
	CulturalEventInfo struct {
		Row []feedRow `json:"row"`
	} `json:"culturalEventInfo"`
}

func (s *ServiceImpl) GetUpcomingEvents(ctx context.Context, locale string) ([]types.Event, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("events api key is not configured")
	}

	events, err := s.fetchEvents(ctx)
	if err != nil {
		return nil, err
	}

	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" || locale == "ko" || len(events) == 0 {
		return events, nil
	}
	return s.translateEvents(ctx, locale, events), nil
}

func (s *ServiceImpl) fetchEvents(ctx context.Context) ([]types.Event, error) {
	if cached, found := s.feedCache.Get("events"); found {
		if events, ok := cached.([]types.Event); ok {
			return events, nil
		}
	}

	reqURL := fmt.Sprintf("%s/%s/json/culturalEventInfo/1/%d/", s.baseURL, s.apiKey, fetchRows)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build events request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("events request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("events request returned status %d", resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		// The feed answers errors with a different JSON shape; treat that
		// as no events rather than failing the widget.
		s.logger.WarnContext(ctx, "Unexpected events feed shape", slog.Any("error", err))
		return []types.Event{}, nil
	}

	events := selectUpcoming(body.CulturalEventInfo.Row, s.now().In(kst))
	s.feedCache.Set("events", events, cache.DefaultExpiration)
	return events, nil
}

// selectUpcoming keeps events that have not ended yet, soonest first.
func selectUpcoming(rows []feedRow, now time.Time) []types.Event {
	today := now.Format("2006-01-02")

	var kept []feedRow
	for _, row := range rows {
		if datePart(row.EndDate) >= today {
			kept = append(kept, row)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return datePart(kept[i].StartDate) < datePart(kept[j].StartDate)
	})
	if len(kept) > maxEvents {
		kept = kept[:maxEvents]
	}

	events := make([]types.Event, 0, len(kept))
	for _, row := range kept {
		events = append(events, types.Event{
			Title:     row.Title,
			Category:  row.Codename,
			Place:     row.Place,
			StartDate: datePart(row.StartDate),
			EndDate:   datePart(row.EndDate),
			IsFree:    row.IsFree,
			Link:      row.OrgLink,
			Image:     row.MainImg,
		})
	}
	return events
}

// datePart drops the time component of "2026-08-30 00:00:00.0" style values.
func datePart(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

type translatedEvent struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Place    string `json:"place"`
}

// translateEvents rewrites the display fields in the requested locale.
// Translation failures fall back to the Korean originals.
func (s *ServiceImpl) translateEvents(ctx context.Context, locale string, events []types.Event) []types.Event {
	titles := make([]string, 0, len(events))
	for _, e := range events {
		titles = append(titles, e.Title)
	}
	key := locale + "|" + strings.Join(titles, "|")

	if cached, found := s.translationCache.Get(key); found {
		if translated, ok := cached.([]types.Event); ok {
			return translated
		}
	}

	payload := make([]translatedEvent, 0, len(events))
	for _, e := range events {
		payload = append(payload, translatedEvent{Title: e.Title, Category: e.Category, Place: e.Place})
	}
	source, err := json.Marshal(payload)
	if err != nil {
		return events
	}

	prompt := fmt.Sprintf(
		"Translate the title, category and place fields of the following JSON array into the language with locale code %q. "+
			"Respond with only the translated JSON array, preserving the field names and array order exactly.\n\n%s",
		locale, string(source))

	reply, err := s.aiClient.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.WarnContext(ctx, "Event translation failed, serving originals",
			slog.String("locale", locale), slog.Any("error", err))
		return events
	}

	var translated []translatedEvent
	if err := json.Unmarshal([]byte(stripFence(reply)), &translated); err != nil || len(translated) != len(events) {
		s.logger.WarnContext(ctx, "Unusable event translation, serving originals",
			slog.String("locale", locale))
		return events
	}

	out := make([]types.Event, len(events))
	copy(out, events)
	for i := range out {
		out[i].Title = translated[i].Title
		out[i].Category = translated[i].Category
		out[i].Place = translated[i].Place
	}

	s.translationCache.Set(key, out, cache.DefaultExpiration)
	return out
}

// stripFence removes a markdown code fence the model sometimes wraps the
// JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
