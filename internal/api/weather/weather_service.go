package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/seoulmate/seoul-travel-api/internal/types"
)

// Seoul city hall on the KMA forecast grid.
const (
	seoulGridX = "60"
	seoulGridY = "127"

	cacheKey = "seoul"
	cacheTTL = 30 * time.Minute
)

// baseHours are the forecast publication slots of the short-term forecast.
var baseHours = []int{23, 20, 17, 14, 11, 8, 5, 2}

var kst = time.FixedZone("KST", 9*60*60)

// ErrNotConfigured is returned when no KMA service key is set.
var ErrNotConfigured = errors.New("weather api key is not configured")

type Service interface {
	GetCurrentWeather(ctx context.Context) (*types.Weather, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	client  *http.Client
	cache   *cache.Cache
	apiKey  string
	baseURL string
	now     func() time.Time
}

var _ Service = (*ServiceImpl)(nil)

func NewServiceImpl(baseURL, apiKey string, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   cache.New(cacheTTL, 2*cacheTTL),
		apiKey:  apiKey,
		baseURL: baseURL,
		now:     time.Now,
	}
}

type kmaItem struct {
	Category  string `json:"category"`
	FcstDate  string `json:"fcstDate"`
	FcstTime  string `json:"fcstTime"`
	FcstValue string `json:"fcstValue"`
}

type kmaResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items struct {
				Item []kmaItem `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

// baseDateTime picks the newest published forecast slot for the given KST
// time. Before 03:00 the latest slot is yesterday's 23:00 run.
func baseDateTime(now time.Time) (string, string) {
	now = now.In(kst)
	if now.Hour() < 3 {
		prev := now.AddDate(0, 0, -1)
		return prev.Format("20060102"), "2300"
	}
	for _, h := range baseHours {
		if now.Hour() >= h {
			return now.Format("20060102"), fmt.Sprintf("%02d00", h)
		}
	}
	// Unreachable given the slot list, but keep a sane fallback.
	return now.Format("20060102"), "0200"
}

func (s *ServiceImpl) GetCurrentWeather(ctx context.Context) (*types.Weather, error) {
	if s.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if cached, found := s.cache.Get(cacheKey); found {
		if w, ok := cached.(*types.Weather); ok {
			return w, nil
		}
	}

	baseDate, baseTime := baseDateTime(s.now())

	params := url.Values{}
	params.Set("serviceKey", s.apiKey)
	params.Set("numOfRows", "60")
	params.Set("pageNo", "1")
	params.Set("dataType", "JSON")
	params.Set("base_date", baseDate)
	params.Set("base_time", baseTime)
	params.Set("nx", seoulGridX)
	params.Set("ny", seoulGridY)

	reqURL := fmt.Sprintf("%s/getVilageFcst?%s", s.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather request returned status %d", resp.StatusCode)
	}

	var body kmaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}
	if code := body.Response.Header.ResultCode; code != "00" {
		return nil, fmt.Errorf("weather api error %s: %s", code, body.Response.Header.ResultMsg)
	}

	weather := buildWeather(body.Response.Body.Items.Item)
	if weather == nil {
		return nil, fmt.Errorf("weather response contained no forecast items")
	}

	s.cache.Set(cacheKey, weather, cache.DefaultExpiration)
	return weather, nil
}

// buildWeather keeps the first value seen per category, which is the
// earliest forecast slot since the feed is time ordered.
func buildWeather(items []kmaItem) *types.Weather {
	if len(items) == 0 {
		return nil
	}

	values := make(map[string]string)
	w := &types.Weather{}
	for _, item := range items {
		if _, seen := values[item.Category]; seen {
			continue
		}
		values[item.Category] = item.FcstValue
		if w.Date == "" {
			w.Date = item.FcstDate
			w.Time = item.FcstTime
		}
	}

	w.Temperature = values["TMP"]
	w.Humidity = values["REH"]
	w.WindSpeed = values["WSD"]
	w.Precipitation = values["PCP"]
	w.Pop = values["POP"]
	w.Sky = skyFor(values["PTY"], values["SKY"])
	return w
}

// skyFor buckets the condition codes. Precipitation type wins over the sky
// state whenever it reports anything falling.
func skyFor(pty, sky string) types.Sky {
	switch pty {
	case "1", "4":
		return types.SkyRain
	case "2":
		return types.SkySleet
	case "3":
		return types.SkySnow
	}
	switch sky {
	case "3":
		return types.SkyCloudy
	case "4":
		return types.SkyOvercast
	default:
		return types.SkyClear
	}
}
