package recommend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/seoulmate/seoul-travel-api/internal/types"
)

// stubPlaceRepo lets each test vary only the fetches it cares about.
type stubPlaceRepo struct {
	restaurants    []types.Restaurant
	accommodations []types.Accommodation
	attractions    []types.Attraction
	stations       []types.SubwayStation

	restaurantsErr error
}

func (s *stubPlaceRepo) GetTopRestaurants(context.Context, int) ([]types.Restaurant, error) {
	return s.restaurants, s.restaurantsErr
}

func (s *stubPlaceRepo) GetTopAccommodations(context.Context, int) ([]types.Accommodation, error) {
	return s.accommodations, nil
}

func (s *stubPlaceRepo) GetAttractions(context.Context, int) ([]types.Attraction, error) {
	return s.attractions, nil
}

func (s *stubPlaceRepo) GetSubwayStations(context.Context, int) ([]types.SubwayStation, error) {
	return s.stations, nil
}

func (s *stubPlaceRepo) GetRestaurantsByFoodType(context.Context, string, int) ([]types.Restaurant, error) {
	return nil, nil
}

func (s *stubPlaceRepo) GetNearbyRestaurants(context.Context, float64, float64, float64) ([]types.Restaurant, error) {
	return nil, nil
}

func (s *stubPlaceRepo) FindRestaurantByName(context.Context, string) (*types.Place, error) {
	return nil, nil
}

func (s *stubPlaceRepo) FindAccommodationByName(context.Context, string) (*types.Place, error) {
	return nil, nil
}

func (s *stubPlaceRepo) FindAttractionByName(context.Context, string) (*types.Place, error) {
	return nil, nil
}

func (s *stubPlaceRepo) SearchPlaces(context.Context, string, int) (*types.SearchResults, error) {
	return nil, nil
}

type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockAIClient) Chat(ctx context.Context, history []*genai.Content, message string) (string, error) {
	args := m.Called(ctx, history, message)
	return args.String(0), args.Error(1)
}

type MockInteractionRepo struct {
	mock.Mock
}

func (m *MockInteractionRepo) SaveInteraction(ctx context.Context, interaction types.LlmInteraction) (uuid.UUID, error) {
	args := m.Called(ctx, interaction)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func TestGetRecommendation(t *testing.T) {
	ctx := context.Background()
	placeRepo := &stubPlaceRepo{
		restaurants: []types.Restaurant{{Name: "광장시장 육회", FoodType: strPtr("한식")}},
		stations:    []types.SubwayStation{{StationName: "종로3가역", LineNumbers: strPtr("1,3,5")}},
	}

	t.Run("seeds system prompt and replays history", func(t *testing.T) {
		aiClient := new(MockAIClient)
		repo := new(MockInteractionRepo)
		svc := NewServiceImpl(placeRepo, repo, aiClient, "gemini-2.0-flash", testLogger())

		var gotHistory []*genai.Content
		aiClient.On("Chat", mock.Anything, mock.Anything, "맛집 추천해줘").
			Run(func(args mock.Arguments) {
				gotHistory = args.Get(1).([]*genai.Content)
			}).
			Return("광장시장 육회를 추천드려요!", nil)
		repo.On("SaveInteraction", mock.Anything, mock.Anything).Return(uuid.New(), nil)

		response, err := svc.GetRecommendation(ctx, "device-1", types.RecommendRequest{
			Message: "맛집 추천해줘",
			History: []types.ChatTurn{
				{Role: "user", Content: "안녕"},
				{Role: "assistant", Content: "안녕하세요!"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "광장시장 육회를 추천드려요!", response)

		require.Len(t, gotHistory, 4)
		assert.Equal(t, genai.RoleUser, gotHistory[0].Role)
		assert.True(t, strings.HasPrefix(gotHistory[0].Parts[0].Text, "시스템 설정: "))
		assert.Contains(t, gotHistory[0].Parts[0].Text, "광장시장 육회")
		assert.Contains(t, gotHistory[0].Parts[0].Text, "종로3가역")
		assert.Equal(t, genai.RoleModel, gotHistory[1].Role)
		assert.Equal(t, SystemAck, gotHistory[1].Parts[0].Text)
		assert.Equal(t, genai.RoleUser, gotHistory[2].Role)
		assert.Equal(t, "안녕", gotHistory[2].Parts[0].Text)
		assert.Equal(t, genai.RoleModel, gotHistory[3].Role)

		repo.AssertCalled(t, "SaveInteraction", mock.Anything, mock.MatchedBy(func(i types.LlmInteraction) bool {
			return i.UserKey == "device-1" && i.Prompt == "맛집 추천해줘" && i.ModelUsed == "gemini-2.0-flash"
		}))
	})

	t.Run("context build failure fails the request", func(t *testing.T) {
		aiClient := new(MockAIClient)
		repo := new(MockInteractionRepo)
		failing := &stubPlaceRepo{restaurantsErr: errors.New("connection refused")}
		svc := NewServiceImpl(failing, repo, aiClient, "gemini-2.0-flash", testLogger())

		_, err := svc.GetRecommendation(ctx, "device-1", types.RecommendRequest{Message: "추천해줘"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "places context")
		aiClient.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("model failure surfaces", func(t *testing.T) {
		aiClient := new(MockAIClient)
		repo := new(MockInteractionRepo)
		svc := NewServiceImpl(placeRepo, repo, aiClient, "gemini-2.0-flash", testLogger())

		aiClient.On("Chat", mock.Anything, mock.Anything, mock.Anything).
			Return("", errors.New("quota exceeded"))

		_, err := svc.GetRecommendation(ctx, "device-1", types.RecommendRequest{Message: "추천해줘"})
		require.Error(t, err)
		repo.AssertNotCalled(t, "SaveInteraction", mock.Anything, mock.Anything)
	})

	t.Run("interaction log failure keeps the reply", func(t *testing.T) {
		aiClient := new(MockAIClient)
		repo := new(MockInteractionRepo)
		svc := NewServiceImpl(placeRepo, repo, aiClient, "gemini-2.0-flash", testLogger())

		aiClient.On("Chat", mock.Anything, mock.Anything, mock.Anything).
			Return("답변입니다", nil)
		repo.On("SaveInteraction", mock.Anything, mock.Anything).
			Return(uuid.Nil, errors.New("table missing"))

		response, err := svc.GetRecommendation(ctx, "", types.RecommendRequest{Message: "추천해줘"})
		require.NoError(t, err)
		assert.Equal(t, "답변입니다", response)
	})
}
