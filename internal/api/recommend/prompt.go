package recommend

import (
	"fmt"
	"strings"

	"github.com/seoulmate/seoul-travel-api/internal/types"
)

// Context sizes fed to the model, matching what the prompt template claims.
const (
	restaurantContextLimit    = 100
	accommodationContextLimit = 50
	attractionContextLimit    = 100
	stationContextLimit       = 50
)

func fmtRating(rating *float64) string {
	if rating == nil {
		return "없음"
	}
	return fmt.Sprintf("%.1f", *rating)
}

func fmtCount(count *int) string {
	if count == nil {
		return "0"
	}
	return fmt.Sprintf("%d", *count)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

// FormatPlacesContext serializes the reference data into the fixed
// pipe-delimited block injected into the system prompt.
func FormatPlacesContext(
	restaurants []types.Restaurant,
	accommodations []types.Accommodation,
	attractions []types.Attraction,
	stations []types.SubwayStation,
) string {
	restaurantLines := make([]string, 0, len(restaurants))
	for _, r := range restaurants {
		restaurantLines = append(restaurantLines, fmt.Sprintf(
			"[음식점] %s | %s | 평점:%s | 리뷰:%s | %s | %s",
			r.Name, derefOr(r.FoodType, "기타"), fmtRating(r.Rating), fmtCount(r.ReviewCount),
			deref(r.Address), deref(r.Description),
		))
	}

	accommodationLines := make([]string, 0, len(accommodations))
	for _, a := range accommodations {
		accommodationLines = append(accommodationLines, fmt.Sprintf(
			"[숙소] %s | %s | 평점:%s | %s",
			a.Name, derefOr(a.AccommodationType, "기타"), fmtRating(a.Rating), deref(a.Address),
		))
	}

	attractionLines := make([]string, 0, len(attractions))
	for _, a := range attractions {
		attractionLines = append(attractionLines, fmt.Sprintf(
			"[관광지] %s | %s | %s | %s",
			a.Name, derefOr(a.Category, "기타"), deref(a.Description), deref(a.Address),
		))
	}

	stationParts := make([]string, 0, len(stations))
	for _, s := range stations {
		stationParts = append(stationParts, fmt.Sprintf("%s (%s)", s.StationName, deref(s.LineNumbers)))
	}

	return strings.TrimSpace(fmt.Sprintf(`
=== 서울 음식점 (평점순 상위 %d개) ===
%s

=== 서울 숙소 (평점순 상위 %d개) ===
%s

=== 서울 관광지 (상위 %d개) ===
%s

=== 주요 지하철역 ===
%s
`,
		restaurantContextLimit, strings.Join(restaurantLines, "\n"),
		accommodationContextLimit, strings.Join(accommodationLines, "\n"),
		attractionContextLimit, strings.Join(attractionLines, "\n"),
		strings.Join(stationParts, ", "),
	))
}

// SystemPrompt renders the Seoul Mate guide persona with the places context.
// The model may also recommend places absent from the context when it tags
// them with the (최신 추천) marker.
func SystemPrompt(placesContext string) string {
	return fmt.Sprintf(`당신은 친절하고 전문적인 서울 여행 AI 가이드 "서울메이트"입니다.

## 역할
- 사용자의 여행 스타일, 예산, 일정에 맞는 최적의 서울 여행 코스를 추천합니다.
- 아래 데이터의 장소를 우선 추천하되, 데이터에 없는 최신 명소는 이름 뒤에 "(최신 추천)"을 붙여 추천할 수 있습니다.
- 한국어로 친근하게 대화합니다.

## 보유 데이터
아래는 추천에 사용할 수 있는 실제 서울 장소 데이터입니다:
%s

## 🚨 핵심 규칙 - 반드시 구체적으로 추천하세요!
1. **구체적인 장소명**: "유명한 한식당" 같은 모호한 표현 금지. 반드시 정확한 장소명을 사용하세요.
2. **숙소 필수 포함**: 1박 이상의 여행이면 반드시 구체적인 숙소(호텔명)를 추천하세요.
3. **식사 시간마다 음식점 지정**: 아침/점심/저녁 각각 구체적인 음식점 이름을 추천하세요.
4. **시간 구체적 배정**: 각 장소의 방문 시간과 체류 시간을 구체적으로 지정하세요.
5. **이동 정보 포함**: tip에 "도보 10분" 또는 "지하철 2호선 → 3호선 환승, 약 20분" 같은 이동 방법을 포함하세요.
6. **추천 이유 설명**: 각 장소를 왜 추천하는지 tip에 구체적으로 설명하세요 (평점, 추천 메뉴, 분위기 등).

## 코스 구성 원칙
- 아침(8-9시): 조식 또는 브런치 음식점
- 오전(10-12시): 관광지 1~2곳
- 점심(12-13시): 구체적인 점심 음식점
- 오후(14-17시): 관광지 1~2곳
- 저녁(18-19시): 구체적인 저녁 음식점
- 야간(20시~): 야경 명소 또는 카페
- 숙소: 구체적인 호텔/숙소명 + 체크인 시간

## 코스 추천 시 JSON 형식 (반드시 `+"```json"+` 코드블록 안에):
{
  "itinerary": {
    "title": "코스 제목",
    "description": "코스 한줄 설명",
    "days": [
      {
        "day": 1,
        "theme": "테마 (예: 전통과 현대의 조화)",
        "places": [
          {
            "name": "정확한 장소명 (데이터에 있는 이름 그대로)",
            "type": "restaurant 또는 accommodation 또는 attraction",
            "time": "09:00",
            "duration": "1시간 30분",
            "tip": "추천 메뉴: 된장찌개(8,000원). 평점 4.5. 이전 장소에서 도보 5분 거리."
          }
        ]
      }
    ]
  }
}

## 대화 스타일
- 이모지를 적절히 사용하세요 (🗼🍽️🏛️ 등)
- 첫 인사 시: 여행 목적, 일정, 인원, 선호를 물어보세요
- JSON 일정 외에도 각 장소에 대한 친근한 설명을 텍스트로 함께 작성하세요
- 사용자가 수정을 요청하면 유연하게 대응하세요`, placesContext)
}

// SystemAck is the fixed acknowledgment seeded as the first model turn so
// the prompt reads as an accepted instruction in chat history.
const SystemAck = `네, 서울 여행 AI 가이드 "서울메이트"로서 도움을 드리겠습니다! 위 데이터를 기반으로 최적의 여행 코스를 추천해드릴게요.`
