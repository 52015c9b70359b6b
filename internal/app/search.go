package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"academy-qabot/internal/ai"
	"academy-qabot/internal/model"
	"academy-qabot/internal/vectorstore"
)

const (
	defaultSearchK          = 4
	defaultMaxTimetableDays = 7
)

var koreanWeekdays = [...]string{"일요일", "월요일", "화요일", "수요일", "목요일", "금요일", "토요일"}

const dateExtractionPrompt = `오늘 날짜는 %s입니다.

질문이 가리키는 모든 날짜를 오늘 날짜를 기준으로 계산하세요.
최종 출력은 아래 형식을 정확히 지켜야 합니다:
{"dates": ["YYYYMMDD", "YYYYMMDD", ...]}

질문: %s

지금부터는 오직 JSON 형태로만, 위 구조에 맞게 출력해 주세요.`

type DateList struct {
	Dates []string `json:"dates"`
}

type SearcherOption func(*Searcher)

func WithSearchK(k int) SearcherOption {
	return func(s *Searcher) {
		if k > 0 {
			s.k = k
		}
	}
}

// WithMaxTimetableDates caps how many extracted dates are searched.
func WithMaxTimetableDates(n int) SearcherOption {
	return func(s *Searcher) {
		if n > 0 {
			s.maxDates = n
		}
	}
}

func WithSearchClock(now func() time.Time) SearcherOption {
	return func(s *Searcher) {
		if now != nil {
			s.now = now
		}
	}
}

// Searcher retrieves context and attached files for a routed question.
type Searcher struct {
	store     vectorstore.Store
	extractor ai.ChatModel
	k         int
	maxDates  int
	now       func() time.Time
}

// NewSearcher takes the shared vector store and the chat model used for
// timetable date extraction.
func NewSearcher(store vectorstore.Store, extractor ai.ChatModel, opts ...SearcherOption) *Searcher {
	s := &Searcher{
		store:     store,
		extractor: extractor,
		k:         defaultSearchK,
		maxDates:  defaultMaxTimetableDays,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs the retrieval strategy of category.
func (s *Searcher) Search(ctx context.Context, category model.Category, question string) (string, string, error) {
	policy, ok := policyFor(category)
	if !ok {
		return "", "", fmt.Errorf("unknown category %q", category)
	}
	return policy.search(s, ctx, question)
}

func (s *Searcher) searchDefault(ctx context.Context, question string) (string, string, error) {
	chunks, err := s.store.SimilaritySearch(ctx, question, s.k, nil)
	if err != nil {
		return "", "", fmt.Errorf("similarity search failed: %w", err)
	}
	contextText, files := ExtractContextAndFiles(chunks)
	return contextText, files, nil
}

// searchLegal never reports attached files.
func (s *Searcher) searchLegal(ctx context.Context, question string) (string, string, error) {
	contextText, _, err := s.searchDefault(ctx, question)
	if err != nil {
		return "", "", err
	}
	return contextText, "", nil
}

// searchTimetable searches each date the question refers to with an exact
// search_date filter and accumulates the results in date order.
func (s *Searcher) searchTimetable(ctx context.Context, question string) (string, string, error) {
	dates, err := s.ExtractDates(ctx, question)
	if err != nil {
		return "", "", err
	}

	var accumulated []model.Chunk
	for _, date := range dates {
		chunks, err := s.store.SimilaritySearch(ctx, date, s.k, vectorstore.Filter{model.MetaSearchDate: date})
		if err != nil {
			return "", "", fmt.Errorf("timetable search for %s failed: %w", date, err)
		}
		accumulated = append(accumulated, chunks...)
	}

	contextText, files := ExtractContextAndFiles(accumulated)
	return contextText, files, nil
}

// ExtractDates asks the extraction model for the YYYYMMDD dates question
// refers to. At most maxDates dates are returned.
func (s *Searcher) ExtractDates(ctx context.Context, question string) ([]string, error) {
	prompt := fmt.Sprintf(dateExtractionPrompt, TodayLabel(s.now()), question)
	raw, err := s.extractor.Complete(ctx, []ai.ChatMessage{{Role: ai.RoleUser, Content: prompt}})
	if err != nil {
		return nil, fmt.Errorf("date extraction request failed: %w", err)
	}

	var out DateList
	if err := decodeStructured(raw, dateSchema(), &out); err != nil {
		return nil, &DateExtractionError{Raw: raw, Err: err}
	}
	if len(out.Dates) > s.maxDates {
		log.Printf("timetable dates capped: extracted=%d max=%d", len(out.Dates), s.maxDates)
		out.Dates = out.Dates[:s.maxDates]
	}
	return out.Dates, nil
}

// TodayLabel formats t as YYYYMMDD followed by the Korean weekday name,
// for example 20250407(월요일).
func TodayLabel(t time.Time) string {
	return fmt.Sprintf("%s(%s)", t.Format("20060102"), koreanWeekdays[t.Weekday()])
}
