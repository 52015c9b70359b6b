package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"
	"time"

	"academy-qabot/internal/model"
)

// AnswerCache keeps answers per day and question.
type AnswerCache interface {
	Get(ctx context.Context, key string) (*model.CachedAnswer, bool, error)
	Set(ctx context.Context, key string, answer model.CachedAnswer) error
}

// QALogPublisher hands answered questions to the async log writer.
type QALogPublisher interface {
	Publish(ctx context.Context, entry model.QALog) error
}

type AskInput struct {
	Question string
}

type AskResult struct {
	Category      model.Category `json:"category"`
	Answer        string         `json:"answer"`
	AttachedFiles string         `json:"attached_files"`
	Cached        bool           `json:"cached"`
}

type QAOption func(*QAService)

func WithAnswerCache(cache AnswerCache) QAOption {
	return func(s *QAService) {
		s.cache = cache
	}
}

func WithQALogPublisher(publisher QALogPublisher) QAOption {
	return func(s *QAService) {
		s.publisher = publisher
	}
}

func WithQAClock(now func() time.Time) QAOption {
	return func(s *QAService) {
		if now != nil {
			s.now = now
		}
	}
}

// QAService answers one question: route, search, prompt, generate.
type QAService struct {
	router    *Router
	searcher  *Searcher
	generator *Generator
	cache     AnswerCache
	publisher QALogPublisher
	now       func() time.Time
}

func NewQAService(router *Router, searcher *Searcher, generator *Generator, opts ...QAOption) *QAService {
	s := &QAService{
		router:    router,
		searcher:  searcher,
		generator: generator,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *QAService) Ask(ctx context.Context, input AskInput) (*AskResult, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, ErrInvalidInput
	}
	started := s.now()
	key := answerCacheKey(started, question)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Printf("answer cache get failed: %v", err)
		} else if ok {
			result := &AskResult{
				Category:      cached.Category,
				Answer:        cached.Answer,
				AttachedFiles: cached.AttachedFiles,
				Cached:        true,
			}
			s.publish(ctx, question, result, started)
			return result, nil
		}
	}

	category, err := s.router.RouteOrFallback(ctx, question)
	if err != nil {
		return nil, err
	}
	contextText, files, err := s.searcher.Search(ctx, category, question)
	if err != nil {
		return nil, err
	}
	messages := BuildMessages(category, contextText, files, question, started)
	answer, err := s.generator.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	result := &AskResult{Category: category, Answer: answer, AttachedFiles: files}
	if s.cache != nil {
		entry := model.CachedAnswer{Category: category, Answer: answer, AttachedFiles: files}
		if err := s.cache.Set(ctx, key, entry); err != nil {
			log.Printf("answer cache set failed: %v", err)
		}
	}
	s.publish(ctx, question, result, started)
	return result, nil
}

func (s *QAService) publish(ctx context.Context, question string, result *AskResult, started time.Time) {
	if s.publisher == nil {
		return
	}
	entry := model.QALog{
		Question:      question,
		Category:      result.Category.String(),
		Answer:        result.Answer,
		AttachedFiles: result.AttachedFiles,
		LatencyMS:     s.now().Sub(started).Milliseconds(),
		Cached:        result.Cached,
		CreatedAt:     started,
	}
	if err := s.publisher.Publish(ctx, entry); err != nil {
		log.Printf("publish qa log failed: %v", err)
	}
}

// answerCacheKey scopes answers to a day because timetable answers depend
// on today's date.
func answerCacheKey(now time.Time, question string) string {
	sum := sha256.Sum256([]byte(question))
	return now.Format("20060102") + ":" + hex.EncodeToString(sum[:])
}
