package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-qabot/internal/ai"
	"academy-qabot/internal/model"
)

func TestRouteParsesCategory(t *testing.T) {
	cases := map[string]model.Category{
		`{"category": "vacation"}`:                 model.CategoryVacation,
		"```json\n{\"category\":\"timetable\"}\n```": model.CategoryTimetable,
		`  {"category":"legal"}  `:                 model.CategoryLegal,
	}
	for raw, want := range cases {
		chat := &fakeChat{replies: []string{raw}}
		got, err := NewRouter(chat).Route(context.Background(), "질문")
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)

		require.Len(t, chat.calls, 1)
		msgs := chat.calls[0]
		require.Len(t, msgs, 2)
		assert.Equal(t, ai.RoleSystem, msgs[0].Role)
		assert.Equal(t, ai.ChatMessage{Role: ai.RoleUser, Content: "질문"}, msgs[1])
	}
}

func TestRouteReturnsClassificationError(t *testing.T) {
	for _, raw := range []string{
		"vacation",
		`{"category": "etc"}`,
		`{"category": "finance"}`,
		`{"type": "vacation"}`,
		`["vacation"]`,
		"",
	} {
		_, err := NewRouter(&fakeChat{replies: []string{raw}}).Route(context.Background(), "q")
		var classErr *ClassificationError
		require.True(t, errors.As(err, &classErr), "raw=%q err=%v", raw, err)
		assert.Equal(t, raw, classErr.Raw)
	}
}

func TestRouteOrFallback(t *testing.T) {
	got, err := NewRouter(&fakeChat{replies: []string{"I think it is about vacation"}}).RouteOrFallback(context.Background(), "카드 발급은 어떻게 하나요?")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryEtc, got)

	got, err = NewRouter(&fakeChat{replies: []string{`{"category":"legal"}`}}).RouteOrFallback(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryLegal, got)
}

func TestRouteOrFallbackPropagatesTransportErrors(t *testing.T) {
	upstream := errors.New("connection refused")
	_, err := NewRouter(&fakeChat{err: upstream}).RouteOrFallback(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, upstream)

	var classErr *ClassificationError
	assert.False(t, errors.As(err, &classErr))
}
