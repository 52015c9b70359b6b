package app

import (
	"context"

	"academy-qabot/internal/ai"
	"academy-qabot/internal/model"
)

type searchStrategy func(s *Searcher, ctx context.Context, question string) (string, string, error)

type promptTemplate func(in promptInput) []ai.ChatMessage

// categoryPolicy is how one category retrieves and prompts.
type categoryPolicy struct {
	search searchStrategy
	prompt promptTemplate
}

// categoryPolicies must hold an entry for every model.Category.
var categoryPolicies = map[model.Category]categoryPolicy{
	model.CategoryVacation:  {search: (*Searcher).searchDefault, prompt: vacationPrompt},
	model.CategoryTimetable: {search: (*Searcher).searchTimetable, prompt: timetablePrompt},
	model.CategoryLegal:     {search: (*Searcher).searchLegal, prompt: legalPrompt},
	model.CategoryEtc:       {search: (*Searcher).searchDefault, prompt: etcPrompt},
}

func policyFor(category model.Category) (categoryPolicy, bool) {
	p, ok := categoryPolicies[category]
	return p, ok
}
