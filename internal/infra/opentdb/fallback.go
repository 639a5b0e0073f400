package opentdb

import (
	"context"
	"math/rand"

	"quiz-battle-service/internal/domain"
)

type bankEntry struct {
	prompt     string
	options    [domain.OptionCount]string
	correct    string
	category   string
	difficulty domain.Difficulty
}

var sampleBank = []bankEntry{
	{
		prompt:     "What is the capital of France?",
		options:    [domain.OptionCount]string{"London", "Berlin", "Madrid", "Paris"},
		correct:    "Paris",
		category:   "General Knowledge",
		difficulty: domain.DifficultyEasy,
	},
	{
		prompt:     "What is the chemical symbol for water?",
		options:    [domain.OptionCount]string{"H2O", "CO2", "NaCl", "O2"},
		correct:    "H2O",
		category:   "Science & Nature",
		difficulty: domain.DifficultyEasy,
	},
	{
		prompt:     "What is 7 x 8?",
		options:    [domain.OptionCount]string{"42", "54", "56", "64"},
		correct:    "56",
		category:   "Mathematics",
		difficulty: domain.DifficultyEasy,
	},
	{
		prompt:     "What is the square root of 144?",
		options:    [domain.OptionCount]string{"10", "12", "14", "16"},
		correct:    "12",
		category:   "Mathematics",
		difficulty: domain.DifficultyMedium,
	},
	{
		prompt: "What does HTML stand for?",
		options: [domain.OptionCount]string{
			"Hyper Text Markup Language",
			"Home Tool Markup Language",
			"Hyperlinks and Text Markup Language",
			"Hyper Text Makeup Language",
		},
		correct:    "Hyper Text Markup Language",
		category:   "Computers",
		difficulty: domain.DifficultyMedium,
	},
	{
		prompt:     "In which year did World War II end?",
		options:    [domain.OptionCount]string{"1943", "1945", "1947", "1950"},
		correct:    "1945",
		category:   "History",
		difficulty: domain.DifficultyMedium,
	},
	{
		prompt:     "What is the fastest land animal?",
		options:    [domain.OptionCount]string{"Lion", "Cheetah", "Gazelle", "Pronghorn Antelope"},
		correct:    "Cheetah",
		category:   "Animals",
		difficulty: domain.DifficultyEasy,
	},
}

// StaticBank is the built-in question set used when the trivia API cannot
// be reached. Option positions are reshuffled on every fetch.
type StaticBank struct{}

// NewStaticBank returns the fallback supplier.
func NewStaticBank() *StaticBank {
	return &StaticBank{}
}

// Fetch filters the bank by category (numeric API ID) and difficulty; when
// the filter matches nothing the whole bank is returned so the caller never
// starts with an empty pool.
func (b *StaticBank) Fetch(_ context.Context, category string, difficulty domain.Difficulty) ([]domain.Question, error) {
	name := Categories[category]

	entries := make([]bankEntry, 0, len(sampleBank))
	if name != "" && difficulty != "" {
		for _, e := range sampleBank {
			if e.category == name && e.difficulty == difficulty {
				entries = append(entries, e)
			}
		}
	}
	if len(entries) == 0 {
		entries = sampleBank
	}
	return randomize(entries), nil
}

// FetchDaily returns the whole bank with reshuffled options.
func (b *StaticBank) FetchDaily(_ context.Context) ([]domain.Question, error) {
	return randomize(sampleBank), nil
}

// randomize shuffles each entry's options and recomputes the correct index.
func randomize(entries []bankEntry) []domain.Question {
	questions := make([]domain.Question, 0, len(entries))
	for _, e := range entries {
		options := e.options
		for i := len(options) - 1; i > 0; i-- {
			j := rand.Intn(i + 1)
			options[i], options[j] = options[j], options[i]
		}
		correct := 0
		for i, opt := range options {
			if opt == e.correct {
				correct = i
				break
			}
		}
		questions = append(questions, domain.Question{
			Prompt:       e.prompt,
			Options:      options,
			CorrectIndex: correct,
			Category:     e.category,
			Difficulty:   e.difficulty,
		})
	}
	return questions
}
