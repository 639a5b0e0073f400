// Package opentdb implements the question supplier against the Open Trivia
// DB API. Fetch failures never reach the session layer: any network or
// parse problem falls back to the static bank.
package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"quiz-battle-service/internal/domain"
	"quiz-battle-service/internal/game"
)

// DefaultBaseURL is the public Open Trivia DB endpoint.
const DefaultBaseURL = "https://opentdb.com/api.php"

// questionsPerFetch matches the upstream amount parameter.
const questionsPerFetch = 10

// Categories maps the API's numeric category IDs to display names, used to
// filter the fallback bank when the API is unreachable.
var Categories = map[string]string{
	"9":  "General Knowledge",
	"17": "Science & Nature",
	"18": "Computers",
	"19": "Mathematics",
	"21": "Sports",
	"22": "Geography",
	"23": "History",
	"25": "Art",
	"27": "Animals",
}

// Client fetches and normalizes questions from Open Trivia DB.
type Client struct {
	baseURL  string
	http     *http.Client
	fallback game.QuestionSource
	log      *zap.Logger
}

// NewClient builds a supplier. A nil fallback defaults to the static bank.
func NewClient(baseURL string, timeout time.Duration, fallback game.QuestionSource, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if fallback == nil {
		fallback = NewStaticBank()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		fallback: fallback,
		log:      log,
	}
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []apiQuestion `json:"results"`
}

type apiQuestion struct {
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Fetch returns questions for a category/difficulty pair. Failure is fully
// absorbed here: the fallback bank is returned instead.
func (c *Client) Fetch(ctx context.Context, category string, difficulty domain.Difficulty) ([]domain.Question, error) {
	params := url.Values{}
	params.Set("amount", fmt.Sprint(questionsPerFetch))
	params.Set("type", "multiple")
	if category != "" {
		params.Set("category", category)
	}
	if difficulty != "" {
		params.Set("difficulty", string(difficulty))
	}

	questions, err := c.fetch(ctx, params)
	if err != nil {
		c.log.Warn("trivia fetch failed, using fallback bank", zap.Error(err))
		return c.fallback.Fetch(ctx, category, difficulty)
	}
	return questions, nil
}

// FetchDaily returns ten mixed-category questions, falling back the same way.
func (c *Client) FetchDaily(ctx context.Context) ([]domain.Question, error) {
	params := url.Values{}
	params.Set("amount", fmt.Sprint(questionsPerFetch))
	params.Set("type", "multiple")

	questions, err := c.fetch(ctx, params)
	if err != nil {
		c.log.Warn("daily trivia fetch failed, using fallback bank", zap.Error(err))
		return c.fallback.FetchDaily(ctx)
	}
	return questions, nil
}

func (c *Client) fetch(ctx context.Context, params url.Values) ([]domain.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trivia api status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode trivia response: %w", err)
	}
	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("trivia api response code %d", payload.ResponseCode)
	}

	questions := make([]domain.Question, 0, len(payload.Results))
	for _, raw := range payload.Results {
		q, ok := normalize(raw)
		if ok {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("trivia api returned no usable questions")
	}
	return questions, nil
}

// normalize converts an API record to the canonical four-option form: the
// correct answer is inserted at a random position among the incorrect ones
// and all texts are HTML-entity decoded.
func normalize(raw apiQuestion) (domain.Question, bool) {
	if len(raw.IncorrectAnswers) != domain.OptionCount-1 {
		return domain.Question{}, false
	}

	correctPos := rand.Intn(domain.OptionCount)
	var options [domain.OptionCount]string
	wrong := 0
	for i := 0; i < domain.OptionCount; i++ {
		if i == correctPos {
			options[i] = html.UnescapeString(raw.CorrectAnswer)
			continue
		}
		options[i] = html.UnescapeString(raw.IncorrectAnswers[wrong])
		wrong++
	}

	return domain.Question{
		Prompt:       html.UnescapeString(raw.Question),
		Options:      options,
		CorrectIndex: correctPos,
		Category:     html.UnescapeString(raw.Category),
		Difficulty:   domain.Difficulty(raw.Difficulty),
	}, true
}
