package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bloom_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	requiredAnswerCount = 10
	minAnswerLength     = 3

	// Plain text returned when the model gives us nothing usable
	fallbackBlurb = "A mysterious romantic soul."

	generateTimeout = 30 * time.Second
)

// ErrInvalidAnswers covers a wrong answer count or malformed entries.
var ErrInvalidAnswers = errors.New("exactly 10 answers of at least 3 characters are required")

// GenerateService turns questionnaire answers into a profile blurb via a
// Groq-compatible chat-completions API.
type GenerateService struct {
	Dynamo  *DynamoService
	APIKey  string
	BaseURL string // e.g. https://api.groq.com/openai/v1
	Model   string // e.g. llama-3.1-8b-instant
	HTTP    *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// SubmitAnswers validates and stores the questionnaire, generates the
// profile blurb and persists it on the submission.
func (gs *GenerateService) SubmitAnswers(ctx context.Context, user models.User, answers []string) (*models.OnboardingSubmission, error) {
	if len(answers) != requiredAnswerCount {
		return nil, ErrInvalidAnswers
	}
	for _, answer := range answers {
		if len(strings.TrimSpace(answer)) < minAnswerLength {
			return nil, ErrInvalidAnswers
		}
	}

	poem, err := gs.generateBlurb(ctx, answers)
	if err != nil {
		return nil, err
	}

	submission := models.OnboardingSubmission{
		UserID:     user.ID,
		RollNumber: user.RollNumber,
		Answers:    answers,
		Poem:       poem,
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := gs.Dynamo.PutItem(ctx, models.OnboardingSubmissionsTable, submission); err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	return &submission, nil
}

// GetSubmission returns the stored questionnaire and blurb, nil when the
// user has not onboarded yet.
func (gs *GenerateService) GetSubmission(ctx context.Context, userID string) (*models.OnboardingSubmission, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := gs.Dynamo.GetItem(ctx, models.OnboardingSubmissionsTable, key)
	if errors.Is(err, ErrItemNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var submission models.OnboardingSubmission
	if err := attributevalue.UnmarshalMap(item, &submission); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
	}
	return &submission, nil
}

func (gs *GenerateService) generateBlurb(ctx context.Context, answers []string) (string, error) {
	payload := chatRequest{
		Model:       gs.Model,
		Messages:    []chatMessage{{Role: "user", Content: buildPrompt(answers)}},
		Temperature: 0.9,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal generation request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost,
		strings.TrimRight(gs.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+gs.APIKey)

	resp, err := gs.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation API returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode generation response: %w", err)
	}

	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return fallbackBlurb, nil
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func buildPrompt(answers []string) string {
	var b strings.Builder
	b.WriteString("You are a romantic poet writing a dating profile.\n\n")
	b.WriteString("Create a poetic, warm, charming description in 150-200 words based on the following answers to 10 questions about personality, preferences, and interests.\n\n")
	b.WriteString("Try to use simple language and make it sound genuine and heartfelt. The description should be romantic, but not overly cheesy or flowery. It should feel like it's written by a real person, not an AI.\n\n")
	b.WriteString("Do NOT mention the questions or the fact that these answers were generated from a quiz. Output only the final description text.\n\nAnswers:\n")
	for i, answer := range answers {
		fmt.Fprintf(&b, "%d. %s\n", i+1, answer)
	}
	return b.String()
}
