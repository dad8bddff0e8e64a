package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adityadeoche/interview-iq-ai-sub000/config"
	"github.com/adityadeoche/interview-iq-ai-sub000/interview"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiService implements the round content/evaluation and project audit
// collaborators on the Gemini API. All prompts ask for bare JSON; responses
// are parsed leniently and any failure surfaces as a retryable error, never
// as a round verdict.
type GeminiService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiService initializes the Gemini client from AppConfig.
func NewGeminiService(ctx context.Context) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("error initializing Gemini client: %v", err)
	}

	model := client.GenerativeModel(config.AppConfig.GeminiModel)
	temp := float32(0.4)
	topk := int32(1)
	topp := float32(0.8)
	model.Temperature = &temp // Lower temperature for consistent scoring
	model.TopK = &topk
	model.TopP = &topp

	return &GeminiService{client: client, model: model}, nil
}

// Close releases the underlying client.
func (g *GeminiService) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

// GenerateRoundContent produces the question set or coding problem for a
// round. mode tweaks round 1 difficulty only.
func (g *GeminiService) GenerateRoundContent(ctx context.Context, role string, round interview.Round, mode interview.Mode) (*interview.RoundContent, error) {
	var prompt string
	switch round {
	case interview.RoundAptitude:
		difficulty := "standard"
		switch mode {
		case interview.ModeExpert:
			difficulty = "expert level, probing deeper than usual"
		case interview.ModeFoundational:
			difficulty = "foundational, easier than usual"
		}
		prompt = fmt.Sprintf(`You are conducting the aptitude round of a mock interview for a %s role.
Generate 1 %s aptitude question.
Return only JSON: {"questions": ["..."]}`, role, difficulty)
	case interview.RoundTechnical:
		prompt = fmt.Sprintf(`You are conducting the technical round of a mock interview for a %s role.
Generate 5 technical questions covering the core skills of the role.
Return only JSON: {"questions": ["...", "...", "...", "...", "..."]}`, role)
	case interview.RoundResume:
		prompt = fmt.Sprintf(`You are conducting the resume deep-dive round of a mock interview for a %s role.
Generate 4 questions that probe the candidate's claimed experience and projects.
Return only JSON: {"questions": ["...", "...", "...", "..."]}`, role)
	case interview.RoundCoding:
		prompt = fmt.Sprintf(`You are conducting the coding round of a mock interview for a %s role.
Generate one coding problem statement with constraints and an example.
Return only JSON: {"problem": "..."}`, role)
	case interview.RoundWritten:
		prompt = fmt.Sprintf(`You are conducting the written communication round of a mock interview for a %s role.
Generate 2 written prompts (e.g. a design summary and a professional email scenario).
Return only JSON: {"questions": ["...", "..."]}`, role)
	default:
		return nil, fmt.Errorf("unknown round %d", int(round))
	}

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Questions []string `json:"questions"`
		Problem   string   `json:"problem"`
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), &parsed); err != nil {
		return nil, fmt.Errorf("unparseable round content from model: %v", err)
	}
	if len(parsed.Questions) == 0 && parsed.Problem == "" {
		return nil, fmt.Errorf("model returned no round content")
	}

	return &interview.RoundContent{Round: round, Questions: parsed.Questions, Problem: parsed.Problem}, nil
}

// EvaluateAnswer scores a single round 1 chat answer on a 0-10 scale.
func (g *GeminiService) EvaluateAnswer(ctx context.Context, role, question, answer string) (float64, error) {
	prompt := fmt.Sprintf(`You are evaluating one aptitude answer in a mock interview for a %s role.
Question: %s
Answer: %s
Score the answer from 0 to 10.
Return only JSON: {"score": <number>}`, role, question, answer)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return 0, err
	}

	var parsed struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), &parsed); err != nil {
		return 0, fmt.Errorf("unparseable answer score from model: %v", err)
	}
	return clamp(parsed.Score, 0, 10), nil
}

// EvaluateRoundAnswers scores a bulk-submitted round. The model must return a
// pass verdict; for rounds without a pass gate (5) the caller ignores it.
func (g *GeminiService) EvaluateRoundAnswers(ctx context.Context, role string, round interview.Round, questions, answers []string) (*interview.RoundEvaluation, error) {
	var pairs strings.Builder
	for i, q := range questions {
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}
		if answer == "" {
			answer = "(no answer given)"
		}
		fmt.Fprintf(&pairs, "Q%d: %s\nA%d: %s\n", i+1, q, i+1, answer)
	}

	prompt := fmt.Sprintf(`You are evaluating the %s round of a mock interview for a %s role.
%s
Score the round from 0 to 100, decide whether the candidate passed the round, and give brief feedback.
Return only JSON: {"score": <number>, "passed": <bool>, "feedback": "..."}`, round.Name(), role, pairs.String())

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed interview.RoundEvaluation
	if err := json.Unmarshal([]byte(extractJSON(text)), &parsed); err != nil {
		return nil, fmt.Errorf("unparseable round evaluation from model: %v", err)
	}
	parsed.Score = clamp(parsed.Score, 0, 100)
	return &parsed, nil
}

// AuditProjects reviews the candidate's declared projects against the target
// role. The verdict can terminate a drive interview, so the prompt demands an
// explicit pass decision.
func (g *GeminiService) AuditProjects(ctx context.Context, role string, projects []interview.Project) (*interview.AuditResult, error) {
	var listing strings.Builder
	for i, p := range projects {
		fmt.Fprintf(&listing, "%d. %s — %s (tech: %s)\n", i+1, p.Title, p.Description, p.TechStack)
	}
	if listing.Len() == 0 {
		listing.WriteString("(no projects declared)\n")
	}

	prompt := fmt.Sprintf(`You are auditing a candidate's project portfolio for a %s role.
Projects:
%s
Decide whether the portfolio demonstrates enough relevant work for the role.
Return only JSON: {"passed": <bool>, "match_score": <0-100>, "reason": "..."}`, role, listing.String())

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed interview.AuditResult
	if err := json.Unmarshal([]byte(extractJSON(text)), &parsed); err != nil {
		return nil, fmt.Errorf("unparseable audit result from model: %v", err)
	}
	parsed.MatchScore = clamp(parsed.MatchScore, 0, 100)
	return &parsed, nil
}

// generate sends one prompt and flattens the text parts of the first
// candidate.
func (g *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("error calling Gemini: %v", err)
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return sb.String(), nil
}

// extractJSON trims markdown fences and surrounding prose the model sometimes
// wraps around its JSON.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		text = text[idx+3:]
		text = strings.TrimPrefix(text, "json")
		if end := strings.Index(text, "```"); end != -1 {
			text = text[:end]
		}
	}
	start := strings.IndexAny(text, "{[")
	if start == -1 {
		return text
	}
	end := strings.LastIndexAny(text, "}]")
	if end == -1 || end < start {
		return text
	}
	return strings.TrimSpace(text[start : end+1])
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
