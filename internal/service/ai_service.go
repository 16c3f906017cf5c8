package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"kryva_backend/internal/config"
	"kryva_backend/internal/model"
	"kryva_backend/pkg/logger"
	"kryva_backend/pkg/monitoring"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AIService talks to the text-generation endpoint. Any failure, transport or
// parse, degrades to a deterministic fallback dataset so user flows are never
// blocked on the generator.
type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateContent sends a prompt and returns the first candidate's text.
func (s *AIService) GenerateContent(ctx context.Context, prompt string) (string, error) {
	jsonData, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/generate/", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generation API returned no candidates")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// stripCodeFence removes a wrapping ```json / ``` markdown fence, which the
// generator frequently adds around JSON payloads.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// GenerateQuizQuestions produces quiz questions for a course. On any failure
// it returns the static fallback set without an error.
func (s *AIService) GenerateQuizQuestions(ctx context.Context, courseName string) []model.QuizQuestion {
	prompt := fmt.Sprintf(
		"Generate 10 multiple-choice quiz questions for the course %q. "+
			"Return ONLY a JSON array of objects with fields: "+
			"question (string), options (array of 4 strings), answer (index of the correct option), "+
			"topic (the single skill the question tests). No markdown, no extra text.",
		courseName,
	)

	text, err := s.GenerateContent(ctx, prompt)
	if err != nil {
		logger.Log.Warn("quiz generation failed, using fallback questions",
			zap.String("course", courseName), zap.Error(err))
		monitoring.AIRequestCounter.WithLabelValues("quiz", "fallback").Inc()
		return FallbackQuizQuestions(courseName)
	}

	var questions []model.QuizQuestion
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &questions); err != nil || len(questions) == 0 {
		logger.Log.Warn("quiz generation returned unparseable content, using fallback questions",
			zap.String("course", courseName), zap.Error(err))
		monitoring.AIRequestCounter.WithLabelValues("quiz", "fallback").Inc()
		return FallbackQuizQuestions(courseName)
	}

	monitoring.AIRequestCounter.WithLabelValues("quiz", "ok").Inc()
	return questions
}

type generatedTask struct {
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Type          string               `json:"type"`
	EstimatedTime int                  `json:"estimatedTime"`
	Resources     []model.TaskResource `json:"resources"`
}

// GenerateTasks produces a study task list for one skill gap. On any failure
// it returns the static fallback list without an error.
func (s *AIService) GenerateTasks(ctx context.Context, gap model.SkillGap, weeklyHours float64) []model.PlanTask {
	prompt := fmt.Sprintf(
		"Create a study plan for a student with a skill gap in %q from the course %q. "+
			"The student can spend %.1f hours per week and should close the gap within %d days. "+
			"Return ONLY a JSON array of task objects with fields: title, description, "+
			"type (\"daily\" or \"weekly\"), estimatedTime (minutes), and resources "+
			"(array of {type, title, url}). No markdown, no extra text.",
		gap.SkillName, gap.CourseName, weeklyHours, gap.DaysToAddress,
	)

	text, err := s.GenerateContent(ctx, prompt)
	if err != nil {
		logger.Log.Warn("task generation failed, using fallback tasks",
			zap.String("skill", gap.SkillName), zap.Error(err))
		monitoring.AIRequestCounter.WithLabelValues("tasks", "fallback").Inc()
		return FallbackTasks(gap.SkillName)
	}

	var raw []generatedTask
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &raw); err != nil || len(raw) == 0 {
		logger.Log.Warn("task generation returned unparseable content, using fallback tasks",
			zap.String("skill", gap.SkillName), zap.Error(err))
		monitoring.AIRequestCounter.WithLabelValues("tasks", "fallback").Inc()
		return FallbackTasks(gap.SkillName)
	}

	tasks := make([]model.PlanTask, 0, len(raw))
	for _, t := range raw {
		taskType := model.TaskType(t.Type)
		if taskType != model.TaskDaily && taskType != model.TaskWeekly {
			taskType = model.TaskDaily
		}
		if t.EstimatedTime <= 0 {
			t.EstimatedTime = 30
		}
		tasks = append(tasks, model.PlanTask{
			Title:         t.Title,
			Description:   t.Description,
			Type:          taskType,
			EstimatedTime: t.EstimatedTime,
			Resources:     t.Resources,
		})
	}

	monitoring.AIRequestCounter.WithLabelValues("tasks", "ok").Inc()
	return tasks
}

// FallbackQuizQuestions is the deterministic question set used whenever
// generation fails or returns something unparseable.
func FallbackQuizQuestions(courseName string) []model.QuizQuestion {
	return []model.QuizQuestion{
		{
			Question: fmt.Sprintf("Which study habit most improves retention in %s?", courseName),
			Options: []string{
				"Re-reading notes once before the exam",
				"Spaced practice with self-testing",
				"Highlighting the textbook",
				"Listening to recorded lectures at 2x",
			},
			Answer: 1,
			Topic:  "Study Skills",
		},
		{
			Question: fmt.Sprintf("What is the best first step when a %s topic feels unclear?", courseName),
			Options: []string{
				"Skip it and hope it is not on the exam",
				"Memorize the formulas without context",
				"Work a solved example and explain each step",
				"Ask for the answer key",
			},
			Answer: 2,
			Topic:  "Study Skills",
		},
	}
}

// FallbackTasks is the static task list used whenever task generation fails.
func FallbackTasks(skillName string) []model.PlanTask {
	return []model.PlanTask{
		{
			Title:         fmt.Sprintf("Review %s fundamentals", skillName),
			Description:   fmt.Sprintf("Revisit lecture notes and the textbook chapter covering %s.", skillName),
			Type:          model.TaskDaily,
			EstimatedTime: 45,
			Resources: []model.TaskResource{
				{Type: "article", Title: fmt.Sprintf("%s refresher", skillName), URL: "", ReadTime: 20},
			},
		},
		{
			Title:         fmt.Sprintf("Practice %s problems", skillName),
			Description:   fmt.Sprintf("Work through a graded problem set on %s, easiest first.", skillName),
			Type:          model.TaskDaily,
			EstimatedTime: 60,
			Resources: []model.TaskResource{
				{Type: "practice", Title: fmt.Sprintf("%s problem set", skillName), URL: "", Problems: 10},
			},
		},
		{
			Title:         fmt.Sprintf("Weekly %s self-check", skillName),
			Description:   "Summarize what you learned this week and retake the hardest problems from memory.",
			Type:          model.TaskWeekly,
			EstimatedTime: 90,
			Resources:     []model.TaskResource{},
		},
	}
}
