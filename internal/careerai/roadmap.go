// Package careerai calls the external generative-text service for career
// roadmaps. With no API key configured it serves a deterministic,
// locally-computed suggestion so the screen degrades instead of failing.
package careerai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Generator produces career roadmaps for a student's department, courses,
// and skills
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator creates a Generator. An empty apiKey leaves the client nil
// and every request answered by the fallback.
func NewGenerator(apiKey, baseURL, model string) *Generator {
	if model == "" {
		model = openai.GPT4oMini
	}
	g := &Generator{model: model}
	if apiKey == "" {
		return g
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	g.client = openai.NewClientWithConfig(cfg)
	return g
}

// Configured reports whether an external credential is available
func (g *Generator) Configured() bool {
	return g.client != nil
}

// GenerateRoadmap returns roadmap text and whether it came from the
// external service (false means the canned fallback was served).
func (g *Generator) GenerateRoadmap(ctx context.Context, courses, skills []string, department string) (string, bool, error) {
	if g.client == nil {
		return Fallback(department), false, nil
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(courses, skills, department)},
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("roadmap generation failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "Could not generate roadmap.", true, nil
	}
	return resp.Choices[0].Message.Content, true, nil
}

func buildPrompt(courses, skills []string, department string) string {
	return fmt.Sprintf(`I am a Nigerian university student in the %s department.
My current courses are: %s.
My current skills are: %s.

Please act as a career mentor. Suggest 2 specific career paths for me in the Nigerian market.
For the best option, provide a 3-step actionable roadmap that I can start today.
Keep it practical, encouraging, and localized to Nigeria (mention specific Nigerian industries or company types).
Format the output in clean Markdown.`,
		department, strings.Join(courses, ", "), strings.Join(skills, ", "))
}

// Fallback is the deterministic department-keyed suggestion served when
// no external credential is configured
func Fallback(department string) string {
	dept := strings.ToLower(department)
	switch {
	case strings.Contains(dept, "econ"):
		return `## 🚀 Suggested Career Path: Data Analyst

Based on your Economics background and skills in Data Analysis:

1.  **Immediate Step:** Master Excel (VLOOKUP, Pivot Tables) and Power BI.
2.  **SIWES Target:** Look for roles in Fintech (Paystack, Flutterwave) or FMCG (Nestle).
3.  **Project Idea:** Analyze Nigerian inflation trends using NBS data.

**Why this fits:** Your statistics knowledge gives you an edge over pure CS students in interpreting business data.`
	case strings.Contains(dept, "computer"), strings.Contains(dept, "tech"):
		return `## 🚀 Suggested Career Path: Backend Engineer

Based on your technical background:

1.  **Immediate Step:** Pick one stack and build three small services end to end.
2.  **SIWES Target:** Apply to Nigerian startups shipping APIs (Paystack, Kuda, Moniepoint).
3.  **Project Idea:** Build a "CGPA Calculator" API for your department. Open source it on GitHub.

**Why this fits:** Shipping real, hosted projects is the strongest signal for entry-level engineering roles.`
	default:
		return fmt.Sprintf(`## 🚀 Suggested Career Path: Project Coordinator

Your background in %s gives you unique domain knowledge that tech companies need.

1.  **Immediate Step:** Learn the basics of project tracking tools (Trello, Notion).
2.  **SIWES Target:** Look for operations or programme roles in NGOs and growing startups.
3.  **Project Idea:** Organize a departmental event and document the process/budget. Use that as portfolio proof of "Project Management".`, department)
	}
}
