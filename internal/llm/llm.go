package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joescharf/prr/internal/form"
	"github.com/joescharf/prr/internal/models"
)

// Client wraps the Anthropic API for drafting review submissions.
type Client struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewClient creates an LLM client with the given API key and model.
func NewClient(apiKey, model string) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		api:   &client,
		model: anthropic.Model(model),
	}
}

// buildPrompt constructs the system and user prompts for submission extraction.
func buildPrompt(notes string) (system string, user string) {
	system = `You fill in a project review form from sprint or release notes. Return ONLY a JSON object with these fields:
- "project": project name
- "sprint": sprint name or number
- "startDate", "endDate": sprint dates as YYYY-MM-DD
- "codeReview": one of "pass", "fail", "pending"
- "approverName": code review approver, only when codeReview is "pass"
- "sonarQube": one of "pass", "fail", "pending"
- "approvalType": one of "conditional", "non-conditional"
- "issueNotes": short free-text notes about open issues
- "priorityIssues": true when P0-P3 issue counts are mentioned
- "priorityCounts": object with string fields "p0", "p1", "p2", "p3"
- "severityIssues": true when S0-S3 issue counts are mentioned
- "severityCounts": object with string fields "s0", "s1", "s2", "s3"
- "testCounts": object with string fields "totalTests", "testsExecuted", "testsPassed", "testsFailed"
- "prUrl": pull request URL
- "commitId": commit hash
- "redmineUrl": Redmine ticket URL

Rules:
- Use an empty string for anything the notes do not state. Never invent values
- All counts are strings of decimal digits
- Omit "priorityCounts" and "severityCounts" when the matching flag is false
- Do not include file fields
- Return valid JSON only, no markdown fencing or explanation`

	var sb strings.Builder
	sb.WriteString("Fill in the review form from these notes:\n\n")
	sb.WriteString(notes)
	user = sb.String()
	return
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.SplitN(text, "\n", 2)
		if len(lines) > 1 {
			text = lines[1]
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	return text
}

// parseSubmission decodes a model response into a normalized submission.
func parseSubmission(text string) (*models.ReviewSubmission, error) {
	text = stripFences(text)
	if text == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	var sub models.ReviewSubmission
	if err := json.Unmarshal([]byte(text), &sub); err != nil {
		return nil, fmt.Errorf("parse LLM response as JSON: %w\nraw response: %s", err, text)
	}
	sub.SonarReportFile = nil
	sub.VAPTReportFiles = nil
	form.Normalize(&sub)
	return &sub, nil
}

// ExtractSubmission sends free-form notes to the LLM and returns a draft
// submission. The draft is not validated.
func (c *Client) ExtractSubmission(ctx context.Context, notes string) (*models.ReviewSubmission, error) {
	systemPrompt, userPrompt := buildPrompt(notes)

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call: %w", err)
	}

	// Extract text from response
	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}

	return parseSubmission(text)
}
