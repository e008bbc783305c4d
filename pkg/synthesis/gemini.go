package synthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"PostPilot/config"
	"PostPilot/internal/model"
)

// GeminiClient 基于 Google Gemini 的画像合成实现
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context) (*GeminiClient, error) {
	cfg := config.Cfg

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: cfg.GeminiModel,
	}, nil
}

const profilePrompt = `You are building a LinkedIn content-creation profile for a new user.
From the attached CV (if any) and the sample posts below, produce a single JSON object
with exactly this shape:

{
  "personal_info": {
    "name": {"value": "...", "alternatives": []},
    "current_role": {"value": "...", "alternatives": []},
    "company": {"value": "...", "alternatives": []},
    "industry": {"value": "...", "alternatives": ["...", "..."]},
    "years_experience": {"value": 0}
  },
  "expertise": [{"skill": "...", "level": "beginner|intermediate|expert", "years": 0}],
  "target_audience": [{"persona": "...", "description": "..."}],
  "content_strategy": {
    "tone": {"value": "...", "alternatives": ["...", "..."]},
    "posting_frequency": {"value": "...", "alternatives": ["...", "..."]},
    "content_goals": {"values": ["..."]}
  },
  "content_mix": [{"category": "...", "percentage": 0}],
  "content_ideas": {"evergreen": ["..."], "trending": ["..."]}
}

Offer 2-3 alternatives where the field shape allows them. Respond with JSON only.`

// Synthesize 组装 prompt 与附件调用 Gemini，响应按 JSON 解析为画像
func (c *GeminiClient) Synthesize(ctx context.Context, input Input) (*model.ProfileData, error) {
	m := c.client.GenerativeModel(c.modelName)
	m.SetTemperature(0.1)
	m.ResponseMIMEType = "application/json"

	parts := []genai.Part{genai.Text(buildPrompt(input))}
	if len(input.CVContent) > 0 {
		parts = append(parts, genai.Blob{
			MIMEType: input.CVMimeType,
			Data:     input.CVContent,
		})
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate profile: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, err
	}

	var data model.ProfileData
	if err := json.Unmarshal([]byte(cleanJSONBlock(text)), &data); err != nil {
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}

	MarkAIGenerated(&data)
	return &data, nil
}

func buildPrompt(input Input) string {
	var b strings.Builder
	b.WriteString(profilePrompt)
	b.WriteString("\n\nAccount type: ")
	b.WriteString(input.AccountType)
	b.WriteString("\nStyle choice: ")
	b.WriteString(input.StyleChoice)
	if input.Nickname != "" {
		b.WriteString("\nUser nickname: ")
		b.WriteString(input.Nickname)
	}

	if len(input.SamplePosts) > 0 {
		b.WriteString("\n\nSample posts:")
		for i, post := range input.SamplePosts {
			b.WriteString(fmt.Sprintf("\n--- post %d ---\n%s", i+1, post))
		}
	}

	return b.String()
}

// MarkAIGenerated 给合成产物统一打上 AI 标记。additionalContext 只能由
// 用户自填，这里强制清空
func MarkAIGenerated(data *model.ProfileData) {
	for _, f := range []*model.AIText{
		&data.PersonalInfo.Name,
		&data.PersonalInfo.CurrentRole,
		&data.PersonalInfo.Company,
		&data.PersonalInfo.Industry,
		&data.ContentStrategy.Tone,
		&data.ContentStrategy.PostingFrequency,
	} {
		if f.Value != "" {
			f.AIGenerated = true
		}
	}

	if data.PersonalInfo.YearsExperience.Value > 0 {
		data.PersonalInfo.YearsExperience.AIGenerated = true
	}
	if len(data.ContentStrategy.ContentGoals.Values) > 0 {
		data.ContentStrategy.ContentGoals.AIGenerated = true
	}

	data.AdditionalContext = ""
}

// extractTextFromResponse 从 Gemini 响应里取出文本部分
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// cleanJSONBlock 去掉模型偶尔包上的 markdown 代码块
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
