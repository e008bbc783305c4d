package synthesis

import (
	"context"
	"errors"
	"sync"

	"PostPilot/internal/model"
)

// MockClient 可配置的合成客户端 mock，实现 Client 接口
type MockClient struct {
	mu     sync.Mutex
	Inputs []Input

	// FailNext 置为 true 时，下一次调用返回 mock 错误并自动复位
	FailNext bool
}

func NewMockClient() *MockClient {
	return &MockClient{
		Inputs: make([]Input, 0),
	}
}

func (m *MockClient) Synthesize(ctx context.Context, input Input) (*model.ProfileData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Inputs = append(m.Inputs, input)

	if m.FailNext {
		m.FailNext = false
		return nil, errors.New("mock synthesis failure")
	}

	data := &model.ProfileData{
		PersonalInfo: model.PersonalInfo{
			Name:            model.AIText{Value: input.Nickname},
			CurrentRole:     model.AIText{Value: "Software Engineer", Alternatives: []string{"Backend Engineer"}},
			Company:         model.AIText{Value: "Acme Corp"},
			Industry:        model.AIText{Value: "Technology", Alternatives: []string{"SaaS", "Developer Tools"}},
			YearsExperience: model.AINumber{Value: 5},
		},
		Expertise: []model.ExpertiseItem{
			{Skill: "Distributed Systems", Level: "expert", Years: 5},
		},
		TargetAudience: []model.AudienceSegment{
			{Persona: "Engineering leaders", Description: "CTOs and tech leads evaluating tooling"},
		},
		ContentStrategy: model.ContentStrategy{
			Tone:             model.AIText{Value: "professional", Alternatives: []string{"conversational", "bold"}},
			PostingFrequency: model.AIText{Value: "3x per week", Alternatives: []string{"daily", "weekly"}},
			ContentGoals:     model.TagSet{Values: []string{"thought_leadership", "lead_generation"}},
		},
		ContentMix: []model.MixItem{
			{Category: "industry_insights", Percentage: 50},
			{Category: "personal_stories", Percentage: 30},
			{Category: "how_to", Percentage: 20},
		},
		ContentIdeas: model.ContentIdeas{
			Evergreen: []string{"Lessons from scaling a backend team"},
			Trending:  []string{"What the latest platform shift means for engineers"},
		},
	}

	MarkAIGenerated(data)
	return data, nil
}
