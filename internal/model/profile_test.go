package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PostPilot/pkg/errors"
)

func sampleProfile() *ProfileData {
	return &ProfileData{
		PersonalInfo: PersonalInfo{
			Name:            AIText{Value: "Jordan Lee", AIGenerated: true},
			CurrentRole:     AIText{Value: "Staff Engineer", AIGenerated: true, Alternatives: []string{"Principal Engineer", "Tech Lead"}},
			Company:         AIText{Value: "Acme", AIGenerated: true},
			Industry:        AIText{Value: "SaaS", AIGenerated: true},
			YearsExperience: AINumber{Value: 9, AIGenerated: true},
		},
		Expertise: []ExpertiseItem{
			{Skill: "Go", Level: "expert", Years: 7},
			{Skill: "Kubernetes", Level: "advanced", Years: 4},
		},
		TargetAudience: []AudienceSegment{
			{Persona: "Engineering managers", Description: "Hiring and scaling teams"},
		},
		ContentStrategy: ContentStrategy{
			Tone:             AIText{Value: "professional", AIGenerated: true, Alternatives: []string{"casual", "bold"}},
			PostingFrequency: AIText{Value: "weekly", AIGenerated: true},
			ContentGoals:     TagSet{Values: []string{"thought_leadership"}, AIGenerated: true},
		},
		ContentMix: []MixItem{
			{Category: "how_to", Percentage: 50},
			{Category: "opinion", Percentage: 30},
		},
		ContentIdeas: ContentIdeas{
			Evergreen: []string{"debugging war stories", "onboarding tips"},
			Trending:  []string{"AI pair programming"},
		},
	}
}

func TestApplyFieldUpdate(t *testing.T) {
	t.Run("manual text edit clears ai flag", func(t *testing.T) {
		p := sampleProfile()
		err := p.ApplyFieldUpdate("personal_info", "name", json.RawMessage(`"Alex Kim"`))
		require.NoError(t, err)
		assert.Equal(t, "Alex Kim", p.PersonalInfo.Name.Value)
		assert.False(t, p.PersonalInfo.Name.AIGenerated)
	})

	t.Run("number field", func(t *testing.T) {
		p := sampleProfile()
		err := p.ApplyFieldUpdate("personal_info", "years_experience", json.RawMessage(`12`))
		require.NoError(t, err)
		assert.Equal(t, 12, p.PersonalInfo.YearsExperience.Value)
		assert.False(t, p.PersonalInfo.YearsExperience.AIGenerated)
	})

	t.Run("tag set is replaced wholesale", func(t *testing.T) {
		p := sampleProfile()
		err := p.ApplyFieldUpdate("content_strategy", "content_goals", json.RawMessage(`["brand","network"]`))
		require.NoError(t, err)
		assert.Equal(t, []string{"brand", "network"}, p.ContentStrategy.ContentGoals.Values)
		assert.False(t, p.ContentStrategy.ContentGoals.AIGenerated)
	})

	t.Run("kind mismatch", func(t *testing.T) {
		p := sampleProfile()
		err := p.ApplyFieldUpdate("personal_info", "years_experience", json.RawMessage(`"nine"`))
		assert.ErrorIs(t, err, errors.FieldKindMismatch)
	})

	t.Run("unknown field", func(t *testing.T) {
		p := sampleProfile()
		err := p.ApplyFieldUpdate("personal_info", "favorite_color", json.RawMessage(`"blue"`))
		assert.ErrorIs(t, err, errors.FieldUnknown)
	})

	t.Run("additional context respects rune limit", func(t *testing.T) {
		p := sampleProfile()

		within := strings.Repeat("字", MaxAdditionalContextChars)
		raw, _ := json.Marshal(within)
		require.NoError(t, p.ApplyFieldUpdate("profile", "additional_context", raw))
		assert.Equal(t, within, p.AdditionalContext)

		over := strings.Repeat("字", MaxAdditionalContextChars+1)
		raw, _ = json.Marshal(over)
		err := p.ApplyFieldUpdate("profile", "additional_context", raw)
		assert.ErrorIs(t, err, errors.AdditionalContextTooLong)
		assert.Equal(t, within, p.AdditionalContext)
	})
}

func TestSelectAlternative(t *testing.T) {
	t.Run("adopts alternative and keeps ai flag", func(t *testing.T) {
		p := sampleProfile()
		err := p.SelectAlternative("personal_info", "current_role", 1)
		require.NoError(t, err)
		assert.Equal(t, "Tech Lead", p.PersonalInfo.CurrentRole.Value)
		assert.Nil(t, p.PersonalInfo.CurrentRole.Alternatives)
		assert.True(t, p.PersonalInfo.CurrentRole.AIGenerated)
	})

	t.Run("index out of range", func(t *testing.T) {
		p := sampleProfile()
		err := p.SelectAlternative("personal_info", "current_role", 5)
		assert.ErrorIs(t, err, errors.AlternativeIndexInvalid)

		err = p.SelectAlternative("personal_info", "current_role", -1)
		assert.ErrorIs(t, err, errors.AlternativeIndexInvalid)
	})

	t.Run("field without alternatives", func(t *testing.T) {
		p := sampleProfile()
		err := p.SelectAlternative("personal_info", "company", 0)
		assert.ErrorIs(t, err, errors.AlternativeIndexInvalid)
	})

	t.Run("number field has no alternatives", func(t *testing.T) {
		p := sampleProfile()
		err := p.SelectAlternative("personal_info", "years_experience", 0)
		assert.ErrorIs(t, err, errors.FieldKindMismatch)
	})
}

func TestApplyListOp(t *testing.T) {
	t.Run("add expertise", func(t *testing.T) {
		p := sampleProfile()
		err := p.ApplyListOp("expertise", ListOp{
			Action: ListOpAdd,
			Item:   json.RawMessage(`{"skill":"Postgres","level":"advanced","years":5}`),
		})
		require.NoError(t, err)
		require.Len(t, p.Expertise, 3)
		assert.Equal(t, "Postgres", p.Expertise[2].Skill)
	})

	t.Run("update in place", func(t *testing.T) {
		p := sampleProfile()
		err := p.ApplyListOp("content_mix", ListOp{
			Action: ListOpUpdate,
			Index:  1,
			Item:   json.RawMessage(`{"category":"opinion","percentage":45}`),
		})
		require.NoError(t, err)
		assert.Equal(t, 45, p.ContentMix[1].Percentage)
	})

	t.Run("remove", func(t *testing.T) {
		p := sampleProfile()
		err := p.ApplyListOp("expertise", ListOp{Action: ListOpRemove, Index: 0})
		require.NoError(t, err)
		require.Len(t, p.Expertise, 1)
		assert.Equal(t, "Kubernetes", p.Expertise[0].Skill)
	})

	t.Run("move reorders", func(t *testing.T) {
		p := sampleProfile()
		err := p.ApplyListOp("content_ideas.evergreen", ListOp{Action: ListOpMove, Index: 1, To: 0})
		require.NoError(t, err)
		assert.Equal(t, []string{"onboarding tips", "debugging war stories"}, p.ContentIdeas.Evergreen)
	})

	t.Run("index out of range", func(t *testing.T) {
		p := sampleProfile()
		err := p.ApplyListOp("target_audience", ListOp{Action: ListOpRemove, Index: 3})
		assert.ErrorIs(t, err, errors.ListIndexOutOfRange)
	})

	t.Run("unknown section", func(t *testing.T) {
		p := sampleProfile()
		err := p.ApplyListOp("hobbies", ListOp{Action: ListOpAdd, Item: json.RawMessage(`"x"`)})
		assert.ErrorIs(t, err, errors.FieldUnknown)
	})

	t.Run("malformed item", func(t *testing.T) {
		p := sampleProfile()
		err := p.ApplyListOp("expertise", ListOp{Action: ListOpAdd, Item: json.RawMessage(`"not an object"`)})
		assert.ErrorIs(t, err, errors.FieldKindMismatch)
	})
}

func TestMergedIdeas(t *testing.T) {
	p := sampleProfile()
	merged := p.MergedIdeas()

	// 常青在前、热点在后，存储侧保持分离
	assert.Equal(t, []string{"debugging war stories", "onboarding tips", "AI pair programming"}, merged)
	assert.Len(t, p.ContentIdeas.Evergreen, 2)
	assert.Len(t, p.ContentIdeas.Trending, 1)
}

func TestProfileDataRoundTrip(t *testing.T) {
	p := sampleProfile()
	p.AdditionalContext = "I mentor juniors on the side"

	value, err := p.Value()
	require.NoError(t, err)

	var restored ProfileData
	require.NoError(t, restored.Scan(value))
	assert.Equal(t, *p, restored)
}
