package synthesis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"PostPilot/internal/model"
)

func TestCleanJSONBlock(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cleanJSONBlock(tc.in))
		})
	}
}

func TestMarkAIGenerated(t *testing.T) {
	data := &model.ProfileData{
		PersonalInfo: model.PersonalInfo{
			Name:            model.AIText{Value: "Jordan"},
			CurrentRole:     model.AIText{Value: "Engineer"},
			Company:         model.AIText{}, // 空值不打标
			YearsExperience: model.AINumber{Value: 6},
		},
		ContentStrategy: model.ContentStrategy{
			Tone:         model.AIText{Value: "professional"},
			ContentGoals: model.TagSet{Values: []string{"reach"}},
		},
		AdditionalContext: "model should never fill this",
	}

	MarkAIGenerated(data)

	assert.True(t, data.PersonalInfo.Name.AIGenerated)
	assert.True(t, data.PersonalInfo.CurrentRole.AIGenerated)
	assert.False(t, data.PersonalInfo.Company.AIGenerated)
	assert.True(t, data.PersonalInfo.YearsExperience.AIGenerated)
	assert.True(t, data.ContentStrategy.Tone.AIGenerated)
	assert.False(t, data.ContentStrategy.PostingFrequency.AIGenerated)
	assert.True(t, data.ContentStrategy.ContentGoals.AIGenerated)

	// 自述补充信息只能由用户填写
	assert.Empty(t, data.AdditionalContext)
}

func TestBuildPrompt(t *testing.T) {
	p := buildPrompt(Input{
		AccountType: "person",
		StyleChoice: "my_style",
		Nickname:    "jordan",
		SamplePosts: []string{"first post", "second post"},
	})

	assert.Contains(t, p, "Account type: person")
	assert.Contains(t, p, "Style choice: my_style")
	assert.Contains(t, p, "User nickname: jordan")
	assert.Contains(t, p, "--- post 1 ---\nfirst post")
	assert.Contains(t, p, "--- post 2 ---\nsecond post")
}
