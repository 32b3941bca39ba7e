// internal/validation/persona/persona_test.go
package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyIndustry(t *testing.T) {
	tests := []struct {
		name string
		text string
		want IndustryContext
	}{
		{"fintech keyword", "An invoice reconciliation tool for freelancers", IndustryFintech},
		{"healthcare keyword", "Patient intake forms for small clinics", IndustryHealthcare},
		{"education keyword", "A tutoring marketplace for exam prep", IndustryEducation},
		{"ecommerce keyword", "A subscription box for rare teas", IndustryEcommerce},
		{"saas keyword", "Workflow automation for recruiting teams", IndustrySaaS},
		{"consumer keyword", "A travel planning app for families", IndustryConsumer},
		{"case insensitive", "BANKING compliance made simple", IndustryFintech},
		{"fintech beats saas", "A payment platform with a dashboard", IndustryFintech},
		{"no match", "Artisanal woodworking plans", IndustryGeneral},
		{"empty", "", IndustryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyIndustry(tt.text))
		})
	}
}

func TestBuild_Defaults(t *testing.T) {
	personas := Build("workflow automation platform", "ops teams", 0)

	assert.Len(t, personas, 4)
	for _, p := range personas {
		assert.Equal(t, "saas", p.Industry)
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Role)
	}
}

func TestBuild_UniqueIDs(t *testing.T) {
	personas := Build("workflow automation platform", "ops teams", 5)

	seen := make(map[string]bool)
	for _, p := range personas {
		assert.False(t, seen[p.ID], "duplicate persona id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestBuild_CapsAtTemplateCount(t *testing.T) {
	personas := Build("workflow automation platform", "ops teams", 50)
	assert.Len(t, personas, 5)
}

func TestBuild_GeneralFallback(t *testing.T) {
	// Healthcare classifies but has no dedicated template set; the general
	// templates fill in while the industry label sticks.
	personas := Build("wellness tracking for clinics", "nurses", 3)

	assert.Len(t, personas, 3)
	for _, p := range personas {
		assert.Equal(t, "healthcare", p.Industry)
	}
}

func TestBuild_NegativeCount(t *testing.T) {
	personas := Build("no keywords here", "nobody in particular", -2)
	assert.Len(t, personas, 4)
	assert.Equal(t, "general", personas[0].Industry)
}
