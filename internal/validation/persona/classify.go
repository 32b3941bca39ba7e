// internal/validation/persona/classify.go

// Package persona builds the simulated customers the feedback engine fans
// out to. Persona templates are static data; the only logic is a pure
// keyword classifier that picks an industry context for an idea.
package persona

import "strings"

// IndustryContext selects which persona template set fits an idea.
type IndustryContext string

const (
	IndustrySaaS       IndustryContext = "saas"
	IndustryEcommerce  IndustryContext = "ecommerce"
	IndustryHealthcare IndustryContext = "healthcare"
	IndustryFintech    IndustryContext = "fintech"
	IndustryEducation  IndustryContext = "education"
	IndustryConsumer   IndustryContext = "consumer"
	IndustryGeneral    IndustryContext = "general"
)

// industryKeywords maps lowercase keywords to contexts. First match in
// declaration order wins; order is most-specific first.
var industryKeywords = []struct {
	context  IndustryContext
	keywords []string
}{
	{IndustryFintech, []string{"payment", "banking", "fintech", "invoice", "lending", "insurance", "crypto", "accounting"}},
	{IndustryHealthcare, []string{"health", "medical", "patient", "clinic", "therapy", "wellness", "fitness"}},
	{IndustryEducation, []string{"education", "learning", "course", "student", "teacher", "tutoring", "school"}},
	{IndustryEcommerce, []string{"ecommerce", "e-commerce", "marketplace", "retail", "subscription box", "shop", "store", "delivery"}},
	{IndustrySaaS, []string{"saas", "b2b", "software", "platform", "api", "dashboard", "automation", "workflow"}},
	{IndustryConsumer, []string{"app", "consumer", "social", "travel", "food", "entertainment", "hobby"}},
}

// ClassifyIndustry picks the industry context for an idea/customer
// description. Unmatched text gets the general context.
func ClassifyIndustry(text string) IndustryContext {
	lower := strings.ToLower(text)
	for _, entry := range industryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.context
			}
		}
	}
	return IndustryGeneral
}
