// internal/validation/persona/templates.go
package persona

import (
	"github.com/google/uuid"

	"validation-workers/internal/models"
)

// template is a persona without identity; Build stamps IDs at
// instantiation time.
type template struct {
	Name                string
	Role                string
	CompanySize         string
	Age                 int
	Experience          string
	Budget              string
	PainPoints          []string
	Goals               []string
	DecisionFactors     []string
	Objections          []string
	CommunicationStyle  string
	TechSavviness       string
	ValidationQuestions []string
}

// industryTemplates holds 5 templates per context. Build takes the first n.
var industryTemplates = map[IndustryContext][]template{
	IndustrySaaS: {
		{
			Name: "Priya Raman", Role: "VP of Engineering", CompanySize: "200-500", Age: 41,
			Experience: "15 years building software teams", Budget: "$50k-200k annual tooling budget",
			PainPoints:          []string{"tool sprawl across teams", "slow procurement cycles", "integration maintenance"},
			Goals:               []string{"consolidate the stack", "cut onboarding time for new engineers"},
			DecisionFactors:     []string{"security posture", "API quality", "total cost of ownership"},
			Objections:          []string{"another tool to maintain", "migration risk from the current vendor"},
			CommunicationStyle:  "direct and technical", TechSavviness: "expert",
			ValidationQuestions: []string{"How does this integrate with what we already run?", "What happens to our data if you shut down?"},
		},
		{
			Name: "Marcus Webb", Role: "Operations Manager", CompanySize: "20-50", Age: 34,
			Experience: "8 years in ops at two startups", Budget: "$500/month max per tool",
			PainPoints:          []string{"manual reporting in spreadsheets", "no single source of truth"},
			Goals:               []string{"automate recurring busywork", "look competent to the founders"},
			DecisionFactors:     []string{"time to value", "ease of rollout", "monthly price"},
			Objections:          []string{"we can do this in a spreadsheet", "team won't adopt yet another login"},
			CommunicationStyle:  "pragmatic", TechSavviness: "intermediate",
			ValidationQuestions: []string{"How long until I see value?", "Can I cancel monthly?"},
		},
		{
			Name: "Helena Fischer", Role: "CTO", CompanySize: "2-10", Age: 29,
			Experience: "second-time founder", Budget: "pre-seed, near zero",
			PainPoints:          []string{"everything is urgent", "no time for non-core work"},
			Goals:               []string{"ship the core product", "defer every non-essential cost"},
			DecisionFactors:     []string{"free tier quality", "setup under an hour"},
			Objections:          []string{"we'll build it ourselves in a weekend"},
			CommunicationStyle:  "terse, async-first", TechSavviness: "expert",
			ValidationQuestions: []string{"Is there a free tier?", "Why shouldn't we just self-host?"},
		},
		{
			Name: "Dale Kowalski", Role: "IT Director", CompanySize: "1000+", Age: 52,
			Experience: "25 years in enterprise IT", Budget: "six-figure contracts, annual cycles",
			PainPoints:          []string{"shadow IT", "compliance audits", "vendor lock-in"},
			Goals:               []string{"reduce audit findings", "standardize the approved stack"},
			DecisionFactors:     []string{"SOC 2 and ISO certifications", "SSO support", "vendor stability"},
			Objections:          []string{"startups disappear in two years", "no procurement track record"},
			CommunicationStyle:  "formal, process-driven", TechSavviness: "intermediate",
			ValidationQuestions: []string{"Do you support SAML SSO?", "Who else at our scale uses this?"},
		},
		{
			Name: "Yuki Tanaka", Role: "Product Manager", CompanySize: "50-200", Age: 31,
			Experience: "6 years in product roles", Budget: "can expense up to $100/month without approval",
			PainPoints:          []string{"engineering dependency for every insight", "slow feedback loops"},
			Goals:               []string{"make faster roadmap decisions", "self-serve the data she needs"},
			DecisionFactors:     []string{"UX quality", "collaboration features"},
			Objections:          []string{"overlaps with tools we already pay for"},
			CommunicationStyle:  "collaborative, visual", TechSavviness: "intermediate",
			ValidationQuestions: []string{"Can my whole team use this without training?"},
		},
	},
	IndustryConsumer: {
		{
			Name: "Sofia Marin", Role: "Marketing Coordinator", CompanySize: "n/a", Age: 27,
			Experience: "urban professional, heavy app user", Budget: "$30-60/month on subscriptions",
			PainPoints:          []string{"subscription fatigue", "too many mediocre options"},
			Goals:               []string{"find products that feel personal", "save time on choices"},
			DecisionFactors:     []string{"reviews from people like her", "easy cancellation"},
			Objections:          []string{"another subscription to track", "gimmicky first box then decline"},
			CommunicationStyle:  "casual, emoji-friendly", TechSavviness: "high",
			ValidationQuestions: []string{"What makes month three as good as month one?", "Can I pause anytime?"},
		},
		{
			Name: "Robert Ellis", Role: "Retired Teacher", CompanySize: "n/a", Age: 63,
			Experience: "careful online shopper since the pandemic", Budget: "fixed income, values durability",
			PainPoints:          []string{"confusing checkout flows", "fear of hidden charges"},
			Goals:               []string{"enjoy hobbies more deeply", "avoid being taken advantage of"},
			DecisionFactors:     []string{"clear pricing", "phone support availability"},
			Objections:          []string{"auto-renewal traps", "needs a smartphone for everything"},
			CommunicationStyle:  "polite, detail-oriented", TechSavviness: "low",
			ValidationQuestions: []string{"Can I order by phone?", "What exactly am I charged each month?"},
		},
		{
			Name: "Amara Diallo", Role: "Graduate Student", CompanySize: "n/a", Age: 24,
			Experience: "early adopter, shares finds on social media", Budget: "tight; splurges on passions",
			PainPoints:          []string{"generic products that ignore her taste", "shipping costs"},
			Goals:               []string{"discover niche brands before friends do"},
			DecisionFactors:     []string{"uniqueness", "aesthetics", "student discounts"},
			Objections:          []string{"cheaper to buy the items directly"},
			CommunicationStyle:  "enthusiastic, fast", TechSavviness: "high",
			ValidationQuestions: []string{"What do I get that I couldn't pick for myself?"},
		},
		{
			Name: "James O'Connor", Role: "Small Business Owner", CompanySize: "2-10", Age: 45,
			Experience: "runs a cafe, buys for both home and business", Budget: "value-driven; pays for quality",
			PainPoints:          []string{"no time to research products", "disappointing impulse buys"},
			Goals:               []string{"reliable quality without effort"},
			DecisionFactors:     []string{"consistency", "word of mouth"},
			Objections:          []string{"tried a box service before and cancelled after two months"},
			CommunicationStyle:  "skeptical but fair", TechSavviness: "intermediate",
			ValidationQuestions: []string{"Why did your existing customers stay past six months?"},
		},
		{
			Name: "Lena Hoffman", Role: "Nurse", CompanySize: "n/a", Age: 38,
			Experience: "shift worker, shops at odd hours", Budget: "moderate, treats herself monthly",
			PainPoints:          []string{"delivery windows she always misses", "decision fatigue after work"},
			Goals:               []string{"small reliable pleasures in a stressful week"},
			DecisionFactors:     []string{"flexible delivery", "easy returns"},
			Objections:          []string{"boxes pile up when life gets busy"},
			CommunicationStyle:  "warm, brief", TechSavviness: "intermediate",
			ValidationQuestions: []string{"Can I skip a month without a penalty?"},
		},
	},
}

// generalTemplates serves unmatched industries; deliberately mixed.
var generalTemplates = []template{
	{
		Name: "Alex Rivera", Role: "Early Adopter", CompanySize: "n/a", Age: 30,
		Experience: "tries new products weekly", Budget: "flexible for things that stick",
		PainPoints:          []string{"products that overpromise"},
		Goals:               []string{"find tools worth recommending"},
		DecisionFactors:     []string{"first-week experience"},
		Objections:          []string{"most new products die within a year"},
		CommunicationStyle:  "blunt", TechSavviness: "high",
		ValidationQuestions: []string{"What's genuinely new here?"},
	},
	{
		Name: "Margaret Chu", Role: "Pragmatic Buyer", CompanySize: "n/a", Age: 47,
		Experience: "buys only proven solutions", Budget: "spends reluctantly",
		PainPoints:          []string{"switching costs", "learning curves"},
		Goals:               []string{"keep what works, change only under pressure"},
		DecisionFactors:     []string{"references", "guarantees"},
		Objections:          []string{"my current way works fine"},
		CommunicationStyle:  "measured", TechSavviness: "intermediate",
		ValidationQuestions: []string{"Why should I change what already works?"},
	},
	{
		Name: "Devon Park", Role: "Budget-Conscious Shopper", CompanySize: "n/a", Age: 26,
		Experience: "comparison-shops everything", Budget: "minimal",
		PainPoints:          []string{"premium prices for basic features"},
		Goals:               []string{"maximum value per dollar"},
		DecisionFactors:     []string{"price", "free alternatives"},
		Objections:          []string{"a free option probably exists"},
		CommunicationStyle:  "transactional", TechSavviness: "high",
		ValidationQuestions: []string{"What does the free alternative lack?"},
	},
	{
		Name: "Fatima Al-Sayed", Role: "Busy Professional", CompanySize: "n/a", Age: 36,
		Experience: "time-poor, outsourcing decisions", Budget: "pays for convenience",
		PainPoints:          []string{"anything that needs setup or maintenance"},
		Goals:               []string{"reclaim hours in the week"},
		DecisionFactors:     []string{"zero-effort onboarding"},
		Objections:          []string{"no time to learn a new thing"},
		CommunicationStyle:  "efficient", TechSavviness: "intermediate",
		ValidationQuestions: []string{"How much of my time does this need per week?"},
	},
	{
		Name: "Tomás Herrera", Role: "Skeptical Veteran", CompanySize: "n/a", Age: 55,
		Experience: "seen three hype cycles", Budget: "comfortable but careful",
		PainPoints:          []string{"trend-chasing products"},
		Goals:               []string{"durable solutions over novelty"},
		DecisionFactors:     []string{"track record", "simplicity"},
		Objections:          []string{"this existed in the 90s under another name"},
		CommunicationStyle:  "dry, anecdotal", TechSavviness: "low",
		ValidationQuestions: []string{"How is this different from the last five attempts at it?"},
	},
}

// Build instantiates n personas for an idea. The industry context comes
// from classifying the combined idea and customer text; contexts without a
// dedicated template set fall back to the general one.
func Build(idea, customer string, n int) []models.Persona {
	if n <= 0 {
		n = 4
	}

	ctx := ClassifyIndustry(idea + " " + customer)
	templates, ok := industryTemplates[ctx]
	if !ok {
		templates = generalTemplates
	}
	if n > len(templates) {
		n = len(templates)
	}

	personas := make([]models.Persona, n)
	for i := 0; i < n; i++ {
		t := templates[i]
		personas[i] = models.Persona{
			ID:                  uuid.NewString(),
			Name:                t.Name,
			Role:                t.Role,
			CompanySize:         t.CompanySize,
			Industry:            string(ctx),
			Age:                 t.Age,
			Experience:          t.Experience,
			Budget:              t.Budget,
			PainPoints:          t.PainPoints,
			Goals:               t.Goals,
			DecisionFactors:     t.DecisionFactors,
			Objections:          t.Objections,
			CommunicationStyle:  t.CommunicationStyle,
			TechSavviness:       t.TechSavviness,
			ValidationQuestions: t.ValidationQuestions,
		}
	}
	return personas
}
