// internal/models/persona.go
package models

// Persona is a simulated customer used to critique a stage from a specific
// buyer's point of view. Personas are built once per idea and reused across
// stages; scoring never mutates them.
type Persona struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Role                string   `json:"role"`
	CompanySize         string   `json:"companySize"`
	Industry            string   `json:"industry"`
	Age                 int      `json:"age"`
	Experience          string   `json:"experience"`
	Budget              string   `json:"budget"`
	PainPoints          []string `json:"painPoints"`
	Goals               []string `json:"goals"`
	DecisionFactors     []string `json:"decisionFactors"`
	Objections          []string `json:"objections"`
	CommunicationStyle  string   `json:"communicationStyle"`
	TechSavviness       string   `json:"techSavviness"`
	ValidationQuestions []string `json:"validationQuestions"`
}
