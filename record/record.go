// Package record defines the structured data accumulated by each workflow
// stage and the per-stage completeness and validation rules.
package record

// Intent is what the hiring manager wants: the six facts required before a
// job description can be drafted.
type Intent struct {
	Company        string   `json:"company" jsonschema:"description=Name of the hiring company"`
	RoleTitle      string   `json:"role_title" jsonschema:"description=Title of the open role"`
	Skills         []string `json:"skills" jsonschema:"description=Required skills for the role"`
	Experience     string   `json:"experience" jsonschema:"description=Expected experience level, e.g. '3 years'"`
	Location       string   `json:"location" jsonschema:"description=Primary location for the role, may be 'remote'"`
	EmploymentType string   `json:"employment_type" jsonschema:"description=Employment type, e.g. full-time or contract"`
}

// Description is the drafted job description. Approved is only ever set by an
// explicit human approval, never by extraction or drafting.
type Description struct {
	Title            string   `json:"title" jsonschema:"description=Job title as it should appear in the posting"`
	Summary          string   `json:"summary" jsonschema:"description=Engaging summary paragraph for the role and company"`
	Responsibilities []string `json:"responsibilities" jsonschema:"description=Key responsibilities as bullet points"`
	Qualifications   []string `json:"qualifications" jsonschema:"description=Required skills and qualifications as bullet points"`
	Approved         bool     `json:"approved" jsonschema:"description=Whether the hiring manager has approved this draft"`
}

// QuestionCount is the exact number of screening questions a finalized
// Questions record must carry.
const QuestionCount = 10

// Questions is the list of technical screening questions derived from an
// approved job description.
type Questions struct {
	Items    []string `json:"items" jsonschema:"description=Technical screening questions, exactly ten"`
	Approved bool     `json:"approved" jsonschema:"description=Whether the hiring manager has approved these questions"`
}
