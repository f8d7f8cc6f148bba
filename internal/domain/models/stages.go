package models

// ExtractedVariables is the output of the variable extraction step.
type ExtractedVariables struct {
	Persona     string `json:"persona" validate:"required"`
	CompanyType string `json:"company_type" validate:"required"`
	Location    string `json:"location"`
}

// Descriptions is the output of the description generation step.
type Descriptions struct {
	PersonaDescription string `json:"persona_description" validate:"required"`
	CompanyDescription string `json:"company_description" validate:"required"`
}

// NameList is the output of the role and company list steps.
type NameList []string

const NameListRule = "min=1,dive,required"
