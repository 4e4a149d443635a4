package model

// AnalyzeRequest asks how well a resume fits a job description. UseAI adds
// model-written suggestions when a model is configured.
type AnalyzeRequest struct {
	JobDescription string `json:"job_description" validate:"required"`
	ResumeText     string `json:"resume_text" validate:"required"`
	UseAI          bool   `json:"use_ai"`
}

// Analysis is the result of matching a resume against a job description.
// MatchScore is 0-100 and KeywordDensity a percentage of resume words.
type Analysis struct {
	MatchScore     int      `json:"match_score"`
	MissingSkills  []string `json:"missing_skills"`
	MatchedSkills  []string `json:"matched_skills"`
	Summary        string   `json:"summary"`
	KeywordDensity float64  `json:"keyword_density"`
	AISuggestions  *string  `json:"ai_suggestions"`
}

type CoverLetterRequest struct {
	JobDescription string `json:"jobDescription" validate:"required"`
}

type CoverLetterResponse struct {
	CoverLetter string `json:"coverLetter"`
}
