package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jobtrackr/jobtrackr-go/internal/model"
)

// Analyzer scores a resume against a job description.
type Analyzer interface {
	Analyze(jobDescription, resumeText string) model.Analysis
}

// Generator produces text from a prompt with a language model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AIService serves resume analysis and cover letters. The generator is
// optional; without one, analysis is keyword-only and cover letters are
// unavailable.
type AIService struct {
	analyzer Analyzer
	gen      Generator
	log      zerolog.Logger
}

func NewAIService(analyzer Analyzer, gen Generator, log zerolog.Logger) *AIService {
	return &AIService{
		analyzer: analyzer,
		gen:      gen,
		log:      log.With().Str("component", "ai").Logger(),
	}
}

// Analyze matches the resume against the description. With UseAI and a
// generator, model suggestions are added; a model failure leaves them null.
func (s *AIService) Analyze(ctx context.Context, req model.AnalyzeRequest) (model.Analysis, error) {
	if strings.TrimSpace(req.JobDescription) == "" {
		return model.Analysis{}, ErrJobDescriptionRequired
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		return model.Analysis{}, ErrResumeTextRequired
	}

	result := s.analyzer.Analyze(req.JobDescription, req.ResumeText)
	if !req.UseAI || s.gen == nil {
		return result, nil
	}

	text, err := s.gen.Generate(ctx, suggestionsPrompt(req, result))
	if err != nil {
		s.log.Warn().Err(err).Msg("AI suggestions unavailable")
		return result, nil
	}
	result.AISuggestions = &text
	return result, nil
}

// CoverLetter writes a cover letter for the job description.
func (s *AIService) CoverLetter(ctx context.Context, req model.CoverLetterRequest) (model.CoverLetterResponse, error) {
	if strings.TrimSpace(req.JobDescription) == "" {
		return model.CoverLetterResponse{}, ErrJobDescriptionRequired
	}
	if s.gen == nil {
		return model.CoverLetterResponse{}, ErrAIUnavailable
	}

	prompt := "Write a professional cover letter for this job. 250-350 words.\n\n" + req.JobDescription
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return model.CoverLetterResponse{}, serverError(err, "failed to generate cover letter")
	}
	return model.CoverLetterResponse{CoverLetter: text}, nil
}

func suggestionsPrompt(req model.AnalyzeRequest, a model.Analysis) string {
	var b strings.Builder
	b.WriteString("You are a career coach. Suggest concrete, concise improvements to this resume for the job below.\n")
	if len(a.MissingSkills) > 0 {
		fmt.Fprintf(&b, "Skills the resume does not mention: %s.\n", strings.Join(a.MissingSkills, ", "))
	}
	b.WriteString("\nJOB DESCRIPTION:\n")
	b.WriteString(req.JobDescription)
	b.WriteString("\n\nRESUME:\n")
	b.WriteString(req.ResumeText)
	return b.String()
}
