package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobtrackr/jobtrackr-go/internal/apperr"
	"github.com/jobtrackr/jobtrackr-go/internal/model"
)

type fixedAnalyzer struct{ result model.Analysis }

func (f fixedAnalyzer) Analyze(string, string) model.Analysis { return f.result }

type fakeGenerator struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func analysis() model.Analysis {
	return model.Analysis{
		MatchScore:    50,
		MatchedSkills: []string{"go"},
		MissingSkills: []string{"kubernetes"},
		Summary:       "Matched 1 of 2 key skills (50%).",
	}
}

func TestAIAnalyze_Validation(t *testing.T) {
	svc := NewAIService(fixedAnalyzer{analysis()}, nil, zerolog.Nop())

	_, err := svc.Analyze(context.Background(), model.AnalyzeRequest{JobDescription: " ", ResumeText: "cv"})
	assert.True(t, errors.Is(err, ErrJobDescriptionRequired))

	_, err = svc.Analyze(context.Background(), model.AnalyzeRequest{JobDescription: "jd", ResumeText: ""})
	assert.True(t, errors.Is(err, ErrResumeTextRequired))
}

func TestAIAnalyze_Suggestions(t *testing.T) {
	tests := []struct {
		name    string
		gen     *fakeGenerator
		useAI   bool
		want    *string
		prompts int
	}{
		{"keyword only", &fakeGenerator{text: "add k8s"}, false, nil, 0},
		{"with model", &fakeGenerator{text: "add k8s"}, true, strPtr("add k8s"), 1},
		{"model failure", &fakeGenerator{err: errors.New("quota")}, true, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAIService(fixedAnalyzer{analysis()}, tt.gen, zerolog.Nop())
			got, err := svc.Analyze(context.Background(), model.AnalyzeRequest{JobDescription: "Go and Kubernetes", ResumeText: "Go", UseAI: tt.useAI})

			require.NoError(t, err)
			assert.Equal(t, 50, got.MatchScore)
			assert.Equal(t, tt.want, got.AISuggestions)
			require.Len(t, tt.gen.prompts, tt.prompts)
			if tt.prompts > 0 {
				assert.Contains(t, tt.gen.prompts[0], "kubernetes")
			}
		})
	}
}

func TestAIAnalyze_UseAIWithoutModel(t *testing.T) {
	svc := NewAIService(fixedAnalyzer{analysis()}, nil, zerolog.Nop())

	got, err := svc.Analyze(context.Background(), model.AnalyzeRequest{JobDescription: "jd", ResumeText: "cv", UseAI: true})
	require.NoError(t, err)
	assert.Nil(t, got.AISuggestions)
}

func TestAICoverLetter(t *testing.T) {
	gen := &fakeGenerator{text: "Dear hiring manager"}
	svc := NewAIService(fixedAnalyzer{}, gen, zerolog.Nop())

	got, err := svc.CoverLetter(context.Background(), model.CoverLetterRequest{JobDescription: "Backend role"})
	require.NoError(t, err)
	assert.Equal(t, "Dear hiring manager", got.CoverLetter)
	assert.Contains(t, gen.prompts[0], "Backend role")

	_, err = svc.CoverLetter(context.Background(), model.CoverLetterRequest{})
	assert.True(t, errors.Is(err, ErrJobDescriptionRequired))

	gen.err = errors.New("timeout")
	_, err = svc.CoverLetter(context.Background(), model.CoverLetterRequest{JobDescription: "Backend role"})
	assert.Equal(t, apperr.KindServer, apperr.KindOf(err))
}

func TestAICoverLetter_NoModel(t *testing.T) {
	svc := NewAIService(fixedAnalyzer{}, nil, zerolog.Nop())

	_, err := svc.CoverLetter(context.Background(), model.CoverLetterRequest{JobDescription: "Backend role"})
	assert.True(t, errors.Is(err, ErrAIUnavailable))
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}
