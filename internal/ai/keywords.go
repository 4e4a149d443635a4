// Package ai holds the resume analysis engines: a local keyword matcher and a
// Gemini client for generated text.
package ai

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/jobtrackr/jobtrackr-go/internal/model"
)

// maxKeywords bounds the requirement list when a description names no known
// skill.
const maxKeywords = 15

// Skills recognized in job descriptions, matched as whole words.
var defaultSkills = []string{
	"go", "golang", "python", "java", "javascript", "typescript", "c++", "c#", "rust", "ruby", "php",
	"kotlin", "swift", "scala", "sql", "nosql", "mysql", "postgresql", "mongodb", "redis", "kafka",
	"rabbitmq", "elasticsearch", "graphql", "rest", "grpc", "microservices", "docker", "kubernetes",
	"terraform", "ansible", "aws", "gcp", "azure", "linux", "git", "ci/cd", "jenkins",
	"react", "angular", "vue", "node.js", "express", "django", "flask", "spring", "html", "css",
	"machine learning", "data analysis", "pandas", "tensorflow", "pytorch", "agile", "scrum",
	"unit testing", "testing", "security", "distributed systems", "communication", "leadership",
}

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true, "be": true, "by": true,
	"for": true, "from": true, "has": true, "have": true, "in": true, "is": true, "it": true, "of": true,
	"on": true, "or": true, "our": true, "that": true, "the": true, "their": true, "this": true, "to": true,
	"we": true, "will": true, "with": true, "you": true, "your": true, "who": true, "work": true,
	"team": true, "experience": true, "years": true, "role": true, "ability": true, "strong": true,
	"looking": true, "join": true, "about": true, "must": true, "should": true, "plus": true,
}

// KeywordAnalyzer scores a resume by the skills of the job description it
// mentions. It is deterministic and needs no network.
type KeywordAnalyzer struct {
	skills []string
}

// NewKeywordAnalyzer returns an analyzer for skills, or the built-in list
// when skills is empty.
func NewKeywordAnalyzer(skills ...string) *KeywordAnalyzer {
	if len(skills) == 0 {
		skills = defaultSkills
	}
	return &KeywordAnalyzer{skills: skills}
}

// Analyze matches resumeText against jobDescription.
func (a *KeywordAnalyzer) Analyze(jobDescription, resumeText string) model.Analysis {
	fold := cases.Fold()
	jdWords := words(fold, jobDescription)
	cvWords := words(fold, resumeText)
	jd, cv := phrase(jdWords), phrase(cvWords)

	var required []string
	for _, s := range a.skills {
		if strings.Contains(jd, " "+fold.String(s)+" ") {
			required = append(required, s)
		}
	}
	if len(required) == 0 {
		required = keywords(jdWords)
	}

	matched, missing := []string{}, []string{}
	for _, s := range required {
		if strings.Contains(cv, " "+fold.String(s)+" ") {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}

	score := 0
	if len(required) > 0 {
		score = int(math.Round(100 * float64(len(matched)) / float64(len(required))))
	}

	return model.Analysis{
		MatchScore:     score,
		MatchedSkills:  matched,
		MissingSkills:  missing,
		Summary:        summarize(score, len(matched), len(required), missing),
		KeywordDensity: density(jdWords, cvWords),
	}
}

// words splits folded text on anything but letters, digits and the
// punctuation that appears inside skill names.
func words(fold cases.Caser, text string) []string {
	fields := strings.FieldsFunc(fold.String(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("+#./-", r)
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "./-")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func phrase(words []string) string {
	return " " + strings.Join(words, " ") + " "
}

// keywords returns the most frequent content words, ties broken by first
// appearance.
func keywords(words []string) []string {
	count := map[string]int{}
	var order []string
	for _, w := range words {
		if len(w) < 3 || stopwords[w] {
			continue
		}
		if count[w] == 0 {
			order = append(order, w)
		}
		count[w]++
	}
	slices.SortStableFunc(order, func(a, b string) int { return count[b] - count[a] })
	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	return order
}

// density is the share of resume words that are content words of the job
// description, as a percentage with one decimal.
func density(jdWords, cvWords []string) float64 {
	if len(cvWords) == 0 {
		return 0
	}
	terms := map[string]bool{}
	for _, w := range jdWords {
		if len(w) >= 3 && !stopwords[w] {
			terms[w] = true
		}
	}
	hits := 0
	for _, w := range cvWords {
		if terms[w] {
			hits++
		}
	}
	return math.Round(1000*float64(hits)/float64(len(cvWords))) / 10
}

func summarize(score, matched, total int, missing []string) string {
	if total == 0 {
		return "No recognizable requirements found in the job description."
	}
	head := fmt.Sprintf("Matched %d of %d key skills (%d%%).", matched, total, score)
	top := strings.Join(missing[:min(3, len(missing))], ", ")
	switch {
	case score >= 75:
		return head + " Strong match."
	case score >= 50:
		return head + " Good match; consider adding: " + top + "."
	default:
		return head + " Weak match; the job emphasizes: " + top + "."
	}
}
