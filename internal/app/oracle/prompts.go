// Package oracle builds the prompt templates for every LLM-backed
// operation and parses the responses into domain records. Templates are
// versioned assets under templates/, compiled at build time, so prompt
// construction is testable independently of response parsing.
package oracle

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/tvonment/tarot-backend/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

func render(name string, data any) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return b.String(), nil
}

type topicData struct {
	Phrase string
}

type spreadImageData struct {
	SpreadSize int
}

type recognitionData struct {
	UnknownName string
}

type fortuneData struct {
	Topic  string
	Cards  []domain.Card
	NoCard string
}

type followupData struct {
	Topic          string
	Cards          []domain.Card
	Fortune        []domain.FortuneFragment
	FortuneSummary string
}
