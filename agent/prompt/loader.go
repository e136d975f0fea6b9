package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/analyst.txt
var analystRaw string

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Analyst string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Analyst: strings.TrimSpace(analystRaw),
	}
}
