package orchestratornode

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/gdp-insight-agent/agent/contract"
)

const OffTopicReply = "Sorry, but I can only answer questions about GDP analysis."

var topicKeywords = []string{
	"gdp",
	"bip",
	"bruttoinlandsprodukt",
	"economic output",
	"gross domestic",
}

// IsGDPQuestion is a plain substring check on the lowercased text.
func IsGDPQuestion(text string) bool {
	lower := strings.ToLower(text)
	for _, k := range topicKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// CheckPolicy marks the request on or off topic. Off-topic requests get the
// fixed refusal as their reply.
func CheckPolicy(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.OnTopic = IsGDPQuestion(in.Text)
	if !in.OnTopic {
		in.Message = OffTopicReply
		log.Debug().Str("session_id", in.SessionID).Msg("off-topic message refused")
	}
	return in, nil
}
