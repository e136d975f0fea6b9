package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/gdp-insight-agent/agent/contract"
	nodex "github.com/tanpawarit/gdp-insight-agent/agent/nodes/orchestrator"
	toolx "github.com/tanpawarit/gdp-insight-agent/agent/tool"
)

const banner = `Welcome to the GDP Agent!
Ask GDP-related questions like:
- 'What was the GDP of Germany in 1990?'
- 'Compare the GDP of Germany, France and the UK in 2020'
- 'Forecast the GDP of Italy for the next 5 years'
Call a tool directly with /Tool args, e.g. '/GetGDP Germany, 2020'. Type /help for the tool list.
Type 'exit' to quit.
`

type messageHandler interface {
	HandleMessage(ctx context.Context, sessionID string, text string) (string, error)
}

type repl struct {
	in          io.Reader
	out         io.Writer
	sessionID   string
	gateway     *toolx.Gateway
	transcripts contractx.TranscriptStore
	chat        messageHandler
}

func (r *repl) Run(ctx context.Context) error {
	fmt.Fprint(r.out, banner+"\n")

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "Ask a GDP question: ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.EqualFold(line, "exit"), strings.EqualFold(line, "quit"):
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		case strings.HasPrefix(line, "/"):
			r.direct(ctx, line)
		default:
			r.ask(ctx, line)
		}
	}
}

func (r *repl) ask(ctx context.Context, line string) {
	if r.chat == nil {
		if !nodex.IsGDPQuestion(line) {
			fmt.Fprintln(r.out, nodex.OffTopicReply)
			return
		}
		fmt.Fprintln(r.out, "No language model is configured. Use a direct tool call such as '/GetGDP Germany, 2020'.")
		return
	}

	reply, err := r.chat.HandleMessage(ctx, r.sessionID, line)
	if err != nil {
		log.Error().Err(err).Str("session_id", r.sessionID).Msg("handle message failed")
		fmt.Fprintf(r.out, "Error: %v\n\n", err)
		return
	}
	fmt.Fprintf(r.out, "%s\n\n", reply)
}

// direct runs "/Tool args" without the model.
func (r *repl) direct(ctx context.Context, line string) {
	name, args := splitCommand(line)
	switch strings.ToLower(name) {
	case "help":
		fmt.Fprintf(r.out, "Tools: %s\n\n", strings.Join(toolx.Names(), ", "))
		return
	case "reset":
		if err := r.transcripts.Reset(ctx, r.sessionID); err != nil {
			fmt.Fprintf(r.out, "Error: %v\n\n", err)
			return
		}
		fmt.Fprintln(r.out, "Conversation cleared.")
		fmt.Fprintln(r.out)
		return
	}

	res, err := r.gateway.Call(ctx, r.sessionID, name, args)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n\n", err)
		return
	}
	if res.Error != "" {
		fmt.Fprintf(r.out, "Error: %s\n\n", res.Error)
		return
	}
	fmt.Fprintf(r.out, "%s\n\n", res.Result)
}

func splitCommand(line string) (string, string) {
	body := strings.TrimPrefix(strings.TrimSpace(line), "/")
	name, args, _ := strings.Cut(body, " ")
	return strings.TrimSpace(name), strings.TrimSpace(args)
}
