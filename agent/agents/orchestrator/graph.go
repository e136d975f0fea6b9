package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/tanpawarit/gdp-insight-agent/agent/nodes/orchestrator"
)

func (o *Orchestrator) compileHandleMessageGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("check_policy",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.CheckPolicy(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node check_policy: %w", err)
	}

	if err := graph.AddLambdaNode("read_transcript",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ReadTranscript(ctx, in, o.transcripts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node read_transcript: %w", err)
	}

	if err := graph.AddLambdaNode("run_analyst",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RunAnalyst(ctx, in, o.analyst)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node run_analyst: %w", err)
	}

	if err := graph.AddLambdaNode("write_transcript",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.WriteTranscript(ctx, in, o.transcripts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node write_transcript: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	// Off-topic requests skip the model and are not recorded.
	policyBranch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			if in != nil && in.OnTopic {
				return "read_transcript", nil
			}
			return "finalize_reply", nil
		},
		map[string]bool{
			"read_transcript": true,
			"finalize_reply":  true,
		},
	)
	if err := graph.AddBranch("check_policy", policyBranch); err != nil {
		return nil, fmt.Errorf("add policy branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "check_policy"},
		{"read_transcript", "run_analyst"},
		{"run_analyst", "write_transcript"},
		{"write_transcript", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.handle_message"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
