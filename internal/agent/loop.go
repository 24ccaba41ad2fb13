package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/meridianbio/fieldlog/internal/llm"
)

const toolLoopSystemPrompt = `You are an AI assistant for a life science field representative.
Your primary goal is to help log and manage interactions with Healthcare Professionals (HCPs).
You can perform the following actions:
1. Log a new interaction: use the log_interaction tool.
2. Create a new HCP: use the create_hcp tool.
3. Edit an existing interaction: use the edit_interaction tool.
   - If the user provides an interaction ID (e.g., "Edit interaction 123..."), use it directly with edit_interaction.
   - If the user wants to correct an HCP's name on a recent interaction (e.g., "It should be Dr. Vernika not Dr. Vaniya"):
     Step 1: call get_most_recent_interaction_by_hcp_name with the incorrect/old HCP name to find the interaction ID.
     Step 2: call get_hcp_by_name with the new/correct HCP name to find the new HCP's ID.
     Step 3: call edit_interaction with the interaction_id from step 1 and the hcp_id from step 2.
4. Find the most recent interaction for an HCP: use get_most_recent_interaction_by_hcp_name.
5. Find an HCP by name: use get_hcp_by_name.

Always try to extract all necessary information from the user's request. If you need more
information, ask a specific question. If you log or edit successfully, confirm it to the user.`

// maxLoopSteps caps the invoke-model/invoke-tool cycle. The routing defaults
// already terminate on any definitive result; the cap guards against a model
// that keeps requesting the correlation-producing lookups forever.
const maxLoopSteps = 12

// ErrLoopBudget is returned when the cycle hits maxLoopSteps without a
// terminal result.
var ErrLoopBudget = errors.New("tool loop exceeded step budget")

var newNamePattern = regexp.MustCompile(`(?i)should be (Dr\.?\s?\w+)`)

// loop node states
type loopState int

const (
	loopInvokeModel loopState = iota
	loopInvokeTool
	loopTerminate
)

// correlation carries values between steps of the multi-step HCP-name
// correction flow. Request-scoped, never persisted.
type correlation struct {
	foundInteractionID *int64
	newHCPID           *int64
	oldHCPName         string
	newHCPName         string
}

// contextMessages renders the correlation state as synthetic assistant
// messages so the model can see what earlier lookups produced.
func (c *correlation) contextMessages() []llm.Message {
	var out []llm.Message
	if c.foundInteractionID != nil {
		out = append(out, llm.Message{Role: llm.RoleAssistant,
			Content: fmt.Sprintf("Tool context: previous step found interaction ID: %d", *c.foundInteractionID)})
	}
	if c.newHCPID != nil {
		out = append(out, llm.Message{Role: llm.RoleAssistant,
			Content: fmt.Sprintf("Tool context: previous step found new HCP ID: %d", *c.newHCPID)})
	}
	if c.oldHCPName != "" {
		out = append(out, llm.Message{Role: llm.RoleAssistant,
			Content: fmt.Sprintf("Tool context: old HCP name: %s", c.oldHCPName)})
	}
	if c.newHCPName != "" {
		out = append(out, llm.Message{Role: llm.RoleAssistant,
			Content: fmt.Sprintf("Tool context: new HCP name: %s", c.newHCPName)})
	}
	return out
}

// RunToolLoop drives the general-purpose two-node agent cycle: the model
// either answers in plain text (terminating the loop) or requests tool
// invocations, whose results are appended to the history before the model is
// consulted again. Shares the orchestrator's request timeout.
func (o *Orchestrator) RunToolLoop(ctx context.Context, userInput string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	messages := []llm.Message{{Role: llm.RoleUser, Content: userInput}}
	corr := &correlation{}
	state := loopInvokeModel
	finalText := ""

	for step := 0; state != loopTerminate; step++ {
		if step >= maxLoopSteps {
			return "", ErrLoopBudget
		}

		switch state {
		case loopInvokeModel:
			prompt := append(corr.contextMessages(), messages...)
			reply, err := o.llm.CompleteWithTools(ctx, toolLoopSystemPrompt, prompt, toolDefs())
			if err != nil {
				return "", fmt.Errorf("model call: %w", err)
			}
			messages = append(messages, reply)
			if len(reply.ToolCalls) == 0 {
				finalText = reply.Content
				state = loopTerminate
			} else {
				state = loopInvokeTool
			}

		case loopInvokeTool:
			calls := messages[len(messages)-1].ToolCalls
			var lastMsg llm.Message
			var lastCall llm.ToolCall
			for _, call := range calls {
				res := o.dispatchTool(ctx, call, userInput)
				payload, err := json.Marshal(res)
				if err != nil {
					payload = []byte(fmt.Sprintf(`{"status":"error","message":"marshal tool result: %v"}`, err))
				}
				lastMsg = llm.Message{
					Role:       llm.RoleTool,
					Name:       call.Name,
					ToolCallID: call.ID,
					Content:    string(payload),
				}
				lastCall = call
				messages = append(messages, lastMsg)
			}
			state = o.routeAfterTool(lastMsg, lastCall, userInput, corr)
			if state == loopTerminate {
				// Surface the definitive tool result as the reply.
				var res toolResult
				if err := json.Unmarshal([]byte(lastMsg.Content), &res); err == nil && res.Message != "" {
					finalText = res.Message
				}
			}
		}
	}

	return finalText, nil
}

// routeAfterTool decides the next node from the most recent tool result.
// Successful correlation-producing lookups re-enter the model node so it can
// issue the next call of the correction choreography; any other definitive
// or unparseable result terminates.
func (o *Orchestrator) routeAfterTool(msg llm.Message, call llm.ToolCall, userInput string, corr *correlation) loopState {
	var res toolResult
	if err := json.Unmarshal([]byte(msg.Content), &res); err != nil {
		return loopTerminate
	}

	switch {
	case ToolName(msg.Name) == ToolMostRecentInteraction && res.Status == StatusSuccess:
		if res.Interaction == nil {
			return loopTerminate
		}
		id := res.Interaction.ID
		corr.foundInteractionID = &id

		var args hcpNameArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err == nil {
			corr.oldHCPName = args.HCPName
		}
		if m := newNamePattern.FindStringSubmatch(userInput); m != nil {
			corr.newHCPName = m[1]
		}
		return loopInvokeModel

	case ToolName(msg.Name) == ToolHCPByName && res.Status == StatusSuccess:
		corr.newHCPID = &res.HCPID
		return loopInvokeModel

	case res.Status == StatusSuccess || res.Status == StatusError:
		return loopTerminate
	}

	// No recognizable status: conservative default, stop looping.
	return loopTerminate
}
