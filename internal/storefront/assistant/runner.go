package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	errx "github.com/storefront-core/server/internal/core/error"
	"github.com/storefront-core/server/internal/storefront/observers"
	"github.com/storefront-core/server/internal/storefront/tools"
	logx "github.com/storefront-core/server/pkg/logger"
)

// Config holds everything needed to build the tool runner.
type Config struct {
	Tools    []tool.BaseTool
	MaxCalls int
}

// ToolResult is the outcome of one tool call.
type ToolResult struct {
	CallID  string
	Name    string
	Content string
}

// Runner executes batches of tool calls through an eino ToolsNode.
type Runner struct {
	runnable compose.Runnable[*schema.Message, []*schema.Message]
	maxCalls int
	seq      atomic.Int64
}

func NewRunner(ctx context.Context, cfg Config) (*Runner, error) {
	if len(cfg.Tools) == 0 {
		return nil, fmt.Errorf("no tools configured")
	}

	wrapped, err := withErrorResults(ctx, cfg.Tools)
	if err != nil {
		return nil, err
	}

	toolsNode, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		Tools:               wrapped,
		ExecuteSequentially: true,
		UnknownToolsHandler: func(ctx context.Context, name, input string) (string, error) {
			logx.Warn().
				Str("tool_name", name).
				Str("arguments", input).
				Msg("Unknown or invalid tool call; returning fallback result")
			return fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"note\":\"ignored\"}", name), nil
		},
		ToolArgumentsHandler: sanitizeArguments,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Failed to create tools node")
		return nil, fmt.Errorf("failed to create tools node: %w", err)
	}

	chain := compose.NewChain[*schema.Message, []*schema.Message]()
	chain.AppendToolsNode(toolsNode)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to compile tool chain")
		return nil, fmt.Errorf("failed to compile tool chain: %w", err)
	}

	logx.Debug().Int("tools", len(cfg.Tools)).Int("max_calls", cfg.MaxCalls).Msg("Assistant tool runner built")
	return &Runner{runnable: runnable, maxCalls: cfg.MaxCalls}, nil
}

// Execute runs calls in order and returns one result per executed call. A
// failing tool yields an error result instead of failing the batch. Calls
// beyond MaxCalls are dropped; calls without an id get a synthesized one.
func (r *Runner) Execute(ctx context.Context, calls []schema.ToolCall) ([]ToolResult, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	if r.maxCalls > 0 && len(calls) > r.maxCalls {
		logx.Warn().Int("requested", len(calls)).Int("max_calls", r.maxCalls).Msg("tool call limit reached, dropping extra calls")
		calls = calls[:r.maxCalls]
	}

	names := make(map[string]string, len(calls))
	prepared := make([]schema.ToolCall, len(calls))
	for i, c := range calls {
		if c.ID == "" {
			c.ID = fmt.Sprintf("call_%d", r.seq.Add(1))
		}
		if c.Type == "" {
			c.Type = "function"
		}
		names[c.ID] = c.Function.Name
		prepared[i] = c
	}

	out, err := r.runnable.Invoke(ctx, schema.AssistantMessage("", prepared),
		compose.WithCallbacks(observers.NewToolCallbacks()))
	if err != nil {
		return nil, err
	}

	results := make([]ToolResult, 0, len(out))
	for _, m := range out {
		if m == nil {
			continue
		}
		results = append(results, ToolResult{
			CallID:  m.ToolCallID,
			Name:    names[m.ToolCallID],
			Content: m.Content,
		})
	}
	return results, nil
}

// Call runs a single tool with args marshalled to JSON.
func (r *Runner) Call(ctx context.Context, name string, args any) (string, error) {
	b, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("marshal %s arguments: %w", name, err)
	}

	results, err := r.Execute(ctx, []schema.ToolCall{{
		Function: schema.FunctionCall{Name: name, Arguments: string(b)},
	}})
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", fmt.Errorf("tool %s returned no result", name)
	}
	return results[0].Content, nil
}

// errorResultTool reports tool failures as a JSON result so that one bad call
// does not discard the results of the rest of the batch.
type errorResultTool struct {
	tool.InvokableTool
	name string
}

// ToolError is the result content of a failed tool call.
type ToolError struct {
	Error   string `json:"error"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func withErrorResults(ctx context.Context, tools []tool.BaseTool) ([]tool.BaseTool, error) {
	out := make([]tool.BaseTool, 0, len(tools))
	for _, t := range tools {
		it, ok := t.(tool.InvokableTool)
		if !ok {
			out = append(out, t)
			continue
		}
		info, err := it.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		out = append(out, &errorResultTool{InvokableTool: it, name: info.Name})
	}
	return out, nil
}

func (t *errorResultTool) InvokableRun(ctx context.Context, arguments string, opts ...tool.Option) (string, error) {
	out, err := t.InvokableTool.InvokableRun(ctx, arguments, opts...)
	if err == nil {
		return out, nil
	}

	code := errx.CodeOf(err)
	msg := err.Error()
	if code != errx.CodeInternal {
		msg = errx.MessageOf(err)
	}
	logx.Warn().Err(err).Str("tool_name", t.name).Str("code", string(code)).Msg("tool call failed; returning error result")

	b, mErr := json.Marshal(ToolError{Error: string(code), Name: t.name, Message: msg})
	if mErr != nil {
		return "", err
	}
	return string(b), nil
}

func (t *errorResultTool) GetType() string {
	typ, _ := components.GetType(t.InvokableTool)
	return typ
}

// sanitizeArguments is best-effort and never fails: malformed JSON is passed
// through unchanged and malformed optional fields are dropped.
func sanitizeArguments(ctx context.Context, name, arguments string) (string, error) {
	if strings.TrimSpace(arguments) == "" {
		return "{}", nil
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(arguments), &m); err != nil {
		return arguments, nil
	}

	switch name {
	case tools.ToolSearchProduct:
		if v, ok := m["query"]; ok {
			m["query"] = strings.TrimSpace(fmt.Sprint(v))
		} else {
			m["query"] = ""
		}
		trimOptionalString(m, "category")
		trimOptionalString(m, "sort_by")
		coerceOptionalNumber(m, "min_price")
		coerceOptionalNumber(m, "max_price")
		if n, ok := coerceInt(m["max_results"]); ok {
			m["max_results"] = clampInt(n, 1, 20)
		} else {
			delete(m, "max_results")
		}
	case tools.ToolGetProductDetails, tools.ToolRemoveFromCart:
		coerceIntField(m, "product_id")
	case tools.ToolAddToCart:
		coerceIntField(m, "product_id")
		coerceIntField(m, "quantity")
	case tools.ToolChangeQuantity:
		coerceIntField(m, "product_id")
		coerceIntField(m, "delta")
	}

	b, err := json.Marshal(m)
	if err != nil {
		return arguments, nil
	}
	return string(b), nil
}

func trimOptionalString(m map[string]any, key string) {
	v, ok := m[key]
	if !ok {
		return
	}
	if s, isString := v.(string); isString {
		m[key] = strings.TrimSpace(s)
		return
	}
	delete(m, key)
}

func coerceOptionalNumber(m map[string]any, key string) {
	v, ok := m[key]
	if !ok {
		return
	}
	switch vv := v.(type) {
	case float64:
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(vv), 64); err == nil {
			m[key] = f
		} else {
			delete(m, key)
		}
	default:
		delete(m, key)
	}
}

func coerceIntField(m map[string]any, key string) {
	if _, ok := m[key]; !ok {
		return
	}
	if n, ok := coerceInt(m[key]); ok {
		m[key] = n
		return
	}
	delete(m, key)
}

func coerceInt(v any) (int, bool) {
	switch vv := v.(type) {
	case float64:
		// JSON numbers decode as float64
		return int(vv), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(vv))
		return n, err == nil
	default:
		return 0, false
	}
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
