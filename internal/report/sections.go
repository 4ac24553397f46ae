package report

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// TimeDistribution lists the hourly buckets of a model-usage payload that
// have a call count. Buckets whose count is null are dropped, not zeroed.
func TimeDistribution(modelUsage any) string {
	calls := list(field(modelUsage, "modelCallCount"))
	tokens := list(field(modelUsage, "tokensUsage"))

	lines := lo.FilterMap(list(field(modelUsage, "x_time")), func(t any, i int) (string, bool) {
		c := at(calls, i)
		if c == nil {
			return "", false
		}
		return fmt.Sprintf("- %s - %s 次调用，%s Tokens", display(t), display(c), FormatNumber(at(tokens, i))), true
	})

	return strings.Join(lines, "\n")
}

// MCPDetails lists the per-tool usage of the first limit whose type
// mentions MCP.
func MCPDetails(quotaLimits any) string {
	mcp, ok := lo.Find(limits(quotaLimits), func(l any) bool {
		t, _ := field(l, "type").(string)
		return strings.Contains(t, "MCP")
	})
	if !ok {
		return ""
	}

	lines := lo.Map(list(field(mcp, "usageDetails")), func(d any, _ int) string {
		return fmt.Sprintf("- %s: %s 次", display(field(d, "modelCode")), display(field(d, "usage")))
	})
	return strings.Join(lines, "\n")
}

func limits(quotaLimits any) []any {
	return list(field(quotaLimits, "limits"))
}

// limitUsage returns "current/total" and true when both are present.
func limitUsage(l any) (string, bool) {
	current, total := field(l, "currentUsage"), field(l, "totol")
	if current == nil || total == nil {
		return "", false
	}
	return display(current) + "/" + display(total), true
}

func limitType(l any) string {
	return display(field(l, "type"))
}

func limitPercentage(l any) string {
	return display(field(l, "percentage"))
}

// totals reads the counters used by both renderers.
type totals struct {
	modelCalls     string
	modelTokens    string
	networkSearch  string
	webReadMCP     string
	zreadMCP       string
	searchMCPTotal string
}

func readTotals(d Data) totals {
	model := field(d.ModelUsage, "totalUsage")
	tool := field(d.ToolUsage, "totalUsage")
	return totals{
		modelCalls:     FormatNumber(count(field(model, "totalModelCallCount"))),
		modelTokens:    FormatNumber(count(field(model, "totalTokensUsage"))),
		networkSearch:  FormatNumber(count(field(tool, "totalNetworkSearchCount"))),
		webReadMCP:     FormatNumber(count(field(tool, "totalWebReadMcpCount"))),
		zreadMCP:       FormatNumber(count(field(tool, "totalZreadMcpCount"))),
		searchMCPTotal: FormatNumber(count(field(tool, "totalSearchMcpCount"))),
	}
}
