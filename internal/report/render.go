package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

const divider = "━━━━━━━━━━━━━━━━━━━━━━━━━━"

// cardZone is the Asia/Shanghai offset; it has no DST.
var cardZone = time.FixedZone("CST", 8*60*60)

const cardTimeLayout = "2006/1/2 15:04:05"

// RenderMarkdown renders the report as a Markdown document with tables.
func RenderMarkdown(d Data) string {
	t := readTotals(d)
	timeDist := TimeDistribution(d.ModelUsage)
	if timeDist == "" {
		timeDist = "暂无数据"
	}

	var b strings.Builder
	b.WriteString("GLM Coding Plan 使用情况查询结果\n\n")

	b.WriteString("### 平台\n\n")
	fmt.Fprintf(&b, "**%s**\n\n", PlatformName(d.Platform))
	b.WriteString("---\n\n")

	b.WriteString("### 模型使用统计\n\n")
	b.WriteString("| 时间范围 | 模型调用次数 | Token 使用量 |\n")
	b.WriteString("|---------|-------------|-------------|\n")
	fmt.Fprintf(&b, "| **总计** | **%s 次** | **%s Tokens** |\n\n", t.modelCalls, t.modelTokens)
	b.WriteString("**时间分布：**\n\n")
	b.WriteString(timeDist + "\n\n")
	b.WriteString("---\n\n")

	b.WriteString("### 工具使用统计\n\n")
	b.WriteString("| 工具类型 | 使用次数 |\n")
	b.WriteString("|---------|---------|\n")
	fmt.Fprintf(&b, "| 网络搜索 | %s 次 |\n", t.networkSearch)
	fmt.Fprintf(&b, "| Web Reader MCP | %s 次 |\n", t.webReadMCP)
	fmt.Fprintf(&b, "| Zread MCP | %s 次 |\n", t.zreadMCP)
	fmt.Fprintf(&b, "| **总工具调用** | **%s 次** |\n\n", t.searchMCPTotal)
	b.WriteString("---\n\n")

	b.WriteString("### 配额限制情况\n\n")
	b.WriteString("| 限制类型 | 已用百分比 | 详情 |\n")
	b.WriteString("|---------|-----------|------|\n")
	for _, l := range limits(d.QuotaLimit) {
		detail := "-"
		if usage, ok := limitUsage(l); ok {
			detail = usage + " 次"
		}
		fmt.Fprintf(&b, "| %s | %s%% | %s |\n", limitType(l), limitPercentage(l), detail)
	}

	if mcp := MCPDetails(d.QuotaLimit); mcp != "" {
		b.WriteString("\n**MCP 工具详细使用：**\n\n")
		b.WriteString(mcp + "\n")
	}

	return b.String()
}

// RenderCard renders the emoji-decorated layout meant for chat clients.
// now is stamped at the bottom in Asia/Shanghai time.
func RenderCard(d Data, now time.Time) string {
	t := readTotals(d)

	var b strings.Builder
	b.WriteString("📊 **GLM Coding Plan 使用情况**\n\n")
	b.WriteString(divider + "\n\n")

	b.WriteString("🏢 **平台**\n")
	b.WriteString(PlatformName(d.Platform) + "\n\n")
	b.WriteString(divider + "\n\n")

	b.WriteString("🤖 **模型使用**\n")
	fmt.Fprintf(&b, "📞 调用：%s 次\n", t.modelCalls)
	fmt.Fprintf(&b, "💎 Token：%s\n\n", t.modelTokens)
	if timeDist := TimeDistribution(d.ModelUsage); timeDist != "" {
		b.WriteString("📅 近期活跃时段：\n")
		b.WriteString(timeDist + "\n\n")
	}
	b.WriteString(divider + "\n\n")

	b.WriteString("🔧 **工具使用**\n")
	fmt.Fprintf(&b, "🔍 网络搜索 %s\n", t.networkSearch)
	fmt.Fprintf(&b, "📖 Web Reader %s\n", t.webReadMCP)
	fmt.Fprintf(&b, "📚 Zread %s\n", t.zreadMCP)
	fmt.Fprintf(&b, "🔢 **总计 %s 次**\n\n", t.searchMCPTotal)
	b.WriteString(divider + "\n\n")

	b.WriteString("⚠️ **配额限制**\n")
	quotaLines := lo.Map(limits(d.QuotaLimit), func(l any, _ int) string {
		line := fmt.Sprintf("• %s: %s%%", limitType(l), limitPercentage(l))
		if usage, ok := limitUsage(l); ok {
			line += " (" + usage + ")"
		}
		return line
	})
	if len(quotaLines) > 0 {
		b.WriteString(strings.Join(quotaLines, "\n") + "\n")
	}
	b.WriteString("\n")

	if mcp := MCPDetails(d.QuotaLimit); mcp != "" {
		b.WriteString("📋 **MCP 详情**\n")
		b.WriteString(mcp + "\n\n")
	}

	b.WriteString(divider + "\n")
	fmt.Fprintf(&b, "📅 %s\n", now.In(cardZone).Format(cardTimeLayout))

	return b.String()
}
