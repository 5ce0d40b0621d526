package assist

import (
	"fmt"
	"strings"
	"time"

	"github.com/settatam/shop-sub011/internal/llm"
	"github.com/settatam/shop-sub011/internal/store"
)

func systemPrompt(info store.StoreInfo, now time.Time, defs []llm.ToolDefinition, interactive bool) string {
	currency := info.Currency
	if currency == "" {
		currency = "USD"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are the back-office assistant for %s, a pawn and jewelry store.\n", info.Name)
	fmt.Fprintf(&b, "Today is %s. All amounts are in %s.\n\n", now.Format("Monday, January 2, 2006"), currency)

	b.WriteString("You answer questions about sales, inventory, pricing, repairs, memos and customers.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Store figures come from tools. Call a tool rather than guessing; never invent numbers.\n")
	b.WriteString("- Quote money using the *_formatted values tools return.\n")
	b.WriteString("- If a tool returns {\"error\": ...}, correct the arguments and retry, or tell the user what was wrong.\n")
	b.WriteString("- Keep answers short and plain; the reader is standing at the counter.\n")

	if len(defs) > 0 {
		names := make([]string, 0, len(defs))
		for _, def := range defs {
			names = append(names, def.Name)
		}
		fmt.Fprintf(&b, "\nAvailable tools: %s.\n", strings.Join(names, ", "))
	}

	if interactive {
		b.WriteString("\nThis is an ongoing conversation; earlier turns may hold context for follow-ups.\n")
	}
	return b.String()
}
