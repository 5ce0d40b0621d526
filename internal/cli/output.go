package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/settatam/shop-sub011/internal/assist"
)

func writeAnswer(w io.Writer, opts Options, answer assist.Answer) error {
	if opts.JSON {
		return json.NewEncoder(w).Encode(answer)
	}
	return writeHumanAnswer(w, answer)
}

func writeHumanAnswer(w io.Writer, answer assist.Answer) error {
	text := strings.TrimSpace(answer.Text)

	fmt.Fprintln(w, "Answer:")
	if text != "" {
		fmt.Fprintf(w, "- %s\n", text)
	} else {
		fmt.Fprintln(w, "- (empty response)")
	}

	if len(answer.ToolCalls) > 0 {
		fmt.Fprintln(w, "\nTool calls:")
		for _, call := range answer.ToolCalls {
			status := "ok"
			if !call.OK {
				status = "error: " + call.Err
			}
			fmt.Fprintf(w, "- %s (%dms, %s)\n", call.Name, call.MS, status)
		}
	}

	if answer.Usage.TotalTokens > 0 {
		fmt.Fprintf(w, "\nTokens: %d prompt + %d completion = %d total over %d round(s)\n",
			answer.Usage.PromptTokens, answer.Usage.CompletionTokens, answer.Usage.TotalTokens, answer.Rounds)
	}

	fmt.Fprintf(w, "\nQuery: %s\n", answer.Query)
	return nil
}
