package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user typed "y" or "yes".
	Accepted bool
	// Cancelled is true if reading the answer failed.
	Cancelled bool
}

// Confirm asks a [y/N] question. It declines immediately when reader is not
// an interactive terminal and interactive is false.
//
// Empty input defaults to "No".
func Confirm(writer io.Writer, reader io.Reader, question string, interactive bool) PromptResult {
	if !interactive {
		return PromptResult{Accepted: false}
	}

	fmt.Fprintf(writer, "? %s [y/N] ", question)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		return PromptResult{Accepted: false}
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{Accepted: false}
	}
}

// confirmDestructive returns true when the action may proceed: --yes was
// given or the user accepted the prompt.
func confirmDestructive(w io.Writer, r io.Reader, question string, yes bool) bool {
	if yes {
		return true
	}
	res := Confirm(w, r, question, isReaderTerminal(r))
	if !res.Accepted {
		fmt.Fprintln(w, "Aborted.")
	}
	return res.Accepted
}
