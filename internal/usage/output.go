package usage

import (
	"fmt"
	"io"
	"strings"
)

// Output writes text to w, adding a final newline when it lacks one.
func Output(w io.Writer, text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
