package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderLessonProgress renders taught lessons against the course length,
// e.g. [███░░░░░░░] 3/10. Finished courses are green, started ones blue.
func RenderLessonProgress(done, total, width int) string {
	if width < 2 {
		width = 2
	}
	done = max(0, min(done, total))

	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleDim
	switch {
	case total > 0 && done == total:
		style = StyleGreen
	case done > 0:
		style = StyleBlue
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), done, total)
}
