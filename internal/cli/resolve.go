package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/lessonplan/internal/app"
	"github.com/spf13/cobra"
)

// resolveOccurrenceID accepts a full stored occurrence ID or a unique prefix.
func resolveOccurrenceID(cmd *cobra.Command, a *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("occurrence ID is required")
	}

	resp, err := a.Schedule.Calendar(cmd.Context(), app.NewCalendarRequest())
	if err != nil {
		return "", err
	}

	ids := make([]string, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		if resp.Proposed[e.Key()] {
			continue
		}
		ids = append(ids, e.ID)
	}
	return matchID("occurrence", ids, input)
}

// resolveBlockedID accepts a full blocked date ID or a unique prefix.
func resolveBlockedID(cmd *cobra.Command, a *App, input string) (string, error) {
	dates, err := a.Blocked.List(cmd.Context())
	if err != nil {
		return "", err
	}
	ids := make([]string, len(dates))
	for i, d := range dates {
		ids[i] = d.ID
	}
	return matchID("blocked date", ids, input)
}

func matchID(kind string, ids []string, input string) (string, error) {
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}
