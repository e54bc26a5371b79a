package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/avoronin/jotter/internal/client/search"
)

// Search runs an interactive live-search session. Every input line becomes
// the current query and drives the debounced suggestions pipeline; a line
// starting with '!' submits the query for full results.
func (a *App) Search(ctx context.Context) error {
	coord := search.New(a.gateway, search.Options{
		Debounce: a.config.SearchDebounce,
		MinQuery: a.config.SearchMinQuery,
	}, a.log)
	defer coord.Close()

	// render suggestion updates as they arrive
	go func() {
		for range coord.Updates() {
			s := coord.Snapshot()
			if s.SuggestionState != search.StateSuccess {
				continue
			}
			fmt.Fprintf(a.out, "-- suggestions for %q --\n", s.Query)
			for _, e := range s.Suggestions {
				fmt.Fprintf(a.out, "  %s  %s\n", e.ID, e.Title)
			}
		}
	}()

	fmt.Fprintln(a.out, "Live search. Type to update the query, '!' to run the full search, ':q' to leave.")

	for {
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return nil
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == ":q":
			return nil

		case line == ":c":
			coord.Clear()
			fmt.Fprintln(a.out, "(cleared)")

		case strings.HasPrefix(line, "!"):
			if q := strings.TrimSpace(strings.TrimPrefix(line, "!")); q != "" {
				coord.SetQuery(q)
			}
			page, err := coord.Submit(ctx)
			if err != nil {
				fmt.Fprintf(a.out, "search failed: %v\n", err)
				continue
			}
			fmt.Fprintf(a.out, "== %d results for %q ==\n", page.Total, page.Query)
			for _, e := range page.Entries {
				fmt.Fprintf(a.out, "  %s  %-30s  %s\n", e.ID, e.Title, e.UpdatedAt.Format("2006-01-02"))
			}

		default:
			coord.SetQuery(line)
		}
	}
}
