package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/avoronin/jotter/internal/client/autosave"
	"github.com/avoronin/jotter/internal/client/models"
)

// New opens the editor on a brand-new draft. The document has no id until
// its first successful autosave.
func (a *App) New(ctx context.Context) error {
	return a.edit(ctx, autosave.Document{Lifecycle: models.LifecycleDraft})
}

// Edit opens the editor on an existing entry or draft.
func (a *App) Edit(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("usage: edit <id>")
	}

	entry, err := a.gateway.GetEntry(ctx, id)
	if err != nil {
		return err
	}

	return a.edit(ctx, autosave.Document{
		ID:        entry.ID,
		Title:     entry.Title,
		Content:   entry.Content,
		Lifecycle: entry.Status,
	})
}

// edit runs a line-oriented editing loop feeding the autosave coordinator.
// Drafts save themselves after the configured quiet period; published
// entries only save on :w or :q.
func (a *App) edit(ctx context.Context, doc autosave.Document) error {
	coord := autosave.New(a.gateway, doc, a.config.AutosaveDelay, a.log)
	defer coord.Close()

	// report status transitions as they happen; the goroutine exits when
	// Close closes the subscription
	go func() {
		for tr := range coord.Subscribe() {
			if tr.To == autosave.StatusError {
				fmt.Fprintf(a.out, "[%s: %v]\n", tr.To, tr.Err)
				continue
			}
			fmt.Fprintf(a.out, "[%s]\n", tr.To)
		}
	}()

	fmt.Fprintln(a.out, "Editing. Lines are appended to the content.")
	fmt.Fprintln(a.out, "Commands: ':t <title>' set title, ':w' save now, ':q' save and quit, ':q!' quit without saving")

	for {
		line, err := a.reader.ReadString('\n')
		if err != nil {
			_ = coord.SaveNow(ctx)
			return nil
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == ":q":
			if err := coord.SaveNow(ctx); err != nil {
				return fmt.Errorf("final save failed: %w", err)
			}
			a.printEditorSummary(coord)
			return nil

		case line == ":q!":
			return nil

		case line == ":w":
			if err := coord.SaveNow(ctx); err != nil {
				fmt.Fprintf(a.out, "save failed: %v\n", err)
			}

		case strings.HasPrefix(line, ":t "):
			coord.SetTitle(strings.TrimSpace(strings.TrimPrefix(line, ":t ")))

		default:
			content := coord.Content()
			if content != "" {
				content += "\n"
			}
			coord.SetContent(content + line)
		}
	}
}

func (a *App) printEditorSummary(coord *autosave.Coordinator) {
	id := coord.ID()
	if id == "" {
		fmt.Fprintln(a.out, "Nothing was saved")
		return
	}
	fmt.Fprintf(a.out, "Saved %s at %s\n", id, coord.LastSavedAt().Format("15:04:05"))
}
