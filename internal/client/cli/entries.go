package cli

import (
	"context"
	"fmt"

	"github.com/avoronin/jotter/internal/client/models"
)

const pageLimit = 20

// List prints a page of published entries.
func (a *App) List(ctx context.Context) error {
	page, err := a.gateway.ListEntries(ctx, 1, pageLimit)
	if err != nil {
		return err
	}

	for _, e := range page.Entries {
		fmt.Fprintf(a.out, "%s  %-30s  %s\n", e.ID, e.Title, e.UpdatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(a.out, "%d of %d entries\n", len(page.Entries), page.Total)
	return nil
}

// Drafts prints a page of drafts.
func (a *App) Drafts(ctx context.Context) error {
	page, err := a.gateway.ListDrafts(ctx, 1, pageLimit)
	if err != nil {
		return err
	}

	for _, d := range page.Drafts {
		title := d.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(a.out, "%s  %-30s  %s\n", d.ID, title, d.UpdatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(a.out, "%d of %d drafts\n", len(page.Drafts), page.Total)
	return nil
}

// Show prints a single entry or draft.
func (a *App) Show(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("usage: show <id>")
	}

	entry, err := a.gateway.GetEntry(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "# %s [%s]\n\n%s\n", entry.Title, entry.Status, entry.Content)
	return nil
}

// Publish promotes a draft to a published entry.
func (a *App) Publish(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("usage: publish <id>")
	}

	entry, err := a.gateway.PublishDraft(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Published %q (%s)\n", entry.Title, entry.ID)
	return nil
}

// Delete removes an entry or draft, picking the endpoint by its lifecycle.
func (a *App) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("usage: delete <id>")
	}

	entry, err := a.gateway.GetEntry(ctx, id)
	if err != nil {
		return err
	}

	if entry.Status == models.LifecycleDraft {
		err = a.gateway.DeleteDraft(ctx, id)
	} else {
		err = a.gateway.DeleteEntry(ctx, id)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Deleted %s\n", id)
	return nil
}
