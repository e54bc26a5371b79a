package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

// Root runs the interactive loop until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to Jotter (type 'help' for commands)")
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Restored previous session")
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
