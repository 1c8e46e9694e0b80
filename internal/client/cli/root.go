package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	s := ""
	cur := a.session.Current(context.Background())
	if cur.Authenticated {
		s = fmt.Sprintf("%s as %s ", cur.Email, cur.Role)
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs the interactive loop until the user exits or stdin closes.
func (a *App) Root(ctx context.Context) {

	printlnFn("Welcome to FoodShare CLI (type 'help' for commands)")

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
