package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	st := a.session.Auth.State()
	if !st.IsAuthenticated {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userLabel())
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to folio CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
