package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"blackgpt-backend/internal/client"
	"blackgpt-backend/internal/models"
)

func runChat(cmd *cobra.Command, args []string) error {
	server, _ := cmd.Flags().GetString("server")
	conversation, _ := cmd.Flags().GetString("conversation")
	freeLimit, _ := cmd.Flags().GetInt("free-limit")
	delay, _ := cmd.Flags().GetDuration("redirect-delay")
	verbose, _ := cmd.Flags().GetBool("verbose")

	log := zerolog.Nop()
	if verbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	ui := &terminalUI{out: cmd.OutOrStdout(), server: server}
	session := client.NewSession(client.NewAPIClient(server), client.Options{
		FreeLimit:     freeLimit,
		RedirectDelay: delay,
		Notifier:      ui,
		Navigator:     ui,
		Logger:        log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if conversation != "" {
		if err := session.Load(ctx, conversation); err != nil {
			return fmt.Errorf("failed to load conversation: %w", err)
		}
		for _, m := range session.Messages() {
			printMessage(ui, m)
		}
	}

	fmt.Fprintln(ui, "Black.GPT: type a message, /new to start over, /quit to exit.")
	return repl(ctx, cmd.InOrStdin(), ui, session)
}

func repl(ctx context.Context, in io.Reader, out io.Writer, session *client.Session) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/new":
			session.Reset()
			fmt.Fprintln(out, "Started a new conversation.")
			continue
		}

		before := len(session.Messages())
		err := session.Send(ctx, line)
		switch {
		case errors.Is(err, client.ErrSignInRequired):
			continue
		case err != nil:
			fmt.Fprintf(out, "! could not send message: %v\n", err)
			continue
		}

		msgs := session.Messages()
		if len(msgs) > before {
			// The user's line is already on screen; show only the reply.
			printMessage(out, msgs[len(msgs)-1])
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func printMessage(out io.Writer, m models.Message) {
	who := "you"
	if m.Role == models.RoleAssistant {
		who = "Black.GPT"
	}
	fmt.Fprintf(out, "%s: %s\n", who, m.Content)
}

// terminalUI renders session notices and the sign-in redirect. The redirect
// fires on a timer goroutine, so all terminal output goes through Write.
type terminalUI struct {
	mu     sync.Mutex
	out    io.Writer
	server string
}

func (u *terminalUI) Write(p []byte) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.out.Write(p)
}

func (u *terminalUI) Notify(title, description string) {
	fmt.Fprintf(u, "[%s] %s\n", title, description)
}

func (u *terminalUI) Navigate(path string) {
	fmt.Fprintf(u, "→ Sign in at %s%s\n", strings.TrimRight(u.server, "/"), path)
}
