// Command chat is a terminal front-end for the assistant API. Plain input is
// sent to the model; slash commands manage sessions.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"note-ai/assistant/internal/chat"
	"note-ai/assistant/internal/client"
	"note-ai/assistant/internal/config"
	"note-ai/assistant/internal/model"
)

const helpText = `commands:
  /sessions         list conversations
  /open <n|uid>     open a conversation from the list
  /new              start a fresh conversation
  /rename <title>   rename the current conversation
  /delete <n|uid>   delete a conversation (asks for confirmation)
  /help             show this help
  /quit             exit`

// printNotifier surfaces controller errors on the terminal.
type printNotifier struct{}

func (printNotifier) Notify(message string) {
	fmt.Fprintf(os.Stderr, "\n! %s\n", message)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	api := client.New(cfg.ServerURL)
	controller := chat.NewController(api, api, printNotifier{})
	controller.SetContentListener(func(delta string) {
		fmt.Print(delta)
	})

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	controller.RefreshSessions(ctx)
	fmt.Printf("connected to %s — /help for commands\n", cfg.ServerURL)

	for {
		input, err := line.Prompt("> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			// io.EOF on Ctrl-D.
			fmt.Println()
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := runCommand(ctx, controller, line, input); quit {
				return
			}
			continue
		}

		controller.SendMessage(ctx, input)
		fmt.Println()
	}
}

func runCommand(ctx context.Context, controller *chat.Controller, line *liner.State, input string) (quit bool) {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Println(helpText)
	case "/sessions":
		controller.RefreshSessions(ctx)
		printSessions(controller)
	case "/new":
		controller.NewSession()
		fmt.Println("started a new conversation")
	case "/open":
		uid := resolveUID(controller, arg)
		if uid == "" {
			fmt.Println("usage: /open <n|uid>")
			return false
		}
		controller.SelectSession(ctx, uid)
		if s := controller.CurrentSession(); s != nil && s.UID == uid {
			printHistory(controller.Messages())
		}
	case "/rename":
		current := controller.CurrentSession()
		if current == nil {
			fmt.Println("no conversation open")
			return false
		}
		if arg == "" {
			fmt.Println("usage: /rename <title>")
			return false
		}
		controller.RenameSession(ctx, current.UID, arg)
	case "/delete":
		uid := resolveUID(controller, arg)
		if uid == "" {
			fmt.Println("usage: /delete <n|uid>")
			return false
		}
		controller.DeleteSession(uid)
		answer, err := line.Prompt("delete this conversation? [y/N] ")
		if err == nil && strings.EqualFold(strings.TrimSpace(answer), "y") {
			controller.ConfirmDelete(ctx)
			fmt.Println("deleted")
		} else {
			controller.CancelDelete()
			fmt.Println("cancelled")
		}
	default:
		fmt.Printf("unknown command %s — /help for commands\n", cmd)
	}
	return false
}

// resolveUID accepts either a 1-based index into the printed session list or
// a raw UID.
func resolveUID(controller *chat.Controller, arg string) string {
	if arg == "" {
		return ""
	}
	if n, err := strconv.Atoi(arg); err == nil {
		sessions := controller.Sessions()
		if n < 1 || n > len(sessions) {
			return ""
		}
		return sessions[n-1].UID
	}
	return arg
}

func printSessions(controller *chat.Controller) {
	sessions := controller.Sessions()
	if len(sessions) == 0 {
		fmt.Println("no conversations yet")
		return
	}
	current := ""
	if s := controller.CurrentSession(); s != nil {
		current = s.UID
	}
	for i, session := range sessions {
		marker := " "
		if session.UID == current {
			marker = "*"
		}
		fmt.Printf("%s %2d. %s (%s)\n", marker, i+1, session.Title, session.UID)
	}
}

func printHistory(messages []model.ChatMessage) {
	for _, msg := range messages {
		prefix := "you"
		if msg.Role == model.RoleAssistant {
			prefix = "ai "
		}
		fmt.Printf("%s | %s\n", prefix, msg.Content)
	}
}
