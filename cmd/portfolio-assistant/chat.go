package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fatmaabchouk/portfolio-assistant/internal/domain"
	"github.com/fatmaabchouk/portfolio-assistant/internal/knowledge"
	"github.com/fatmaabchouk/portfolio-assistant/internal/reply"
	"github.com/fatmaabchouk/portfolio-assistant/internal/widget"
)

var chatEndpoint string

// systemClipboard backs /copy; replaced in tests
var systemClipboard widget.Clipboard = widget.ClipboardFunc(clipboard.WriteAll)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the chat endpoint from the terminal",
	Long: `Start an interactive widget session against a running chat endpoint.

Commands:
  /like N     toggle a like on message N
  /dislike N  toggle a dislike on message N
  /copy N     copy message N to the system clipboard
  /quit       leave the session`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatEndpoint, "endpoint", "", "Chat endpoint (default: widget.endpoint)")
}

// transcript prints session messages that have not been shown yet
type transcript struct {
	out     io.Writer
	session *widget.Session
	cleaner *reply.Cleaner
	actions []reply.Action

	metaStyle   lipgloss.Style
	actionStyle lipgloss.Style

	mu      sync.Mutex
	shown   int
	waiting bool
}

func (t *transcript) render() {
	t.mu.Lock()
	defer t.mu.Unlock()

	msgs := t.session.Messages()
	for i := t.shown; i < len(msgs); i++ {
		t.print(i, msgs[i])
	}
	t.shown = len(msgs)

	loading := t.session.Loading()
	if loading && !t.waiting {
		fmt.Fprintln(t.out, "  …")
	}
	t.waiting = loading
}

func (t *transcript) print(index int, msg domain.ChatMessage) {
	if msg.Role == domain.RoleUser {
		return
	}
	content := t.cleaner.Clean(msg.Content)
	meta := t.metaStyle.Render(fmt.Sprintf("[%d %s]", index, msg.Timestamp.Format("15:04")))
	fmt.Fprintf(t.out, "%s %s\n", meta, content)
	if msg.HasContactInfo {
		for _, a := range t.actions {
			fmt.Fprintln(t.out, "    "+t.actionStyle.Render(a.Label+": "+a.URL))
		}
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	endpoint := chatEndpoint
	if endpoint == "" {
		endpoint = cfg.Widget.Endpoint
	}
	fallback, err := loadFallback(cfg.Knowledge)
	if err != nil {
		return err
	}
	return chatLoop(cmd, widget.NewHTTPBackend(endpoint, cfg.Server.RequestTimeout), fallback, cfg.Widget.ScrollDelay)
}

func chatLoop(cmd *cobra.Command, backend widget.Backend, fallback *knowledge.Base, delay time.Duration) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	renderer := lipgloss.NewRenderer(out)
	t := &transcript{
		out:         out,
		cleaner:     reply.NewCleaner(fallback.Profile),
		actions:     reply.ContactActions(fallback.Profile),
		metaStyle:   renderer.NewStyle().Faint(true),
		actionStyle: renderer.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
	}
	t.session = widget.NewSession(backend,
		widget.WithLogger(logger),
		widget.WithScrollDelay(delay),
		widget.WithUpdateHook(t.render),
		widget.WithClipboard(systemClipboard),
		widget.WithNotifier(widget.NotifierFunc(func(title, description string) {
			fmt.Fprintf(errOut, "%s: %s\n", title, description)
		})),
	)
	t.render()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit":
			return nil
		case strings.HasPrefix(line, "/like "), strings.HasPrefix(line, "/dislike "):
			name, arg, _ := strings.Cut(line, " ")
			index, err := strconv.Atoi(strings.TrimSpace(arg))
			if err != nil || !t.session.React(index, name == "/like") {
				fmt.Fprintf(errOut, "no message %q\n", arg)
			}
			continue
		case strings.HasPrefix(line, "/copy "):
			arg := strings.TrimSpace(strings.TrimPrefix(line, "/copy "))
			index, err := strconv.Atoi(arg)
			if err != nil || !t.session.Copy(index) {
				fmt.Fprintf(errOut, "no message %q\n", arg)
			}
			continue
		}

		t.session.Send(cmd.Context(), line)
		t.render()
	}
	return scanner.Err()
}
