package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/bdask/bdask/internal/chat"
	"github.com/bdask/bdask/internal/domain"
	"github.com/bdask/bdask/internal/notify"
	"github.com/bdask/bdask/internal/voice"
	"github.com/bdask/bdask/internal/voice/deepgram"
	"github.com/spf13/cobra"
)

const helpText = `কমান্ড:
  /new          নতুন কথোপকথন
  /sessions     কথোপকথনের তালিকা
  /open N       N নম্বর কথোপকথন খুলুন
  /delete N     N নম্বর কথোপকথন মুছুন
  /voice        ভয়েস ইনপুট চালু/বন্ধ
  /tab NAME     ট্যাব বদলান
  /theme        ডার্ক মোড চালু/বন্ধ
  /sidebar      সাইডবার দেখান/লুকান
  /help         এই তালিকা
  /quit         বের হোন`

var suggestions = []string{
	"ঢাকার আবহাওয়া কেমন?",
	"বাংলাদেশের ইতিহাস সম্পর্কে বলো",
	"একটি বাংলা কবিতা লেখো",
	"রান্নার রেসিপি দাও",
}

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			notifier := notify.NewConsole(out)

			state := &chat.State{}
			store := chat.NewSessionStore(a.backend, state, a.logger)
			dispatcher := chat.NewDispatcher(chat.DispatcherDeps{
				Store:    store,
				Backend:  a.backend,
				Weather:  a.weather,
				Notifier: notifier,
				Logger:   a.logger,
			})

			r := &repl{out: out}
			var recognizer voice.Recognizer
			if a.cfg.Voice.VoiceEnabled() {
				recognizer = deepgram.New(deepgram.Config{
					APIKey:     a.cfg.Voice.DeepgramAPIKey,
					BaseURL:    a.cfg.Voice.DeepgramBaseURL,
					Model:      a.cfg.Voice.Model,
					SampleRate: a.cfg.Voice.SampleRate,
				}, deepgram.NewCommandSource(a.cfg.Voice.RecorderCommand), a.logger)
			}
			mic := voice.NewController(recognizer, notifier,
				voice.WithLogger(a.logger),
				voice.WithTranscriptHandler(func(transcript string) {
					r.voiceInput(ctx, transcript)
				}),
			)
			mic.SetLanguage(a.cfg.Voice.Language)
			defer mic.Close()

			r.ctl = chat.NewController(store, dispatcher, mic, notifier)
			r.mic = mic
			r.follow(state)
			return r.run(ctx, cmd.InOrStdin())
		},
	}
}

// repl drives a chat.Controller from line-based terminal input.
type repl struct {
	ctl *chat.Controller
	mic *voice.Controller
	out io.Writer

	mu            sync.Mutex
	shownSession  string
	shownMessages int
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	r.ctl.Mount(ctx)
	r.printf("BdAsk - বাংলাদেশের AI সহকারী। /help লিখে কমান্ড দেখুন।\n")
	for i, s := range suggestions {
		r.printf("  [%d] %s\n", i+1, s)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		r.printf("> ")
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := r.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

// handle executes one input line and reports whether to exit.
func (r *repl) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(suggestions) && len(r.ctl.State().Messages) == 0 {
			r.ctl.SuggestionClick(ctx, suggestions[n-1])
		} else {
			r.ctl.SetInput(line)
			r.ctl.SubmitInput(ctx)
		}
		r.render()
		return false
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/quit", "/exit":
		return true
	case "/help":
		r.printf("%s\n", helpText)
	case "/new":
		r.ctl.NewSession(ctx)
		r.render()
	case "/sessions":
		r.printSessions()
	case "/open":
		if s, ok := r.sessionAt(arg); ok {
			r.ctl.SelectSession(ctx, s.ID)
			r.render()
		}
	case "/delete":
		if s, ok := r.sessionAt(arg); ok {
			r.ctl.DeleteSession(ctx, s.ID)
			r.render()
		}
	case "/voice":
		r.toggleVoice(ctx)
	case "/tab":
		tab, err := chat.ParseTab(arg)
		if err != nil {
			r.printf("%v\n", err)
			return false
		}
		r.ctl.SetTab(tab)
		r.printf("ট্যাব: %s\n", tab)
	case "/theme":
		if r.ctl.ToggleTheme() {
			r.printf("ডার্ক মোড চালু\n")
		} else {
			r.printf("লাইট মোড চালু\n")
		}
	case "/sidebar":
		if r.ctl.ToggleSidebar() {
			r.printSessions()
		}
	default:
		r.printf("অজানা কমান্ড %s। /help দেখুন।\n", cmd)
	}
	return false
}

func (r *repl) toggleVoice(ctx context.Context) {
	if !r.mic.IsSupported() {
		r.printf("ভয়েস ইনপুট সমর্থিত নয়। DEEPGRAM_API_KEY এবং BDASK_RECORDER_CMD সেট করুন।\n")
		return
	}
	r.ctl.ToggleVoice(ctx)
	if r.mic.IsListening() {
		r.printf("🎤 শুনছি... থামাতে আবার /voice লিখুন।\n")
	}
}

// voiceInput stages a finished transcript and sends it.
func (r *repl) voiceInput(ctx context.Context, transcript string) {
	r.ctl.VoiceTranscript(transcript)
	r.ctl.SubmitInput(ctx)
	r.render()
}

func (r *repl) sessionAt(arg string) (domain.Session, bool) {
	sessions := r.ctl.State().Sessions
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(sessions) {
		r.printf("১ থেকে %d এর মধ্যে একটি নম্বর দিন\n", len(sessions))
		return domain.Session{}, false
	}
	return sessions[n-1], true
}

func (r *repl) printSessions() {
	snap := r.ctl.State()
	if len(snap.Sessions) == 0 {
		r.printf("কোনো কথোপকথন নেই\n")
		return
	}
	for i, s := range snap.Sessions {
		marker := " "
		if s.ID == snap.ActiveSessionID {
			marker = "*"
		}
		r.printf("%s%2d. %s\n", marker, i+1, s.Title)
	}
}

// follow renders whenever the message list changes, so the optimistic
// user message shows before the reply arrives.
func (r *repl) follow(state *chat.State) {
	state.OnChange(r.render)
}

// render prints messages not yet shown for the active session, starting
// over when the active session changes.
func (r *repl) render() {
	snap := r.ctl.State()

	r.mu.Lock()
	defer r.mu.Unlock()
	if snap.ActiveSessionID != r.shownSession {
		r.shownSession = snap.ActiveSessionID
		r.shownMessages = 0
	}
	if r.shownMessages > len(snap.Messages) {
		r.shownMessages = len(snap.Messages)
	}
	for _, m := range snap.Messages[r.shownMessages:] {
		_, _ = fmt.Fprintln(r.out, formatMessage(m))
	}
	r.shownMessages = len(snap.Messages)
}

func (r *repl) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func formatMessage(m domain.Message) string {
	var b strings.Builder
	if m.Role == domain.RoleUser {
		b.WriteString("আপনি: ")
	} else {
		b.WriteString("BdAsk: ")
	}
	b.WriteString(m.Content)
	if m.Weather != nil {
		b.WriteString("\n  🌤 ")
		b.WriteString(weatherLine(m.Weather))
	}
	return b.String()
}

func weatherLine(w *domain.Weather) string {
	return fmt.Sprintf("%s: %d°C, %s, আর্দ্রতা %d%%, বাতাস %s", w.Location, w.Temperature, w.Description, w.Humidity, w.WindSpeed)
}
