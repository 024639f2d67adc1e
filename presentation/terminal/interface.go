package terminal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"action_recorder/application/classifier"
	"action_recorder/application/recorder"
	"action_recorder/application/selector"
	"action_recorder/domain/entities"
	"action_recorder/domain/interfaces"
	"action_recorder/infrastructure/browser"
	"action_recorder/infrastructure/security"
	"action_recorder/infrastructure/storage"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const helpText = `Commands:
  open <url>            navigate the browser and start a session
  load <file> [url]     start a session from a saved HTML file
  classify              classify the current page
  select <css>          preview the selector for an element
  click <css>           record a click
  type <css> <text>     record typing into a field
  navigate <url>        record a navigation
  actions               print the recorded session
  stop                  stop recording
  save                  save the session
  sessions              list saved sessions
  help                  show this help
  quit                  exit`

type TerminalInterface struct {
	recorder    *recorder.Recorder
	browserCtrl interfaces.BrowserController
	storage     interfaces.Storage
	logger      *logrus.Logger
	reader      *bufio.Reader
	out         io.Writer
}

func NewTerminalInterface() (*TerminalInterface, error) {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		// .env file is optional
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	// Setup logger
	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return newTerminalInterface(cfg, logger, os.Stdin, os.Stdout)
}

func newTerminalInterface(cfg Config, logger *logrus.Logger, in io.Reader, out io.Writer) (*TerminalInterface, error) {
	synthCfg := selector.DefaultConfig()
	synthCfg.ExcludedClassPatterns = cfg.ExcludedClasses
	synth, err := selector.New(synthCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid class patterns: %w", err)
	}

	store, err := storage.NewSessionStore(cfg.SessionDir, logger)
	if err != nil {
		return nil, err
	}

	browserCtrl, err := newBrowser(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	rec := recorder.NewRecorder(
		browserCtrl,
		synth,
		classifier.New(classifier.DefaultConfig(), logger),
		security.NewSecurityLayer(logger),
		store,
		logger,
	)

	return &TerminalInterface{
		recorder:    rec,
		browserCtrl: browserCtrl,
		storage:     store,
		logger:      logger,
		reader:      bufio.NewReader(in),
		out:         out,
	}, nil
}

// newBrowser - returns nil for the none driver
func newBrowser(cfg Config, logger *logrus.Logger) (interfaces.BrowserController, error) {
	opts := browser.Options{
		Headless:   cfg.Headless,
		StateDir:   cfg.StateDir(),
		DriverPath: cfg.DriverPath,
		BinaryPath: cfg.BinaryPath,
	}
	switch cfg.Driver {
	case DriverSelenium:
		ctrl, err := browser.NewSeleniumController(opts, logger)
		if err != nil {
			return nil, err
		}
		return ctrl, nil
	case DriverPlaywright:
		return browser.NewBrowserController(opts, logger)
	}
	return nil, nil
}

func (t *TerminalInterface) Run() error {
	fmt.Fprintln(t.out, "Action Recorder")
	fmt.Fprintln(t.out, "===============")
	fmt.Fprintln(t.out, "Type 'help' for commands, or 'quit' to exit")
	fmt.Fprintln(t.out)

	ctx := context.Background()
	for {
		fmt.Fprint(t.out, "> ")
		input, err := t.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if input == "quit" || input == "exit" || input == "q" {
			fmt.Fprintln(t.out, "Bye!")
			return nil
		}

		if err := t.execute(ctx, input); err != nil {
			fmt.Fprintf(t.out, "Error: %v\n", err)
		}
	}
}

// execute - runs one command line
func (t *TerminalInterface) execute(ctx context.Context, input string) error {
	cmd, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "help":
		fmt.Fprintln(t.out, helpText)
		return nil

	case "open":
		if rest == "" {
			return errors.New("usage: open <url>")
		}
		session, err := t.recorder.Start(ctx, rest)
		if err != nil {
			return err
		}
		return t.print(session.Classification)

	case "load":
		file, url, _ := strings.Cut(rest, " ")
		if file == "" {
			return errors.New("usage: load <file> [url]")
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		if url = strings.TrimSpace(url); url == "" {
			url = "file://" + file
		}
		session, err := t.recorder.Load(string(data), url)
		if err != nil {
			return err
		}
		return t.print(session.Classification)

	case "classify":
		result, err := t.recorder.Classify(ctx)
		if err != nil {
			return err
		}
		return t.print(result)

	case "select":
		if rest == "" {
			return errors.New("usage: select <css>")
		}
		result, err := t.recorder.Preview(ctx, rest)
		if err != nil {
			return err
		}
		return t.print(result)

	case "click":
		if rest == "" {
			return errors.New("usage: click <css>")
		}
		return t.record(ctx, entities.ActionClick, rest, "")

	case "type":
		css, text, err := splitTypeArgs(rest)
		if err != nil {
			return err
		}
		return t.record(ctx, entities.ActionTypeText, css, text)

	case "navigate":
		if rest == "" {
			return errors.New("usage: navigate <url>")
		}
		return t.record(ctx, entities.ActionNavigate, "", rest)

	case "actions":
		session, err := t.recorder.Session()
		if err != nil {
			return err
		}
		return t.print(session)

	case "stop":
		session, err := t.recorder.Stop()
		if err != nil {
			return err
		}
		fmt.Fprintf(t.out, "Stopped session %s with %d actions\n", session.ID, len(session.Actions))
		return nil

	case "save":
		if err := t.recorder.Save(); err != nil {
			return err
		}
		session, _ := t.recorder.Session()
		fmt.Fprintf(t.out, "Saved session %s\n", session.ID)
		return nil

	case "sessions":
		summaries, err := t.storage.ListSessions()
		if err != nil {
			return err
		}
		return t.print(summaries)
	}

	return fmt.Errorf("unknown command %q, type 'help'", cmd)
}

func (t *TerminalInterface) record(ctx context.Context, actionType entities.ActionType, css, value string) error {
	action, err := t.recorder.Record(ctx, actionType, css, value)
	if err != nil {
		return err
	}
	return t.print(action)
}

// splitTypeArgs - splits `<css> <text>`. A selector containing spaces must
// be wrapped in single quotes.
func splitTypeArgs(rest string) (string, string, error) {
	if strings.HasPrefix(rest, "'") {
		end := strings.Index(rest[1:], "'")
		if end < 0 {
			return "", "", errors.New("unterminated quoted selector")
		}
		css := rest[1 : end+1]
		return css, strings.TrimSpace(rest[end+2:]), nil
	}
	css, text, ok := strings.Cut(rest, " ")
	if !ok || css == "" {
		return "", "", errors.New("usage: type <css> <text>")
	}
	return css, strings.TrimSpace(text), nil
}

func (t *TerminalInterface) print(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(t.out, string(data))
	return nil
}

func (t *TerminalInterface) Close() error {
	if t.browserCtrl == nil {
		return nil
	}
	return t.browserCtrl.Close()
}
