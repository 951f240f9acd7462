// Package main is the entry point for the mailgun-send command, a small
// utility for sending a message or validating an address through the
// Mailgun v3 API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/shineum/mailgun-lite/internal/config"
	"github.com/shineum/mailgun-lite/mailgun"
)

// stringList collects repeated flag values.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	var attachPaths stringList

	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	to := flag.String("to", "", "comma-separated recipient addresses (overrides config)")
	subject := flag.String("subject", "", "message subject (overrides config)")
	text := flag.String("text", "", "plain-text message body")
	html := flag.String("html", "", "HTML message body")
	validate := flag.String("validate", "", "validate the given address instead of sending")
	testMode := flag.Bool("test-mode", false, "send in Mailgun test mode (accepted but not delivered)")
	tag := flag.String("tag", "", "tag the message for analytics")
	dryRun := flag.Bool("dry-run", false, "print the message instead of calling the API")
	flag.Var(&attachPaths, "attach", "file to attach (repeatable)")
	flag.Parse()

	// Optional .env for local use; env vars may also come from the shell
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Logging.Level)

	if !cfg.MailgunConfigured() {
		slog.Error("MAILGUN_API_KEY, MAILGUN_DOMAIN, and MAILGUN_SENDER are required")
		os.Exit(1)
	}

	creds := mailgun.NewCredentialsWithBase(cfg.Mailgun.APIBase, cfg.Mailgun.APIKey, cfg.Mailgun.Domain)
	client := mailgun.New(creds)
	ctx := context.Background()

	if *validate != "" {
		if err := runValidate(ctx, client, *validate); err != nil {
			slog.Error("validation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	sender, err := mailgun.ParseAddress(cfg.Mailgun.Sender)
	if err != nil {
		slog.Error("invalid sender address", "sender", cfg.Mailgun.Sender, "error", err)
		os.Exit(1)
	}

	msg, err := buildMessage(cfg, *to, *subject, *text, *html, *testMode, *tag, attachPaths)
	if err != nil {
		slog.Error("failed to build message", "error", err)
		os.Exit(1)
	}

	if *dryRun {
		printMessage(os.Stdout, sender, msg)
		return
	}

	resp, err := client.Send(ctx, sender, *msg)
	if err != nil {
		slog.Error("send failed", "error", err)
		os.Exit(1)
	}

	slog.Info("message accepted",
		"id", resp.ID,
		"status", resp.Message,
	)
}

// loadConfig loads configuration from the specified path (YAML + env override)
// or from environment variables only if no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// setupLogger configures the global slog logger with JSON output and the
// specified log level.
func setupLogger(level string) {
	var logLevel slog.Level

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// runValidate validates a single address and prints the provider's
// response as indented JSON.
func runValidate(ctx context.Context, client *mailgun.Client, address string) error {
	resp, err := client.ValidateAddress(ctx, address)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render validation result: %w", err)
	}

	fmt.Println(string(out))
	return nil
}

// buildMessage assembles a Message from flags and config defaults.
func buildMessage(cfg *config.Config, to, subject, text, html string, testMode bool, tag string, attachPaths []string) (*mailgun.Message, error) {
	if to == "" {
		to = cfg.Message.To
	}
	if to == "" {
		return nil, fmt.Errorf("no recipients: pass -to or set SEND_TO")
	}
	if subject == "" {
		subject = cfg.Message.Subject
	}

	recipients, err := parseRecipients(to)
	if err != nil {
		return nil, err
	}

	msg := &mailgun.Message{
		To:      recipients,
		Subject: subject,
		Body:    buildBody(text, html),
	}

	for _, path := range attachPaths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read attachment: %w", err)
		}
		msg.Attachments = append(msg.Attachments, mailgun.Attachment{
			Filename: filepath.Base(path),
			Content:  content,
		})
	}

	if testMode {
		msg.Options = append(msg.Options, mailgun.TestMode())
	}
	if tag != "" {
		msg.Options = append(msg.Options, mailgun.Tag(tag))
	}

	return msg, nil
}

// buildBody picks the body variant matching the given flags.
func buildBody(text, html string) mailgun.Body {
	switch {
	case html != "" && text != "":
		return mailgun.HTMLAndTextBody(html, text)
	case html != "":
		return mailgun.HTMLBody(html)
	default:
		return mailgun.TextBody(text)
	}
}

// parseRecipients splits a comma-separated address list.
func parseRecipients(list string) ([]mailgun.EmailAddress, error) {
	var recipients []mailgun.EmailAddress
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		addr, err := mailgun.ParseAddress(raw)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, addr)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no recipients in %q", list)
	}
	return recipients, nil
}

// printMessage writes the message to w in a human-readable format
// without calling the API.
func printMessage(w io.Writer, sender mailgun.EmailAddress, msg *mailgun.Message) {
	var b strings.Builder

	b.WriteString("========================================\n")
	b.WriteString(fmt.Sprintf("From: %s\n", sender))
	b.WriteString(fmt.Sprintf("To: %s\n", joinAddresses(msg.To)))

	if len(msg.Cc) > 0 {
		b.WriteString(fmt.Sprintf("Cc: %s\n", joinAddresses(msg.Cc)))
	}
	if len(msg.Bcc) > 0 {
		b.WriteString(fmt.Sprintf("Bcc: %s\n", joinAddresses(msg.Bcc)))
	}

	b.WriteString(fmt.Sprintf("Subject: %s\n", msg.Subject))
	b.WriteString("Body:\n")

	body, ok := msg.Body.Text()
	if !ok {
		body, _ = msg.Body.HTML()
	}
	b.WriteString(body + "\n")

	if len(msg.Attachments) > 0 {
		attachments := make([]string, 0, len(msg.Attachments))
		for _, att := range msg.Attachments {
			attachments = append(attachments, fmt.Sprintf("%s (%s)", att.Filename, formatSize(len(att.Content))))
		}
		b.WriteString(fmt.Sprintf("Attachments: %s\n", strings.Join(attachments, ", ")))
	}

	b.WriteString("========================================\n")

	fmt.Fprint(w, b.String())
}

// joinAddresses renders addresses the way they appear on the wire.
func joinAddresses(addresses []mailgun.EmailAddress) string {
	rendered := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		rendered = append(rendered, addr.String())
	}
	return strings.Join(rendered, ", ")
}

// formatSize formats a byte count into a human-readable string.
func formatSize(bytes int) string {
	const (
		kb = 1024
		mb = kb * 1024
	)

	switch {
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
