package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"paperkit/adapters/llm"
	"paperkit/app"
	"paperkit/internal"
	"paperkit/internal/config"
	"paperkit/internal/errors"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/spf13/cobra"
)

type chatFlags struct {
	provider    string
	model       string
	system      string
	temperature float64
	maxTokens   int
	stream      bool
	htmlOut     string
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := internal.NewDefaultLogger()
	defer log.Sync()

	if err := newRootCmd(log).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(log *internal.Logger) *cobra.Command {
	var f chatFlags

	cmd := &cobra.Command{
		Use:   "paperchat [prompt...]",
		Short: "Send a prompt to a DeepSeek or OpenAI compatible chat model",
		Long: `Send one prompt and print the reply. Without arguments the prompt is read
from stdin.

Configuration is read from the environment (and a .env file):
- AI_PROVIDER=deepseek|openai (default: deepseek)
- DEEPSEEK_API_KEY / OPENAI_API_KEY (required for the selected provider)
- DEEPSEEK_BASE_URL / OPENAI_BASE_URL (optional)
- DEEPSEEK_MODEL / OPENAI_MODEL or MODEL (optional)
- DEEPSEEK_TIMEOUT_MS / OPENAI_TIMEOUT_MS (default: 60000)

Example: paperchat --stream "Summarise the Welch t-test in two sentences"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, log, f, args)
		},
	}

	cmd.Flags().StringVar(&f.provider, "provider", "", "Provider: deepseek|openai (default: AI_PROVIDER)")
	cmd.Flags().StringVar(&f.model, "model", "", "Model override")
	cmd.Flags().StringVar(&f.system, "system", llm.DefaultSystemPrompt, "System prompt")
	cmd.Flags().Float64Var(&f.temperature, "temperature", llm.DefaultTemperature, "Sampling temperature")
	cmd.Flags().IntVar(&f.maxTokens, "max-tokens", llm.DefaultMaxTokens, "Maximum tokens in the reply")
	cmd.Flags().BoolVar(&f.stream, "stream", false, "Stream the reply as it is generated")
	cmd.Flags().StringVar(&f.htmlOut, "html", "", "Also write the reply rendered from Markdown to this HTML file")
	return cmd
}

func runChat(cmd *cobra.Command, log *internal.Logger, f chatFlags, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ai, err := cfg.ResolveAI(f.provider)
	if err != nil {
		return err
	}
	if f.model != "" {
		ai.Model = f.model
	}

	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		if prompt, err = readPrompt(cmd.InOrStdin()); err != nil {
			return err
		}
	}

	client, err := llm.New(*ai, log)
	if err != nil {
		return err
	}
	svc := app.NewChatService(client, log)

	out := cmd.OutOrStdout()
	var onDelta func(string) error
	if f.stream {
		onDelta = func(d string) error {
			_, err := io.WriteString(out, d)
			return err
		}
	}

	req := app.ChatPrompt{Prompt: prompt, System: f.system, Model: f.model, MaxTokens: f.maxTokens}
	if cmd.Flags().Changed("temperature") {
		req.Temperature = &f.temperature
	}
	completion, err := svc.Ask(cmd.Context(), req, onDelta)
	if err != nil {
		return err
	}
	if f.stream {
		fmt.Fprintln(out)
	} else {
		fmt.Fprintln(out, completion.Content)
	}

	if f.htmlOut != "" {
		if err := os.WriteFile(f.htmlOut, renderHTML(completion.Content), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", f.htmlOut)
		}
		log.Info("[Chat] reply written to %s", f.htmlOut)
	}
	return nil
}

func readPrompt(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, "failed to read prompt from stdin")
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.InvalidInput("no prompt given")
	}
	return line, nil
}

// renderHTML converts a Markdown reply into a standalone HTML page
func renderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
		Title: "paperchat reply",
	})
	return markdown.Render(doc, renderer)
}
