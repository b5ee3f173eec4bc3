// Package cli holds the cobra commands of the lexclient binary.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kenya-legal-ai/lexclient/internal/legal/api"
	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
	"github.com/kenya-legal-ai/lexclient/internal/legal/render"
	"github.com/kenya-legal-ai/lexclient/internal/legal/session"
	"github.com/kenya-legal-ai/lexclient/internal/ui"
)

const outputWidth = 100

type app struct {
	cfg     *Config
	client  *api.Client
	options session.Options
	asJSON  bool

	apiURL       string
	mode         string
	court        string
	documentType string
}

// NewRootCommand builds the command tree over cfg. Running it with no
// subcommand starts the interactive chat.
func NewRootCommand(cfg *Config) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:   "lexclient",
		Short: "Terminal client for the Kenya Legal AI research service",
		Long: `lexclient talks to the Kenya Legal AI backend: a multi-turn chat grounded on the
Constitution of Kenya 2010, Acts of Parliament and court judgments, plus one-shot
semantic search, constitution lookup and limitation-period lookup.

Run without arguments to start the interactive chat.`,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup() },
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd, false, "")
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.apiURL, "api-url", "", "legal API base URL (or set LEGAL_API_URL)")
	flags.StringVar(&a.mode, "mode", "", "answer mode: "+modeNames())
	flags.StringVar(&a.court, "court", "", "restrict retrieval to one court")
	flags.StringVar(&a.documentType, "type", "", "restrict retrieval to a document type (constitution, act, judgment, legal_notice)")
	flags.BoolVar(&a.asJSON, "json", false, "print raw JSON instead of formatted output")

	root.AddCommand(
		a.chatCommand(),
		a.askCommand(),
		a.searchCommand(),
		a.constitutionCommand(),
		a.limitationCommand(),
		a.healthCommand(),
		a.transcriptCommand(),
	)
	return root
}

// setup applies flag overrides and builds the dispatcher.
func (a *app) setup() error {
	if a.apiURL != "" {
		a.cfg.API.URL = a.apiURL
	}
	if a.mode != "" {
		a.cfg.Session.Mode = a.mode
	}
	if a.court != "" {
		a.cfg.Session.Court = a.court
	}
	if a.documentType != "" {
		a.cfg.Session.DocumentType = a.documentType
	}

	mode, err := model.ParseMode(a.cfg.Session.Mode)
	if err != nil {
		return fmt.Errorf("%w (choose one of: %s)", err, modeNames())
	}
	a.options = session.Options{
		Mode: mode,
		Filters: model.Filters{
			DocumentType: a.cfg.Session.DocumentType,
			Court:        a.cfg.Session.Court,
		},
	}
	a.client = api.NewClient(a.cfg.API)
	return nil
}

func (a *app) print(w io.Writer, blocks []render.Block) {
	fmt.Fprintln(w, ui.NewPainter(ui.DefaultStyles(), outputWidth).Blocks(blocks))
}

func (a *app) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func modeNames() string {
	names := make([]string, len(model.Modes))
	for i, m := range model.Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
