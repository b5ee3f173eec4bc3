package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	errx "github.com/kenya-legal-ai/lexclient/internal/core/error"
	"github.com/kenya-legal-ai/lexclient/internal/legal/health"
	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
	"github.com/kenya-legal-ai/lexclient/internal/legal/render"
	"github.com/kenya-legal-ai/lexclient/internal/legal/repo"
	"github.com/kenya-legal-ai/lexclient/internal/legal/session"
	"github.com/kenya-legal-ai/lexclient/internal/ui"
	logx "github.com/kenya-legal-ai/lexclient/pkg/logger"
)

var errNoRedis = errors.New("transcripts persist across runs only when REDIS_URL is set")

func (a *app) chatCommand() *cobra.Command {
	var (
		plain  bool
		resume string
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive research session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd, plain, resume)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "line-oriented chat without the full-screen interface")
	cmd.Flags().StringVar(&resume, "resume", "", "resume a recorded session by id (requires REDIS_URL)")
	return cmd
}

func (a *app) runChat(cmd *cobra.Command, plain bool, resume string) error {
	ctx := commandContext(cmd)

	transcripts, closeRepo, err := a.transcripts(ctx, resume != "")
	if err != nil {
		return err
	}
	defer closeRepo()

	opts := []session.Option{
		session.WithMemoryLimit(a.cfg.Session.MemoryLimit),
		session.WithOptions(a.options),
		session.WithTranscript(transcripts),
	}
	if resume != "" {
		tr, err := transcripts.LoadTranscript(ctx, resume)
		if err != nil {
			return fmt.Errorf("load session %s: %w", resume, err)
		}
		opts = append(opts, session.WithID(resume), session.WithTurns(tr.Turns))
	}
	sess := session.New(a.client, opts...)

	if plain {
		return a.repl(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), sess)
	}

	// the full-screen program owns the terminal, so logs go to a file
	logFile := logx.FileWriter(a.cfg.Log.File)
	defer logFile.Close()
	logx.Init(logx.LoggerOpts{Environment: a.cfg.Environment(), Level: a.cfg.Log.Level, Writer: logFile})

	feed, listen := ui.HealthFeed()
	monitor := health.NewMonitor(a.client, a.cfg.Health.Interval, health.WithListener(listen))
	monitor.Start(ctx)
	defer monitor.Stop()

	logx.Info().Str("session", sess.ID()).Str("api", a.client.BaseURL()).Msg("chat session started")
	err = ui.Run(ctx, ui.Config{
		Session:          sess,
		Research:         a.client,
		Health:           feed,
		SearchTopK:       a.cfg.Search.TopK,
		ConstitutionTopK: a.cfg.Search.ConstitutionTopK,
		BaseURL:          a.client.BaseURL(),
	})
	if len(sess.Turns()) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s (%d turns)\n", sess.ID(), len(sess.Turns()))
	}
	return err
}

// repl is the line-oriented chat used when no terminal UI is wanted.
func (a *app) repl(ctx context.Context, in io.Reader, out io.Writer, sess *session.Session) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Fprintf(out, "Kenya Legal AI, session %s. Type 'exit' to quit.\n", sess.ID())
	for {
		fmt.Fprint(out, "› ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			break
		}

		outcome, ok := sess.SubmitQuery(ctx, line)
		if !ok {
			continue
		}
		if outcome.OK() {
			a.print(out, render.AssistantTurn(outcome.Turn.Response))
		} else {
			a.print(out, []render.Block{render.Failure(outcome.Guidance)})
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

func (a *app) askCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			sess := session.New(a.client, session.WithOptions(a.options))

			outcome, ok := sess.SubmitQuery(commandContext(cmd), joinArgs(args))
			if !ok {
				return errors.New("question is empty")
			}
			if !outcome.OK() {
				a.print(w, []render.Block{render.Failure(outcome.Guidance)})
				return outcome.Failure
			}
			if a.asJSON {
				return a.printJSON(w, outcome.Turn.Response)
			}
			a.print(w, render.Turn(*outcome.Turn))
			return nil
		},
	}
}

func (a *app) searchCommand() *cobra.Command {
	var topK int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Semantic search across judgments, acts and the constitution",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if topK <= 0 {
				topK = a.cfg.Search.TopK
			}
			results, err := a.client.Search(commandContext(cmd), joinArgs(args), topK, a.options.Filters)
			return a.printResults(cmd.OutOrStdout(), results, err)
		},
	}
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of results (default SEARCH_TOP_K)")
	return cmd
}

func (a *app) constitutionCommand() *cobra.Command {
	var topK int
	cmd := &cobra.Command{
		Use:   "constitution <query>",
		Short: "Search the Constitution of Kenya 2010",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if topK <= 0 {
				topK = a.cfg.Search.ConstitutionTopK
			}
			results, err := a.client.LookupConstitution(commandContext(cmd), joinArgs(args), topK)
			return a.printResults(cmd.OutOrStdout(), results, err)
		},
	}
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of results (default CONSTITUTION_TOP_K)")
	return cmd
}

func (a *app) printResults(w io.Writer, results []model.SearchResult, err error) error {
	if err != nil {
		return a.printFailure(w, err)
	}
	if a.asJSON {
		return a.printJSON(w, results)
	}
	a.print(w, render.Results(results))
	return nil
}

func (a *app) limitationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "limitation <cause of action>",
		Short: "Look up the limitation period for a cause of action",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			report, err := a.client.LookupLimitation(commandContext(cmd), joinArgs(args))
			if err != nil {
				return a.printFailure(w, err)
			}
			if a.asJSON {
				return a.printJSON(w, report)
			}
			a.print(w, render.Limitation(*report))
			return nil
		},
	}
}

func (a *app) healthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the API and its document index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			snap, err := a.client.Health(commandContext(cmd))
			if a.asJSON {
				if jerr := a.printJSON(w, snap); jerr != nil {
					return jerr
				}
				return err
			}
			if err != nil {
				return a.printFailure(w, err)
			}

			index := "offline"
			if snap.IndexOnline {
				index = fmt.Sprintf("online, %d documents", snap.IndexedCount)
			}
			fmt.Fprintf(w, "API:       online (%s)\n", a.client.BaseURL())
			fmt.Fprintf(w, "Index:     %s\n", index)
			fmt.Fprintf(w, "Retrieval: %s\n", snap.Mode)
			return nil
		},
	}
}

func (a *app) transcriptCommand() *cobra.Command {
	var wipe bool
	cmd := &cobra.Command{
		Use:   "transcript <session-id>",
		Short: "Print or clear a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			w := cmd.OutOrStdout()
			id := args[0]

			transcripts, closeRepo, err := a.transcripts(ctx, true)
			if err != nil {
				return err
			}
			defer closeRepo()

			if wipe {
				if err := transcripts.ClearTranscript(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(w, "Cleared session %s\n", id)
				return nil
			}

			tr, err := transcripts.LoadTranscript(ctx, id)
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(w, tr)
			}
			if len(tr.Turns) == 0 {
				fmt.Fprintf(w, "No turns recorded for session %s\n", id)
				return nil
			}
			for _, t := range tr.Turns {
				fmt.Fprintln(w, t.At.Local().Format("2006-01-02 15:04"))
				a.print(w, render.Turn(t))
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&wipe, "clear", false, "delete the transcript instead of printing it")
	return cmd
}

func (a *app) printFailure(w io.Writer, err error) error {
	f := errx.AsFailure(err)
	a.print(w, []render.Block{render.Failure(errx.Classify(f))})
	return f
}

// transcripts picks the repository. Without Redis the transcript lives only
// as long as the process; when required, Redis must be reachable.
func (a *app) transcripts(ctx context.Context, required bool) (model.TranscriptRepository, func(), error) {
	noop := func() {}
	if !a.cfg.Redis.Enabled() {
		if required {
			return nil, noop, errNoRedis
		}
		return repo.NewMemoryTranscriptRepository(), noop, nil
	}

	ttl, err := a.cfg.TranscriptTTL()
	if err != nil {
		return nil, noop, fmt.Errorf("invalid TRANSCRIPT_TTL %q: %w", a.cfg.Session.TranscriptTTL, err)
	}

	rdb, err := a.cfg.Redis.New(ctx)
	if err != nil {
		if required {
			return nil, noop, fmt.Errorf("connect to redis: %w", err)
		}
		logx.Warn().Err(err).Msg("redis unavailable, keeping transcript in memory")
		return repo.NewMemoryTranscriptRepository(), noop, nil
	}
	return repo.NewRedisTranscriptRepository(rdb, ttl), func() { _ = rdb.Close() }, nil
}
