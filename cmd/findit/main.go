package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/yift/findit"
)

const (
	appName     = "findit"
	historyFile = ".findit_history"
	promptMain  = "findit> "
)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

var flags = struct {
	Where       string
	Select      string
	OrderBy     string
	Limit       int
	MaxDepth    int
	FollowLinks bool
	NoIgnore    bool
	JSON        bool
	Align       bool
	DebugLog    string
	Config      string
}{}

var rootCmd = &cobra.Command{
	Use:   "findit [roots...]",
	Short: "Query files with SQL-flavored expressions",
	Long: `findit walks one or more directory trees and prints the files that
match a filter expression, with selectable columns and ordering. The
expression language knows the file's name, path, size, timestamps,
ownership, kind and content, plus strings, numbers, dates, lists and
records to combine them.

Examples:
  findit src --where 'extension = "go" and size > 4096'
  findit . --select 'name, size, modified' --order-by 'size:desc' --limit 10
  findit . --where 'content.lines().any($l $l matches "TODO")'`,
	Args:          cobra.ArbitraryArgs,
	RunE:          runQuery,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var replCmd = &cobra.Command{
	Use:   "repl [path]",
	Short: "Evaluate expressions interactively against one path",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRepl,
}

func main() {
	fl := rootCmd.Flags()
	fl.StringVarP(&flags.Where, "where", "w", "", "filter expression (must be BOOL)")
	fl.StringVarP(&flags.Select, "select", "s", "", "comma-separated column expressions")
	fl.StringVarP(&flags.OrderBy, "order-by", "o", "", "comma-separated sort keys, each with optional :desc")
	fl.IntVarP(&flags.Limit, "limit", "l", 0, "stop after this many rows (0 = all)")
	fl.IntVar(&flags.MaxDepth, "max-depth", -1, "descend at most this deep (-1 = unlimited)")
	fl.BoolVar(&flags.FollowLinks, "follow-links", false, "descend into symlinked directories")
	fl.BoolVar(&flags.NoIgnore, "no-ignore", false, "do not honor .gitignore files")
	fl.BoolVar(&flags.JSON, "json", false, "emit one JSON object per row")
	fl.BoolVar(&flags.Align, "align", false, "pad columns and print a header row")
	fl.StringVar(&flags.DebugLog, "debug-log", "", "append .debug() output to this file")
	fl.StringVar(&flags.Config, "config", "", "config file (default $FINDIT_CONFIG, else ~/.findit.yaml)")
	rootCmd.AddCommand(replCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		os.Exit(1)
	}
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := findit.LoadConfig(flags.Config)
	if err != nil {
		return err
	}

	selectSrc := flags.Select
	if selectSrc == "" {
		selectSrc = cfg.Select
	}
	orderSrc := flags.OrderBy
	if orderSrc == "" {
		orderSrc = cfg.OrderBy
	}

	q := findit.Query{
		Roots:       args,
		Where:       expandWhere(cfg, flags.Where),
		Select:      expandSelects(cfg, findit.ParseSelectList(selectSrc)),
		OrderBy:     expandOrder(cfg, findit.ParseOrderByList(orderSrc)),
		Limit:       flags.Limit,
		MaxDepth:    flags.MaxDepth,
		FollowLinks: flags.FollowLinks,
		NoIgnore:    flags.NoIgnore,
	}
	if !cmd.Flags().Changed("max-depth") && cfg.MaxDepth != nil {
		q.MaxDepth = *cfg.MaxDepth
	}
	if !cmd.Flags().Changed("follow-links") && cfg.FollowLinks != nil {
		q.FollowLinks = *cfg.FollowLinks
	}
	if !cmd.Flags().Changed("no-ignore") && cfg.NoIgnore != nil {
		q.NoIgnore = *cfg.NoIgnore
	}

	cq, err := findit.CompileQuery(q)
	if err != nil {
		return err
	}
	if flags.DebugLog != "" {
		f, err := os.OpenFile(flags.DebugLog, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("%s: cannot open debug log: %w", appName, err)
		}
		defer f.Close()
		cq.Debug = f
	}

	printer := findit.NewPrinter(os.Stdout, cq.Headers(), flags.JSON, flags.Align)
	if err := cq.Run(printer.Row); err != nil {
		return err
	}
	return printer.Flush()
}

func expandWhere(cfg *findit.Config, where string) string {
	if where == "" {
		return ""
	}
	src, _ := cfg.Expand(where)
	return src
}

func expandSelects(cfg *findit.Config, items []findit.SelectItem) []findit.SelectItem {
	for i := range items {
		if src, ok := cfg.Expand(items[i].Source); ok {
			items[i].Source = src
		}
	}
	return items
}

func expandOrder(cfg *findit.Config, items []findit.SortItem) []findit.SortItem {
	for i := range items {
		if src, ok := cfg.Expand(items[i].Source); ok {
			items[i].Source = src
		}
	}
	return items
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func runRepl(_ *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	fmt.Printf("findit REPL, evaluating against %s\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", target)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if err != nil {
			continue
		}
		code := strings.TrimSpace(line)
		if code == "" {
			continue
		}
		if strings.HasPrefix(code, ":") && !strings.HasPrefix(code, ":[") {
			switch strings.ToLower(code) {
			case ":quit":
				return nil
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		ev, err := findit.BuildSource(code, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(findit.WrapErrorWithSource(err, code).Error()))
			continue
		}
		v := ev.Eval(findit.NewContext(target, 0))
		fmt.Println(blue(v.String()))
		ln.AppendHistory(code)
	}
}
