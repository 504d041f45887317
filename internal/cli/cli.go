package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Record *RecordCommand
	Today  *TodayCommand
	Serve  *ServeCommand
	Reset  *ResetCommand
	Clear  *ClearCommand
	Status *StatusCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "journey"
	parser.LongDescription = "Local browsing-journey recorder: capture visited pages, summarize each day, keep a week of archives."

	cmds := &commands{
		Record: &RecordCommand{globals: &globals, version: version},
		Today:  &TodayCommand{globals: &globals, version: version},
		Serve:  &ServeCommand{globals: &globals, version: version},
		Reset:  &ResetCommand{globals: &globals, version: version},
		Clear:  &ClearCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
	}

	parser.AddCommand("record", "Record a page visit", "Record a page visit into today's journey, extracting content from HTML or accepting pre-extracted text.", cmds.Record)
	parser.AddCommand("today", "Print today's summary", "Print the daily summary of today's visits, grouped by domain.", cmds.Today)
	parser.AddCommand("serve", "Start the journey daemon", "Start the journey daemon (local HTTP service) and the retention scheduler.", cmds.Serve)
	parser.AddCommand("reset", "Run the daily reset now", "Archive yesterday's journey and prune old archives immediately.", cmds.Reset)
	parser.AddCommand("clear", "Delete ALL journey data", "Delete ALL journey data. Destructive operation with safety prompt.", cmds.Clear)
	parser.AddCommand("status", "Show journey health", "Show today's page count, archive state, next reset instant, and daemon health.", cmds.Status)

	return parser, &globals, cmds
}

// Run is the main entry point for the journey CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("journey %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
