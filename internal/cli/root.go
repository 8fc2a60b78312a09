package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/calldata-lens/internal/adapters/fourbyte"
	"github.com/trebuchet-org/calldata-lens/internal/app"
	"github.com/trebuchet-org/calldata-lens/internal/config"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// releaser collects cleanups registered while a command runs.
type releaser struct {
	mu  sync.Mutex
	fns []func()
}

func (r *releaser) add(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns = append(r.fns, fn)
}

// release runs the cleanups in reverse order. It is safe to call twice.
func (r *releaser) release() {
	r.mu.Lock()
	fns := r.fns
	r.fns = nil
	r.mu.Unlock()
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&releaser{})
}

// Execute runs the CLI and prints a failure as a single error line.
func Execute(ctx context.Context, stderr io.Writer) error {
	rel := &releaser{}
	defer rel.release()

	err := newRootCmd(rel).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, color.RedString("Error: %s", describeError(err)))
	}
	return err
}

func newRootCmd(rel *releaser) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lens",
		Short: "Decode and annotate EVM calldata",
		Long: `lens resolves the function signature behind a piece of EVM calldata,
decodes its arguments and shows which bytes of the payload belong to which
parameter.

Candidate signatures come from a 4byte-style signature directory. When a
selector has several candidates, lens ranks them with protocol patterns and
structural heuristics, and remembers the choices you confirm.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			v, err := config.SetupViper(cmd)
			if err != nil {
				return err
			}

			// Initialize app with DI
			appInstance, cleanup, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			rel.add(cleanup)

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				rel.add(cancel)
			}

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			rel.release()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("format", "o", "text", "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory for config, history and cache (default ~/.lens)")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Main commands
	decodeCmd := NewDecodeCmd()
	decodeCmd.GroupID = "main"
	rootCmd.AddCommand(decodeCmd)

	rankCmd := NewRankCmd()
	rankCmd.GroupID = "main"
	rootCmd.AddCommand(rankCmd)

	lookupCmd := NewLookupCmd()
	lookupCmd.GroupID = "main"
	rootCmd.AddCommand(lookupCmd)

	// Management commands
	historyCmd := NewHistoryCmd()
	historyCmd.GroupID = "management"
	rootCmd.AddCommand(historyCmd)

	cacheCmd := NewCacheCmd()
	cacheCmd.GroupID = "management"
	rootCmd.AddCommand(cacheCmd)

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}

// describeError turns known failures into a one-line message with a hint.
func describeError(err error) string {
	var (
		noSig     domain.NoSignatureErr
		decodeErr domain.DecodeErr
		status    fourbyte.StatusError
	)

	switch {
	case errors.As(err, &noSig):
		return fmt.Sprintf("%s; pass --signature to decode with a known signature", noSig.Error())
	case errors.As(err, &decodeErr):
		return fmt.Sprintf("%s (tried %d candidate(s))", decodeErr.Error(), len(decodeErr.Tried))
	case errors.As(err, &status):
		return fmt.Sprintf("signature directory returned %d for %s", status.Status, status.URL)
	case errors.Is(err, errSelectionCancelled):
		return "selection cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("timed out: %v", err)
	default:
		return err.Error()
	}
}
