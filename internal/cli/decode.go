package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/calldata-lens/internal/cli/render"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

// maxCalldataLine bounds one line of a --file input.
const maxCalldataLine = 16 * 1024 * 1024

// NewDecodeCmd creates the decode command
func NewDecodeCmd() *cobra.Command {
	var (
		signature string
		pick      bool
		remember  bool
		file      string
	)

	cmd := &cobra.Command{
		Use:   "decode [calldata]",
		Short: "Resolve, decode and annotate calldata",
		Long: `Resolve the function signature for calldata, decode its arguments and
show which bytes belong to which parameter.

Candidates are fetched from the signature directory. With more than one
candidate the remembered selection wins, then the highest heuristic score.
Use --pick to choose interactively; picked signatures are remembered.

Use - as the calldata to read it from stdin, or --file to decode one
calldata per line (blank lines and lines starting with # are skipped).

Examples:
  lens decode 0xa9059cbb000000000000000000000000d8da6bf2...
  lens decode 0x1234abcd... --signature "foo(address,uint256)"
  lens decode 0x095ea7b3... --pick
  lens decode --file txs.txt --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			inputs, err := decodeInputs(cmd, args, file)
			if err != nil {
				return err
			}

			params := usecase.DecodeCalldataParams{
				Signature: signature,
				Pick:      pick,
				Remember:  remember,
			}
			renderer := render.NewDecodeRenderer(cmd.OutOrStdout(), app.Config.Format)

			if len(inputs) == 1 {
				params.Calldata = inputs[0]
				result, err := app.DecodeCalldata.Run(cmd.Context(), params)
				if err != nil {
					return err
				}
				return renderer.Render(result)
			}

			var results []*usecase.DecodeResult
			failed := 0
			for i, input := range inputs {
				params.Calldata = input
				result, err := app.DecodeCalldata.Run(cmd.Context(), params)
				if err != nil {
					failed++
					fmt.Fprintln(cmd.ErrOrStderr(), render.FormatError(fmt.Sprintf("entry %d: %s", i+1, describeError(err))))
					continue
				}
				results = append(results, result)
			}
			if err := renderer.RenderMany(results); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d calldata failed to decode", failed, len(inputs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&signature, "signature", "", "Decode with this signature instead of looking one up")
	cmd.Flags().BoolVar(&pick, "pick", false, "Choose among candidates interactively")
	cmd.Flags().BoolVar(&remember, "remember", false, "Remember the resolved signature for this selector")
	cmd.Flags().StringVar(&file, "file", "", "Read calldata from a file, one per line")

	return cmd
}

// decodeInputs collects the calldata to decode from args, stdin or a file.
func decodeInputs(cmd *cobra.Command, args []string, file string) ([]string, error) {
	switch {
	case file != "" && len(args) > 0:
		return nil, fmt.Errorf("pass calldata either as an argument or with --file, not both")
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", file, err)
		}
		defer f.Close()
		return readCalldataLines(f)
	case len(args) == 0:
		return nil, fmt.Errorf("calldata is required")
	case args[0] == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return []string{strings.TrimSpace(string(data))}, nil
	default:
		return []string{args[0]}, nil
	}
}

func readCalldataLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxCalldataLine)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no calldata found")
	}
	return lines, nil
}
