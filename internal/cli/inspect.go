package cli

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/passview/pkg/artifact"
	"github.com/matzehuels/passview/pkg/errors"
	"github.com/matzehuels/passview/pkg/sink"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	pass   int    // sequence number to select without the picker
	export string // directory to copy the selected diagrams into
}

// inspectCommand creates the inspect command that picks one recorded pass.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [destination]",
		Short: "Pick a recorded pass and show or export its diagrams",
		Long: `Pick a recorded pass interactively and show its diagrams.

With --pass the pass is selected by sequence number instead. With --export
both diagrams of the selected pass are copied into a local directory.`,
		Example: `  passview inspect ./diagrams
  passview inspect redis://localhost:6379/0 --pass 3 --export ./pass3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := c.destination(args)
			if err != nil {
				return err
			}
			return c.inspect(cmd.Context(), dest, opts)
		},
	}

	cmd.Flags().IntVar(&opts.pass, "pass", 0, "select the pass with this sequence number")
	cmd.Flags().StringVar(&opts.export, "export", "", "copy the selected diagrams into this directory")

	return cmd
}

func (c *CLI) inspect(ctx context.Context, dest string, opts inspectOpts) error {
	logger := loggerFromContext(ctx)

	s, err := openSink(ctx, dest)
	if err != nil {
		return err
	}
	defer s.Close()

	passes, _, err := loadPasses(ctx, s)
	if err != nil {
		return err
	}
	if len(passes) == 0 {
		printInfo("No recorded passes at %s", dest)
		return nil
	}

	var selected *artifact.Pass
	if opts.pass > 0 {
		selected, err = findPass(passes, opts.pass)
		if err != nil {
			return err
		}
	} else {
		finalModel, err := tea.NewProgram(NewPassListModel(passes)).Run()
		if err != nil {
			return err
		}
		fm, ok := finalModel.(PassListModel)
		if !ok || fm.Selected == nil {
			printDetail("No selection made")
			return nil
		}
		selected = fm.Selected
	}
	logger.Debug("selected pass", "seq", selected.Sequence, "pass", selected.Name)

	printSuccess("Pass %s %s", StyleNumber.Render(strconv.Itoa(selected.Sequence)), StyleHighlight.Render(selected.Name))
	for _, name := range []string{selected.Input, selected.Output} {
		if name == "" {
			continue
		}
		data, err := s.Get(ctx, name)
		if err != nil {
			return err
		}
		printKeyValue(kindLabel(name), fmt.Sprintf("%s (%d bytes)", name, len(data)))
	}
	if !selected.Complete() {
		printWarning("Pass %d is missing a diagram", selected.Sequence)
	}

	if opts.export == "" {
		printNextStep("Copy the diagrams with", fmt.Sprintf("passview inspect %s --pass %d --export DIR", dest, selected.Sequence))
		return nil
	}
	return exportPass(ctx, s, sink.NewDir(opts.export), *selected)
}

func findPass(passes []artifact.Pass, seq int) (*artifact.Pass, error) {
	for i := range passes {
		if passes[i].Sequence == seq {
			return &passes[i], nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "no recorded pass with sequence number %d", seq)
}

// exportPass copies the diagrams of p from src into dst.
func exportPass(ctx context.Context, src sink.Sink, dst *sink.Dir, p artifact.Pass) error {
	for _, name := range []string{p.Input, p.Output} {
		if name == "" {
			continue
		}
		data, err := src.Get(ctx, name)
		if err != nil {
			return err
		}
		if err := dst.Put(ctx, name, data); err != nil {
			return err
		}
		printFile(dst.Path(name))
	}
	return nil
}

func kindLabel(name string) string {
	info, ok := artifact.Parse(name)
	if !ok {
		return "Diagram"
	}
	if info.Kind == artifact.KindInput {
		return "Input"
	}
	return "Output"
}
