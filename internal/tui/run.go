package tui

import (
	"context"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/fractalvis/internal/director"
)

// Run takes over the terminal until the user quits or ctx is done. Log
// output goes to opts.LogFile, or nowhere when it is empty.
func Run(ctx context.Context, sess *director.Session, opts Options) error {
	if opts.LogFile != "" {
		f, err := tea.LogToFile(opts.LogFile, "fractalvis")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
		defer log.SetOutput(os.Stderr)
	}

	p := tea.NewProgram(NewModel(ctx, sess, opts),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.stopRecording()
	}
	return err
}
