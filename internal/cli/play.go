package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordbank/pkg/errors"
	"github.com/matzehuels/wordbank/pkg/session"
	"github.com/matzehuels/wordbank/pkg/wordbank"
)

// savedGameTTL is how long a saved game can be resumed.
const savedGameTTL = 7 * 24 * time.Hour

// playOptions holds the flags of the play command.
type playOptions struct {
	target string
	resume string
	save   bool
	rtl    bool
}

// playCommand creates the play command for an interactive board.
func (c *CLI) playCommand() *cobra.Command {
	var opts playOptions

	cmd := &cobra.Command{
		Use:   "play [words...]",
		Short: "Arrange words into a sentence in the terminal",
		Long: `Arrange words into a sentence in the terminal.

Words start in the bank. Tap a word (enter) to append it to the answer or
send it back, or drag it with the mouse: up into the answer, down into the
bank, or onto another answered word to take its place.

With --target the words default to the target sentence shuffled, and the
board reports when the answer is correct. With --save the board is stored
on quit and can be continued with --resume.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "target sentence")
	cmd.Flags().StringVar(&opts.resume, "resume", "", "resume a saved session by id")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the board on quit")
	cmd.Flags().BoolVar(&opts.rtl, "rtl", false, "lay out right to left")

	return cmd
}

// runPlay runs the board until the user quits, then optionally saves it.
func (c *CLI) runPlay(ctx context.Context, args []string, opts playOptions) error {
	logger := loggerFromContext(ctx)

	var store *session.FileStore
	if opts.save || opts.resume != "" {
		var err error
		if store, err = session.NewFileStore(""); err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
	}

	sess, err := newPlaySession(ctx, store, args, opts)
	if err != nil {
		return err
	}
	logger.Debug("starting board", "session", sess.ID, "words", len(sess.Board.Words))

	m := NewBoardModel(sess.Board, sess.Target)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run board: %w", err)
	}
	sess.Board.OnDrop(nil)

	answered, _ := sess.Board.Split()
	switch {
	case m.Solved():
		printSuccess("Correct: %s", strings.Join(answered, " "))
	case len(answered) > 0:
		printInfo("Answer: %s", strings.Join(answered, " "))
	}

	if !opts.save {
		return nil
	}
	sess.Touch()
	if err := store.Set(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	printSuccess("Saved session")
	printDetail("Id: %s", sess.ID)
	printNewline()
	printNextStep("Resume", appName+" play --resume "+sess.ID)
	return nil
}

// newPlaySession loads the resumed session or creates one from the
// arguments.
func newPlaySession(ctx context.Context, store *session.FileStore, args []string, opts playOptions) (*session.Session, error) {
	if opts.resume != "" {
		sess, err := store.Get(ctx, opts.resume)
		if err != nil {
			return nil, err
		}
		if opts.rtl {
			sess.Board.Params.RTL = true
		}
		return sess, nil
	}

	target := strings.Fields(opts.target)
	words := args
	if len(words) == 0 {
		if len(target) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "provide words or --target")
		}
		words = shuffled(target)
	}
	if err := errors.ValidateWords(words); err != nil {
		return nil, err
	}

	b := wordbank.NewBoard(words, cellParams(0, opts.rtl))
	sess := session.New(b, savedGameTTL)
	if len(target) > 0 {
		sess.Target = target
	}
	return sess, nil
}

// shuffled returns a shuffled copy of words that differs from the input
// whenever the words are not all equal.
func shuffled(words []string) []string {
	out := append([]string(nil), words...)
	for range 8 {
		rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		if strings.Join(out, " ") != strings.Join(words, " ") {
			break
		}
	}
	return out
}
