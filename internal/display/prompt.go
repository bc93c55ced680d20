package display

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter asks on a terminal which quality to play.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Select prints the numbered labels and reads a choice. An empty line, "q",
// end of input or a cancelled context count as no selection. Invalid input
// asks again.
func (p *Prompter) Select(ctx context.Context, labels []string) (int, bool) {
	fmt.Fprintln(p.out, "Select Quality")
	for i, l := range labels {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, l)
	}

	for {
		if ctx.Err() != nil {
			return -1, false
		}
		fmt.Fprint(p.out, "> ")
		line, err := p.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" || strings.EqualFold(line, "q") {
			return -1, false
		}
		n, convErr := strconv.Atoi(line)
		if convErr == nil && n >= 1 && n <= len(labels) {
			return n - 1, true
		}
		if err != nil {
			return -1, false
		}
		fmt.Fprintf(p.out, "enter a number between 1 and %d\n", len(labels))
	}
}
