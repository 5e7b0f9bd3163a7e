package CLI

import (
	"bufio"
	"io"
	"strings"
)

// Input reads commands line by line from r and writes them into cli. Blank lines are
// skipped. cli is closed when r is exhausted or fails.
func Input(r io.Reader, cli chan<- string) {

	defer close(cli)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {

		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		cli <- line

	}

}
