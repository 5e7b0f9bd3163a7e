package CLI

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputSkipsBlankLines(t *testing.T) {
	cli := make(chan string, 8)
	Input(strings.NewReader("decide\n\n  \n stats \nquit"), cli)

	var got []string
	for line := range cli {
		got = append(got, line)
	}
	assert.Equal(t, []string{"decide", "stats", "quit"}, got)
}
