package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// terminalUI prompts on the console. It shares the command scanner so answers are read in order.
type terminalUI struct {
	in  *bufio.Scanner
	out io.Writer
}

func (t *terminalUI) Confirm(message string) bool {
	fmt.Fprintf(t.out, "%s [y/N] ", message)
	if !t.in.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(t.in.Text())) {
	case "y", "yes":
		return true
	}
	return false
}

func (t *terminalUI) Alert(message string) {
	fmt.Fprintf(t.out, "! %s\n", message)
}

func (t *terminalUI) Toast(title, description string) {
	fmt.Fprintf(t.out, "* %s: %s\n", title, description)
}
