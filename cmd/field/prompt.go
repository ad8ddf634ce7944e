package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mawuli/field-survey/model"
)

// prompter wraps stdin/stdout question-and-answer for the capture wizard.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter() *prompter {
	return &prompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

func (p *prompter) say(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *prompter) read(label string) string {
	fmt.Fprintf(p.out, "%s: ", label)
	line, _ := p.in.ReadString('\n')
	return model.Sanitize(line)
}

// text asks for free text; blank stays blank, required-ness is the
// section validation's business.
func (p *prompter) text(label string) string {
	return p.read(label)
}

// number asks for a non-negative integer; blank reads as zero.
func (p *prompter) number(label string) int {
	for {
		answer := p.read(label)
		if answer == "" {
			return 0
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 0 {
			return n
		}
		p.say("  please enter a non-negative number")
	}
}

// choice asks to pick one option by number or by value; blank selects
// nothing.
func (p *prompter) choice(label string, options []string) string {
	for i, opt := range options {
		p.say("  %2d. %s", i+1, opt)
	}
	for {
		answer := p.read(label)
		if answer == "" {
			return ""
		}
		if i, err := strconv.Atoi(answer); err == nil && i >= 1 && i <= len(options) {
			return options[i-1]
		}
		for _, opt := range options {
			if answer == opt {
				return opt
			}
		}
		p.say("  please pick one of the listed options")
	}
}

// multi asks for a comma-separated list of option numbers or values.
func (p *prompter) multi(label string, options []string) []string {
	for i, opt := range options {
		p.say("  %2d. %s", i+1, opt)
	}
	for {
		answer := p.read(label + " (comma separated)")
		if answer == "" {
			return []string{}
		}

		picked := []string{}
		valid := true
		for _, part := range strings.Split(answer, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if i, err := strconv.Atoi(part); err == nil && i >= 1 && i <= len(options) {
				picked = append(picked, options[i-1])
				continue
			}
			found := false
			for _, opt := range options {
				if part == opt {
					picked = append(picked, opt)
					found = true
					break
				}
			}
			if !found {
				valid = false
				break
			}
		}
		if valid {
			return picked
		}
		p.say("  please pick from the listed options")
	}
}

func (p *prompter) yesNo(label string) string {
	for {
		answer := strings.ToLower(p.read(label + " (yes/no)"))
		switch answer {
		case "":
			return ""
		case "y", "yes":
			return "yes"
		case "n", "no":
			return "no"
		}
		p.say("  please answer yes or no")
	}
}

func (p *prompter) pause(label string) {
	p.read(label + " (press enter)")
}
