package secret

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Source lazily resolves a signing secret. A configured value wins, then the
// environment variable, then an interactive prompt. The result is cached after
// the first call.
type Source struct {
	configured string
	envVar     string
	label      string

	isTerminal func() bool
	prompt     func() ([]byte, error)

	once  sync.Once
	value string
	err   error
}

// NewSource constructs a source that prefers configured, then envVar, before
// prompting for label on the terminal.
func NewSource(configured, envVar, label string) *Source {
	return &Source{
		configured: configured,
		envVar:     strings.TrimSpace(envVar),
		label:      strings.TrimSpace(label),
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		prompt:     func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) },
	}
}

// Get returns the cached secret or resolves it on first use. Whitespace-only
// values are rejected wherever they come from.
func (s *Source) Get() (string, error) {
	s.once.Do(func() {
		if strings.TrimSpace(s.configured) != "" {
			s.value = strings.TrimSpace(s.configured)
			return
		}
		if s.envVar != "" {
			if value, ok := os.LookupEnv(s.envVar); ok {
				if strings.TrimSpace(value) == "" {
					s.err = fmt.Errorf("%s is set but empty", s.envVar)
					return
				}
				s.value = strings.TrimSpace(value)
				return
			}
		}

		if !s.isTerminal() {
			if s.envVar != "" {
				s.err = fmt.Errorf("%s required; set %s or run interactively", s.label, s.envVar)
			} else {
				s.err = fmt.Errorf("%s required and no terminal available", s.label)
			}
			return
		}

		fmt.Fprintf(os.Stderr, "Enter %s: ", s.label)
		raw, err := s.prompt()
		fmt.Fprintln(os.Stderr)
		if err != nil {
			s.err = fmt.Errorf("failed to read %s: %w", s.label, err)
			return
		}
		value := strings.TrimSpace(string(raw))
		if value == "" {
			s.err = errors.New(s.label + " cannot be empty")
			return
		}
		s.value = value
	})

	return s.value, s.err
}
