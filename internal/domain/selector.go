package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Selector filters targets by `moduleGlob:symbolGlob` patterns. A leading
// `!` turns a pattern into an exclusion.
type Selector struct {
	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

// NewSelector compiles patterns. A pattern without `:` matches every
// symbol of the matching modules.
func NewSelector(patterns []string) (*Selector, error) {
	s := &Selector{}

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		negated := strings.HasPrefix(pattern, "!")
		pattern = strings.TrimPrefix(pattern, "!")

		if !strings.Contains(pattern, ":") {
			pattern += ":*"
		}

		re, err := compileGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", pattern, err)
		}

		if negated {
			s.exclude = append(s.exclude, re)
		} else {
			s.include = append(s.include, re)
		}
	}

	return s, nil
}

func compileGlob(pattern string) (*regexp.Regexp, error) {
	parts := strings.Split(pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}

	return regexp.Compile("^" + strings.Join(parts, "[^:]*") + "$")
}

// Match reports whether the symbol is selected: at least one include
// pattern matches, or none is configured, and no exclude pattern matches.
func (s *Selector) Match(module, name string) bool {
	subject := module + ":" + name

	included := len(s.include) == 0
	for _, re := range s.include {
		if re.MatchString(subject) {
			included = true
			break
		}
	}

	if !included {
		return false
	}

	for _, re := range s.exclude {
		if re.MatchString(subject) {
			return false
		}
	}

	return true
}
