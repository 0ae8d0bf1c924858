// Package buildflags parses compiler build flags (as found in a project's
// build_flags setting) into a structured flag set.
package buildflags

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnterminatedQuote = errors.New("unterminated quote")
	ErrTrailingEscape    = errors.New("trailing backslash")
	ErrMissingOperand    = errors.New("option requires an operand")
)

// Define is a single preprocessor define from a -D flag.
type Define struct {
	Name     string
	Value    string
	HasValue bool
}

func (d Define) String() string {
	if !d.HasValue {
		return d.Name
	}
	return d.Name + "=" + d.Value
}

// Flags is the structured form of a raw build-flags string.
type Flags struct {
	CPPDefines     []Define
	Undefines      []string
	CPPPath        []string
	LibPath        []string
	Libs           []string
	ForcedIncludes []string
	CCFlags        []string
	Other          []string
}

// ParseFlags splits raw with shell quoting rules and sorts the words into
// their flag categories.
func ParseFlags(raw string) (*Flags, error) {
	words, err := Split(raw)
	if err != nil {
		return nil, err
	}

	f := &Flags{}
	for i := 0; i < len(words); i++ {
		w := words[i]

		// -include must be checked before -I.
		if w == "-include" {
			if i+1 >= len(words) {
				return nil, fmt.Errorf("%s: %w", w, ErrMissingOperand)
			}
			i++
			f.ForcedIncludes = append(f.ForcedIncludes, words[i])
			continue
		}

		opt, arg, ok := splitOption(w)
		if !ok {
			if strings.HasPrefix(w, "-") {
				f.CCFlags = append(f.CCFlags, w)
			} else {
				f.Other = append(f.Other, w)
			}
			continue
		}
		if arg == "" {
			if i+1 >= len(words) {
				return nil, fmt.Errorf("%s: %w", w, ErrMissingOperand)
			}
			i++
			arg = words[i]
		}

		switch opt {
		case "-D":
			f.CPPDefines = append(f.CPPDefines, parseDefine(arg))
		case "-U":
			f.Undefines = append(f.Undefines, arg)
		case "-I":
			f.CPPPath = append(f.CPPPath, arg)
		case "-L":
			f.LibPath = append(f.LibPath, arg)
		case "-l":
			f.Libs = append(f.Libs, arg)
		}
	}
	return f, nil
}

func splitOption(w string) (opt, arg string, ok bool) {
	if len(w) < 2 {
		return "", "", false
	}
	switch w[:2] {
	case "-D", "-U", "-I", "-L", "-l":
		return w[:2], w[2:], true
	}
	return "", "", false
}

func parseDefine(s string) Define {
	name, value, found := strings.Cut(s, "=")
	return Define{Name: name, Value: value, HasValue: found}
}

// Defines builds the define mapping. Later defines of the same name replace
// earlier ones.
func (f *Flags) Defines() Defines {
	d := make(Defines, len(f.CPPDefines))
	for _, def := range f.CPPDefines {
		d[def.Name] = def.Value
	}
	return d
}

// Defines maps preprocessor define names to their values. A define given
// without a value maps to "".
type Defines map[string]string

// Lookup returns the value for name and whether it was defined at all.
func (d Defines) Lookup(name string) (string, bool) {
	v, ok := d[name]
	return v, ok
}
