package robotfile

import (
	"fmt"
	"io"
	"os"
)

// LoadOptions configures how programs are loaded.
type LoadOptions struct {
	ExtendedActions bool // accept turnAround, shieldOn, shieldOff
}

func (o LoadOptions) parserOptions() []Option {
	var opts []Option
	if o.ExtendedActions {
		opts = append(opts, WithExtendedActions())
	}
	return opts
}

// ParseString parses a program from a string.
func ParseString(input string, opts ...Option) (*Program, error) {
	prog, err := NewParser(Tokenize(input), opts...).Parse()
	if err != nil {
		return nil, err
	}
	prog.Name = "<input>"
	return prog, nil
}

// ParseReader parses a program read from r. name is recorded on the program.
func ParseReader(name string, r io.Reader, opts ...Option) (*Program, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	prog, err := NewParser(Tokenize(string(content)), opts...).Parse()
	if err != nil {
		return nil, err
	}
	prog.Name = name
	return prog, nil
}

// LoadFile loads and parses a program from the given path.
func LoadFile(path string) (*Program, error) {
	return LoadFileWithOptions(path, LoadOptions{})
}

// LoadFileWithOptions loads a program with custom options.
func LoadFileWithOptions(path string, opts LoadOptions) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	defer f.Close()

	return ParseReader(path, f, opts.parserOptions()...)
}
