package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vinayprograms/robot/internal/robotfile"
	"gopkg.in/yaml.v3"
)

// Run shows the program's structure.
func (c *InspectCmd) Run() error {
	return runInspect(os.Stdout, c.File, c.Format, c.Tokens, c.Extended)
}

func runInspect(w io.Writer, path, format string, tokens, extended bool) error {
	if tokens {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read program: %w", err)
		}
		return printTokens(w, robotfile.Tokenize(string(content)), format)
	}

	prog, err := robotfile.LoadFileWithOptions(path, robotfile.LoadOptions{ExtendedActions: extended})
	if err != nil {
		return err
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(robotfile.Describe(prog)); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(robotfile.Describe(prog))
	default:
		fmt.Fprintf(w, "Program: %s\n", prog.Name)
		if vars := prog.Variables(); len(vars) > 0 {
			fmt.Fprintf(w, "Variables: %v\n", vars)
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, prog.String())
		return nil
	}
}

// tokenView is the exported form of a token.
type tokenView struct {
	Type    string `yaml:"type" json:"type"`
	Literal string `yaml:"literal" json:"literal"`
	Line    int    `yaml:"line" json:"line"`
	Column  int    `yaml:"column" json:"column"`
}

func printTokens(w io.Writer, toks []robotfile.Token, format string) error {
	views := make([]tokenView, len(toks))
	for i, t := range toks {
		views[i] = tokenView{Type: t.Type.String(), Literal: t.Literal, Line: t.Pos.Line, Column: t.Pos.Column}
	}

	switch format {
	case "yaml":
		out, err := yaml.Marshal(views)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	default:
		for _, v := range views {
			fmt.Fprintf(w, "%4d:%-3d %-12s %s\n", v.Line, v.Column, v.Type, v.Literal)
		}
		return nil
	}
}
