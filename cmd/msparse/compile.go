package main

import (
	"fmt"
	"os"

	"github.com/microses/peg/bnf"
	"github.com/microses/peg/template"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// compileCmd only accepts action-free grammars: a semantic action is a
// Go closure (spec.md §6.2), which a text file on disk cannot carry. A
// grammar with actions must be compiled through the bnf.Compile Go API
// directly, passing the action values as the template's holes.
var compileCmd = &cobra.Command{
	Use:   "compile <grammar-file>",
	Short: "Compile an action-free grammar and print its rule table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		rs, err := bnf.Compile(template.Of([]string{string(src)}))
		if err != nil {
			logger.Error("grammar failed to compile", zap.String("file", args[0]), zap.Error(err))
			return err
		}

		fmt.Print(rs.Describe())
		return nil
	},
}
