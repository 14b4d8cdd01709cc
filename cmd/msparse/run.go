package main

import (
	"fmt"
	"os"

	"github.com/microses/peg/bnf"
	"github.com/microses/peg/template"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run <grammar-file> <input-file>",
	Short: "Compile an action-free grammar and run it against an input file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		grammarSrc, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		inputSrc, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}

		rs, err := bnf.Compile(template.Of([]string{string(grammarSrc)}))
		if err != nil {
			logger.Error("grammar failed to compile", zap.String("file", args[0]), zap.Error(err))
			return err
		}
		if debug {
			rs.Debug = true
			rs.Log = logger
		}

		value, err := rs.Parse(template.Of([]string{string(inputSrc)}))
		if err != nil {
			logger.Error("parse failed", zap.String("file", args[1]), zap.Error(err))
			return err
		}

		fmt.Printf("%#v\n", value)
		return nil
	},
}
