package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	debug bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "msparse",
	Short: "msparse compiles and runs packrat grammars written in the microses BNF dialect",
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log packrat substrate hits/misses and the final failure set")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(runCmd)

	var err error
	logger, err = zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("msparse failed", zap.Error(err))
	}
}
