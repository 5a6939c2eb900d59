// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main is the main picire program of this project.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"picire/logger"
	"picire/tools"
)

var rootCmd = cobra.Command{
	Use:           "picire",
	Short:         "Minimizes an interesting test case to a 1-minimal witness",
	Long:          "",
	SilenceUsage:  true,
	SilenceErrors: true,

	TraverseChildren: true,
	RunE:             reduceRun,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch rootFlags.log {
		case "INFO":
			logger.SetLevel(logger.INFO)
		case "WARN":
			logger.SetLevel(logger.WARN)
		default:
			logger.SetLevel(logger.ERROR)
		}
		if rootFlags.debug {
			logger.SetLevel(logger.DEBUG)
		}
		if rootFlags.quiet {
			logger.SetFileDescriptor(nil)
		}
	},
}

func init() {
	tools.RegEnv("PICIRE_DEFAULT_CACHE", "config", "Default outcome cache (none|config|content)")
	tools.RegEnv("PICIRE_DEFAULT_ATOM", "line", "Default unit of reduction (line|char)")

	helpMessage :=
		`picire -- Parallel minimizing delta debugging of interesting test cases`

	helpMessage += "\n\nEnvironment Variables:"
	for _, ev := range tools.GetEnvvars() {
		helpMessage += "\n  " + ev.Name + " " +
			"(default: \"" + ev.Defv + "\")\n\t" + ev.Desc
	}
	rootCmd.Long = helpMessage

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootFlags.log, "log", "ERROR", "log level (ERROR|INFO|WARN)")
	flags.BoolVarP(&rootFlags.debug, "debug", "d", false, "set debug mode")
	flags.BoolVarP(&rootFlags.quiet, "quiet", "q", false, "do not produce output")

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	initReduce()
}

var rootFlags struct {
	log   string
	debug bool
	quiet bool
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var (
			code = getErrorCode(err)
			msg  = getErrorMessage(err)
		)
		if msg != "" {
			logger.Println(msg)
		}
		os.Exit(code)
	}
}
