package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FashOJ/LogicJudger/internal/config"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "judger",
	Short:         "Datalog / ASP judger backed by the DLV solver",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "Path to config file")
	rootCmd.AddCommand(serveCmd, evaluateCmd, healthCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig 默认的 config.yaml 不存在时只使用默认值和环境变量
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configFile
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		path = ""
	}
	return config.Load(path)
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = level
	return zcfg.Build()
}
