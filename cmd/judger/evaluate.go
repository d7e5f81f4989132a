package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FashOJ/LogicJudger/internal/model"
)

var (
	evalTaskID   int64
	evalTaskType string
	evalMode     string
	evalLevel    int
	evalLanguage string
	evalExecute  bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <program file>",
	Short: "Evaluate a program file locally and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvaluate,
}

func init() {
	f := evaluateCmd.Flags()
	f.Int64VarP(&evalTaskID, "task", "t", 0, "Task id")
	f.StringVar(&evalTaskType, "type", string(model.TaskDatalog), "Task type (datalog, asp)")
	f.StringVarP(&evalMode, "mode", "m", string(model.ModeDiagnose), "Submission mode (run, diagnose, submit)")
	f.IntVarP(&evalLevel, "level", "l", 1, "Feedback level (0-3)")
	f.StringVar(&evalLanguage, "lang", "en", "Feedback language")
	f.BoolVar(&evalExecute, "execute", false, "Only run the program and print the query results (datalog)")
	_ = evaluateCmd.MarkFlagRequired("task")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	input, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	sub := &model.Submission{
		TaskID:        evalTaskID,
		TaskType:      model.TaskType(evalTaskType),
		Mode:          model.SubmissionMode(evalMode),
		FeedbackLevel: evalLevel,
		Language:      evalLanguage,
		Input:         string(input),
	}

	var out any
	if evalExecute {
		out, err = a.judge.Execute(cmd.Context(), sub)
	} else {
		out, err = a.judge.Evaluate(cmd.Context(), sub)
	}
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", args[0], err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
