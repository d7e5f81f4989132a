package runner

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FashOJ/LogicJudger/internal/model"
	"github.com/FashOJ/LogicJudger/internal/program"
)

// QueryRunner 在 Runner 之上执行 Datalog 查询与 ASP 程序
type QueryRunner struct {
	runner      Runner
	encoder     *program.Encoder
	logger      *zap.Logger
	parallelism int
}

// NewQueryRunner parallelism 限制同一次调用里并发运行的查询数
func NewQueryRunner(r Runner, encoder *program.Encoder, logger *zap.Logger, parallelism int) *QueryRunner {
	if parallelism < 1 {
		parallelism = 1
	}
	return &QueryRunner{
		runner:      r,
		encoder:     encoder,
		logger:      logger,
		parallelism: parallelism,
	}
}

// Query 先以 -nofacts 运行整个程序，再对每个查询以 -cautious 运行一次，
// 结果按查询谓词名归类，每个非空输出行是一条结果。
func (q *QueryRunner) Query(ctx context.Context, facts, rules string, queries []string, exempt []model.TermDescription, encode bool) (*model.ExecutionResult, error) {
	if encode {
		facts = q.encoder.Encode(facts, exempt)
	}
	input := facts + "\n" + rules + "\n"

	raw, err := q.runner.Execute(ctx, input, FlagNoFacts)
	if err != nil {
		return nil, err
	}
	if raw.ExitCode != 0 {
		return nil, classifyFailure(raw.Output)
	}

	rows := make([][]string, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(q.parallelism)
	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			out, err := q.runner.Execute(gctx, input+query, FlagCautious)
			if err != nil {
				return err
			}
			if out.ExitCode != 0 {
				return fmt.Errorf("%w: query %q: %s", ErrExecution, query, out.Output)
			}
			rows[i] = nonBlankLines(out.Output)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(map[string][]string, len(queries))
	for i, query := range queries {
		result[program.PredicateOf(query)] = rows[i]
	}
	q.logger.Debug("Queries finished", zap.Int("queries", len(queries)))
	return &model.ExecutionResult{Output: raw.Output, Result: result}, nil
}

// Run 以 -nofacts 运行 ASP 程序，maxN 不为空时追加 -N=<maxN>，返回原始输出
func (q *QueryRunner) Run(ctx context.Context, facts, rules string, maxN *int) (string, error) {
	args := []string{FlagNoFacts}
	if maxN != nil {
		args = append(args, fmt.Sprintf("-N=%d", *maxN))
	}
	out, err := q.runner.Execute(ctx, facts+"\n"+rules+"\n", args...)
	if err != nil {
		return "", err
	}
	if out.ExitCode != 0 {
		return "", classifyFailure(out.Output)
	}
	return out.Output, nil
}

func nonBlankLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
