package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/FashOJ/LogicJudger/internal/server"
)

// 对 tasks.example.yaml 中的题目发起几次评测
func main() {
	addr := flag.String("addr", "localhost:50053", "Judger address")
	flag.Parse()

	c, err := server.Dial(*addr)
	if err != nil {
		log.Fatalf("did not connect: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	h, err := c.Health(ctx)
	if err != nil {
		log.Fatalf("health failed: %v", err)
	}
	fmt.Printf("Solver up: %v (%s), workers: %d\n", h.Up, h.Version, h.Workers)

	transitive := "path(X, Y) :- edge(X, Y).\npath(X, Z) :- path(X, Y), edge(Y, Z)."

	// 1. 正确
	test(ctx, c, "Datalog correct", 1, "datalog", "submit", 1, transitive)
	// 2. 缺少递归规则
	test(ctx, c, "Datalog missing facts", 1, "datalog", "diagnose", 3, "path(X, Y) :- edge(X, Y).")
	// 3. 语法错误
	test(ctx, c, "Datalog syntax error", 1, "datalog", "diagnose", 1, "path(X, Y) :- edge(X, Y)")
	// 4. ASP 着色
	test(ctx, c, "ASP coloring", 2, "asp", "diagnose", 2,
		"color(N, red) | color(N, green) :- node(N).\n:- edge(X, Y), color(X, C), color(Y, C).")

	res, err := c.Execute(ctx, &server.ExecuteRequest{TaskID: 1, Mode: "run", Input: transitive})
	if err != nil {
		log.Printf("Execute failed: %v\n", err)
		return
	}
	for pred, rows := range res.Result {
		fmt.Printf("[Execute] %s: %v\n", pred, rows)
	}
}

func test(ctx context.Context, c *server.Client, name string, taskID int64, taskType, mode string, level int, input string) {
	fmt.Printf("Running %s...\n", name)
	r, err := c.Evaluate(ctx, &server.EvaluateRequest{
		TaskID:        taskID,
		TaskType:      taskType,
		Mode:          mode,
		FeedbackLevel: level,
		Language:      "en",
		Input:         input,
	})
	if err != nil {
		log.Printf("RPC failed: %v\n", err)
		return
	}
	fmt.Printf("[%s] %s/%s: %s\n", name, r.Points, r.MaxPoints, r.GeneralFeedback)
	for _, crit := range r.Criteria {
		fmt.Printf("  %s (passed=%v): %s\n", crit.Name, crit.Passed, crit.Feedback)
	}
	fmt.Println("--------------------------------------------------")
}
