// Package routing implements the conversation routing rule engine: it decides,
// for a conversation flagged for human handoff, which business rule applies and
// what routing side-effects follow.
//
// The engine consists of several key components:
//
// 1. Condition / ConditionEvaluator: typed predicates over conversation state
// 2. RuleAction / ActionExecutor: ordered side-effects of a matched rule
// 3. RoutingRule / RoutingConfig: the validated, priority-ordered rule set
// 4. Engine: evaluation orchestrator with caching and diagnostics
// 5. RuleProfiler / EngineMetrics: per-rule timings and engine-wide counters
//
// Key behaviors:
//
// - Rules are evaluated priority-descending, first full match wins
// - Conditions combine with AND and short-circuit on the first failure
// - Condition evaluation fails closed: malformed input never matches and never panics
// - Actions run strictly in declaration order; a failing action is recorded and skipped
// - Per-(rule, conversation) condition results are cached with coarse TTL invalidation
//
// Example usage:
//
//	cond, _ := routing.NewCondition(routing.ConditionUserAttribute, "tier", routing.OpEquals, "vip")
//	action, _ := routing.NewRuleAction(routing.ActionAssignToQueue, map[string]interface{}{
//		"queue_name": "vip-support",
//	})
//	rule, _ := routing.NewRoutingRule("vip-queue", 900, []*routing.Condition{cond}, []*routing.RuleAction{action})
//
//	cfg := routing.NewRoutingConfig()
//	_ = cfg.AddRule(rule)
//
//	engine, _ := routing.NewEngine(cfg)
//	result := engine.Evaluate(ctx, conv, decision, map[string]interface{}{})
//	if result != nil {
//		log.Printf("matched %s: %s", result.RuleName, result.Decision)
//	}
package routing
