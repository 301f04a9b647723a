package services

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// StatusPolicy is an optional guard on status transitions, written as a
// boolean expression over `from` and `to`, e.g.
//
//	from != "Hired" && from != "Reject"
//
// A nil policy allows every transition.
type StatusPolicy struct {
	rule    string
	program *vm.Program
}

func NewStatusPolicy(rule string) (*StatusPolicy, error) {
	if rule == "" {
		return nil, nil
	}
	program, err := expr.Compile(rule, expr.Env(transitionEnv("", "")), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile status transition rule: %w", err)
	}
	return &StatusPolicy{rule: rule, program: program}, nil
}

func (p *StatusPolicy) Allows(from, to string) (bool, error) {
	if p == nil {
		return true, nil
	}
	out, err := expr.Run(p.program, transitionEnv(from, to))
	if err != nil {
		return false, fmt.Errorf("evaluate status transition rule: %w", err)
	}
	allowed, _ := out.(bool)
	return allowed, nil
}

func transitionEnv(from, to string) map[string]any {
	return map[string]any{"from": from, "to": to}
}
