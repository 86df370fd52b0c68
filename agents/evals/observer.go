/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"maps"
	"path"
	"slices"
	"sync"

	"chainguard.dev/mathagent/agents/agenttrace"
)

// Observer receives the verdicts of checks run against completed traces.
// Increment is called once per trace; Fail and Grade at most once per trace
// and check; Log any number of times.
type Observer interface {
	Fail(msg string)
	Log(msg string)
	Grade(score float64, reasoning string)
	Increment()
	Total() int64
}

// ObservableTraceCallback is a check that reports to an Observer.
type ObservableTraceCallback[T any] func(Observer, *agenttrace.Trace[T])

// Inject binds a check to obs, counting every trace it sees.
func Inject[T any](obs Observer, callback ObservableTraceCallback[T]) agenttrace.TraceCallback[T] {
	return func(trace *agenttrace.Trace[T]) {
		obs.Increment()
		callback(obs, trace)
	}
}

// NamespacedObserver is a tree of observers keyed by slash separated paths
// such as "/add/no-errors". Each node forwards to its own observer, built by
// the factory from the node's path.
type NamespacedObserver[T Observer] struct {
	path    string
	inner   T
	factory func(string) T

	mu       sync.Mutex
	children map[string]*NamespacedObserver[T]
}

// NewNamespacedObserver returns the root ("/") of a new tree.
func NewNamespacedObserver[T Observer](factory func(string) T) *NamespacedObserver[T] {
	return newNode("/", factory)
}

func newNode[T Observer](p string, factory func(string) T) *NamespacedObserver[T] {
	return &NamespacedObserver[T]{
		path:     p,
		inner:    factory(p),
		factory:  factory,
		children: map[string]*NamespacedObserver[T]{},
	}
}

func (n *NamespacedObserver[T]) Fail(msg string) { n.inner.Fail(msg) }
func (n *NamespacedObserver[T]) Log(msg string) { n.inner.Log(msg) }
func (n *NamespacedObserver[T]) Grade(score float64, r string) { n.inner.Grade(score, r) }
func (n *NamespacedObserver[T]) Increment() { n.inner.Increment() }
func (n *NamespacedObserver[T]) Total() int64 { return n.inner.Total() }

// Child returns the node for name below n, creating it on first use.
func (n *NamespacedObserver[T]) Child(name string) *NamespacedObserver[T] {
	n.mu.Lock()
	defer n.mu.Unlock()
	child, ok := n.children[name]
	if !ok {
		child = newNode(path.Join(n.path, name), n.factory)
		n.children[name] = child
	}
	return child
}

// Walk visits n and then its subtrees, children in name order.
func (n *NamespacedObserver[T]) Walk(visitor func(string, T)) {
	visitor(n.path, n.inner)

	n.mu.Lock()
	names := slices.Sorted(maps.Keys(n.children))
	children := make([]*NamespacedObserver[T], len(names))
	for i, name := range names {
		children[i] = n.children[name]
	}
	n.mu.Unlock()

	for _, child := range children {
		child.Walk(visitor)
	}
}
