// Package config bootstraps a process's cluster-level parameters —
// its rank, its cluster size, which synchronization mode it runs, and
// the knobs that mode exposes — behind a functional-options
// constructor in the same shape as core.GraphOption, validated with
// go-playground/validator/v10 before any package wires against it.
package config
