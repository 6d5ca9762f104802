//go:build tools
// +build tools

// Package tools tracks code generators used via go generate so they stay
// pinned in go.mod.
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
