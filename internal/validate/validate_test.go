// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/textpatch/pkg/types"
)

func TestGate_UnregisteredHintPasses(t *testing.T) {
	g := NewGate()

	assert.Nil(t, g.Validate("{{{ not valid anything", ".txt"))
	assert.Nil(t, g.Validate("§§§", ""))
}

func TestGate_Register(t *testing.T) {
	g := NewEmptyGate()
	g.Register(".cfg", rejectAll{})

	d := g.Validate("anything", ".cfg")
	require.NotNil(t, d)
	assert.Equal(t, "rejected", d.Message)

	// Hints match case-insensitively.
	assert.NotNil(t, g.Validate("anything", ".CFG"))
}

// rejectAll is a validator that fails everything, for gate tests.
type rejectAll struct{}

func (rejectAll) Validate(string) *types.Diagnostic {
	return &types.Diagnostic{Message: "rejected"}
}

func TestGoValidator(t *testing.T) {
	v := GoValidator{}

	t.Run("valid source passes", func(t *testing.T) {
		assert.Nil(t, v.Validate("package main\n\nfunc main() {}\n"))
	})

	t.Run("unbalanced brace is rejected with position", func(t *testing.T) {
		d := v.Validate("package main\n\nfunc main() {\n")
		require.NotNil(t, d)
		assert.NotEmpty(t, d.Message)
		assert.Greater(t, d.Line, 0)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		assert.NotNil(t, v.Validate("this is not go"))
	})
}

func TestSitterValidator_Python(t *testing.T) {
	g := NewGate()

	t.Run("valid python passes", func(t *testing.T) {
		assert.Nil(t, g.Validate("def f(x):\n    return x + 1\n", ".py"))
	})

	t.Run("unclosed paren is rejected", func(t *testing.T) {
		d := g.Validate("def f(x:\n    return x + 1\n", ".py")
		require.NotNil(t, d)
		assert.Contains(t, d.Message, "python")
	})
}

func TestSitterValidator_YAML(t *testing.T) {
	g := NewGate()

	assert.Nil(t, g.Validate("timeout: 30\nretries: 3\n", ".yaml"))
	assert.Nil(t, g.Validate("timeout: 30\n", ".yml"))

	d := g.Validate("key: [unclosed\n", ".yaml")
	require.NotNil(t, d)
	assert.Contains(t, d.Message, "yaml")
}

func TestSitterValidator_JavaScript(t *testing.T) {
	g := NewGate()

	assert.Nil(t, g.Validate("function f(x) { return x + 1; }\n", ".js"))

	d := g.Validate("function f(x { return x; }\n", ".js")
	require.NotNil(t, d)
	assert.Greater(t, d.Line, 0)
}

func TestSitterValidator_TypeScript(t *testing.T) {
	g := NewGate()

	assert.Nil(t, g.Validate("const x: number = 1;\n", ".ts"))
	assert.NotNil(t, g.Validate("interface X {\n", ".ts"))
}
