package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// componentsDir is the shared example components directory.
var componentsDir = filepath.Join("..", "..", "testdata", "components")

// writeComponents writes CUE files into a fresh directory and returns it.
func writeComponents(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

const cyclicComponent = `package components

component: Loop: {
	statements: [{key: "a"}]
	variables: [
		{key: "local,l1", deps: ["local,l2"]},
		{key: "local,l2", deps: ["local,l1"]},
		{key: "prop,x", deps: ["local,l1"]},
	]
	body: ["update_a"]
}
`
