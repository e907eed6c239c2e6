package hook_test

import (
	"context"
	"testing"

	"github.com/glorpus-work/relfetch/pkg/errors"
	"github.com/glorpus-work/relfetch/pkg/hook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTengoExecutor(t *testing.T) {
	executor := hook.NewTengoExecutor()
	hctx := hook.HookContext{
		Repository: "cli/cli",
		Tag:        "v2.60.1",
		AssetName:  "gh_2.60.1_linux_amd64.tar.gz",
		LocalPath:  "/opt/bin/gh",
		Digest:     "9708beac",
		Extracted:  true,
		Vars: map[string]interface{}{
			"customVar": "customValue",
		},
	}
	ctx := context.Background()

	t.Run("Execute empty script", func(t *testing.T) {
		executor.AddScript(hook.PreFetch, `// This is a valid script that does nothing`)

		err := executor.Execute(ctx, hook.PreFetch, hctx)
		assert.NoError(t, err, "Execute should not return an error for valid script")
	})

	t.Run("Execute script with runtime error", func(t *testing.T) {
		executor.AddScript(hook.PostFetch, `non_existent_function()`)

		err := executor.Execute(ctx, hook.PostFetch, hctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrHookExecution)
	})

	t.Run("Execute non-existent script", func(t *testing.T) {
		err := executor.Execute(ctx, "non-existent-hook", hctx)
		assert.NoError(t, err, "Execute should not return an error for non-existent hook")
	})

	t.Run("HasScript check", func(t *testing.T) {
		hookType := hook.HookType("test-hook")
		assert.False(t, executor.HasScript(hookType), "Should not have script before adding")

		executor.AddScript(hookType, "// test script")
		assert.True(t, executor.HasScript(hookType), "Should have script after adding")

		executor.RemoveScript(hookType)
		assert.False(t, executor.HasScript(hookType), "Should not have script after removal")
	})

	t.Run("Context variables are accessible", func(t *testing.T) {
		executor.AddScript(hook.PostFetch, `
			text := import("text")
			if repository != "cli/cli" || tag != "v2.60.1" || !extracted || verified {
				err = "unexpected flags"
			}
			if !text.has_prefix(assetName, "gh_") || localPath != "/opt/bin/gh" || digest != "9708beac" {
				err = "unexpected paths"
			}
			if vars.customVar != "customValue" || hookType != "post-fetch" {
				err = "unexpected vars"
			}
		`)

		err := executor.Execute(ctx, hook.PostFetch, hctx)
		assert.NoError(t, err, "Context variables should be accessible in script")
	})

	t.Run("Script reports failure through err", func(t *testing.T) {
		executor.AddScript(hook.PostFetch, `err = "checksum policy violated for " + assetName`)

		err := executor.Execute(ctx, hook.PostFetch, hctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrHookScript)
		assert.Contains(t, err.Error(), "checksum policy violated for gh_2.60.1_linux_amd64.tar.gz")
	})

	t.Run("Script reports failure through an error value", func(t *testing.T) {
		executor.AddScript(hook.PostFetch, `err = error("disk quota")`)

		err := executor.Execute(ctx, hook.PostFetch, hctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrHookScript)
		assert.Contains(t, err.Error(), "disk quota")
	})

	t.Run("Cancelled context stops the script", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		executor.AddScript(hook.PostFetch, `for { }`)

		err := executor.Execute(cctx, hook.PostFetch, hctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
