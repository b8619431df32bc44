package plugin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodalbuild/nodal/internal/config"
	"github.com/nodalbuild/nodal/internal/diag"
)

func TestTransform_RunsInSeriesOverPreviousOutput(t *testing.T) {
	plugins := []config.Plugin{
		{Name: "upper", Transform: func(ctx context.Context, id, code string) (config.TransformResult, error) {
			return config.TransformResult{Handled: true, Code: code + ":upper"}, nil
		}},
		{Name: "lower", Transform: func(ctx context.Context, id, code string) (config.TransformResult, error) {
			return config.TransformResult{Handled: true, Code: code + ":lower"}, nil
		}},
	}
	d := NewDriver(plugins, diag.NewDeferredLog())

	code, custom, err := d.Transform(context.Background(), "/a.js", "src")
	require.NoError(t, err)
	assert.Equal(t, "src:upper:lower", code)
	assert.False(t, custom)
}

func TestTransform_CustomTransformCacheIsStickyAcrossPlugins(t *testing.T) {
	plugins := []config.Plugin{
		{Name: "a", Transform: func(ctx context.Context, id, code string) (config.TransformResult, error) {
			return config.TransformResult{Handled: true, Code: code, CustomTransformCache: true}, nil
		}},
		{Name: "b", Transform: func(ctx context.Context, id, code string) (config.TransformResult, error) {
			return config.TransformResult{Handled: true, Code: code}, nil
		}},
	}
	d := NewDriver(plugins, diag.NewDeferredLog())

	_, custom, err := d.Transform(context.Background(), "/a.js", "src")
	require.NoError(t, err)
	assert.True(t, custom, "one plugin opting out of cache reuse must stick for the whole pipeline")
}

func TestTransform_UnhandledLeavesCodeUntouched(t *testing.T) {
	plugins := []config.Plugin{
		{Name: "noop", Transform: func(ctx context.Context, id, code string) (config.TransformResult, error) {
			return config.TransformResult{Handled: false}, nil
		}},
	}
	d := NewDriver(plugins, diag.NewDeferredLog())

	code, _, err := d.Transform(context.Background(), "/a.js", "src")
	require.NoError(t, err)
	assert.Equal(t, "src", code)
}

func TestTransform_PanicIsRecoveredAsError(t *testing.T) {
	plugins := []config.Plugin{
		{Name: "explodes", Transform: func(ctx context.Context, id, code string) (config.TransformResult, error) {
			panic("boom")
		}},
	}
	d := NewDriver(plugins, diag.NewDeferredLog())

	_, _, err := d.Transform(context.Background(), "/a.js", "src")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explodes")
	assert.Contains(t, err.Error(), "boom")
}

func TestResolveDynamicImport_FirstHandledWins(t *testing.T) {
	plugins := []config.Plugin{
		{Name: "declines", ResolveDynamicImport: func(ctx context.Context, args config.ResolveDynamicImportArgs) (config.ResolveIDResult, error) {
			return config.ResolveIDResult{}, nil
		}},
		{Name: "claims", ResolveDynamicImport: func(ctx context.Context, args config.ResolveDynamicImportArgs) (config.ResolveIDResult, error) {
			return config.ResolveIDResult{Handled: true, ID: "/resolved.js"}, nil
		}},
		{Name: "never-reached", ResolveDynamicImport: func(ctx context.Context, args config.ResolveDynamicImportArgs) (config.ResolveIDResult, error) {
			t.Fatal("later plugin must not run once an earlier one handled the hook")
			return config.ResolveIDResult{}, nil
		}},
	}
	d := NewDriver(plugins, diag.NewDeferredLog())

	result, err := d.ResolveDynamicImport(context.Background(), config.ResolveDynamicImportArgs{Specifier: "./x.js"})
	require.NoError(t, err)
	assert.True(t, result.Handled)
	assert.Equal(t, "/resolved.js", result.ID)
}

func TestResolveDynamicImport_NoneHandledReturnsZeroValue(t *testing.T) {
	d := NewDriver(nil, diag.NewDeferredLog())

	result, err := d.ResolveDynamicImport(context.Background(), config.ResolveDynamicImportArgs{Specifier: "./x.js"})
	require.NoError(t, err)
	assert.False(t, result.Handled)
}
