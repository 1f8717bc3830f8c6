package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/cs2cpp/internal/errors"
)

func TestNormalize(t *testing.T) {
	o := NewOptions().Apply(
		WithInDir("src/App"),
		WithMain("App.Program"),
		WithRefs(`lib\Core.dll`, "Qt.so"),
		WithPlatform("Windows"),
	)
	o.Normalize()

	assert.Equal(t, "App", o.Target)
	assert.Equal(t, "App::Program", o.Main)
	assert.Equal(t, []string{"lib/Core.dll", "Qt.so"}, o.Refs)
	assert.Equal(t, []string{"Core", "Qt"}, o.Libs())
	assert.Equal(t, PlatformWindows, o.Platform)
	assert.True(t, o.Windows())
	assert.Equal(t, "cpp", o.OutDir)
	assert.Equal(t, DefaultInclude, o.Include)
}

func TestValidate(ttt *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{name: "executable", opts: []Option{WithMain("App::Main")}},
		{name: "library", opts: []Option{WithLibrary()}},
		{name: "shared library", opts: []Option{WithLibrary(), WithShared(), WithMain("App::Main")}},
		{name: "service", opts: []Option{WithService("svc"), WithMain("App::Main")}},
		{name: "executable without main", wantErr: "application requires --main"},
		{name: "shared without library", opts: []Option{WithShared(), WithMain("M")}, wantErr: "--shared requires --library"},
		{name: "shared without main", opts: []Option{WithLibrary(), WithShared()}, wantErr: "--shared requires --main"},
		{name: "corelib without library", opts: []Option{WithCoreLib(), WithMain("M")}, wantErr: "--corelib requires --library"},
		{name: "service library", opts: []Option{WithLibrary(), WithService("svc")}, wantErr: "--service can not be a --library"},
		{name: "service without main", opts: []Option{WithService("svc")}, wantErr: "--service requires --main"},
		{name: "bad platform", opts: []Option{WithLibrary(), WithPlatform("plan9")}, wantErr: `unknown platform "plan9"`},
		{name: "bad print mode", opts: []Option{WithLibrary(), WithPrint("ast")}, wantErr: `unknown print mode "ast"`},
	}
	for _, tt := range tests {
		tt := tt
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := NewOptions().Apply(append([]Option{WithTarget("App")}, tt.opts...)...)
			o.Normalize()
			err := o.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, errors.ErrInvalidOptions))
		})
	}
}
