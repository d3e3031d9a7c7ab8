package explain_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/katalvlaran/gnnwalk/explain"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := explain.ParseConfig([]byte(`
method: gnn_gi
num_classes: 2
sparsity: 0.7
gamma: [0.5, 0.25]
parallelism: 4
crop: true
time_limit: 30s
log_level: debug
`))
	require.NoError(t, err)
	require.Equal(t, "gnn_gi", cfg.Method)
	require.Equal(t, 2, cfg.NumClasses)
	require.Equal(t, 0.7, cfg.Sparsity)
	require.Equal(t, []float64{0.5, 0.25}, cfg.Gamma)
	require.Equal(t, 30*time.Second, cfg.TimeLimit)
	require.True(t, cfg.Crop)

	ex, err := explain.New(unitModel(t, true), explain.WithConfig(*cfg))
	require.NoError(t, err)
	o := ex.Options()
	require.Equal(t, explain.MethodGNNGI, o.Method)
	require.Equal(t, []int{0, 1}, o.Labels)
	require.Equal(t, 0.7, o.Sparsity)
	require.Equal(t, []float64{0.5, 0.25}, o.Gamma)
	require.Equal(t, 4, o.Parallelism)
	require.True(t, o.Crop)
	require.Equal(t, 30*time.Second, o.TimeLimit)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := explain.ParseConfig(nil)
	require.NoError(t, err)
	require.Equal(t, explain.DefaultConfig(), *cfg)

	ex, err := explain.New(unitModel(t, true), explain.WithConfig(*cfg))
	require.NoError(t, err)
	require.Equal(t, explain.DefaultMethod, ex.Options().Method)
	require.Nil(t, ex.Options().Labels)
}

func TestParseConfigInvalid(t *testing.T) {
	cases := map[string]string{
		"Method":     "method: saliency\n",
		"Sparsity":   "sparsity: 1.5\n",
		"Gamma":      "gamma: [1, -2]\n",
		"LogLevel":   "log_level: loud\n",
		"NumClasses": "num_classes: -1\n",
		"Epsilon":    "epsilon: .inf\n",
		"Gamma[1]":   "gamma: [1, .nan]\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := explain.ParseConfig([]byte(doc))
			require.ErrorIs(t, err, explain.ErrInvalidConfig)
			require.Contains(t, err.Error(), name)
		})
	}

	_, err := explain.ParseConfig([]byte("unknown_key: 1\n"))
	require.Error(t, err)
	_, err = explain.ParseConfig([]byte("sparsity: [\n"))
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explain.yaml")
	require.NoError(t, os.WriteFile(path, []byte("method: gnn_lrp\nsparsity: 0.25\n"), 0o600))

	cfg, err := explain.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 0.25, cfg.Sparsity)

	_, err = explain.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestWithConfigLogLevel: the configured level applies to a derived logger only.
func TestWithConfigLogLevel(t *testing.T) {
	cfg, err := explain.ParseConfig([]byte("method: gnn_lrp\nlog_level: error\n"))
	require.NoError(t, err)

	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.DebugLevel})
	ex, err := explain.New(unitModel(t, true), explain.WithLogger(logger), explain.WithConfig(*cfg))
	require.NoError(t, err)

	require.Equal(t, log.DebugLevel, logger.GetLevel())
	require.Equal(t, log.ErrorLevel, ex.Options().Logger.GetLevel())
	require.NotSame(t, logger, ex.Options().Logger)
}
