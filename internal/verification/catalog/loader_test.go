package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txguard/internal/verification"
	vmetrics "txguard/internal/verification/metrics"
	"txguard/internal/verification/models"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestParse_MergesOverDefaults(t *testing.T) {
	cat, err := Parse([]byte(`
escrow:
  baseline:
    - "All clear"
  multisig: "Check every co-signer"
`))
	require.NoError(t, err)

	defaults := verification.DefaultCatalog()
	assert.Equal(t, []string{"All clear"}, cat[models.DomainEscrow].Baseline)
	assert.Equal(t, "Check every co-signer", cat[models.DomainEscrow].Multisig)
	assert.Equal(t, defaults[models.DomainEscrow].Elevated, cat[models.DomainEscrow].Elevated)
	assert.Equal(t, defaults[models.DomainVoting], cat[models.DomainVoting])
}

func TestParse_EmptyFileYieldsDefaults(t *testing.T) {
	cat, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, verification.DefaultCatalog(), cat)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown domain": "payroll:\n  baseline: [\"x\"]\n",
		"unknown tier":   "escrow:\n  severe: [\"x\"]\n",
		"empty tier":     "voting:\n  medium: []\n",
		"blank entry":    "voting:\n  medium: [\"\"]\n",
		"not yaml map":   "- just\n- a list\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestLoader_ReloadKeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recommendations.yaml")
	writeFile(t, path, "escrow:\n  baseline: [\"v1\"]\n")

	l, err := NewLoader(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1"}, l.Current()[models.DomainEscrow].Baseline)

	var seen []string
	l.OnChange(func(c verification.Catalog) {
		seen = append(seen, c[models.DomainEscrow].Baseline[0])
	})

	writeFile(t, path, "escrow:\n  baseline: []\n")
	_, err = l.Reload()
	require.Error(t, err)
	assert.Equal(t, []string{"v1"}, l.Current()[models.DomainEscrow].Baseline)

	writeFile(t, path, "escrow:\n  baseline: [\"v2\"]\n")
	_, err = l.Reload()
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, l.Current()[models.DomainEscrow].Baseline)
	assert.Equal(t, []string{"v2"}, seen)
}

func TestLoader_OnChangeCountsSuccessfulReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recommendations.yaml")
	writeFile(t, path, "voting:\n  medium: [\"m1\"]\n")

	l, err := NewLoader(path)
	require.NoError(t, err)
	m := vmetrics.New(prometheus.NewRegistry())
	l.OnChange(func(verification.Catalog) { m.CatalogReloaded() })

	_, err = l.Reload()
	require.NoError(t, err)

	writeFile(t, path, "voting:\n  medium: [\"\"]\n")
	_, err = l.Reload()
	require.Error(t, err)

	assert.InDelta(t, 1, promtest.ToFloat64(m.CatalogReloads), 0)
}

func TestNewLoader_MissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoader_WatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recommendations.yaml")
	writeFile(t, path, "voting:\n  baseline: [\"before\"]\n")

	l, err := NewLoader(path)
	require.NoError(t, err)

	stop, err := l.Watch()
	require.NoError(t, err)
	defer stop()

	writeFile(t, path, "voting:\n  baseline: [\"after\"]\n")

	assert.Eventually(t, func() bool {
		return l.Current()[models.DomainVoting].Baseline[0] == "after"
	}, 2*time.Second, 20*time.Millisecond)
}
