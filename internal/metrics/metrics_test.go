package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.LoginsTotal.WithLabelValues(ResultSuccess).Inc()
	m.LoginsTotal.WithLabelValues(ResultRejected).Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues(ResultRejected)))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["jobtrackr_logins_total"])
}

func TestNewTwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestNopIsUsable(t *testing.T) {
	m := Nop()
	m.MailSendsTotal.WithLabelValues(ResultError).Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MailSendsTotal.WithLabelValues(ResultError)))
}
