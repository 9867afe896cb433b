package entity

import (
	"math"
	"testing"

	"github.com/akmonengine/rayforce"
	"github.com/akmonengine/rayforce/visual"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsSyncsAndCorrections(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics, err := NewMetrics(registry)
	require.NoError(t, err)

	table, err := NewTable(rayforce.NewWorld(), visual.NewRegistry(), visual.NewInstanceBuffer(), WithMetrics(metrics))
	require.NoError(t, err)

	e := table.Create(mgl64.Vec3{math.NaN(), 0, 0}, "crate")
	e.SetMass(0)
	require.NoError(t, e.AttachBody(unitBox()))
	require.Error(t, e.AttachBody(nil))
	require.NoError(t, e.PullSync())
	require.NoError(t, e.PullSync())
	require.NoError(t, e.PushSync())

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.syncs.WithLabelValues("pull")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.syncs.WithLabelValues("push")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.corrections.WithLabelValues(correctionNonFiniteState)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.corrections.WithLabelValues(correctionInvalidPhysicalProperty)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.attachFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.bodies))

	require.NoError(t, e.Destroy())
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.bodies))

	count, err := testutil.GatherAndCount(registry)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewMetrics(registry)
	require.NoError(t, err)

	_, err = NewMetrics(registry)
	assert.Error(t, err)
}

func TestMetrics_NilRecordsNothing(t *testing.T) {
	var metrics *Metrics

	assert.NotPanics(t, func() {
		metrics.sync("pull")
		metrics.correction(correctionNonFiniteState)
		metrics.attachFailure()
		metrics.bodyCreated()
		metrics.bodyReleased()
	})
}
