package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localization-field/internal/agent"
	"localization-field/internal/field"
	"localization-field/internal/sensor"
)

const scenarioYAML = `
id: dump-test
robot: {x: 6, y: 6, heading: 0}
objects:
  - {type: obstacle, x: 8, y: 6, width: 1, height: 1}
  - {type: landmark, x: 6, y: 9}
`

func loadScenario(t *testing.T) *field.World {
	t.Helper()
	w, err := field.LoadScenario(strings.NewReader(scenarioYAML), nil)
	require.NoError(t, err)
	return w
}

func TestBuildReport(t *testing.T) {
	w := loadScenario(t)
	readings, err := sensor.ReadWorld(w)
	require.NoError(t, err)

	r := buildReport(w, readings)
	require.Len(t, r.Readings, field.SensorCount)
	assert.Equal(t, "dump-test", r.Scenario)
	assert.Equal(t, "front", r.Readings[0].Slot)
	assert.InDelta(t, 1.05, r.Readings[0].Distance, 1e-9)
	assert.InDelta(t, 5.55, r.Readings[3].Distance, 1e-9, "landmark in the left beam does not block")

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, r))
	assert.Contains(t, buf.String(), "scenario: dump-test")
	assert.NotContains(t, buf.String(), "estimate")
}

func TestLocalizeReport(t *testing.T) {
	w := loadScenario(t)
	readings, err := sensor.ReadWorld(w)
	require.NoError(t, err)

	est, err := localize(context.Background(), agent.Config{PositionStep: 1, HeadingStep: 90}, w, readings)
	require.NoError(t, err)
	assert.Equal(t, 12*12*4, est.Evaluated)
	assert.GreaterOrEqual(t, est.RMS, 0.0)

	_, err = localize(context.Background(), agent.Config{}, w, readings)
	assert.ErrorIs(t, err, agent.ErrInvalidStep)
}
