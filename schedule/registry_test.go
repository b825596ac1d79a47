package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfbarbieri/sinkingfund/fund"
	"github.com/gfbarbieri/sinkingfund/schedule"
)

func TestSchedulerRegistry(t *testing.T) {
	r := schedule.NewRegistry()
	assert.Equal(t, []string{"independent", "smoothing"}, r.Names())

	s, err := r.New("independent")
	require.NoError(t, err)
	assert.Equal(t, "independent", s.Name())

	s, err = r.New("smoothing")
	require.NoError(t, err)
	assert.Equal(t, "smoothing", s.Name())

	_, err = r.New("magic")
	assert.ErrorIs(t, err, fund.ErrUnknownStrategy)
}
