package yolov4

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-nms/images"
	"github.com/nvr-ai/go-nms/models/model"
	"github.com/nvr-ai/go-nms/models/postprocess"
)

func row(cx, cy, w, h, objectness float32, class int, score float32) []float32 {
	r := make([]float32, NumColumns)
	r[0], r[1], r[2], r[3], r[4] = cx, cy, w, h, objectness
	r[5+class] = score
	return r
}

func TestPostProcess(t *testing.T) {
	m, err := NewModel(model.NewModelArgs{})
	require.NoError(t, err)

	var output []float32
	output = append(output, row(50, 50, 20, 20, 0.9, 2, 1)...)
	output = append(output, row(51, 50, 20, 20, 0.8, 2, 1)...)
	output = append(output, row(51, 50, 20, 20, 0.8, 7, 1)...)
	output = append(output, row(300, 300, 40, 40, 0.2, 0, 1)...)

	rs, err := m.PostProcess(output)
	require.NoError(t, err)
	assert.Equal(t, postprocess.ResultSet{
		{Box: images.Rect{X1: 40, Y1: 40, X2: 60, Y2: 60}, Score: 0.9, Class: 2},
		{Box: images.Rect{X1: 41, Y1: 40, X2: 61, Y2: 60}, Score: 0.8, Class: 7},
	}, rs)
}

func TestPostProcessMalformed(t *testing.T) {
	m, err := NewModel(model.NewModelArgs{})
	require.NoError(t, err)

	_, err = m.PostProcess(make([]float32, NumColumns+1))
	assert.True(t, errors.Is(err, postprocess.ErrInvalidShape))

	rs, err := m.PostProcess(nil)
	require.NoError(t, err)
	assert.Empty(t, rs)
}
