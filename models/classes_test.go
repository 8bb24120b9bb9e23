package models

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-nms/images"
	"github.com/nvr-ai/go-nms/models/model"
	"github.com/nvr-ai/go-nms/models/postprocess"
)

func TestClassSets(t *testing.T) {
	assert.Len(t, COCOClasses.Classes, 81)
	assert.Len(t, YOLOClasses.Classes, 80)
	assert.Len(t, PascalVOCClasses.Classes, 21)
	assert.Equal(t, "person", LookupName(model.ModelFamilyYOLO, 0))
	assert.Equal(t, "person", LookupName(model.ModelFamilyCOCO, 1))
	assert.Equal(t, "", LookupName(model.ModelFamilyVOC, 21))
	assert.Equal(t, "", LookupName("unknown", 0))
}

func TestClassManager(t *testing.T) {
	mgr := NewClassManager(&YOLOClasses, &PascalVOCClasses)

	name, err := mgr.GetName(model.ModelFamilyYOLO, 2)
	require.NoError(t, err)
	assert.Equal(t, "car", name)

	idx, err := mgr.GetIndex(model.ModelFamilyVOC, "car")
	require.NoError(t, err)
	assert.Equal(t, 7, idx)

	mapped, err := mgr.MapClass(model.ModelFamilyYOLO, 1, model.ModelFamilyVOC)
	require.NoError(t, err)
	assert.Equal(t, OutputClass{Index: 2, Name: "bicycle"}, mapped)

	_, err = mgr.GetName(model.ModelFamilyTF, 0)
	assert.True(t, errors.Is(err, ErrUnknownClass))
	_, err = mgr.GetName(model.ModelFamilyYOLO, 80)
	assert.True(t, errors.Is(err, ErrUnknownClass))
	_, err = mgr.MapClass(model.ModelFamilyYOLO, 3, model.ModelFamilyVOC)
	assert.True(t, errors.Is(err, ErrUnknownClass), "motorcycle has no VOC equivalent")

	labels := mgr.Labels(model.ModelFamilyYOLO, postprocess.ResultSet{
		{Box: images.Rect{X2: 1, Y2: 1}, Score: 0.9, Class: 0},
		{Box: images.Rect{X2: 1, Y2: 1}, Score: 0.8, Class: 99},
	})
	assert.Equal(t, []string{"person", ""}, labels)
}
