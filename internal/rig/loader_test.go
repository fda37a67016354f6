package rig

import (
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/require"

	"github.com/zaxpr/AIChat3D/internal/avatar"
)

func docWithNodes(names ...string) *gltf.Document {
	doc := &gltf.Document{}
	for _, name := range names {
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name})
	}
	return doc
}

func TestFromDocumentStandardNames(t *testing.T) {
	doc := docWithNodes("Hips", "Spine", "Neck", "Head",
		"LeftUpperArm", "LeftLowerArm", "LeftHand",
		"RightUpperArm", "RightLowerArm", "RightHand")

	r, err := FromDocument(doc)
	require.NoError(t, err)
	require.Equal(t, 10, r.JointCount())

	_, ok := r.Joint(avatar.JointRightLowerArm)
	require.True(t, ok)
}

func TestFromDocumentMixamoNames(t *testing.T) {
	doc := docWithNodes("mixamorig:Hips", "mixamorig:Spine", "mixamorig:Head",
		"mixamorig:LeftArm", "mixamorig:LeftForeArm")

	r, err := FromDocument(doc)
	require.NoError(t, err)

	_, ok := r.Joint(avatar.JointLeftLowerArm)
	require.True(t, ok)
	_, ok = r.Joint(avatar.JointRightHand)
	require.False(t, ok, "absent node stays an absent joint")
}

func TestFromDocumentNoHumanoidNodes(t *testing.T) {
	doc := docWithNodes("Cube", "Camera", "Light")

	_, err := FromDocument(doc)
	require.Error(t, err)
}

func TestExpressionChannelsFromTargetNames(t *testing.T) {
	doc := docWithNodes("Hips", "Head")
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "face",
		Extras: map[string]interface{}{
			"targetNames": []interface{}{"mouthOpen", "blink", "browUp"},
		},
	})

	r, err := FromDocument(doc)
	require.NoError(t, err)
	require.True(t, r.HasExpressions())

	r.SetExpression(avatar.ExprBlink, 0.7)
	require.InDelta(t, 0.7, r.Expression(avatar.ExprBlink), 1e-6)

	// browUp is not a channel the face driver animates.
	r.SetExpression("browUp", 1)
	require.Equal(t, float32(0), r.Expression("browUp"))
}

func TestNoMorphTargetsMeansNoExpressions(t *testing.T) {
	doc := docWithNodes("Hips", "Head")
	r, err := FromDocument(doc)
	require.NoError(t, err)
	require.False(t, r.HasExpressions())
}
