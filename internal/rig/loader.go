// Package rig builds the avatar's humanoid rig from a glTF document. Only
// skeleton and morph-target metadata is read here; vertex data belongs to
// the renderer client.
package rig

import (
	"fmt"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/zaxpr/AIChat3D/internal/avatar"
)

// nodeAliases maps the node names found in common humanoid exports (VRM,
// Mixamo, Blender rigs) onto the fixed joint set the animator drives.
// Matching is case-insensitive and ignores "mixamorig:" style prefixes.
var nodeAliases = map[string]avatar.JointName{
	"hips":          avatar.JointHips,
	"pelvis":        avatar.JointHips,
	"spine":         avatar.JointSpine,
	"spine1":        avatar.JointSpine,
	"neck":          avatar.JointNeck,
	"head":          avatar.JointHead,
	"leftupperarm":  avatar.JointLeftUpperArm,
	"leftarm":       avatar.JointLeftUpperArm,
	"leftlowerarm":  avatar.JointLeftLowerArm,
	"leftforearm":   avatar.JointLeftLowerArm,
	"lefthand":      avatar.JointLeftHand,
	"rightupperarm": avatar.JointRightUpperArm,
	"rightarm":      avatar.JointRightUpperArm,
	"rightlowerarm": avatar.JointRightLowerArm,
	"rightforearm":  avatar.JointRightLowerArm,
	"righthand":     avatar.JointRightHand,
}

// Load opens a .glb/.gltf file and builds the rig from its node and morph
// metadata. A document with no recognizable humanoid nodes yields an error;
// callers fall back to the placeholder shape.
func Load(path string) (*avatar.HumanoidRig, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument builds the rig from an already-parsed document.
func FromDocument(doc *gltf.Document) (*avatar.HumanoidRig, error) {
	joints := collectJoints(doc)
	if len(joints) == 0 {
		return nil, fmt.Errorf("no humanoid joints found in document")
	}

	r := avatar.NewHumanoidRig(joints, collectExpressions(doc))
	return r, nil
}

func collectJoints(doc *gltf.Document) []avatar.JointName {
	seen := make(map[avatar.JointName]bool)
	var joints []avatar.JointName

	for _, node := range doc.Nodes {
		name, ok := nodeAliases[normalizeNodeName(node.Name)]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		joints = append(joints, name)
	}
	return joints
}

// collectExpressions reads morph-target names from each mesh's extras
// ("targetNames" per the glTF convention) and keeps the channels the face
// driver knows how to animate.
func collectExpressions(doc *gltf.Document) []string {
	seen := make(map[string]bool)
	var channels []string

	for _, mesh := range doc.Meshes {
		extras, ok := mesh.Extras.(map[string]interface{})
		if !ok {
			continue
		}
		names, ok := extras["targetNames"].([]interface{})
		if !ok {
			continue
		}
		for _, raw := range names {
			name, ok := raw.(string)
			if !ok || seen[name] {
				continue
			}
			if name == avatar.ExprMouthOpen || name == avatar.ExprBlink {
				seen[name] = true
				channels = append(channels, name)
			}
		}
	}
	return channels
}

func normalizeNodeName(name string) string {
	name = strings.ToLower(name)
	if idx := strings.LastIndexByte(name, ':'); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.ReplaceAll(strings.ReplaceAll(name, "_", ""), " ", "")
}
