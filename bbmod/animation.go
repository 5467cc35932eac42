package bbmod

import (
	"fmt"

	"github.com/binzume/bbmod/geom"
	"github.com/binzume/bbmod/scene"
)

// AnimationKey is a PositionKey or a RotationKey.
type AnimationKey interface {
	PositionKey | RotationKey
	KeyTime() float64
}

type PositionKey struct {
	Time     float64
	Position geom.Vector3
}

func (k PositionKey) KeyTime() float64 { return k.Time }

type RotationKey struct {
	Time     float64
	Rotation geom.Quaternion
}

func (k RotationKey) KeyTime() float64 { return k.Time }

// AnimationNode holds the keys of one node, in source order.
type AnimationNode struct {
	Index        int
	PositionKeys []PositionKey
	RotationKeys []RotationKey
}

type Animation struct {
	Version        uint8
	Name           string
	Duration       float64
	TicksPerSecond float64
	Nodes          []*AnimationNode
	// target of the node indices
	Model *Model
}

// NodeNotFoundError reports an animation channel whose node is not in the model.
type NodeNotFoundError struct {
	Animation string
	Node      string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("animation %q: node %q not found", e.Animation, e.Node)
}

// NewAnimation maps the channels of src to the nodes of model.
func NewAnimation(src *scene.Animation, model *Model) (*Animation, error) {
	if model == nil {
		return nil, ErrNoModel
	}
	anim := &Animation{
		Version:        Version,
		Name:           src.Name,
		Duration:       src.Duration,
		TicksPerSecond: src.TicksPerSecond,
		Model:          model,
	}
	for _, ch := range src.Channels {
		node := model.FindNodeByName(ch.NodeName)
		if node == nil {
			return nil, &NodeNotFoundError{Animation: src.Name, Node: ch.NodeName}
		}
		an := &AnimationNode{
			Index:        node.Index,
			PositionKeys: make([]PositionKey, len(ch.PositionKeys)),
			RotationKeys: make([]RotationKey, len(ch.RotationKeys)),
		}
		for i, k := range ch.PositionKeys {
			an.PositionKeys[i] = PositionKey{Time: k.Time, Position: k.Value}
		}
		for i, k := range ch.RotationKeys {
			an.RotationKeys[i] = RotationKey{Time: k.Time, Rotation: k.Value}
		}
		anim.Nodes = append(anim.Nodes, an)
	}
	return anim, nil
}
