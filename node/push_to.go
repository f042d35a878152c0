// push_to.go defines the outgoing edges of a node.

package node

import (
	framecondition "github.com/xaionaro-go/imagepipeline/frame/condition"
)

type PushTo struct {
	Node      *Node
	Condition framecondition.Condition
}

type PushTos []PushTo

func (s *PushTos) Add(dst *Node, conds ...framecondition.Condition) *PushTos {
	var cond framecondition.Condition
	if len(conds) > 0 {
		cond = framecondition.And(conds)
	}
	*s = append(*s, PushTo{
		Node:      dst,
		Condition: cond,
	})
	return s
}
