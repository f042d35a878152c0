// condition.go defines the Condition interface for filtering frames.

// Package condition provides various conditions for filtering frames.
package condition

import (
	"github.com/xaionaro-go/imagepipeline/frame"
	"github.com/xaionaro-go/imagepipeline/types"
)

type Condition = types.Condition[frame.Input]
