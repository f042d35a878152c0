// counters.go defines the per-node frame counters.

package node

import (
	"github.com/xaionaro-go/imagepipeline/types"
)

type Counters struct {
	Received  types.CountersSubSection
	Missed    types.CountersSubSection
	Processed types.CountersSubSection
	Generated types.CountersSubSection
	Sent      types.CountersSubSection
}

func NewCounters() *Counters {
	return &Counters{
		Received:  types.NewCountersSubSection(),
		Missed:    types.NewCountersSubSection(),
		Processed: types.NewCountersSubSection(),
		Generated: types.NewCountersSubSection(),
		Sent:      types.NewCountersSubSection(),
	}
}

func (c *Counters) ToStats() types.Statistics {
	return types.Statistics{
		Frames: types.StatisticsSection{
			Received:  c.Received.ToStats(),
			Missed:    c.Missed.ToStats(),
			Processed: c.Processed.ToStats(),
			Generated: c.Generated.ToStats(),
			Sent:      c.Sent.ToStats(),
		},
	}
}
