package types

import (
	"sync/atomic"
)

type StatisticsItem struct {
	Count uint64 `json:",omitempty"`
	Bytes uint64 `json:",omitempty"`
}

func (c StatisticsItem) ToCounters() *CountersItem {
	result := CountersItem{}
	result.Count.Store(c.Count)
	result.Bytes.Store(c.Bytes)
	return &result
}

type StatisticsSubSection struct {
	Unknown StatisticsItem `json:",omitempty"`
	U8      StatisticsItem `json:",omitempty"`
	I16     StatisticsItem `json:",omitempty"`
	F32     StatisticsItem `json:",omitempty"`
}

type StatisticsSection struct {
	Missed    StatisticsSubSection
	Received  StatisticsSubSection
	Processed StatisticsSubSection
	Generated StatisticsSubSection
	Sent      StatisticsSubSection
}

type Statistics struct {
	Frames StatisticsSection
}

type CountersItem struct {
	Count atomic.Uint64
	Bytes atomic.Uint64
}

func NewCountersItem() *CountersItem {
	return &CountersItem{}
}

func (c *CountersItem) Increment(msgSize uint64) {
	c.Count.Add(1)
	c.Bytes.Add(msgSize)
}

func (c *CountersItem) ToStats() StatisticsItem {
	return StatisticsItem{
		Count: c.Count.Load(),
		Bytes: c.Bytes.Load(),
	}
}

type CountersSubSection struct {
	U8      *CountersItem
	I16     *CountersItem
	F32     *CountersItem
	Unknown *CountersItem
}

func NewCountersSubSection() CountersSubSection {
	return CountersSubSection{
		U8:      NewCountersItem(),
		I16:     NewCountersItem(),
		F32:     NewCountersItem(),
		Unknown: NewCountersItem(),
	}
}

func (s *CountersSubSection) Increment(elementType ElementType, msgSize uint64) {
	switch elementType {
	case ElementTypeU8:
		s.U8.Increment(msgSize)
	case ElementTypeI16:
		s.I16.Increment(msgSize)
	case ElementTypeF32:
		s.F32.Increment(msgSize)
	default:
		s.Unknown.Increment(msgSize)
	}
}

func (s *CountersSubSection) TotalCount() uint64 {
	var total uint64
	total += s.U8.Count.Load()
	total += s.I16.Count.Load()
	total += s.F32.Count.Load()
	total += s.Unknown.Count.Load()
	return total
}

func (s *CountersSubSection) TotalBytes() uint64 {
	var total uint64
	total += s.U8.Bytes.Load()
	total += s.I16.Bytes.Load()
	total += s.F32.Bytes.Load()
	total += s.Unknown.Bytes.Load()
	return total
}

func (s *CountersSubSection) ToStats() StatisticsSubSection {
	return StatisticsSubSection{
		Unknown: s.Unknown.ToStats(),
		U8:      s.U8.ToStats(),
		I16:     s.I16.ToStats(),
		F32:     s.F32.ToStats(),
	}
}

func (s StatisticsSubSection) ToCounters() *CountersSubSection {
	stats := &CountersSubSection{}
	stats.U8 = s.U8.ToCounters()
	stats.I16 = s.I16.ToCounters()
	stats.F32 = s.F32.ToCounters()
	stats.Unknown = s.Unknown.ToCounters()
	return stats
}
