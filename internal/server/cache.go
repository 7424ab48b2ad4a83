package server

import (
	"container/list"
	"sync"

	"scholarcheck/internal/report"
)

const defaultCachedReports = 256

// reportCache is a fixed-size LRU in front of the report store.
type reportCache struct {
	mu    sync.Mutex
	size  int
	order *list.List
	items map[string]*list.Element
}

func newReportCache(size int) *reportCache {
	if size <= 0 {
		size = defaultCachedReports
	}
	return &reportCache{size: size, order: list.New(), items: map[string]*list.Element{}}
}

func (c *reportCache) get(id string) (*report.AnalysisReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[id]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*report.AnalysisReport), true
}

func (c *reportCache) put(rep *report.AnalysisReport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[rep.ID]; ok {
		el.Value = rep
		c.order.MoveToFront(el)
		return
	}
	c.items[rep.ID] = c.order.PushFront(rep)
	for c.order.Len() > c.size {
		last := c.order.Back()
		c.order.Remove(last)
		delete(c.items, last.Value.(*report.AnalysisReport).ID)
	}
}

func (c *reportCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
