package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	PagesFetched      uint64            `json:"pages_fetched"`
	RecordsPersisted  uint64            `json:"records_persisted"`
	BlocksDropped     uint64            `json:"blocks_dropped"`
	ErrorsTotal       uint64            `json:"errors_total"`
	PagesByKind       map[string]uint64 `json:"pages_by_kind,omitempty"`
	RecordsByKind     map[string]uint64 `json:"records_by_kind,omitempty"`
	ErrorsByType      map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	pagesFetched     uint64
	recordsPersisted uint64
	blocksDropped    uint64
	errorsTotal      uint64

	statsMu           sync.Mutex
	pagesByKind       = map[string]uint64{}
	recordsByKind     = map[string]uint64{}
	errorsByType      = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
)

func IncPagesFetched(kind string) {
	atomic.AddUint64(&pagesFetched, 1)
	incByKey(pagesByKind, kind)
}

func IncRecordsPersisted(kind string) {
	atomic.AddUint64(&recordsPersisted, 1)
	incByKey(recordsByKind, kind)
}

func IncBlocksDropped(_ string) {
	atomic.AddUint64(&blocksDropped, 1)
}

func IncError(errType, component string) {
	if errType == "" {
		errType = "unknown"
	}
	if component == "" {
		component = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsByComponent[component]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	pagesCopy := copyMap(pagesByKind)
	recordsCopy := copyMap(recordsByKind)
	errorsTypeCopy := copyMap(errorsByType)
	errorsComponentCopy := copyMap(errorsByComponent)
	statsMu.Unlock()

	return StatsSnapshot{
		PagesFetched:      atomic.LoadUint64(&pagesFetched),
		RecordsPersisted:  atomic.LoadUint64(&recordsPersisted),
		BlocksDropped:     atomic.LoadUint64(&blocksDropped),
		ErrorsTotal:       atomic.LoadUint64(&errorsTotal),
		PagesByKind:       pagesCopy,
		RecordsByKind:     recordsCopy,
		ErrorsByType:      errorsTypeCopy,
		ErrorsByComponent: errorsComponentCopy,
	}
}

func incByKey(m map[string]uint64, key string) {
	if key == "" {
		key = "unknown"
	}
	statsMu.Lock()
	m[key]++
	statsMu.Unlock()
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
