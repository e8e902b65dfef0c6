package projection

import (
	"sort"
	"sync"
)

// ReportVolume is an in-memory read model tracking how many open
// reports each short currently has. It is fed from the report event
// stream and is eventually consistent with the write side.
type ReportVolume struct {
	mu     sync.RWMutex
	counts map[string]int64
}

func NewReportVolume() *ReportVolume {
	return &ReportVolume{counts: map[string]int64{}}
}

type ShortCount struct {
	ShortID string `json:"shortId"`
	Reports int64  `json:"reports"`
}

func (v *ReportVolume) Apply(eventName, shortID string) {
	if shortID == "" {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	switch eventName {
	case "report.created":
		v.counts[shortID]++
	case "report.deleted":
		if v.counts[shortID] <= 1 {
			delete(v.counts, shortID)
		} else {
			v.counts[shortID]--
		}
	}
}

func (v *ReportVolume) Count(shortID string) int64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.counts[shortID]
}

// Top returns the n most reported shorts, highest volume first, short
// id as a stable tiebreak.
func (v *ReportVolume) Top(n int) []ShortCount {
	v.mu.RLock()
	out := make([]ShortCount, 0, len(v.counts))
	for id, c := range v.counts {
		out = append(out, ShortCount{ShortID: id, Reports: c})
	}
	v.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Reports != out[j].Reports {
			return out[i].Reports > out[j].Reports
		}
		return out[i].ShortID < out[j].ShortID
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
