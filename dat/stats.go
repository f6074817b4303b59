package dat

import "fmt"

// Stats reports density metrics for a frozen trie.
type Stats struct {
	Keys       int
	UsedSlots  int
	TotalSlots int
	MaxStateID int
}

// FillRatio is the share of used slots.
func (s Stats) FillRatio() float64 {
	if s.TotalSlots == 0 {
		return 0
	}
	return float64(s.UsedSlots) / float64(s.TotalSlots)
}

func (s Stats) String() string {
	return fmt.Sprintf("DAT(keys=%d,used=%d,total=%d,fill=%.2f,maxState=%d)",
		s.Keys, s.UsedSlots, s.TotalSlots, s.FillRatio(), s.MaxStateID)
}

// Stats scans the arrays and counts used slots and terminal states.
func (d *DAT) Stats() Stats {
	stats := Stats{
		TotalSlots: d.NStates(),
		MaxStateID: int(d.Root),
	}
	if stats.TotalSlots == 0 {
		return stats
	}
	for i := range d.Check {
		if i == int(d.Root) || d.Check[i] != 0 {
			stats.UsedSlots++
			stats.MaxStateID = max(stats.MaxStateID, i)
		}
		if d.Value[i] != 0 {
			stats.Keys++
		}
	}
	return stats
}
