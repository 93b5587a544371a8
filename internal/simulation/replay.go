package simulation

import (
	"fmt"
	"math"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/domain"
)

// Divergence locates the first difference between two sets of runs.
// Snapshot is -1 when the runs differ in length or seed.
type Divergence struct {
	Run      int
	Snapshot int
	Reason   string
}

func (d *Divergence) String() string {
	if d.Snapshot < 0 {
		return fmt.Sprintf("run %d: %s", d.Run, d.Reason)
	}
	return fmt.Sprintf("run %d snapshot %d: %s", d.Run, d.Snapshot, d.Reason)
}

// Compare returns the first divergence between recorded and fresh runs, or
// nil when they are identical.
func Compare(recorded, fresh []domain.RunResult) *Divergence {
	if len(recorded) != len(fresh) {
		return &Divergence{Run: -1, Snapshot: -1, Reason: fmt.Sprintf("recorded %d runs, replayed %d", len(recorded), len(fresh))}
	}
	for i := range recorded {
		r, f := recorded[i], fresh[i]
		if r.Seed != f.Seed {
			return &Divergence{Run: i, Snapshot: -1, Reason: fmt.Sprintf("seed %d != %d", r.Seed, f.Seed)}
		}
		if len(r.Snapshots) != len(f.Snapshots) {
			return &Divergence{Run: i, Snapshot: -1, Reason: fmt.Sprintf("recorded %d snapshots, replayed %d", len(r.Snapshots), len(f.Snapshots))}
		}
		for j := range r.Snapshots {
			a, b := r.Snapshots[j], f.Snapshots[j]
			switch {
			case a.Event != b.Event || a.PhaseName != b.PhaseName:
				return &Divergence{Run: i, Snapshot: j, Reason: fmt.Sprintf("event %s/%s != %s/%s", a.PhaseName, a.Event, b.PhaseName, b.Event)}
			case !a.State.Date().Equal(b.State.Date()):
				return &Divergence{Run: i, Snapshot: j, Reason: fmt.Sprintf("date %s != %s", a.State.Date(), b.State.Date())}
			case !sameState(a.State, b.State):
				return &Divergence{Run: i, Snapshot: j, Reason: fmt.Sprintf("capital %v != %v", a.State.Capital, b.State.Capital)}
			}
		}
	}
	return nil
}

// sameState reports whether two states are bit-for-bit identical, so NaN
// matches NaN carrying the same payload.
func sameState(a, b domain.LiveState) bool {
	if a.StartTime != b.StartTime || a.TotalDurationAlive != b.TotalDurationAlive ||
		a.SessionDuration != b.SessionDuration || a.LastReturnDay != b.LastReturnDay {
		return false
	}
	fa, fb := amounts(&a), amounts(&b)
	for i := range fa {
		if math.Float64bits(fa[i]) != math.Float64bits(fb[i]) {
			return false
		}
	}
	return true
}

func amounts(s *domain.LiveState) []float64 {
	return []float64{
		s.Capital, s.Deposited, s.Withdrawn, s.Returned, s.PassiveReturned,
		s.Taxed, s.Inflation, s.NetEarnings, s.Fees,
		s.CurrentReturn, s.CurrentTax, s.CurrentNet, s.CurrentWithdraw,
		s.CurrentDeposit, s.CurrentFee,
	}
}
