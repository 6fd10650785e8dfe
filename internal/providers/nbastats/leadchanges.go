package nbastats

// Snapshot is the running score after one play.
type Snapshot struct {
	Home int
	Away int
}

type leader int

const (
	leaderNone leader = iota
	leaderHome
	leaderAway
)

func (s Snapshot) leader() leader {
	switch {
	case s.Home > s.Away:
		return leaderHome
	case s.Away > s.Home:
		return leaderAway
	default:
		return leaderNone
	}
}

// CountLeadChanges counts transitions from one strict leader to the other.
// Ties never count, and neither does the first strict lead of the game.
func CountLeadChanges(snapshots []Snapshot) int {
	changes := 0
	last := leaderNone
	for _, s := range snapshots {
		current := s.leader()
		if current == leaderNone {
			continue
		}
		if last != leaderNone && current != last {
			changes++
		}
		last = current
	}
	return changes
}
