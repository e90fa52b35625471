package entity

// SharingRecord holds the two directed edge lists of the sharing graph
// for one user. The graph is stored redundantly on both endpoints:
// B ∈ A.CanSeeMe iff A ∈ B.ICanSee, maintained best-effort by two-step
// writes without transactions.
type SharingRecord struct {
	UserID   string   `json:"userId"`
	ICanSee  []string `json:"iCanSee"`
	CanSeeMe []string `json:"canSeeMe"`
}

func NewSharingRecord(userID string) *SharingRecord {
	return &SharingRecord{UserID: userID, ICanSee: []string{}, CanSeeMe: []string{}}
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func remove(list []string, id string) []string {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// AllowOther grants other the right to see this user. Idempotent.
func (s *SharingRecord) AllowOther(otherID string) {
	if !contains(s.CanSeeMe, otherID) {
		s.CanSeeMe = append(s.CanSeeMe, otherID)
	}
}

// DenyOther revokes other's right to see this user.
func (s *SharingRecord) DenyOther(otherID string) {
	s.CanSeeMe = remove(s.CanSeeMe, otherID)
}

// AddICanSee records that this user may see other. Idempotent.
func (s *SharingRecord) AddICanSee(otherID string) {
	if !contains(s.ICanSee, otherID) {
		s.ICanSee = append(s.ICanSee, otherID)
	}
}

// RemoveICanSee drops other from the set this user may see.
func (s *SharingRecord) RemoveICanSee(otherID string) {
	s.ICanSee = remove(s.ICanSee, otherID)
}

// Union returns the de-duplicated union of ICanSee and CanSeeMe,
// preserving first-seen order.
func (s *SharingRecord) Union() []string {
	seen := make(map[string]bool, len(s.ICanSee)+len(s.CanSeeMe))
	out := make([]string, 0, len(s.ICanSee)+len(s.CanSeeMe))
	for _, list := range [][]string{s.ICanSee, s.CanSeeMe} {
		for _, id := range list {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
