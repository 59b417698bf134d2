package arscrub

import (
	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// Member describes one archive entry visited by a scrub pass
type Member struct {
	Name     string // name with padding removed
	Offset   int64  // offset of the metadata record
	DataSize int64  // declared data length, excluding padding
	Changed  bool   // whether scrubbing altered the record bytes
}

// ScrubReport summarises a completed (or aborted) scrub pass
type ScrubReport struct {
	Entries     int   // records rewritten
	Changed     int   // records whose bytes differed after scrubbing
	FinalOffset int64 // offset where the pass stopped
	members     *zcsl.ZeroCopySkiplist[Member, int64, string]
}

func newScrubReport() *ScrubReport {
	getKey := func(m *Member) int64 {
		return m.Offset
	}
	getSize := func(m *Member) int {
		return EntrySize
	}
	cmpKey := func(a, b int64) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}

	return &ScrubReport{
		members: zcsl.MakeZeroCopySkiplist[Member, int64, string](16, getKey, getSize, cmpKey),
	}
}

func (r *ScrubReport) record(member Member) {
	context := UnchangedContext
	if member.Changed {
		context = ChangedContext
		r.Changed++
	}
	r.Entries++
	m := member
	r.members.Insert(&m, context)
}

// Members returns the visited entries in file order
func (r *ScrubReport) Members() []Member {
	members := make([]Member, 0, r.members.Length())
	for current := r.members.First(); current != nil; current = current.Next() {
		members = append(members, *current.Item())
	}
	return members
}

// MemberAt returns the entry whose record starts at offset
func (r *ScrubReport) MemberAt(offset int64) (Member, bool) {
	itemPtr, _ := r.members.Find(offset)
	if itemPtr == nil {
		return Member{}, false
	}
	return *itemPtr.Item(), true
}

// ChangedMembers returns only the entries whose records were rewritten with different bytes
func (r *ScrubReport) ChangedMembers() []Member {
	var members []Member
	for current := r.members.First(); current != nil; current = current.Next() {
		if current.Context() == ChangedContext {
			members = append(members, *current.Item())
		}
	}
	return members
}
