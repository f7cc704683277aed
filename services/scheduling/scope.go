package scheduling

// Scope selects whose agenda a query or booking targets: one member's, or
// the location-level agenda with no specific member. The two variants keep
// the per-member and per-location query paths explicit instead of hiding
// them behind a nullable member id.
type Scope struct {
	memberID string
}

// ForMember scopes to a single member's agenda.
func ForMember(memberID string) Scope {
	return Scope{memberID: memberID}
}

// ForLocationOnly scopes to the location-level agenda.
func ForLocationOnly() Scope {
	return Scope{}
}

// MemberID returns the member id and whether the scope targets a member.
func (s Scope) MemberID() (string, bool) {
	return s.memberID, s.memberID != ""
}

// Key renders a stable identifier for this scope at a location, used in
// log fields.
func (s Scope) Key(locationID string) string {
	if s.memberID != "" {
		return "member:" + s.memberID
	}
	return "location:" + locationID
}
