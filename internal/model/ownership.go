package model

// IsCreator reports whether current is the creator of a project. Because the
// backend has served two identifier shapes (`_id` and `id`), a match on any
// combination of the two keys counts, as does an exact email match. All
// comparisons are case-sensitive. A nil creator or current user is never a
// match and never panics.
//
// This drives UI affordances only (edit/delete controls, the "Your Project"
// badge); the authoritative ownership check happens server-side.
func IsCreator(creator, current *User) bool {
	if creator == nil || current == nil {
		return false
	}
	return sameIdentity(creator, current)
}

// IsTeamMember reports whether user appears in the project's team member
// list, using the same identifier-shape rules as IsCreator.
func IsTeamMember(project *Project, user *User) bool {
	if project == nil || user == nil {
		return false
	}
	for i := range project.TeamMembers {
		if sameIdentity(&project.TeamMembers[i], user) {
			return true
		}
	}
	return false
}

// CanModify reports whether user may edit or delete the project: the creator
// may, and so may any Admin.
func CanModify(project *Project, user *User) bool {
	if project == nil || user == nil {
		return false
	}
	return IsCreator(project.Creator, user) || user.IsAdmin()
}

// sameIdentity matches two users across identifier shapes: primary key to
// primary key, primary to alternate (either direction), alternate to
// alternate, or email to email.
func sameIdentity(a, b *User) bool {
	if a.ObjectID != "" && b.ObjectID != "" && a.ObjectID == b.ObjectID {
		return true
	}
	if a.ObjectID != "" && b.ID != "" && a.ObjectID == b.ID {
		return true
	}
	if a.ID != "" && b.ObjectID != "" && a.ID == b.ObjectID {
		return true
	}
	if a.ID != "" && b.ID != "" && a.ID == b.ID {
		return true
	}
	if a.Email != "" && b.Email != "" && a.Email == b.Email {
		return true
	}
	return false
}
