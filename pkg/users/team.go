package users

// Team returns the ids of the users whose tasks viewer may see.
// An Admin sees themself and everybody reporting directly to them, everybody else only themself.
func Team(viewer *User, reporting []ReportingEdge) map[string]bool {
	team := map[string]bool{viewer.ID: true}
	if viewer.Role != RoleAdmin {
		return team
	}

	for _, edge := range reporting {
		if edge.ReportToUserID == viewer.ID {
			team[edge.UserID] = true
		}
	}

	return team
}

// Reportees returns the users reporting directly to viewer, in directory order
func Reportees(viewer *User, directory []User, reporting []ReportingEdge) []User {
	team := Team(viewer, reporting)

	reportees := []User{}
	for _, user := range directory {
		if user.ID != viewer.ID && team[user.ID] {
			reportees = append(reportees, user)
		}
	}

	return reportees
}
