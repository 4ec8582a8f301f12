package users

import "github.com/timeliness-app/taskboard-backend/pkg/sheet"

// DecodeUser decodes a user row
func DecodeUser(row sheet.Row) (User, error) {
	d := sheet.NewDecoder(sheet.Users, row)
	user := User{
		ID:       d.Required(0),
		Username: d.Required(1),
		Password: d.Required(2),
		Name:     d.Required(3),
		Role:     Role(d.Required(4)),
	}
	if d.Err() != nil {
		return User{}, d.Err()
	}

	return user, nil
}

// EncodeUser encodes a user
func EncodeUser(user *User) sheet.Row {
	return sheet.Row{user.ID, user.Username, user.Password, user.Name, string(user.Role)}
}

// DecodeReportingEdge decodes a reporting row
func DecodeReportingEdge(row sheet.Row) (ReportingEdge, error) {
	d := sheet.NewDecoder(sheet.Reporting, row)
	edge := ReportingEdge{
		ID:             d.Required(0),
		UserID:         d.Required(1),
		ReportToUserID: d.Required(2),
	}
	if d.Err() != nil {
		return ReportingEdge{}, d.Err()
	}

	return edge, nil
}

// EncodeReportingEdge encodes a reporting edge
func EncodeReportingEdge(edge *ReportingEdge) sheet.Row {
	return sheet.Row{edge.ID, edge.UserID, edge.ReportToUserID}
}
