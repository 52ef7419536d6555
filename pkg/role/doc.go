// Package role defines the tenant role hierarchy used for permission checks.
//
// Roles form a total order (owner > admin > manager > member > viewer) and
// permission checks are simple order comparisons via [Role.AtLeast]. A role
// outside the known set, including the zero value, compares below viewer and
// fails every check, so an inactive or missing membership can be represented
// by the zero Role without special-casing.
//
// # Usage
//
//	r, err := role.Parse("manager")
//	if err != nil {
//		// handle unknown role
//	}
//	if r.AtLeast(role.Admin) {
//		// allowed
//	}
package role
