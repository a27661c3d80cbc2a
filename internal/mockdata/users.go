// Package mockdata holds the static sample data served by the mock
// placements backend.
package mockdata

import "placements-hub/internal/domain"

// User is a mock backend account, including its plaintext password. This data
// exists only to exercise the portal; it is not a credential store.
type User struct {
	ID       int
	Email    string
	Username string
	Password string
	UserType string
	Profile  domain.UserProfile
}

// Users returns the fixed account set. The inactive and guest accounts exist
// so the 401-inactive and 403-wrong-group paths are reachable.
func Users() []User {
	return []User{
		{
			ID:       1,
			Email:    "placement@mits.ac.in",
			Username: "placement_admin",
			Password: "Mits@1234",
			UserType: "placement",
			Profile: domain.UserProfile{
				ID:        1,
				Email:     "placement@mits.ac.in",
				Username:  "placement_admin",
				FirstName: "Placement",
				LastName:  "Admin",
				IsActive:  true,
				Groups:    []string{"placement"},
				Permissions: []string{
					"auth.view_user",
					"companies.view_company",
					"companies.add_company",
					"companies.change_company",
					"companies.delete_company",
					"jobs.view_job",
					"jobs.add_job",
					"jobs.change_job",
					"jobs.delete_job",
					"internships.view_internship",
					"internships.add_internship",
					"internships.change_internship",
					"internships.delete_internship",
					"applications.view_application",
					"applications.change_application",
					"applications.delete_application",
				},
			},
		},
		{
			ID:       2,
			Email:    "mrvidhyasree@mits.ac.in",
			Username: "mrvidhyasree",
			Password: "password123",
			UserType: "placement",
			Profile: domain.UserProfile{
				ID:        2,
				Email:     "mrvidhyasree@mits.ac.in",
				Username:  "mrvidhyasree",
				FirstName: "Vidhya",
				LastName:  "Sree",
				IsActive:  true,
				Groups:    []string{"placement"},
				Permissions: []string{
					"auth.view_user",
					"companies.view_company",
					"jobs.view_job",
					"internships.view_internship",
					"applications.view_application",
					"applications.change_application",
				},
			},
		},
		{
			ID:       3,
			Email:    "john.doe@student.mits.ac.in",
			Username: "john_doe",
			Password: "student123",
			UserType: "student",
			Profile: domain.UserProfile{
				ID:        3,
				Email:     "john.doe@student.mits.ac.in",
				Username:  "john_doe",
				FirstName: "John",
				LastName:  "Doe",
				IsActive:  true,
				Groups:    []string{"student"},
				Permissions: []string{
					"jobs.view_job",
					"internships.view_internship",
					"applications.view_own_application",
					"applications.add_application",
					"applications.change_own_application",
				},
			},
		},
		{
			ID:       4,
			Email:    "jane.smith@student.mits.ac.in",
			Username: "jane_smith",
			Password: "student123",
			UserType: "student",
			Profile: domain.UserProfile{
				ID:        4,
				Email:     "jane.smith@student.mits.ac.in",
				Username:  "jane_smith",
				FirstName: "Jane",
				LastName:  "Smith",
				IsActive:  true,
				Groups:    []string{"student"},
				Permissions: []string{
					"jobs.view_job",
					"internships.view_internship",
					"applications.view_own_application",
					"applications.add_application",
					"applications.change_own_application",
				},
			},
		},
		{
			ID:       5,
			Email:    "disabled@mits.ac.in",
			Username: "disabled_staff",
			Password: "password123",
			UserType: "placement",
			Profile: domain.UserProfile{
				ID:        5,
				Email:     "disabled@mits.ac.in",
				Username:  "disabled_staff",
				FirstName: "Former",
				LastName:  "Staff",
				IsActive:  false,
				Groups:    []string{"placement"},
			},
		},
		{
			ID:       6,
			Email:    "guest@mits.ac.in",
			Username: "guest",
			Password: "guest123",
			UserType: "guest",
			Profile: domain.UserProfile{
				ID:        6,
				Email:     "guest@mits.ac.in",
				Username:  "guest",
				FirstName: "Guest",
				LastName:  "Visitor",
				IsActive:  true,
				Groups:    []string{"guest"},
			},
		},
	}
}

// FindByLogin looks a user up by email or username. Either identifier may
// carry either value: clients that only have an email send it in the username
// field.
func FindByLogin(email, username string) (*User, bool) {
	for _, u := range Users() {
		if u.matches(email) || u.matches(username) {
			return &u, true
		}
	}
	return nil, false
}

func (u *User) matches(identifier string) bool {
	return identifier != "" && (u.Email == identifier || u.Username == identifier)
}

// FindByID looks a user up by numeric ID.
func FindByID(id int) (*User, bool) {
	for _, u := range Users() {
		if u.ID == id {
			return &u, true
		}
	}
	return nil, false
}
