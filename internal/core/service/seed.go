package service

import "github.com/whms/health-portal/internal/core/domain"

// builtinIdentities returns the demonstration roster present at registry
// creation. These identities never persist and cannot be deleted.
func builtinIdentities() map[domain.Role][]domain.Identity {
	return map[domain.Role][]domain.Identity{
		domain.RoleWorker: {
			{ID: "w001", Role: domain.RoleWorker, Username: "rajesh.kumar", Password: "worker123", DisplayName: "Rajesh Kumar", Department: "Manufacturing", Phone: "9876543210"},
			{ID: "w002", Role: domain.RoleWorker, Username: "priya.sharma", Password: "worker123", DisplayName: "Priya Sharma", Department: "Assembly", Phone: "9876543211"},
		},
		domain.RoleDoctor: {
			{ID: "d001", Role: domain.RoleDoctor, Username: "dr.singh", Password: "doctor123", DisplayName: "Dr. Amit Singh", Specialization: "Occupational Medicine", Phone: "9876543220"},
			{ID: "d002", Role: domain.RoleDoctor, Username: "dr.patel", Password: "doctor123", DisplayName: "Dr. Meera Patel", Specialization: "General Medicine", Phone: "9876543221"},
		},
		domain.RoleAdmin: {
			{ID: "a001", Role: domain.RoleAdmin, Username: "admin", Password: "admin123", DisplayName: "System Administrator", Title: "Super Admin", Phone: "9876543230"},
		},
	}
}
