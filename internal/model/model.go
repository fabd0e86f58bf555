// Package model contains the FitBook domain models shared by every layer.
// Models carry JSON tags only; persistence details live in the repository implementations.
package model

// Role is the resolved role of an authenticated user.
type Role string

const (
	RoleClient  Role = "client"
	RoleTrainer Role = "trainer"
)
