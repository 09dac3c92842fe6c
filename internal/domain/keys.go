package domain

type CtxKey string

const (
	KeyUserID   CtxKey = "UserID"
	KeyUserRole CtxKey = "Role"
)

// Caller identifies the authenticated user for usecase calls.
type Caller struct {
	ID   int64
	Role string
}
