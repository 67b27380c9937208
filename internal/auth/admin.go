package auth

// AdminPolicy decides which user may author, edit, and delete posts. The
// system recognizes exactly one privileged identity: the user whose ID equals
// AdminID (conventionally the first account ever created). The ID is injected
// from configuration so the policy is testable in isolation rather than a
// hard-coded constant.
type AdminPolicy struct {
	AdminID int64
}

// Allows reports whether userID is the admin. Anonymous callers pass 0 and
// always fail.
func (p AdminPolicy) Allows(userID int64) bool {
	return userID > 0 && userID == p.AdminID
}
