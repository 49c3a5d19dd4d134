package domain

// HostTokenVerifier verifies a host bearer token and returns the host ID.
// Host accounts themselves are owned by an external collaborator; the
// engine only needs to know who is calling its admin endpoints.
type HostTokenVerifier interface {
	Verify(token string) (string, error)
}
