package blog

// Owned is anything with a single author who alone may change it.
type Owned interface {
	OwnerID() uint
}

// CanMutate reports whether viewer may edit or delete resource.
func CanMutate(viewer Viewer, resource Owned) bool {
	return viewer.Is(resource.OwnerID())
}

// AuthorizeMutation is CanMutate with the reason for a denial.
func AuthorizeMutation(viewer Viewer, resource Owned) error {
	if !viewer.Authenticated() {
		return ErrUnauthenticated
	}
	if !CanMutate(viewer, resource) {
		return ErrForbidden
	}
	return nil
}
