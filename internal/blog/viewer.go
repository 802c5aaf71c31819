package blog

// Viewer identifies who is making a request. The zero value is the
// anonymous viewer.
type Viewer struct {
	UserID uint
}

// Anonymous is the viewer of unauthenticated requests.
var Anonymous = Viewer{}

// AsUser returns the viewer for an authenticated user.
func AsUser(id uint) Viewer {
	return Viewer{UserID: id}
}

// Authenticated reports whether the viewer carries an identity.
func (v Viewer) Authenticated() bool {
	return v.UserID != 0
}

// Is reports whether the viewer is the given user. Anonymous viewers
// are never anyone.
func (v Viewer) Is(userID uint) bool {
	return v.Authenticated() && v.UserID == userID
}
