package auth

// Identity is the result of authenticating a request. The zero value is unauthenticated.
type Identity struct {
	authenticated bool
	subject       string
	name          string
	role          string
}

// Authenticated builds the identity of a verified subject.
func Authenticated(subject, name, role string) Identity {
	return Identity{authenticated: true, subject: subject, name: name, role: role}
}

// Unauthenticated is the identity of an anonymous caller.
func Unauthenticated() Identity {
	return Identity{}
}

func (i Identity) IsAuthenticated() bool { return i.authenticated }
func (i Identity) Subject() string       { return i.subject }
func (i Identity) Name() string          { return i.name }
func (i Identity) Role() string          { return i.role }

// HasRole reports whether an authenticated identity carries one of the roles.
func (i Identity) HasRole(roles ...string) bool {
	if !i.authenticated {
		return false
	}
	for _, role := range roles {
		if i.role == role {
			return true
		}
	}
	return false
}
