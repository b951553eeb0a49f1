package store

// User is one directory record. ID is the primary key.
type User struct {
	ID    string
	Name  string
	Email string
}

// GraphQLField projects the GraphQL User fields.
func (u User) GraphQLField(name string) (any, bool) {
	switch name {
	case "id":
		return u.ID, true
	case "name":
		return u.Name, true
	case "email":
		return u.Email, true
	}
	return nil, false
}
