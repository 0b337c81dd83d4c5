package mockidp

const (
	DemoClientID    = "0oamockclient"
	DemoRedirectURI = "app://callback"
	DemoUsername    = "alice"
	DemoPassword    = "secret"
)

// DemoOptions registers one client and one user, enough to run the login flow
// against the server locally.
func DemoOptions() Options {
	return Options{
		Users: []User{{
			Username: DemoUsername,
			Password: DemoPassword,
			Subject:  "00u1alice",
			Email:    "alice@example.com",
			Name:     "Alice Example",
		}},
		Clients: []Client{{
			ID:           DemoClientID,
			RedirectURIs: []string{DemoRedirectURI},
		}},
	}
}
