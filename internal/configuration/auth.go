package configuration

type AuthRule struct {
	Path        string
	Method      string // "*" means all methods
	RequireAuth bool   // true means require auth, false means exclude from auth
}

var AuthRulePrefixMatchPath = []AuthRule{
	{Path: "/api/v1/migrations", Method: "*", RequireAuth: true},
	{Path: "/api/v1/activity", Method: "*", RequireAuth: true},
	{Path: "/healthz", Method: "GET", RequireAuth: false},
	{Path: "/metrics", Method: "GET", RequireAuth: false},
}
