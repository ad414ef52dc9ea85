package router

import (
	"strings"
)

// View names
const (
	ViewLogin          = "login"
	ViewSignup         = "signup"
	ViewForgotPassword = "forgot-password"
	ViewDashboard      = "dashboard"
	ViewLearningPlans  = "learning-plans"
	ViewPlanList       = "plan-list"
	ViewCreatePlan     = "create-plan"
	ViewReminders      = "reminders"
	ViewProfile        = "profile"
	ViewMyPosts        = "my-posts"
	ViewNewPost        = "new-post"
	ViewFeed           = "feed"
)

const LoginPath = "/login"

// Route maps a path to a view
type Route struct {
	Path      string `json:"path"`
	View      string `json:"view"`
	Title     string `json:"title"`
	Protected bool   `json:"protected"`
}

// Table is the fixed set of views the client knows
type Table struct {
	routes []Route
	byPath map[string]Route
}

func NewTable(routes ...Route) *Table {
	t := &Table{byPath: make(map[string]Route, len(routes))}
	for _, r := range routes {
		t.routes = append(t.routes, r)
		t.byPath[r.Path] = r
	}
	return t
}

// DefaultTable returns the InkSpire route table
func DefaultTable() *Table {
	return NewTable(
		Route{Path: LoginPath, View: ViewLogin, Title: "Log in"},
		Route{Path: "/signup", View: ViewSignup, Title: "Sign up"},
		Route{Path: "/forgot-password", View: ViewForgotPassword, Title: "Reset password"},
		Route{Path: "/", View: ViewDashboard, Title: "Dashboard", Protected: true},
		Route{Path: "/learning-plans", View: ViewLearningPlans, Title: "Learning plans", Protected: true},
		Route{Path: "/plans", View: ViewPlanList, Title: "My plans", Protected: true},
		Route{Path: "/create-plan", View: ViewCreatePlan, Title: "Create plan", Protected: true},
		Route{Path: "/reminders", View: ViewReminders, Title: "Reminders", Protected: true},
		Route{Path: "/profile", View: ViewProfile, Title: "Profile", Protected: true},
		Route{Path: "/posts", View: ViewMyPosts, Title: "My posts", Protected: true},
		Route{Path: "/newpost", View: ViewNewPost, Title: "New post", Protected: true},
		Route{Path: "/feed", View: ViewFeed, Title: "Public feed"},
	)
}

// Lookup finds the route for path, ignoring a trailing slash
func (t *Table) Lookup(path string) (Route, bool) {
	r, ok := t.byPath[Normalize(path)]
	return r, ok
}

// Match finds the route owning path: the exact route, or the longest
// route whose path is a parent of it ("/plans/3/materials" belongs to "/plans")
func (t *Table) Match(path string) (Route, bool) {
	path = Normalize(path)
	if r, ok := t.byPath[path]; ok {
		return r, true
	}

	var best Route
	found := false
	for _, r := range t.routes {
		if r.Path == "/" || !strings.HasPrefix(path, r.Path+"/") {
			continue
		}
		if !found || len(r.Path) > len(best.Path) {
			best = r
			found = true
		}
	}
	return best, found
}

// ByView finds the route rendering view
func (t *Table) ByView(view string) (Route, bool) {
	for _, r := range t.routes {
		if r.View == view {
			return r, true
		}
	}
	return Route{}, false
}

// Routes returns the table in declaration order
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

func Normalize(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}
