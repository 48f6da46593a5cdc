package model

// Category is the closed classification of a component. The analyzer emits
// free-form type strings; this enumeration pins down the taxonomy the view
// engine dispatches on, with per-category metadata looked up from tables
// rather than string comparisons scattered through the code.
type Category int

const (
	// CategoryUnknown covers any type string outside the taxonomy.
	CategoryUnknown Category = iota

	// Client categories (domain 1) - human-facing entry points.
	CategoryIOSClient
	CategoryAndroidClient
	CategoryMobileClient
	CategoryWatchApp
	CategoryWebClient
	CategoryDesktopApp
	CategoryCLITool

	// Server categories (domain 2) - surfaced when client-facing.
	CategoryAPIServer
	CategoryService

	// Generic categories (domain 3).
	CategoryApplication
	CategoryLibrary
	CategoryModule
	CategoryPackage
	CategoryInfrastructure

	// Structural containers with no architectural meaning of their own.
	CategoryRepository
	CategoryProject

	// Non-code content (docs, wikis, assets). Never surfaced.
	CategoryContent
)

// Domain tiers used by the top-level flattener.
const (
	DomainClient = 1 // always surfaced
	DomainServer = 2 // surfaced only if client-facing
	DomainOther  = 3 // hidden at top level unless nothing else exists
)

// categoryInfo holds the per-category metadata consulted by the view engine.
type categoryInfo struct {
	name       string // analyzer type string
	domain     int    // DomainClient, DomainServer, DomainOther
	hero       bool   // always surfaced during drill-down promotion
	alwaysShow bool   // exempt from the hero-view declutter rule
	structural bool   // pure container, recursed unconditionally
	content    bool   // non-code content, always excluded
	priority   int    // layout ordering, higher = earlier
}

var categories = map[Category]categoryInfo{
	CategoryIOSClient:      {name: "ios-client", domain: DomainClient, hero: true, priority: 100},
	CategoryAndroidClient:  {name: "android-client", domain: DomainClient, hero: true, priority: 100},
	CategoryMobileClient:   {name: "mobile-client", domain: DomainClient, hero: true, priority: 100},
	CategoryWatchApp:       {name: "watch-app", domain: DomainClient, hero: true, priority: 95},
	CategoryWebClient:      {name: "web-client", domain: DomainClient, hero: true, priority: 90},
	CategoryDesktopApp:     {name: "desktop-app", domain: DomainClient, hero: true, priority: 90},
	CategoryCLITool:        {name: "cli-tool", domain: DomainClient, hero: true, priority: 80},
	CategoryAPIServer:      {name: "api-server", domain: DomainServer, hero: true, priority: 70},
	CategoryService:        {name: "service", domain: DomainServer, hero: true, priority: 65},
	CategoryApplication:    {name: "application", domain: DomainOther, hero: true, priority: 60},
	CategoryLibrary:        {name: "library", domain: DomainOther, alwaysShow: true, priority: 40},
	CategoryInfrastructure: {name: "infrastructure", domain: DomainOther, alwaysShow: true, priority: 35},
	CategoryModule:         {name: "module", domain: DomainOther, priority: 30},
	CategoryPackage:        {name: "package", domain: DomainOther, priority: 30},
	CategoryRepository:     {name: "repository", domain: DomainOther, structural: true, priority: 20},
	CategoryProject:        {name: "project", domain: DomainOther, structural: true, priority: 20},
	CategoryContent:        {name: "content", domain: DomainOther, content: true, priority: 0},
	CategoryUnknown:        {name: "unknown", domain: DomainOther, priority: 10},
}

var categoryByName = func() map[string]Category {
	m := make(map[string]Category, len(categories))
	for c, info := range categories {
		m[info.name] = c
	}
	return m
}()

// ParseCategory maps an analyzer type string to a Category.
// Unrecognized strings map to CategoryUnknown.
func ParseCategory(s string) Category {
	if c, ok := categoryByName[s]; ok {
		return c
	}
	return CategoryUnknown
}

// String returns the analyzer's name for the category.
func (c Category) String() string { return categories[c].name }

// Domain returns the flattener tier of the category.
func (c Category) Domain() int { return categories[c].domain }

// IsClient reports whether the category is a domain-1 client.
func (c Category) IsClient() bool { return categories[c].domain == DomainClient }

// IsServer reports whether the category is a domain-2 server.
func (c Category) IsServer() bool { return categories[c].domain == DomainServer }

// IsHero reports whether the category is architecturally significant enough
// to always surface during drill-down promotion.
func (c Category) IsHero() bool { return categories[c].hero }

// IsAlwaysShow reports whether the category is exempt from the declutter
// rule in hero-dominated views (cross-cutting libraries and infrastructure).
func (c Category) IsAlwaysShow() bool { return categories[c].alwaysShow }

// IsStructural reports whether the category is a pure container
// (repository/project wrapper) that the flattener recurses into
// unconditionally.
func (c Category) IsStructural() bool { return categories[c].structural }

// IsContent reports whether the category is non-code content,
// which is excluded from every view.
func (c Category) IsContent() bool { return categories[c].content }

// Priority returns the layout ordering weight. Clients sort first, then other
// human-facing categories, then servers, then everything else.
func (c Category) Priority() int { return categories[c].priority }
