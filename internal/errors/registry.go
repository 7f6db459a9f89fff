package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E100-E199)
	// ============================================

	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "crmnav.json could not be read or is not valid JSON.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No crmnav.json was found in the given directory.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "The server port must be between 0 and 65535.",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Invalid base path",
		Detail:   "The base path must be a root-relative path such as / or /crm/.",
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Invalid log settings",
		Detail:   "Log level must be debug, info, warn or error; format must be text or json.",
	},
	"E106": {
		Category: CategoryConfig,
		Message:  "Environment file could not be loaded",
		Detail:   "The .env file exists but could not be parsed.",
	},

	// ============================================
	// Routing Errors (E200-E299)
	// ============================================

	"E201": {
		Category: CategoryRouting,
		Message:  "No route matches path",
		Detail:   "The navigation table does not declare this path and has no catch-all route.",
	},
	"E202": {
		Category: CategoryRouting,
		Message:  "Unknown route name",
		Detail:   "Named navigation requires a route with this name in the navigation table.",
	},
	"E203": {
		Category: CategoryRouting,
		Message:  "Invalid navigation path",
		Detail:   "Navigation paths must be root-relative and must not escape the root.",
	},
	"E204": {
		Category: CategoryRouting,
		Message:  "Invalid navigation table",
		Detail:   "Route paths and names must be unique, non-empty and bound to a view.",
	},
	"E205": {
		Category: CategoryRouting,
		Message:  "Path outside base",
		Detail:   "The requested location is not under the configured base path.",
	},
	"E206": {
		Category: CategoryRouting,
		Message:  "Navigation aborted",
		Detail:   "A navigation middleware stopped the navigation.",
	},

	// ============================================
	// Server Errors (E300-E399)
	// ============================================

	"E301": {
		Category: CategoryServer,
		Message:  "View render failed",
		Detail:   "The view bound to the matched route returned an error while rendering.",
	},
	"E302": {
		Category: CategoryProtocol,
		Message:  "Malformed live navigation frame",
		Detail:   "The client sent a frame that is not valid JSON or has an unknown type.",
	},
	"E303": {
		Category: CategoryServer,
		Message:  "Server failed to start",
		Detail:   "The HTTP listener could not be started.",
	},

	// ============================================
	// Manifest Errors (E400-E499)
	// ============================================

	"E401": {
		Category: CategoryManifest,
		Message:  "Manifest encoding failed",
		Detail:   "The route manifest could not be encoded as JSON.",
	},
	"E402": {
		Category: CategoryManifest,
		Message:  "Manifest upload failed",
		Detail:   "The route manifest could not be written to the object store.",
	},
	"E403": {
		Category: CategoryManifest,
		Message:  "Manifest destination missing",
		Detail:   "Publishing the manifest requires a bucket and an object key.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
