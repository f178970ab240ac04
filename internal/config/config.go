package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-MealPlan/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go MealPlan"
	AppID             = "com.github.tartampluch.go-mealplan"
	KeyringService    = "com.github.tartampluch.go-mealplan"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	ConfigFileName    = "mealplan"
	EnvPrefix         = "MEALPLAN"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for logs and rendered output files.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagConfig     = "config"
	FlagDebug      = "debug"
	FlagMonth      = "month"
	FlagFormat     = "format"
	FlagOutput     = "output"
	FlagMealsOnly  = "meals-only"
	FlagNoNotes    = "no-notes"
	FlagWeeks      = "weeks"
	FlagLanguage   = "lang"
	FlagPort       = "port"
	FlagSourcePath = "meals-file"
	FlagSourceURL  = "meals-url"
	FlagSourceUser = "user"

	FlagDescConfig     = "Path to a mealplan.yaml settings file"
	FlagDescDebug      = "Enable debug logging to stdout"
	FlagDescMonth      = "Month to print as YYYY-MM (defaults to the current month)"
	FlagDescFormat     = "Output format: json, png or ics"
	FlagDescOutput     = "Output file (defaults to MealPlan-YYYY-MM.<ext>, '-' for stdout)"
	FlagDescMealsOnly  = "Print only meal information (no grid, headers or day numbers)"
	FlagDescNoNotes    = "Do not print meal notes"
	FlagDescWeeks      = "Week rows (0-4) to fill with meals; all weeks when omitted"
	FlagDescLanguage   = "Language used for titles and labels (en, fr)"
	FlagDescPort       = "HTTP port for the serve command"
	FlagDescSourcePath = "JSON or YAML meal export file"
	FlagDescSourceURL  = "Meal planner month_meals endpoint"
	FlagDescSourceUser = "User for the meal planner endpoint (password read from the OS keyring)"

	MsgVersionOutput = "%s version %s (commit %s, built %s) %s/%s\n"
	OutputStdout     = "-"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyTitle       = "plan_title" // Requires Month, Year
	TKeyWeekdayPfx  = "weekday_"   // weekday_0 (Sunday) .. weekday_6
	TKeyMonthPfx    = "month_"     // month_1 .. month_12
	TKeyMonthAbbPfx = "month_abbr_"
	TKeyColDate     = "col_date"
	TKeyColRecipe   = "col_recipe"
	TKeyColCookbook = "col_cookbook"
	TKeyColPage     = "col_page"
	TKeyColNotes    = "col_notes"
)

// SupportedLanguages defines the list of available label languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb     = "web"
	SourceModeLocal   = "local"
	DefaultPort       = "18090"
	DefaultRefreshMin = 15
	DefaultLanguage   = "en"
	DefaultFormat     = "json"

	// UnknownCookbook is shown for meals whose recipe has no cookbook.
	UnknownCookbook = "Unknown"
	// UnknownAbbreviation is the internal sentinel abbreviation of UnknownCookbook.
	// It is never printed on a calendar cell.
	UnknownAbbreviation = "Unk"
	// AbbreviationLength is the number of characters kept from single-word titles.
	AbbreviationLength = 3

	PageLabelFormat  = "p.%d"
	TitleFormat      = "Meal Plan - %s %d"
	FileNameFormat   = "MealPlan-%04d-%02d.%s"
	Ellipsis         = "..."
	EllipsisTrimChar = 3

	// WeeksPerGrid and DaysPerWeek define the fixed calendar grid.
	WeeksPerGrid = 5
	DaysPerWeek  = 7

	UIDSalt = "go-mealplan-v1-" // Salt for deterministic UID generation
)

// -----------------------------------------------------------------------------
// Output Formats & MIME Types
// -----------------------------------------------------------------------------

const (
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatICS  = "ics"

	MimeJSON         = "application/json"
	MimePNG          = "image/png"
	MimeTextCalendar = "text/calendar; charset=utf-8"
	MimeNoSniff      = "nosniff"
	MimeTextPlain    = "text/plain; charset=utf-8"

	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
	// FormatDisposition expects a file name.
	FormatDisposition = `inline; filename="%s"`
)

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go MealPlan//Engine//EN"
	ICalCalName = "Meal Plan"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "gomealplan"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDescription = "DESCRIPTION"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
	PropCategories  = "CATEGORIES"

	FormatHashInput   = "%s|%s|%s"
	FormatUID         = "%s@%s"
	FormatDescription = "Cookbook: %s\nAuthor: %s\nPage: %d\n%s"
	UIDHashLength     = 16

	// StubVCalendar is the minimal valid iCalendar object used when a month has no meals.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	DateFormatDay   = "2006-01-02"
	DateFormatMonth = "2006-01"

	ExtYAML = ".yaml"
	ExtYML  = ".yml"

	// QueryYear and QueryMonth are the parameters of the month_meals endpoint.
	QueryYear  = "year"
	QueryMonth = "month"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RoutePlan           = "/plan"
	RouteHealth         = "/healthz"
	AddrSeparator       = ":"

	ParamMonth     = "month"
	ParamFormat    = "format"
	ParamMealsOnly = "meals_only"
	ParamNotes     = "notes"
	ParamWeeks     = "weeks"
	ParamLanguage  = "lang"
)

// -----------------------------------------------------------------------------
// HTTP Headers
// -----------------------------------------------------------------------------

const (
	HeaderContentType        = "Content-Type"
	HeaderContentDisposition = "Content-Disposition"
	HeaderContentLength      = "Content-Length"
	HeaderCacheControl       = "Cache-Control"
	HeaderETag               = "ETag"
	HeaderAllow              = "Allow"
	HeaderXContentType       = "X-Content-Type-Options"
	HeaderUserAgent          = "User-Agent"
	HeaderIfNoneMatch        = "If-None-Match"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidMonth     = "invalid month specification"
	ErrInvalidOptions   = "invalid print options"
	ErrInvalidWeek      = "week index out of range"
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrSourceFailed     = "meal source failed"
	ErrSourceRead       = "failed to read meal export"
	ErrSourceDecode     = "failed to decode meal export"
	ErrRecordDate       = "meal record has an invalid scheduled date"
	ErrFormatUnsupport  = "unsupported output format"
	ErrRenderFailed     = "failed to render meal plan"
	ErrRasterEncode     = "failed to encode page image"
	ErrJSONEncode       = "failed to encode drawing primitives"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrFontParse        = "failed to parse embedded font"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrWriteOutput      = "failed to write output file"
	ErrSettingsRead     = "failed to read settings file"
	ErrSettingsDecode   = "failed to decode settings"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrUnsupportedLang  = "unsupported language"
	ErrRendererNotReady = "page renderer received a drawing call before NewPage"
	ErrInvalidQuery     = "invalid query parameter"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
	HTTPMsgSourceErr    = "Meal source unavailable"
	HTTPMsgOK           = "ok"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStop         = "Application stopped gracefully"
	MsgAppStarting     = "Starting application"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgRenderStarted   = "Rendering meal plan"
	MsgRenderDone      = "Meal plan rendered"
	MsgAmbiguousMeal   = "AmbiguousMealMapping: more than one meal scheduled for the same day, first one kept"
	MsgSkippedRecord   = "Skipping meal record with invalid date"
	MsgOverflowDays    = "Days of a sixth calendar week are not printed on the 5-row grid"
	MsgSourceLoaded    = "Meal records loaded"
	MsgCacheHit        = "Meal cache hit"
	MsgCacheCleared    = "Meal cache invalidated"
	MsgWorkerStart     = "Background refresh worker started"
	MsgWorkerStop      = "Worker stopping due to context cancellation"
	MsgPassFail        = "Password retrieval failed (might be empty)"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgOutputWritten   = "Output written"
	MsgSettingsMissing = "No settings file found, using defaults"
	MsgSettingsLoaded  = "Settings loaded"
	MsgRequestInvalid  = "Rejected plan request"
	MsgPlanServed      = "Meal plan served"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyUser      = "user"
	LogKeyMonth     = "month"
	LogKeyDate      = "date"
	LogKeyRecipe    = "recipe"
	LogKeyKept      = "kept_recipe"
	LogKeyFormat    = "format"
	LogKeyCount     = "count"
	LogKeyDays      = "days"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"
	LogKeyMealsOnly = "meals_only"
	LogKeyNotes     = "notes"
	LogKeyPrims     = "primitives"
	LogKeyCommand   = "command"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain     = "main"
	CompEngine   = "engine"
	CompLayout   = "layout"
	CompMeals    = "meals"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompWorker   = "worker"
	CompI18n     = "i18n"
	CompSettings = "settings"
)
