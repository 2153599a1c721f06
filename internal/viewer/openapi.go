package viewer

import "github.com/JaimeStill/flyer-viewer/pkg/openapi"

// spec holds OpenAPI operation definitions for the viewer endpoints.
type spec struct {
	List     *openapi.Operation
	Open     *openapi.Operation
	Find     *openapi.Operation
	Page     *openapi.Operation
	Navigate *openapi.Operation
	Pointer  *openapi.Operation
	Prefetch *openapi.Operation
	Back     *openapi.Operation
}

var sessionID = openapi.PathParam("id", "Session UUID")

// Spec contains OpenAPI operation definitions for all session endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List sessions",
		Description: "Returns a paginated list of open sessions ordered by creation time",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Matches label or source URL", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated list of sessions", "SnapshotPageResult"),
		},
	},
	Open: &openapi.Operation{
		Summary:     "Open session",
		Description: "Starts fetching the flyer in the background. With wait=true the response is sent once loading ends",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("wait", "boolean", "Wait for the document to load or fail", false),
		},
		RequestBody: openapi.RequestBodyJSON("Source", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Session opened", "Snapshot"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Find session",
		Parameters: []*openapi.Parameter{
			sessionID,
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Session snapshot", "Snapshot"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Page: &openapi.Operation{
		Summary:     "Render page",
		Description: "Returns the 0-based page as a PNG, rendering it if it is not resident",
		Parameters: []*openapi.Parameter{
			sessionID,
			openapi.IntPathParam("index", "0-based page index"),
			openapi.QueryParam("width", "integer", "Minimum raster width in pixels, capped at the configured maximum", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseBinary("Page bitmap", "image/png"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
			410: openapi.ResponseRef("Gone"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	Navigate: &openapi.Operation{
		Summary: "Navigate",
		Parameters: []*openapi.Parameter{
			sessionID,
		},
		RequestBody: openapi.RequestBodyJSON("NavigateRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Session snapshot after navigation", "Snapshot"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Pointer: &openapi.Operation{
		Summary:     "Pointer frame",
		Description: "Applies one frame of pointer input to the zoom viewport and swipe pager",
		Parameters: []*openapi.Parameter{
			sessionID,
		},
		RequestBody: openapi.RequestBodyJSON("Event", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Gesture outcome and snapshot", "PointerResponse"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Prefetch: &openapi.Operation{
		Summary:     "Prefetch pages",
		Description: "Renders the retention window around the current page, or the given 1-based page range",
		Parameters: []*openapi.Parameter{
			sessionID,
			openapi.QueryParam("pages", "string", "1-based range such as 1-3,5", false),
		},
		Responses: map[int]*openapi.Response{
			200: {Description: "Per-page render status"},
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Back: &openapi.Operation{
		Summary:     "Back",
		Description: "Emits the back signal and closes the session",
		Parameters: []*openapi.Parameter{
			sessionID,
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Session closed"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

// Schemas returns the viewer schemas for OpenAPI components.
func (spec) Schemas() map[string]*openapi.Schema {
	offset := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"x": {Type: "number"},
			"y": {Type: "number"},
		},
	}

	return map[string]*openapi.Schema{
		"Source": {
			Type:     "object",
			Required: []string{"url"},
			Properties: map[string]*openapi.Schema{
				"url":          {Type: "string", Example: "https://example.com/flyers/weekly.pdf"},
				"label":        {Type: "string", Example: "Weekly deals"},
				"initial_page": {Type: "integer", Description: "0-based page shown first"},
			},
		},
		"Snapshot": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":            {Type: "string", Format: "uuid"},
				"label":         {Type: "string"},
				"source":        {Type: "string"},
				"status":        {Type: "string", Enum: []string{"loading", "ready", "failed", "closed"}},
				"failure":       {Ref: "#/components/schemas/Failure"},
				"page_count":    {Type: "integer"},
				"current_page":  {Type: "integer"},
				"caption":       {Type: "string", Example: "Page 1 of 5"},
				"has_previous":  {Type: "boolean"},
				"has_next":      {Type: "boolean"},
				"zoom":          {Type: "string", Enum: []string{"idle", "zoomed"}},
				"scale":         {Type: "number"},
				"translation":   offset,
				"swipe_enabled": {Type: "boolean"},
				"index_strip":   {Type: "array", Items: &openapi.Schema{Type: "integer"}},
				"pages":         {Type: "array", Items: openapi.SchemaRef("PageState")},
				"resident":      {Type: "array", Items: &openapi.Schema{Type: "integer"}},
				"created_at":    {Type: "string", Format: "date-time"},
			},
		},
		"SnapshotPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Snapshot")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"Failure": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"kind":         {Type: "string", Enum: []string{"not_found", "transfer", "open"}},
				"message":      {Type: "string"},
				"action":       {Type: "string"},
				"fallback_url": {Type: "string"},
			},
		},
		"PageState": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"index":  {Type: "integer"},
				"status": {Type: "string", Enum: []string{"pending", "ready", "unavailable"}},
				"error":  {Type: "string"},
			},
		},
		"NavigateRequest": {
			Type:     "object",
			Required: []string{"action"},
			Properties: map[string]*openapi.Schema{
				"action": {Type: "string", Enum: []string{"next", "previous", "goto"}},
				"page":   {Type: "integer", Description: "0-based target for goto"},
			},
		},
		"Event": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"pointers": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"id":               {Type: "integer"},
							"position":         offset,
							"previous":         offset,
							"pressed":          {Type: "boolean"},
							"previous_pressed": {Type: "boolean"},
						},
					},
				},
			},
		},
		"PointerResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"claimed":      {Type: "boolean"},
				"consumed":     {Type: "boolean"},
				"page_changed": {Type: "boolean"},
				"snapshot":     openapi.SchemaRef("Snapshot"),
			},
		},
	}
}
