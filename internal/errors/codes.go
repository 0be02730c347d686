package errors

// Error code constants returned in API responses.
// Format: CATEGORY_SPECIFIC_DETAIL
// Clients map these codes to their own messages.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed request body
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // non-numeric or missing id
	ValidationNameRequired  = "VALIDATION_NAME_REQUIRED"  // empty name
	ValidationInvalidCoords = "VALIDATION_INVALID_COORDS" // lat/lon out of range
	ValidationInvalidStatus = "VALIDATION_INVALID_STATUS" // unknown POI status
	ValidationInvalidRadius = "VALIDATION_INVALID_RADIUS" // negative radius
	ValidationInvalidBounds = "VALIDATION_INVALID_BOUNDS" // inverted or antimeridian box

	// ==================== Resources (POI_/TAG_) ====================
	POINotFound   = "POI_NOT_FOUND"   // no POI with that id
	TagNotFound   = "TAG_NOT_FOUND"   // no tag with that id
	TagNameExists = "TAG_NAME_EXISTS" // duplicate tag name

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // unexpected failure
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // storage failure
)
